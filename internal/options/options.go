// Package options assembles the immutable option set handed to the renderer.
package options

// SafeMode is the restrictive safe level every render runs under.
const SafeMode = "safe"

// Attribute names set by Build.
const (
	AttrImagesDir         = "imagesdir"
	AttrSourceHighlighter = "source-highlighter"
	AttrCopyCSS           = "copycss"
	AttrLinkCSS           = "linkcss"
	AttrDataURI           = "data-uri"
)

// Static is the structural configuration shared by every document of a run.
type Static struct {
	Backend           string
	Doctype           string
	Compact           bool
	HeaderFooter      bool
	TemplateEngine    string
	TemplateDir       string
	Eruby             string
	ImagesDir         string
	SourceHighlighter string
	EmbedAssets       bool
}

// OptionSet is the immutable set of options for one render call. Accessors
// return copies; ForDocument derives a new value.
type OptionSet struct {
	backend        string
	doctype        string
	compact        bool
	headerFooter   bool
	templateEngine string
	templateDir    string
	eruby          string
	safe           string
	mkdirs         bool
	baseDir        string
	toDir          string
	attributes     AttributeMap
}

// Build merges static configuration with caller attribute pairs. Fixed
// attributes go first, then the embed toggle, then the pairs in order, each
// coerced with Coerce.
func Build(static Static, pairs []AttributePair) OptionSet {
	o := OptionSet{
		backend:        static.Backend,
		doctype:        static.Doctype,
		compact:        static.Compact,
		headerFooter:   static.HeaderFooter,
		templateEngine: static.TemplateEngine,
		templateDir:    static.TemplateDir,
		eruby:          static.Eruby,
		safe:           SafeMode,
		mkdirs:         true,
		attributes:     AttributeMap{},
	}

	o.attributes[AttrImagesDir] = Text(static.ImagesDir)
	if static.SourceHighlighter != "" {
		o.attributes[AttrSourceHighlighter] = Text(static.SourceHighlighter)
	}
	o.attributes[AttrCopyCSS] = Flag(false)

	if static.EmbedAssets {
		o.attributes[AttrLinkCSS] = Flag(false)
		o.attributes[AttrDataURI] = Flag(true)
	}

	for _, p := range pairs {
		o.attributes[p.Key] = Coerce(p.Value)
	}
	return o
}

// ForDocument returns a copy carrying the per-document base and destination directories.
func (o OptionSet) ForDocument(baseDir, toDir string) OptionSet {
	c := o
	c.attributes = o.attributes.Clone()
	c.baseDir = baseDir
	c.toDir = toDir
	return c
}

func (o OptionSet) Backend() string        { return o.backend }
func (o OptionSet) Doctype() string        { return o.doctype }
func (o OptionSet) Compact() bool          { return o.compact }
func (o OptionSet) HeaderFooter() bool     { return o.headerFooter }
func (o OptionSet) TemplateEngine() string { return o.templateEngine }
func (o OptionSet) TemplateDir() string    { return o.templateDir }
func (o OptionSet) Eruby() string          { return o.eruby }
func (o OptionSet) SafeMode() string       { return o.safe }
func (o OptionSet) Mkdirs() bool           { return o.mkdirs }
func (o OptionSet) BaseDir() string        { return o.baseDir }
func (o OptionSet) ToDir() string          { return o.toDir }

// Attributes returns a copy of the attribute map.
func (o OptionSet) Attributes() AttributeMap { return o.attributes.Clone() }

// Attribute looks up a single attribute.
func (o OptionSet) Attribute(key string) (AttributeValue, bool) {
	v, ok := o.attributes[key]
	return v, ok
}
