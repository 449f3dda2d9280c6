package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		raw      string
		wantFlag bool
		want     string
	}{
		{"true", true, "true"},
		{"false", true, "false"},
		{"2024-01-01", false, "2024-01-01"},
		{"12:30:00", false, "12:30:00"},
		{"TRUE", false, "TRUE"},
		{"1", false, "1"},
		{"", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := Coerce(tt.raw)
			assert.Equal(t, tt.wantFlag, v.IsFlag())
			assert.Equal(t, tt.want, v.String())
		})
	}

	b, isFlag := Coerce("false").Bool()
	assert.True(t, isFlag)
	assert.False(t, b)
}

func TestBuildFixedOptions(t *testing.T) {
	o := Build(Static{
		Backend:      "docbook",
		Doctype:      "article",
		HeaderFooter: true,
		Eruby:        "erubis",
		ImagesDir:    "images",
	}, nil)

	assert.Equal(t, SafeMode, o.SafeMode())
	assert.Equal(t, "erubis", o.Eruby())
	assert.True(t, o.Mkdirs())
	assert.Equal(t, "docbook", o.Backend())
	assert.Equal(t, "article", o.Doctype())
	assert.True(t, o.HeaderFooter())
	assert.False(t, o.Compact())
	assert.Empty(t, o.TemplateDir())

	attrs := o.Attributes()
	assert.Equal(t, Text("images"), attrs[AttrImagesDir])
	assert.Equal(t, Flag(false), attrs[AttrCopyCSS])
	assert.NotContains(t, attrs, AttrSourceHighlighter)
	assert.NotContains(t, attrs, AttrLinkCSS)
	assert.NotContains(t, attrs, AttrDataURI)
}

func TestBuildEmbedAssetsSetsBothAttributes(t *testing.T) {
	o := Build(Static{ImagesDir: "img", EmbedAssets: true, SourceHighlighter: "rouge"}, nil)

	linkcss, ok := o.Attribute(AttrLinkCSS)
	require.True(t, ok)
	assert.Equal(t, Flag(false), linkcss)
	datauri, ok := o.Attribute(AttrDataURI)
	require.True(t, ok)
	assert.Equal(t, Flag(true), datauri)
	hl, ok := o.Attribute(AttrSourceHighlighter)
	require.True(t, ok)
	assert.Equal(t, "rouge", hl.String())
}

func TestBuildCallerPairsCoercedLastWriteWins(t *testing.T) {
	o := Build(Static{ImagesDir: "images"}, []AttributePair{
		{Key: "toc", Value: "true"},
		{Key: "revdate", Value: "2024-01-01"},
		{Key: "imagesdir", Value: "assets"},
		{Key: "toc", Value: "false"},
	})

	attrs := o.Attributes()
	assert.Equal(t, Flag(false), attrs["toc"])
	assert.Equal(t, Text("2024-01-01"), attrs["revdate"])
	assert.Equal(t, Text("assets"), attrs["imagesdir"])
	assert.Equal(t, []string{"copycss", "imagesdir", "revdate", "toc"}, attrs.Keys())
}

func TestForDocumentDoesNotMutateBase(t *testing.T) {
	base := Build(Static{Backend: "html5"}, []AttributePair{{Key: "a", Value: "x"}})
	doc := base.ForDocument("/src/guide", "/out/guide")

	assert.Equal(t, "/src/guide", doc.BaseDir())
	assert.Equal(t, "/out/guide", doc.ToDir())
	assert.Empty(t, base.BaseDir())
	assert.Empty(t, base.ToDir())

	attrs := doc.Attributes()
	attrs["a"] = Text("changed")
	v, _ := base.Attribute("a")
	assert.Equal(t, "x", v.String())
	v, _ = doc.Attribute("a")
	assert.Equal(t, "x", v.String())
}
