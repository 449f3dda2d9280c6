package options

import (
	"maps"
	"slices"
	"strconv"
)

// AttributeValue is either a boolean flag or verbatim text.
type AttributeValue struct {
	text   string
	flag   bool
	isFlag bool
}

// Flag creates a boolean attribute value.
func Flag(b bool) AttributeValue { return AttributeValue{flag: b, isFlag: true} }

// Text creates a text attribute value.
func Text(s string) AttributeValue { return AttributeValue{text: s} }

// IsFlag reports whether the value is a boolean flag.
func (v AttributeValue) IsFlag() bool { return v.isFlag }

// Bool returns the flag value and whether the value is a flag.
func (v AttributeValue) Bool() (bool, bool) { return v.flag, v.isFlag }

// String renders the value; flags render as "true" / "false".
func (v AttributeValue) String() string {
	if v.isFlag {
		return strconv.FormatBool(v.flag)
	}
	return v.text
}

// Coerce turns exactly "true" or "false" into a flag. Anything else, including
// dates, times, numbers and other spellings of booleans, stays text.
func Coerce(raw string) AttributeValue {
	switch raw {
	case "true":
		return Flag(true)
	case "false":
		return Flag(false)
	default:
		return Text(raw)
	}
}

// AttributePair is one caller supplied attribute, applied in order.
type AttributePair struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// AttributeMap maps attribute names to values. Keys are unique; the last write wins.
type AttributeMap map[string]AttributeValue

// Clone returns an independent copy.
func (m AttributeMap) Clone() AttributeMap {
	if m == nil {
		return AttributeMap{}
	}
	return maps.Clone(m)
}

// Keys returns the attribute names in sorted order.
func (m AttributeMap) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}
