package model

import "strings"

// AllowedStyleProps is the closed set of style properties that may appear on
// any node or mark in a document. Everything else is rejected at the
// sanitization boundary and never enters a Style.
//
// The slice order is also the serialization order, which keeps the rendered
// style attribute deterministic.
var AllowedStyleProps = []string{"color", "background-color", "font-size", "font-family"}

// Style is a parsed CSS style attribute, restricted to AllowedStyleProps.
type Style map[string]string

// ParseStyle parses a CSS style attribute string into a Style. Unknown
// properties are kept; call Filter to restrict to the allowed set.
// Example: "color: #F97316; background-color: #BFDBFE;"
func ParseStyle(str string) Style {
	style := Style{}
	if str == "" {
		return style
	}
	for _, part := range strings.Split(str, ";") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(kv[0]))
		v := strings.TrimSpace(kv[1])
		if k != "" && v != "" {
			style[k] = v
		}
	}
	return style
}

// Filter returns a copy of the style with every property outside
// AllowedStyleProps removed.
func (s Style) Filter() Style {
	out := Style{}
	for _, k := range AllowedStyleProps {
		if v, ok := s[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Merge returns a new style holding the union of s and other. Properties of
// other win on conflict: the style being applied overrides what was already
// there.
func (s Style) Merge(other Style) Style {
	out := Style{}
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Eq tests whether two styles hold exactly the same properties and values.
func (s Style) Eq(other Style) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		if other[k] != v {
			return false
		}
	}
	return true
}

// String renders the style as a style attribute value in AllowedStyleProps
// order. Properties outside the allowed set are not rendered.
func (s Style) String() string {
	var parts []string
	for _, k := range AllowedStyleProps {
		if v, ok := s[k]; ok {
			parts = append(parts, k+":"+v)
		}
	}
	return strings.Join(parts, "; ")
}
