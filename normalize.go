package srafetch

import (
	"encoding/xml"
	"io"
	"strings"
)

// element is a minimal XML tree node, just enough to run the shape
// heuristic over.
type element struct {
	tag      string
	attrs    []xml.Attr
	text     strings.Builder
	children []*element
}

// WrapFragment puts a synthetic root element around a fragment, so that
// text with multiple top-level siblings becomes well-formed.
func WrapFragment(s string) string {
	return "<root>" + strings.TrimSpace(s) + "</root>"
}

// parseFragment reads a well-formed fragment with a single top level
// element into an element tree.
func parseFragment(s string) (*element, error) {
	decoder := xml.NewDecoder(strings.NewReader(s))
	var root *element
	var stack []*element
	for {
		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errorf(KindParse, "%v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{tag: t.Name.Local, attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				if root != nil {
					return nil, errorf(KindParse, "fragment has multiple top level elements, wrap it first")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, errorf(KindParse, "empty fragment")
	}
	return root, nil
}

// Normalize converts a well-formed XML fragment into a generic value. The
// conversion is a best-effort heuristic, not schema-aware: element groups
// whose first two children share a tag become lists, everything else
// becomes a mapping, childless elements become scalars.
func Normalize(fragment string) (Value, error) {
	root, err := parseFragment(fragment)
	if err != nil {
		return Value{}, err
	}
	return normalizeElement(root), nil
}

// normalizeElement applies the conversion rules to one element:
//
//  1. children present: run the shape decision over the first two child
//     tags. A list is wrapped under a single synthetic key, the shared
//     tag name. A mapping unions the children, repeated tags overwrite
//     (last occurrence wins). Attributes merge in afterwards and
//     overwrite on collision.
//  2. attributes, no children: a mapping built from the attributes alone,
//     any text is dropped.
//  3. neither: a scalar from the trimmed text.
func normalizeElement(el *element) Value {
	if len(el.children) > 0 {
		tags := make([]string, len(el.children))
		for i, c := range el.children {
			tags[i] = c.tag
		}
		v := NewMapping()
		if sh, tag := childShape(tags); sh == listShape {
			items := make([]Value, 0, len(el.children))
			for _, c := range el.children {
				items = append(items, normalizeElement(c))
			}
			v.Set(tag, NewList(items))
		} else {
			for _, c := range el.children {
				v.Set(c.tag, normalizeElement(c))
			}
		}
		for _, a := range el.attrs {
			v.Set(a.Name.Local, NewScalar(a.Value))
		}
		return v
	}
	if len(el.attrs) > 0 {
		v := NewMapping()
		for _, a := range el.attrs {
			v.Set(a.Name.Local, NewScalar(a.Value))
		}
		return v
	}
	return NewScalar(el.text.String())
}
