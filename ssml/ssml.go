// Package ssml parses a restricted SSML dialect into a tree of tag and
// text nodes and serializes the tree back to SSML text.
package ssml

// Node is a node of an SSML tree. It is either a *TagNode or a TextNode.
type Node interface {
	Equal(other Node) bool
	ssmlNode()
}

// ParentNode is a node that can hold children.
type ParentNode interface {
	AddNode(node Node)
	AddNodes(nodes ...Node)
}

var (
	_ Node       = (*TagNode)(nil)
	_ ParentNode = (*TagNode)(nil)
	_ Node       = TextNode("")
)

// TextNode holds unescaped character data.
type TextNode string

func (TextNode) ssmlNode() {}

// Equal reports whether other is a TextNode with the same text.
func (t TextNode) Equal(other Node) bool {
	o, ok := other.(TextNode)
	return ok && o == t
}

// Attr is a single attribute of a tag.
type Attr struct {
	Key   string
	Value string
}

// A returns an Attr.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// TagNode is an element with a name, attributes and ordered children.
//
// Attrs are kept in document order so that serialization is stable, but
// keys are unique and two tags compare equal regardless of attribute order.
type TagNode struct {
	Name     string
	Attrs    []Attr
	Children []Node
}

// NewTag returns a TagNode.
func NewTag(name string, attrs []Attr, children ...Node) *TagNode {
	return &TagNode{
		Name:     name,
		Attrs:    attrs,
		Children: children,
	}
}

func (*TagNode) ssmlNode() {}

// Attr returns the value of the attribute named key.
func (tag *TagNode) Attr(key string) (string, bool) {
	for _, a := range tag.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (tag *TagNode) AddNode(node Node) {
	tag.Children = append(tag.Children, node)
}

func (tag *TagNode) AddNodes(nodes ...Node) {
	tag.Children = append(tag.Children, nodes...)
}

// Equal reports whether other is a tag with the same name, the same set
// of attributes and equal children in the same order.
func (tag *TagNode) Equal(other Node) bool {
	o, ok := other.(*TagNode)
	if !ok {
		return false
	}
	if tag == nil || o == nil {
		return tag == o
	}
	if tag.Name != o.Name {
		return false
	}
	if !equalAttrs(tag.Attrs, o.Attrs) {
		return false
	}
	if len(tag.Children) != len(o.Children) {
		return false
	}
	for i, child := range tag.Children {
		if !Equal(child, o.Children[i]) {
			return false
		}
	}
	return true
}

func equalAttrs(a, b []Attr) bool {
	if len(a) != len(b) {
		return false
	}
	m := make(map[string]string, len(a))
	for _, attr := range a {
		m[attr.Key] = attr.Value
	}
	for _, attr := range b {
		v, ok := m[attr.Key]
		if !ok || v != attr.Value {
			return false
		}
	}
	return true
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}
