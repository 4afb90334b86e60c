package ssml

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

const speakName = "speak"

// Parse parses s into a tree whose root is a speak tag.
//
// Besides XML well-formedness, s must contain exactly one top-level
// element, which must be named speak, and no non-whitespace text outside
// of it. Attribute values must be double-quoted. Whitespace inside tag
// delimiters is insignificant and whitespace-only text is dropped.
// Comments and processing instructions are skipped.
//
// All rule violations are reported as *MalformedInputError.
func Parse(s string) (*TagNode, error) {
	if err := rejectSingleQuotedAttrs(s); err != nil {
		return nil, err
	}

	s = normalizeTagWhitespace(s)
	s = escapeColonAttrNames(s)
	if err := rejectDuplicateAttrs(s); err != nil {
		return nil, err
	}

	// The synthetic root lets the XML parser accept any number of
	// top-level nodes so that the dialect rules can be checked below.
	doc := etree.NewDocument()
	if err := doc.ReadFromString("<root>" + s + "</root>"); err != nil {
		return nil, malformed(ErrSyntax, err)
	}
	root, err := wrapperRoot(doc)
	if err != nil {
		return nil, err
	}

	elem, err := topLevelElement(root)
	if err != nil {
		return nil, err
	}

	speak, err := build(elem)
	if err != nil {
		return nil, err
	}
	if speak.Name != speakName {
		return nil, malformed(ErrRootName, fmt.Errorf("got %q", speak.Name))
	}

	return speak, nil
}

// ParseReader reads all of r and parses it.
func ParseReader(r io.Reader) (*TagNode, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ssml.ParseReader: %w", err)
	}
	return Parse(string(b))
}

// wrapperRoot returns the synthetic root. A "</root>" in the input closes
// it early, leaving more than one document element or text after it.
func wrapperRoot(doc *etree.Document) (*etree.Element, error) {
	for _, tok := range doc.Child {
		if cd, ok := tok.(*etree.CharData); ok && !isBlank(cd.Data) {
			return nil, malformed(ErrSyntax, errors.New("text after document element"))
		}
	}
	elems := doc.ChildElements()
	if len(elems) != 1 {
		return nil, malformed(ErrSyntax, fmt.Errorf("found %d document elements", len(elems)))
	}
	return elems[0], nil
}

// topLevelElement returns the only element of root, which must not be
// surrounded by text.
func topLevelElement(root *etree.Element) (*etree.Element, error) {
	var (
		lead  strings.Builder
		tail  strings.Builder
		elems []*etree.Element
	)
	for _, tok := range root.Child {
		switch tok := tok.(type) {
		case *etree.CharData:
			if len(elems) == 0 {
				lead.WriteString(tok.Data)
			} else {
				tail.WriteString(tok.Data)
			}
		case *etree.Element:
			elems = append(elems, tok)
			tail.Reset()
		}
	}

	if !isBlank(lead.String()) {
		return nil, malformed(ErrStrayText, nil)
	}
	if len(elems) != 1 {
		return nil, malformed(ErrRootCount, fmt.Errorf("found %d", len(elems)))
	}
	if !isBlank(tail.String()) {
		return nil, malformed(ErrStrayText, nil)
	}

	return elems[0], nil
}

func build(elem *etree.Element) (*TagNode, error) {
	tag := &TagNode{
		Name:     elem.FullTag(),
		Children: []Node{},
	}

	for _, a := range elem.Attr {
		key := strings.ReplaceAll(a.FullKey(), colonPlaceholder, ":")
		tag.Attrs = append(tag.Attrs, Attr{Key: key, Value: a.Value})
	}

	// Text runs are split only by child elements; comments and other
	// tokens between two pieces of text are skipped.
	var text strings.Builder
	flush := func() {
		if s := text.String(); !isBlank(s) {
			tag.AddNode(TextNode(html.UnescapeString(s)))
		}
		text.Reset()
	}

	for _, tok := range elem.Child {
		switch tok := tok.(type) {
		case *etree.CharData:
			text.WriteString(tok.Data)
		case *etree.Element:
			flush()
			child, err := build(tok)
			if err != nil {
				return nil, err
			}
			tag.AddNode(child)
		}
	}
	flush()

	return tag, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
