package ssml

import (
	"bufio"
	"io"
	"strings"
)

// Serialize renders n as SSML text.
//
// Text and attribute values are written verbatim, without escaping, so
// the output is not guaranteed to be well-formed for arbitrary trees.
func Serialize(n Node) string {
	var s strings.Builder
	err := Write(&s, n)
	if err != nil {
		panic("bug: " + err.Error())
	}
	return s.String()
}

// Write writes the serialization of n to w.
func Write(w io.Writer, n Node) error {
	var bw *bufio.Writer
	if ww, ok := w.(*bufio.Writer); ok {
		bw = ww
	} else {
		bw = bufio.NewWriter(w)
	}

	write(bw, n, nil)

	return bw.Flush()
}

var ssmlEscaper = strings.NewReplacer(
	`"`, "&quot;",
	`&`, "&amp;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
)

// SerializeEscaped is like Serialize but escapes markup characters in text
// and attribute values, so that the result can be read back by any XML
// parser, including Parse.
func SerializeEscaped(n Node) string {
	var s strings.Builder
	bw := bufio.NewWriter(&s)
	write(bw, n, ssmlEscaper)
	if err := bw.Flush(); err != nil {
		panic("bug: " + err.Error())
	}
	return s.String()
}

func writeString(w *bufio.Writer, s string, esc *strings.Replacer) {
	if esc == nil {
		w.WriteString(s)
		return
	}
	esc.WriteString(w, s)
}

// bufio.Writer keeps the first error and reports it on Flush.
func write(w *bufio.Writer, n Node, esc *strings.Replacer) {
	switch n := n.(type) {
	case TextNode:
		writeString(w, string(n), esc)
	case *TagNode:
		w.WriteByte('<')
		w.WriteString(n.Name)
		for _, a := range n.Attrs {
			w.WriteByte(' ')
			w.WriteString(a.Key)
			w.WriteString(`="`)
			writeString(w, a.Value, esc)
			w.WriteByte('"')
		}
		w.WriteByte('>')
		for _, child := range n.Children {
			write(w, child, esc)
		}
		w.WriteString("</")
		w.WriteString(n.Name)
		w.WriteByte('>')
	}
}
