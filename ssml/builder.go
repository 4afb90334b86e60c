package ssml

// Builder assembles a speak document tag by tag.
type Builder struct {
	root  *TagNode
	stack []*TagNode
}

func New() *Builder {
	root := NewTag(speakName, nil)
	return &Builder{
		root:  root,
		stack: []*TagNode{root},
	}
}

func (b *Builder) current() *TagNode {
	return b.stack[len(b.stack)-1]
}

// Attr sets an attribute on the innermost open tag.
func (b *Builder) Attr(key, value string) *Builder {
	tag := b.current()
	for i, a := range tag.Attrs {
		if a.Key == key {
			tag.Attrs[i].Value = value
			return b
		}
	}
	tag.Attrs = append(tag.Attrs, A(key, value))
	return b
}

func (b *Builder) Text(text string) *Builder {
	if text != "" {
		b.current().AddNode(TextNode(text))
	}
	return b
}

// Tag adds a tag and calls f with the tag open so that f can add its
// attributes and children.
func (b *Builder) Tag(name string, f func(b *Builder)) *Builder {
	tag := NewTag(name, nil)
	b.current().AddNode(tag)
	if f != nil {
		b.stack = append(b.stack, tag)
		f(b)
		b.stack = b.stack[:len(b.stack)-1]
	}
	return b
}

func (b *Builder) Paragraph(f func(b *Builder)) *Builder {
	return b.Tag("p", f)
}

func (b *Builder) Sentence(f func(b *Builder)) *Builder {
	return b.Tag("s", f)
}

func (b *Builder) SayAs(interpretAs string, text string) *Builder {
	return b.Tag("say-as", func(b *Builder) {
		b.Attr("interpret-as", interpretAs).Text(text)
	})
}

func (b *Builder) Sub(text, alias string) *Builder {
	return b.Tag("sub", func(b *Builder) {
		b.Attr("alias", alias).Text(text)
	})
}

// Node returns the speak tag built so far.
func (b *Builder) Node() *TagNode {
	return b.root
}

func (b *Builder) String() string {
	return Serialize(b.root)
}
