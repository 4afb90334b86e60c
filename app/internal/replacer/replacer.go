package replacer

import (
	"strings"

	"github.com/kechako/ssmlkit/ssml"
)

type dicEntry struct {
	from string
	to   string
}

// Replacer rewrites text of an SSML tree into <sub> tags using a
// dictionary of words and their readings.
type Replacer struct {
	dict []*dicEntry
}

// New returns a Replacer for the old, new pairs. Entries are tried in
// order and an entry with an empty old string is ignored.
func New(oldnew ...string) *Replacer {
	r := &Replacer{}
	r.build(oldnew)
	return r
}

func (r *Replacer) build(oldnew []string) {
	r.dict = make([]*dicEntry, 0, len(oldnew)/2)
	for i := 0; i+1 < len(oldnew); i += 2 {
		if oldnew[i] == "" {
			continue
		}
		r.dict = append(r.dict, &dicEntry{
			from: oldnew[i],
			to:   oldnew[i+1],
		})
	}
}

// text anywhere under these tags already has a reading
var skipTags = map[string]bool{
	"sub":     true,
	"say-as":  true,
	"phoneme": true,
}

// Apply returns a copy of tag with the dictionary applied to every text
// node. tag is not modified.
func (r *Replacer) Apply(tag *ssml.TagNode) *ssml.TagNode {
	return r.apply(tag, false)
}

func (r *Replacer) apply(tag *ssml.TagNode, skip bool) *ssml.TagNode {
	skip = skip || skipTags[tag.Name]

	out := ssml.NewTag(tag.Name, append([]ssml.Attr(nil), tag.Attrs...))
	for _, child := range tag.Children {
		switch child := child.(type) {
		case ssml.TextNode:
			if skip {
				out.AddNode(child)
			} else {
				r.Replace(out, string(child))
			}
		case *ssml.TagNode:
			out.AddNode(r.apply(child, skip))
		}
	}
	return out
}

// Replace adds text to parent, replacing dictionary words with <sub> tags.
func (r *Replacer) Replace(parent ssml.ParentNode, text string) {
	r.replaceDict(parent, 0, text)
}

func (r *Replacer) replaceDict(parent ssml.ParentNode, entryIndex int, text string) {
	if entryIndex >= len(r.dict) {
		parent.AddNode(ssml.TextNode(text))
		return
	}
	entry := r.dict[entryIndex]

	for {
		before, after, found := strings.Cut(text, entry.from)
		if found {
			if before != "" {
				r.replaceDict(parent, entryIndex+1, before)
			}
			parent.AddNode(ssml.NewTag("sub",
				[]ssml.Attr{ssml.A("alias", entry.to)},
				ssml.TextNode(entry.from),
			))
			text = after
		} else {
			break
		}
	}

	if text != "" {
		r.replaceDict(parent, entryIndex+1, text)
	}
}
