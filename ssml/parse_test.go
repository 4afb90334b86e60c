package ssml

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var parseTests = []struct {
	in   string
	want *TagNode
}{
	{
		in: "<speak><p>Hello</p></speak>",
		want: NewTag("speak", nil,
			NewTag("p", nil, TextNode("Hello")),
		),
	},
	{
		in:   "<speak></speak>",
		want: NewTag("speak", nil),
	},
	{
		in:   "<  speak  ></  speak  >",
		want: NewTag("speak", nil),
	},
	{
		in:   "< speak   >< p ></  p ></speak >",
		want: NewTag("speak", nil, NewTag("p", nil)),
	},
	{
		in:   `<speak xml:lang="en-US"></speak>`,
		want: NewTag("speak", []Attr{A("xml:lang", "en-US")}),
	},
	{
		in:   "<speak>   <p>hi</p>   </speak>",
		want: NewTag("speak", nil, NewTag("p", nil, TextNode("hi"))),
	},
	{
		in:   "<speak>a &amp; b</speak>",
		want: NewTag("speak", nil, TextNode("a & b")),
	},
	{
		in:   "<speak>&amp;lt;</speak>",
		want: NewTag("speak", nil, TextNode("<")),
	},
	{
		in: `<speak>Hello <break time="3s"/> world</speak>`,
		want: NewTag("speak", nil,
			TextNode("Hello "),
			NewTag("break", []Attr{A("time", "3s")}),
			TextNode(" world"),
		),
	},
	{
		in: "<speak><p><s>one</s> <s>two</s></p>tail</speak>",
		want: NewTag("speak", nil,
			NewTag("p", nil,
				NewTag("s", nil, TextNode("one")),
				NewTag("s", nil, TextNode("two")),
			),
			TextNode("tail"),
		),
	},
	{
		in: `<speak><prosody   rate="slow"  pitch="+2st" >fast</prosody ></speak>`,
		want: NewTag("speak", nil,
			NewTag("prosody", []Attr{A("rate", "slow"), A("pitch", "+2st")}, TextNode("fast")),
		),
	},
	{
		in:   "\n  <speak>\n</speak>\n",
		want: NewTag("speak", nil),
	},
	{
		in:   "<!-- greeting --><speak>a<!-- x -->b</speak>",
		want: NewTag("speak", nil, TextNode("ab")),
	},
	{
		in:   "<speak>a<?pi data?>b</speak>",
		want: NewTag("speak", nil, TextNode("ab")),
	},
	{
		in:   `<speak><!-- a="1" a="2" --></speak>`,
		want: NewTag("speak", nil),
	},
	{
		in: `<speak xml:lang="ja-JP"><say-as interpret-as="characters">ABC</say-as>です</speak>`,
		want: NewTag("speak", []Attr{A("xml:lang", "ja-JP")},
			NewTag("say-as", []Attr{A("interpret-as", "characters")}, TextNode("ABC")),
			TextNode("です"),
		),
	},
}

func TestParse(t *testing.T) {
	for i, tt := range parseTests {
		t.Run(fmt.Sprintf("test_%02d", i+1), func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParse_KeepsAttributeOrder(t *testing.T) {
	got, err := Parse(`<speak><audio src="a.wav" clipBegin="1s" soundLevel="+2dB"></audio></speak>`)
	if err != nil {
		t.Fatal(err)
	}

	audio := got.Children[0].(*TagNode)
	want := []Attr{A("src", "a.wav"), A("clipBegin", "1s"), A("soundLevel", "+2dB")}
	if diff := cmp.Diff(want, audio.Attrs); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
}

var parseErrorTests = []struct {
	in   string
	want error
}{
	{in: `<speak><prosody rate='slow'>x</prosody></speak>`, want: ErrSingleQuotedAttr},
	{in: `<speak xml:lang = 'en'></speak>`, want: ErrSingleQuotedAttr},
	{in: "<p>hi</p>", want: ErrRootName},
	{in: "<Speak></Speak>", want: ErrRootName},
	{in: "<speak></speak><speak></speak>", want: ErrRootCount},
	{in: "<speak></speak><p></p>", want: ErrRootCount},
	{in: "", want: ErrRootCount},
	{in: "   \n ", want: ErrRootCount},
	{in: "hello", want: ErrStrayText},
	{in: "hello<speak></speak>", want: ErrStrayText},
	{in: "<speak></speak>bye", want: ErrStrayText},
	{in: "<speak>", want: ErrSyntax},
	{in: "<speak><p></speak>", want: ErrSyntax},
	{in: "<speak><p></s></speak>", want: ErrSyntax},
	{in: "<speak>a & b</speak>", want: ErrSyntax},
	{in: `<speak rate=slow></speak>`, want: ErrSyntax},
	{in: "<speak></speak></root><root><x/>", want: ErrSyntax},
	{in: "<speak></speak></root>junk<root>", want: ErrSyntax},
	{in: `<speak a="1" a="2"></speak>`, want: ErrDuplicateAttr},
	{in: `<speak><p  rate="1"   rate = "2"></p></speak>`, want: ErrDuplicateAttr},
	{in: `<speak xml:lang="a" xml` + colonPlaceholder + `lang="b"></speak>`, want: ErrDuplicateAttr},
}

func TestParse_Errors(t *testing.T) {
	for i, tt := range parseErrorTests {
		t.Run(fmt.Sprintf("test_%02d", i+1), func(t *testing.T) {
			got, err := Parse(tt.in)
			if err == nil {
				t.Fatalf("Parse(%q): got %s, want error", tt.in, Serialize(got))
			}
			if got != nil {
				t.Errorf("Parse(%q): got non-nil tree with error", tt.in)
			}

			var merr *MalformedInputError
			if !errors.As(err, &merr) {
				t.Fatalf("Parse(%q): error %T is not *MalformedInputError", tt.in, err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q): got %v, want %v", tt.in, err, tt.want)
			}
		})
	}
}

func TestParse_WhitespaceInTagsIsInsignificant(t *testing.T) {
	a, err := Parse("<speak></speak>")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse("<  speak  ></  speak  >")
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(a, b) {
		t.Errorf("trees differ: %s, %s", Serialize(a), Serialize(b))
	}
}

var roundTripTests = []struct {
	in   string
	want string
}{
	{
		in:   "<speak><p>Hello</p></speak>",
		want: "<speak><p>Hello</p></speak>",
	},
	{
		in:   `<speak xml:lang="en-US"><p><s>One.</s><s>Two.</s></p></speak>`,
		want: `<speak xml:lang="en-US"><p><s>One.</s><s>Two.</s></p></speak>`,
	},
	{
		in:   "< speak >\n  <p >Hello</ p>\n</speak>",
		want: "<speak><p>Hello</p></speak>",
	},
	{
		in:   `<speak>Wait<break time="500ms"/>now</speak>`,
		want: `<speak>Wait<break time="500ms"></break>now</speak>`,
	},
	{
		in:   "<speak>a &amp; b</speak>",
		want: "<speak>a & b</speak>",
	},
}

func TestParse_RoundTrip(t *testing.T) {
	for i, tt := range roundTripTests {
		t.Run(fmt.Sprintf("test_%02d", i+1), func(t *testing.T) {
			node, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got := Serialize(node); got != tt.want {
				t.Errorf("Serialize(Parse(%q)):\ngot : %s\nwant: %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseReader(t *testing.T) {
	got, err := ParseReader(strings.NewReader("<speak>hi</speak>"))
	if err != nil {
		t.Fatal(err)
	}
	if want := NewTag("speak", nil, TextNode("hi")); !Equal(want, got) {
		t.Errorf("ParseReader: got %s, want %s", Serialize(got), Serialize(want))
	}
}

func TestMalformedInputError(t *testing.T) {
	err := &MalformedInputError{Reason: ErrStrayText}
	if got, want := err.Error(), "ssml: stray top-level text"; got != want {
		t.Errorf("Error(): got %q, want %q", got, want)
	}

	cause := errors.New("boom")
	err = &MalformedInputError{Reason: ErrSyntax, Err: cause}
	if got, want := err.Error(), "ssml: invalid markup: boom"; got != want {
		t.Errorf("Error(): got %q, want %q", got, want)
	}
	if !errors.Is(err, cause) || !errors.Is(err, ErrSyntax) {
		t.Errorf("errors.Is: %v does not match its reason and cause", err)
	}
}
