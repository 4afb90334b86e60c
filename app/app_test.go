package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/kechako/ssmlkit/ssml"
	"github.com/kechako/ssmlkit/tts"
	"github.com/stretchr/testify/require"
)

type fakeSynthesizer struct {
	inputs []string
	audio  []byte
	err    error
	closed bool
}

func (s *fakeSynthesizer) SynthesizeSpeech(ctx context.Context, input string, opts ...tts.SynthesizeSpeechOption) ([]byte, error) {
	s.inputs = append(s.inputs, input)
	return s.audio, s.err
}

func (s *fakeSynthesizer) Close() error {
	s.closed = true
	return nil
}

func newTestApp(t *testing.T, cfg *Config, synth Synthesizer) *App {
	t.Helper()
	app, err := New(context.Background(), cfg,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithSynthesizer(synth),
	)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestApp_Check(t *testing.T) {
	app := newTestApp(t, DefaultConfig(), &fakeSynthesizer{})

	require.NoError(t, app.Check(strings.NewReader("<speak>hi</speak>")))

	err := app.Check(strings.NewReader("<p>hi</p>"))
	require.ErrorIs(t, err, ssml.ErrRootName)
}

func TestApp_Canonicalize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Replacements = []*Replacement{{From: "SSML", To: "S S M L"}}
	app := newTestApp(t, cfg, &fakeSynthesizer{})

	const in = "< speak >\n  <p >SSML</ p>\n</speak>"

	var out bytes.Buffer
	require.NoError(t, app.Canonicalize(&out, strings.NewReader(in), false))
	require.Equal(t, "<speak><p>SSML</p></speak>", out.String())

	out.Reset()
	require.NoError(t, app.Canonicalize(&out, strings.NewReader(in), true))
	require.Equal(t, `<speak><p><sub alias="S S M L">SSML</sub></p></speak>`, out.String())

	out.Reset()
	err := app.Canonicalize(&out, strings.NewReader("<speak>"), false)
	require.ErrorIs(t, err, ssml.ErrSyntax)
	require.Zero(t, out.Len())
}

func TestApp_Speak(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CachePath = ":memory:"
	cfg.Replacements = []*Replacement{{From: "R&D", To: "research and development"}}
	synth := &fakeSynthesizer{audio: []byte("RIFF-audio")}
	app := newTestApp(t, cfg, synth)

	const in = `<speak xml:lang="en-us">R&amp;D &amp; QA</speak>`

	var out bytes.Buffer
	require.NoError(t, app.Speak(context.Background(), &out, strings.NewReader(in)))
	require.Equal(t, "RIFF-audio", out.String())
	require.Equal(t, []string{
		`<speak xml:lang="en-us"><sub alias="research and development">R&amp;D</sub> &amp; QA</speak>`,
	}, synth.inputs)

	// the second request is served from the cache
	out.Reset()
	require.NoError(t, app.Speak(context.Background(), &out, strings.NewReader(in)))
	require.Equal(t, "RIFF-audio", out.String())
	require.Len(t, synth.inputs, 1)

	n, err := app.PruneCache(context.Background(), -time.Hour)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestApp_SpeakErrors(t *testing.T) {
	synth := &fakeSynthesizer{err: errors.New("quota exceeded")}
	app := newTestApp(t, DefaultConfig(), synth)

	var out bytes.Buffer
	err := app.Speak(context.Background(), &out, strings.NewReader("<speak>hi</speak>"))
	require.ErrorIs(t, err, synth.err)

	err = app.Speak(context.Background(), &out, strings.NewReader("<speak>hi</speak><speak/>"))
	require.ErrorIs(t, err, ssml.ErrRootCount)
	require.Len(t, synth.inputs, 1)
}

func TestApp_Voices(t *testing.T) {
	app := newTestApp(t, DefaultConfig(), &fakeSynthesizer{})

	_, err := app.Voices(context.Background())
	require.ErrorIs(t, err, errNoVoiceList)
}

func TestApp_CloseClosesSynthesizer(t *testing.T) {
	synth := &fakeSynthesizer{}
	app, err := New(context.Background(), DefaultConfig(), WithSynthesizer(synth))
	require.NoError(t, err)

	require.NoError(t, app.Close())
	require.True(t, synth.closed)
}

func TestDocumentLanguage(t *testing.T) {
	testCases := []struct {
		name    string
		attrs   []ssml.Attr
		want    string
		wantErr bool
	}{
		{name: "missing", want: "ja-JP"},
		{name: "empty", attrs: []ssml.Attr{ssml.A("xml:lang", "")}, want: "ja-JP"},
		{name: "canonical", attrs: []ssml.Attr{ssml.A("xml:lang", "en-US")}, want: "en-US"},
		{name: "lower case", attrs: []ssml.Attr{ssml.A("xml:lang", "en-us")}, want: "en-US"},
		{name: "invalid", attrs: []ssml.Attr{ssml.A("xml:lang", "not a tag")}, want: "ja-JP", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := documentLanguage(ssml.NewTag("speak", tc.attrs), "ja-JP")
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.want, got)
		})
	}
}

func TestAudioDuration(t *testing.T) {
	audio := make([]byte, wavHeaderSize+48000)
	copy(audio, "RIFF")
	require.Equal(t, time.Second, audioDuration(audio, 24000))

	require.Equal(t, time.Second, audioDuration(make([]byte, 48000), 24000))
}
