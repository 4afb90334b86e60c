package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/kechako/ssmlkit/app/internal/cache"
	"github.com/kechako/ssmlkit/app/internal/replacer"
	"github.com/kechako/ssmlkit/audio/pcm"
	"github.com/kechako/ssmlkit/ssml"
	"github.com/kechako/ssmlkit/tts"
	"golang.org/x/text/language"
)

var errNoVoiceList = errors.New("synthesizer cannot list voices")

// Synthesizer turns SSML text into LINEAR16 audio.
type Synthesizer interface {
	SynthesizeSpeech(ctx context.Context, input string, opts ...tts.SynthesizeSpeechOption) ([]byte, error)
}

type voiceLister interface {
	ListVoices(ctx context.Context) ([]*tts.Voice, error)
}

// App runs the ssmlkit commands against a configuration.
type App struct {
	cfg      *Config
	logger   *slog.Logger
	replacer *replacer.Replacer
	cache    *cache.Cache

	synth    Synthesizer
	newSynth func(ctx context.Context) (Synthesizer, error)
}

func New(ctx context.Context, cfg *Config, opts ...Option) (*App, error) {
	app := &App{
		cfg:      cfg,
		logger:   slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{})),
		replacer: replacer.New(cfg.replacementPairs()...),
	}
	app.newSynth = app.newTTSClient
	for _, opt := range opts {
		opt.apply(app)
	}

	if cfg.CachePath != "" {
		c, err := cache.Open(ctx, cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("app.New: %w", err)
		}
		app.cache = c
	}

	return app, nil
}

func (app *App) newTTSClient(ctx context.Context) (Synthesizer, error) {
	ttsOpts := []tts.ClientOption{
		tts.WithDefaultLanguageCode(app.cfg.LanguageCode),
		tts.WithSampleRate(app.cfg.SampleRate),
	}
	if credJSON, err := app.cfg.getCredentialsJSON(); err != nil {
		return nil, err
	} else if len(credJSON) > 0 {
		ttsOpts = append(ttsOpts, tts.WithCredentialsJSON(credJSON))
	}

	c, err := tts.New(ctx, ttsOpts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (app *App) synthesizer(ctx context.Context) (Synthesizer, error) {
	if app.synth != nil {
		return app.synth, nil
	}
	s, err := app.newSynth(ctx)
	if err != nil {
		return nil, err
	}
	app.synth = s
	return s, nil
}

func (app *App) Close() error {
	var errs []error

	if c, ok := app.synth.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("app.App.Close: %w", errors.Join(errs...))
	}

	return nil
}

// Check parses the document read from r.
func (app *App) Check(r io.Reader) error {
	_, err := ssml.ParseReader(r)
	return err
}

// Canonicalize parses the document read from r and writes its
// serialization to w. With replace, the configured replacements are
// applied first.
func (app *App) Canonicalize(w io.Writer, r io.Reader, replace bool) error {
	doc, err := ssml.ParseReader(r)
	if err != nil {
		return err
	}
	if replace {
		doc = app.replacer.Apply(doc)
	}

	if err := ssml.Write(w, doc); err != nil {
		return fmt.Errorf("app.App.Canonicalize: %w", err)
	}
	return nil
}

// Speak synthesizes the document read from r and writes the audio to w.
// The language of the speak tag's xml:lang attribute, when valid,
// overrides the configured one.
func (app *App) Speak(ctx context.Context, w io.Writer, r io.Reader) error {
	doc, err := ssml.ParseReader(r)
	if err != nil {
		return err
	}
	input := ssml.SerializeEscaped(app.replacer.Apply(doc))

	lang, err := documentLanguage(doc, app.cfg.LanguageCode)
	if err != nil {
		app.logger.Warn("ignoring xml:lang", slog.Any("error", err))
	}

	voice := app.cfg.Voice
	key := cache.Key(input, lang, voice.Name, voice.SpeakingRate, voice.Pitch, app.cfg.SampleRate)

	audio, err := app.cachedAudio(ctx, key)
	if err != nil {
		return fmt.Errorf("app.App.Speak: %w", err)
	}
	if audio == nil {
		s, err := app.synthesizer(ctx)
		if err != nil {
			return fmt.Errorf("app.App.Speak: %w", err)
		}

		opts := []tts.SynthesizeSpeechOption{
			tts.WithInputMode(tts.SSML),
			tts.WithLanguageCode(lang),
			tts.WithSpeakingRate(voice.SpeakingRate),
			tts.WithPitch(voice.Pitch),
		}
		if voice.Name != "" {
			opts = append(opts, tts.WithVoiceName(voice.Name))
		}

		audio, err = s.SynthesizeSpeech(ctx, input, opts...)
		if err != nil {
			return fmt.Errorf("app.App.Speak: %w", err)
		}

		if app.cache != nil {
			if err := app.cache.Put(ctx, key, audio); err != nil {
				app.logger.Error("failed to store audio", slog.Any("error", err))
			}
		}
	}

	app.logger.Info("synthesized",
		slog.String("language", lang),
		slog.Int("bytes", len(audio)),
		slog.Duration("duration", audioDuration(audio, app.cfg.SampleRate)),
	)

	if _, err := w.Write(audio); err != nil {
		return fmt.Errorf("app.App.Speak: %w", err)
	}
	return nil
}

// cachedAudio returns nil without error on a cache miss.
func (app *App) cachedAudio(ctx context.Context, key string) ([]byte, error) {
	if app.cache == nil {
		return nil, nil
	}
	audio, err := app.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	app.logger.Debug("cache hit", slog.String("key", key))
	return audio, nil
}

// Voices returns the voices available for the configured language.
func (app *App) Voices(ctx context.Context) ([]*tts.Voice, error) {
	s, err := app.synthesizer(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.App.Voices: %w", err)
	}
	l, ok := s.(voiceLister)
	if !ok {
		return nil, fmt.Errorf("app.App.Voices: %w", errNoVoiceList)
	}
	return l.ListVoices(ctx)
}

// PruneCache removes cached audio older than maxAge.
func (app *App) PruneCache(ctx context.Context, maxAge time.Duration) (int64, error) {
	if app.cache == nil {
		return 0, nil
	}
	n, err := app.cache.Prune(ctx, maxAge)
	if err != nil {
		return 0, fmt.Errorf("app.App.PruneCache: %w", err)
	}
	app.logger.Info("cache pruned", slog.Int64("removed", n))
	return n, nil
}

// documentLanguage returns the canonical form of the xml:lang attribute
// of doc, or fallback when doc has none or it is invalid.
func documentLanguage(doc *ssml.TagNode, fallback string) (string, error) {
	v, ok := doc.Attr("xml:lang")
	if !ok || v == "" {
		return fallback, nil
	}
	tag, err := language.Parse(v)
	if err != nil {
		return fallback, err
	}
	return tag.String(), nil
}

const wavHeaderSize = 44

func audioDuration(audio []byte, sampleRate int) time.Duration {
	if len(audio) >= wavHeaderSize && bytes.HasPrefix(audio, []byte("RIFF")) {
		audio = audio[wavHeaderSize:]
	}
	return pcm.Duration[int16](audio, sampleRate)
}
