// Package tts synthesizes SSML documents with Google Cloud Text-to-Speech.
package tts

import (
	"context"
	"errors"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
)

const (
	DefaultLanguageCode = "en-US"
	DefaultSampleRate   = 24000

	DefaultSpeakingRate = 1.0
	DefaultPitch        = 0.0

	MaxSpeakingRate = 4.0
	MinSpeakingRate = 0.25
	MaxPitch        = 20.0
	MinPitch        = -20.0
)

var (
	ErrSpeakingRate = fmt.Errorf("speaking rate must be in [%.2f, %.2f]", MinSpeakingRate, MaxSpeakingRate)
	ErrPitch        = fmt.Errorf("pitch must be in [%.1f, %.1f]", MinPitch, MaxPitch)
)

// ValidateVoice checks speakingRate and pitch against the limits of the
// API.
func ValidateVoice(speakingRate, pitch float64) error {
	var errs []error
	if speakingRate < MinSpeakingRate || speakingRate > MaxSpeakingRate {
		errs = append(errs, ErrSpeakingRate)
	}
	if pitch < MinPitch || pitch > MaxPitch {
		errs = append(errs, ErrPitch)
	}
	return errors.Join(errs...)
}

type InputMode int

const (
	SSML InputMode = iota
	Text
)

type Client struct {
	opts   *clientOptions
	client *texttospeech.Client
}

func New(ctx context.Context, opts ...ClientOption) (*Client, error) {
	options := clientOptions{
		languageCode: DefaultLanguageCode,
		sampleRate:   DefaultSampleRate,
	}
	for _, opt := range opts {
		opt.apply(&options)
	}

	var clientOpts []option.ClientOption
	if len(options.credentialsJSON) > 0 {
		clientOpts = append(clientOpts, option.WithCredentialsJSON(options.credentialsJSON))
	}

	client, err := texttospeech.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("tts.New: %w", err)
	}
	return &Client{
		opts:   &options,
		client: client,
	}, nil
}

type Voice = texttospeechpb.Voice

var (
	GenderMale    = texttospeechpb.SsmlVoiceGender_MALE
	GenderFemale  = texttospeechpb.SsmlVoiceGender_FEMALE
	GenderNeutral = texttospeechpb.SsmlVoiceGender_NEUTRAL
)

// GenderName returns a short label for the gender of v.
func GenderName(v *Voice) string {
	switch v.GetSsmlGender() {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	case GenderNeutral:
		return "neutral"
	}
	return "unspecified"
}

func (c *Client) ListVoices(ctx context.Context) ([]*Voice, error) {
	res, err := c.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{
		LanguageCode: c.opts.languageCode,
	})
	if err != nil {
		return nil, fmt.Errorf("tts.Client.ListVoices: %w", err)
	}

	return res.GetVoices(), nil
}

// SynthesizeSpeech returns LINEAR16 audio, including its WAV header, for
// input.
func (c *Client) SynthesizeSpeech(ctx context.Context, input string, opts ...SynthesizeSpeechOption) ([]byte, error) {
	o := synthesizeSpeechOptions{
		languageCode: c.opts.languageCode,
		speakingRate: DefaultSpeakingRate,
		pitch:        DefaultPitch,
	}
	for _, opt := range opts {
		opt.apply(&o)
	}

	si := &texttospeechpb.SynthesisInput{}
	switch o.inputMode {
	case SSML:
		si.InputSource = &texttospeechpb.SynthesisInput_Ssml{
			Ssml: input,
		}
	case Text:
		si.InputSource = &texttospeechpb.SynthesisInput_Text{
			Text: input,
		}
	default:
		return nil, errors.New("invalid input mode")
	}

	res, err := c.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: si,
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: o.languageCode,
			Name:         o.voiceName,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding:   texttospeechpb.AudioEncoding_LINEAR16,
			SampleRateHertz: int32(c.opts.sampleRate),
			SpeakingRate:    o.speakingRate,
			Pitch:           o.pitch,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("tts.Client.SynthesizeSpeech: %w", err)
	}

	return res.GetAudioContent(), nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
