package tts

type clientOptions struct {
	credentialsJSON []byte
	languageCode    string
	sampleRate      int
}

type ClientOption interface {
	apply(opts *clientOptions)
}

func WithCredentialsJSON(p []byte) ClientOption {
	return withCredentialsJSON(p)
}

type withCredentialsJSON []byte

func (w withCredentialsJSON) apply(o *clientOptions) {
	o.credentialsJSON = make([]byte, len(w))
	copy(o.credentialsJSON, w)
}

type withDefaultLanguageCode string

func (w withDefaultLanguageCode) apply(o *clientOptions) {
	o.languageCode = string(w)
}

// WithDefaultLanguageCode sets the language used for voice listing and
// for requests that do not name one.
func WithDefaultLanguageCode(code string) ClientOption {
	return withDefaultLanguageCode(code)
}

type withSampleRate int

func (w withSampleRate) apply(o *clientOptions) {
	o.sampleRate = int(w)
}

func WithSampleRate(sampleRate int) ClientOption {
	return withSampleRate(sampleRate)
}

type synthesizeSpeechOptions struct {
	inputMode    InputMode
	languageCode string
	voiceName    string
	speakingRate float64
	pitch        float64
}

type SynthesizeSpeechOption interface {
	apply(opts *synthesizeSpeechOptions)
}

type withInputMode InputMode

func (w withInputMode) apply(o *synthesizeSpeechOptions) {
	o.inputMode = InputMode(w)
}

func WithInputMode(mode InputMode) SynthesizeSpeechOption {
	return withInputMode(mode)
}

type withLanguageCode string

func (w withLanguageCode) apply(o *synthesizeSpeechOptions) {
	if w != "" {
		o.languageCode = string(w)
	}
}

func WithLanguageCode(code string) SynthesizeSpeechOption {
	return withLanguageCode(code)
}

type withVoiceName string

func (w withVoiceName) apply(o *synthesizeSpeechOptions) {
	o.voiceName = string(w)
}

func WithVoiceName(name string) SynthesizeSpeechOption {
	return withVoiceName(name)
}

type withSpeakingRate float64

func (w withSpeakingRate) apply(o *synthesizeSpeechOptions) {
	o.speakingRate = float64(w)
}

func WithSpeakingRate(speakingRate float64) SynthesizeSpeechOption {
	return withSpeakingRate(speakingRate)
}

type withPitch float64

func (w withPitch) apply(o *synthesizeSpeechOptions) {
	o.pitch = float64(w)
}

func WithPitch(pitch float64) SynthesizeSpeechOption {
	return withPitch(pitch)
}
