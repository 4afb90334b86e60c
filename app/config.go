package app

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/kechako/ssmlkit/tts"
)

type Replacement struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

type Voice struct {
	Name         string  `toml:"name"`
	SpeakingRate float64 `toml:"speaking_rate"`
	Pitch        float64 `toml:"pitch"`
}

type Config struct {
	CredentialsJSON string         `toml:"credentials_json"`
	CredentialsFile string         `toml:"credentials_file"`
	CachePath       string         `toml:"cache_path"`
	LanguageCode    string         `toml:"language_code"`
	SampleRate      int            `toml:"sample_rate"`
	Voice           Voice          `toml:"voice"`
	Replacements    []*Replacement `toml:"replacements"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		LanguageCode: tts.DefaultLanguageCode,
		SampleRate:   tts.DefaultSampleRate,
		Voice: Voice{
			SpeakingRate: tts.DefaultSpeakingRate,
			Pitch:        tts.DefaultPitch,
		},
	}
}

func ReadConfigFile(name string) (*Config, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("app.ReadConfigFile: %w", err)
	}
	defer file.Close()

	return ReadConfig(file)
}

// ReadConfig decodes a TOML configuration from r. Values absent from r
// keep their defaults.
func ReadConfig(r io.Reader) (*Config, error) {
	// expand ${VAR} references before decoding
	var buf bytes.Buffer
	s := bufio.NewScanner(r)
	for s.Scan() {
		buf.WriteString(os.ExpandEnv(s.Text()))
		buf.WriteByte('\n')
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("app.ReadConfig: %w", err)
	}

	cfg := DefaultConfig()
	_, err := toml.NewDecoder(&buf).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("app.ReadConfig: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("app.ReadConfig: %w", err)
	}

	return cfg, nil
}

func WriteConfigFile(name string, cfg *Config) error {
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("app.WriteConfigFile: %w", err)
	}
	defer file.Close()

	return WriteConfig(file, cfg)
}

func WriteConfig(w io.Writer, cfg *Config) error {
	err := toml.NewEncoder(w).Encode(cfg)
	if err != nil {
		return fmt.Errorf("app.WriteConfig: %w", err)
	}

	return nil
}

func (cfg *Config) validate() error {
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", cfg.SampleRate)
	}
	for i, r := range cfg.Replacements {
		if r.From == "" {
			return fmt.Errorf("replacement #%d has an empty from", i+1)
		}
	}
	return tts.ValidateVoice(cfg.Voice.SpeakingRate, cfg.Voice.Pitch)
}

func (cfg *Config) getCredentialsJSON() ([]byte, error) {
	if cfg.CredentialsJSON != "" {
		return []byte(cfg.CredentialsJSON), nil
	}

	if cfg.CredentialsFile != "" {
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("app.Config.getCredentialsJSON: %w", err)
		}
		return b, nil
	}

	return nil, nil
}

func (cfg *Config) replacementPairs() []string {
	oldnew := make([]string, 0, len(cfg.Replacements)*2)
	for _, r := range cfg.Replacements {
		oldnew = append(oldnew, r.From, r.To)
	}
	return oldnew
}
