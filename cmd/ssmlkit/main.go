package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kechako/ssmlkit/app"
	"github.com/kechako/ssmlkit/tts"
	"github.com/urfave/cli/v2"
)

func loadConfig(c *cli.Context) (*app.Config, error) {
	cfgName := c.String("config")
	if cfgName == "" {
		return app.DefaultConfig(), nil
	}

	cfg, err := app.ReadConfigFile(cfgName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !c.IsSet("config") {
			return app.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return cfg, nil
}

func newApp(c *cli.Context) (*app.App, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	a, err := app.New(c.Context, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return a, nil
}

// openInput opens name for reading, or stdin for "" and "-".
func openInput(name string) (io.ReadCloser, string, error) {
	if name == "" || name == "-" {
		return io.NopCloser(os.Stdin), "<stdin>", nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, name, err
	}
	return f, name, nil
}

func checkCommand(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	names := c.Args().Slice()
	if len(names) == 0 {
		names = []string{"-"}
	}

	failed := 0
	for _, name := range names {
		r, label, err := openInput(name)
		if err == nil {
			err = a.Check(r)
			r.Close()
		}
		if err != nil {
			failed++
			fmt.Fprintf(c.App.Writer, "%s: %v\n", label, err)
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s: ok\n", label)
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d documents are malformed", failed, len(names)), 1)
	}
	return nil
}

func canonCommand(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	r, _, err := openInput(c.Args().First())
	if err != nil {
		return err
	}
	defer r.Close()

	if err := a.Canonicalize(c.App.Writer, r, c.Bool("replace")); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer)
	return nil
}

func speakCommand(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	r, _, err := openInput(c.Args().First())
	if err != nil {
		return err
	}
	defer r.Close()

	var buf bytes.Buffer
	if err := a.Speak(c.Context, &buf, r); err != nil {
		return err
	}
	return os.WriteFile(c.String("out"), buf.Bytes(), 0o644)
}

func voicesCommand(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	voices, err := a.Voices(c.Context)
	if err != nil {
		return err
	}
	for _, v := range voices {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%d Hz\n", v.GetName(), tts.GenderName(v), v.GetNaturalSampleRateHertz())
	}
	return nil
}

func pruneCommand(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.PruneCache(c.Context, c.Duration("max-age"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%d entries removed\n", n)
	return nil
}

func initConfigCommand(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		name = "config.toml"
	}
	if _, err := os.Stat(name); err == nil {
		return cli.Exit(name+" already exists", 1)
	}
	return app.WriteConfigFile(name, app.DefaultConfig())
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "ssmlkit",
		Usage: "check, canonicalize and synthesize SSML documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.toml",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "report whether documents are well-formed",
				ArgsUsage: "[file...]",
				Action:    checkCommand,
			},
			{
				Name:      "canon",
				Usage:     "print the canonical form of a document",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "apply the configured replacements",
					},
				},
				Action: canonCommand,
			},
			{
				Name:      "speak",
				Usage:     "synthesize a document into LINEAR16 audio",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Value:   "out.wav",
					},
				},
				Action: speakCommand,
			},
			{
				Name:   "voices",
				Usage:  "list the voices of the configured language",
				Action: voicesCommand,
			},
			{
				Name:  "prune-cache",
				Usage: "remove cached audio",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "max-age",
						Value: 30 * 24 * time.Hour,
					},
				},
				Action: pruneCommand,
			},
			{
				Name:      "init-config",
				Usage:     "write a default configuration file",
				ArgsUsage: "[file]",
				Action:    initConfigCommand,
			},
		},
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error : %v\n", err)

		var exitCoder cli.ExitCoder
		if errors.As(err, &exitCoder) {
			os.Exit(exitCoder.ExitCode())
		}
		os.Exit(1)
	}
}
