package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/wsu2059q/ghpreview/internal/bot"
	"github.com/wsu2059q/ghpreview/internal/cache"
	"github.com/wsu2059q/ghpreview/internal/classify"
	"github.com/wsu2059q/ghpreview/internal/config"
	"github.com/wsu2059q/ghpreview/internal/dispatch"
	"github.com/wsu2059q/ghpreview/internal/github"
	"github.com/wsu2059q/ghpreview/internal/onebot"
	"github.com/wsu2059q/ghpreview/internal/render"
)

func main() {
	app := &cli.App{
		Name:  "ghpreview",
		Usage: "GitHub link previews for chat rooms",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			resolveCommand(),
			configCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Connect to the chat runtime and preview GitHub links",
		Action: runBot,
	}
}

func runBot(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Log.Level)
	if cfg.GitHub.Token == "" {
		logger.Warn().Msg("no GitHub token configured; using unauthenticated rate limits")
	}

	resolver, err := github.NewResolver(github.Config{
		Token:   cfg.GitHub.Token,
		BaseURL: cfg.GitHub.APIBaseURL,
	})
	if err != nil {
		return fmt.Errorf("build resolver: %w", err)
	}

	store := cache.New(resolver)
	registry := dispatch.NewRegistry()
	dispatcher := dispatch.NewDispatcher(registry, logger.With().Str("component", "dispatch").Logger())
	handler := bot.NewHandler(store, dispatcher, logger.With().Str("component", "bot").Logger())

	client := onebot.NewClient(onebot.Config{
		URL:         cfg.OneBot.URL,
		AccessToken: cfg.OneBot.AccessToken,
		Platform:    cfg.OneBot.Platform,
	}, handler, logger.With().Str("component", "onebot").Logger())
	registry.Register(cfg.OneBot.Platform, client)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("runtime", cfg.OneBot.URL).Msg("starting")
	if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info().Msg("shut down")
	return nil
}

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Resolve one GitHub URL and print its summary",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: markdown, html, or text",
				Value: string(render.FormatMarkdown),
			},
		},
		Action: runResolve,
	}
}

func runResolve(c *cli.Context) error {
	rawURL := c.Args().First()
	if rawURL == "" {
		return cli.Exit("usage: ghpreview resolve <url>", 2)
	}

	ref, ok := classify.Parse(rawURL)
	if !ok {
		return cli.Exit(fmt.Sprintf("not a recognized GitHub URL: %s", rawURL), 1)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	resolver, err := github.NewResolver(github.Config{
		Token:   cfg.GitHub.Token,
		BaseURL: cfg.GitHub.APIBaseURL,
	})
	if err != nil {
		return fmt.Errorf("build resolver: %w", err)
	}

	entity, err := resolver.Resolve(c.Context, ref, rawURL)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", rawURL, err)
	}

	out := render.Render(entity, render.Format(c.String("format")))
	if out == "" {
		return cli.Exit(fmt.Sprintf("unsupported format: %s", c.String("format")), 1)
	}
	fmt.Println(out)
	return nil
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a sample configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "ghpreview.toml",
					},
				},
				Action: func(c *cli.Context) error {
					path := c.String("output")
					if err := config.Init(path); err != nil {
						return fmt.Errorf("failed to initialize config: %w", err)
					}
					fmt.Printf("Created configuration file at %s\n", path)
					return nil
				},
			},
		},
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
