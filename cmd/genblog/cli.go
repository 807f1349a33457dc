package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/genblog"
	"github.com/eringen/genblog/generator"
	"github.com/eringen/genblog/logger"
	"github.com/eringen/genblog/views"
)

// RootOptions holds state shared by all commands.
type RootOptions struct {
	// Config is loaded lazily so tests can inject one.
	Config func() genblog.SiteConfig
	// NewGenerator builds the client used by generate.
	NewGenerator func(cfg genblog.SiteConfig) *generator.Client
}

// NewRootCommand creates the root command for the genblog CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{
		Config: genblog.LoadConfig,
		NewGenerator: func(cfg genblog.SiteConfig) *generator.Client {
			return generator.New(generator.Config{APIKey: cfg.APIKey, Model: cfg.Model})
		},
	})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "genblog",
		Short:         "GenBlog - an AI-assisted blog",
		Long:          "A small blog whose posts are written by Google Gemini from a topic and a tone.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newGenerateCommand(opts))
	cmd.AddCommand(newTonesCommand())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newServeCommand(opts *RootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.Config()
			if addr != "" {
				cfg.Addr = addr
			}
			return runServe(cmd.Context(), cfg, cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ADDR)")
	return cmd
}

func runServe(ctx context.Context, cfg genblog.SiteConfig, logOut io.Writer) error {
	log, err := logger.New(logOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	cfg = cfg.Resolved()
	site := views.Site{Name: cfg.Name, URL: cfg.URL}
	app, err := genblog.New(cfg, views.Funcs(site), genblog.WithLogger(log))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		app.Close()
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}

func newGenerateCommand(opts *RootOptions) *cobra.Command {
	var (
		topic   string
		tone    string
		asJSON  bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one post and print it",
		Long: `Generate one post from a topic and tone and print the composed post.

Nothing is stored; this is a quick way to check the API key and the model.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(topic) == "" {
				return errors.New("--topic is required")
			}
			client := opts.NewGenerator(opts.Config())
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			draft, err := client.Generate(ctx, topic, tone)
			if err != nil {
				return fmt.Errorf("generate (%s): %w", generator.Kind(err), err)
			}
			post := genblog.NewComposer().Compose(draft)
			return printPost(cmd.OutOrStdout(), post, asJSON)
		},
	}
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "what the post is about")
	cmd.Flags().StringVar(&tone, "tone", string(generator.ToneInformative), "writing tone")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the post as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "give up after this long")
	return cmd
}

func printPost(w io.Writer, p *genblog.BlogPost, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	_, err := fmt.Fprintf(w, "%s\n[%s] %s • %s\n\n%s\n\n%s\n",
		p.Title, p.Category, p.Date, p.ReadTime, p.Excerpt, p.Content)
	return err
}

func newTonesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tones",
		Short: "List the suggested writing tones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range generator.Tones {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), t); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the genblog version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "genblog %s\n", version)
			return err
		},
	}
}
