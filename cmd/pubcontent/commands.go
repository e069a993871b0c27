package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/cobra"

	"github.com/eringen/pubcontent"
	"github.com/eringen/pubcontent/content"
)

// Config is read from the environment.
type Config struct {
	SiteName      string `env:"PUBCONTENT_SITE_NAME" env-default:"Site"`
	SiteURL       string `env:"PUBCONTENT_SITE_URL" env-default:"http://localhost:3000"`
	Culture       string `env:"PUBCONTENT_CULTURE" env-default:"en-US"`
	Addr          string `env:"PUBCONTENT_ADDR" env-default:":3000"`
	DatabasePath  string `env:"PUBCONTENT_DB" env-default:"data/content.db"`
	MediaDir      string `env:"PUBCONTENT_MEDIA_DIR" env-default:"public/media"`
	PageSize      int    `env:"PUBCONTENT_PAGE_SIZE" env-default:"10"`
	AdminPassword string `env:"PUBCONTENT_ADMIN_PASSWORD"`
	SessionSecret string `env:"PUBCONTENT_SESSION_SECRET"`
	CookieSecure  bool   `env:"PUBCONTENT_COOKIE_SECURE" env-default:"false"`
}

func (c Config) site() pubcontent.SiteConfig {
	return pubcontent.SiteConfig{
		Name:          c.SiteName,
		URL:           c.SiteURL,
		Culture:       c.Culture,
		Addr:          c.Addr,
		DatabasePath:  c.DatabasePath,
		MediaDir:      c.MediaDir,
		PageSize:      c.PageSize,
		AdminPassword: c.AdminPassword,
		SessionSecret: c.SessionSecret,
		CookieSecure:  c.CookieSecure,
	}
}

func newRootCmd(ver string) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:           "pubcontent",
		Short:         "Serve a published-content tree with SEO metadata",
		Version:       ver,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides PUBCONTENT_DB)")

	load := func() (Config, error) {
		var cfg Config
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read configuration: %w", err)
		}
		if dbPath != "" {
			cfg.DatabasePath = dbPath
		}
		return cfg, nil
	}

	cmd.AddCommand(
		newServeCmd(load),
		newImportCmd(load),
		newSEOCmd(load),
		newVersionCmd(ver),
	)
	return cmd
}

type configLoader func() (Config, error)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := content.NewSQLiteStore(cfg.DatabasePath)
			if err != nil {
				return err
			}
			app := pubcontent.New(cfg.site(), store)
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- app.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.Echo.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func newImportCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import a YAML content seed into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			store, err := content.NewSQLiteStore(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := content.ImportSeed(cmd.Context(), store, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d nodes into %s\n", n, cfg.DatabasePath)
			return nil
		},
	}
}

func newSEOCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "seo <id>",
		Short: "Print the SEO metadata derived for a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid node id %q", args[0])
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := content.NewSQLiteStore(cfg.DatabasePath)
			if err != nil {
				return err
			}
			app := pubcontent.New(cfg.site(), store)
			defer app.Close()

			node, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			model, err := app.SEO.GetSeoModel(cmd.Context(), node)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(model)
		},
	}
}

func newVersionCmd(ver string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pubcontent version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pubcontent %s\n", ver)
		},
	}
}
