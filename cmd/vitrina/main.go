package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	apppkg "github.com/kk-code-lab/vitrina/internal/app"
	"github.com/kk-code-lab/vitrina/internal/catalog"
	"github.com/kk-code-lab/vitrina/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagAPI      string
	flagPageSize int
	flagView     string
	flagCategory string
	flagSearch   string
)

var rootCmd = &cobra.Command{
	Use:           "vitrina",
	Short:         "Terminal storefront for a handmade goods catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runGallery(cfg)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagAPI, "api", "", "catalog API root (overrides VITRINA_API_URL)")
	flags.StringVar(&flagCategory, "category", "", "initial category slug")
	flags.StringVar(&flagSearch, "search", "", "initial search term")
	rootCmd.Flags().IntVar(&flagPageSize, "page-size", 0, "items per page (overrides VITRINA_PAGE_SIZE)")
	rootCmd.Flags().StringVar(&flagView, "view", "", "initial view: feed or grid")
}

// loadConfig reads the environment and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	return applyFlags(cmd, cfg)
}

func applyFlags(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("api") {
		cfg.APIURL = flagAPI
	}
	if changed("page-size") {
		cfg.PageSize = flagPageSize
	}
	if changed("view") {
		cfg.View = flagView
	}
	if changed("category") {
		cfg.Category = flagCategory
	}
	if changed("search") {
		cfg.Search = flagSearch
	}
	return cfg, cfg.Validate()
}

// newLogger writes to path, tagging lines with a per-run id. The terminal
// belongs to the UI, so an unwritable path silences logging instead.
func newLogger(path string) (*log.Logger, string, func()) {
	id := uuid.NewString()
	if v7, err := uuid.NewV7(); err == nil {
		id = v7.String()
	}
	prefix := "[" + id[:8] + "] "
	if path == "" {
		return log.New(io.Discard, prefix, 0), id, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard, prefix, 0), id, func() {}
	}
	return log.New(f, prefix, log.LstdFlags|log.Lmicroseconds), id, func() { _ = f.Close() }
}

// itemSource returns the page source, cached in Redis when configured.
func itemSource(cfg config.Config, client *catalog.Client, logger *log.Logger) (catalog.ItemSource, func()) {
	if cfg.RedisAddr == "" {
		return client, func() {}
	}
	cache := catalog.NewRedisPageCache(cfg.RedisAddr, cfg.RedisPassword)
	logger.Printf("page cache: redis at %s, ttl %s", cfg.RedisAddr, cfg.CacheTTL)
	return catalog.NewCachedSource(client, cache, cfg.CacheTTL, logger), func() { _ = cache.Close() }
}

func runGallery(cfg config.Config) error {
	logger, id, closeLog := newLogger(cfg.LogFile)
	defer closeLog()

	client, err := catalog.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return err
	}
	items, closeCache := itemSource(cfg, client, logger)
	defer closeCache()

	logger.Printf("starting: api=%s view=%s category=%s page-size=%d", cfg.APIURL, cfg.View, cfg.Category, cfg.PageSize)

	app, err := apppkg.NewApplication(apppkg.Options{
		Config:     cfg,
		Items:      items,
		Client:     client,
		Logger:     logger,
		InstanceID: id,
	})
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
	logger.Printf("exiting")
	return nil
}

func main() {
	// Set UTF-8 as fallback encoding for maximum compatibility
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vitrina: %v\n", err)
		os.Exit(1)
	}
}
