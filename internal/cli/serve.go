package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wireframe/internal/server"
	"github.com/matzehuels/wireframe/pkg/catalog"
	"github.com/matzehuels/wireframe/pkg/config"
	"github.com/matzehuels/wireframe/pkg/errors"
	"github.com/matzehuels/wireframe/pkg/studio"
)

// serveOpts holds flag overrides for the serve command.
type serveOpts struct {
	addr     string
	root     string
	manifest string
	noCache  bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := &serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the composition studio over HTTP",
		Long: `Serve the composition studio: the composer UI, manifest.json, the widget
images and HTML fragments, and the JSON API used to compose and export.

Images are served from <root>/img_wireframes and HTML fragments from
<root>/kadence_wireframes, both with long-lived cache headers.`,
		Example: `  wireframe serve
  wireframe serve --addr :9000 --root ./site
  wireframe serve --manifest https://cdn.example.com/manifest.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg, opts.noCache)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.root, "root", ".", "directory holding the asset folders")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "manifest file path or http(s) URL")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the export cache")

	return cmd
}

// apply overrides cfg with the flags the user set explicitly.
func (o *serveOpts) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = o.addr
	}
	if cmd.Flags().Changed("root") {
		cfg.Assets.Root = o.root
	}
	if cmd.Flags().Changed("manifest") {
		setManifest(cfg, o.manifest)
	}
}

// setManifest points the catalog at a file path or an http(s) URL.
func setManifest(cfg *config.Config, manifest string) {
	if errors.ValidateURL(manifest) == nil {
		cfg.Catalog.Source = config.SourceHTTP
		cfg.Catalog.URL = manifest
		return
	}
	cfg.Catalog.Source = config.SourceFile
	cfg.Catalog.Path = manifest
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config, noCache bool) error {
	logger := loggerFromContext(ctx)

	cat, catErr := loadCatalog(ctx, cfg, logger)

	exp, store, err := newExporter(ctx, cfg, newAssets(cfg, ""), noCache, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	st := studio.New(studio.Options{
		Catalog:    cat,
		CatalogErr: catErr,
		Rand:       newRand(cfg.Preview.Seed),
		Exporter:   exp,
		Logger:     logger,
	})

	srv := server.New(st, server.Options{
		ImageDir:     cfg.Assets.ImagePath(),
		HTMLDir:      cfg.Assets.HTMLPath(),
		StaticMaxAge: cfg.Server.StaticMaxAge.Duration,
		CORSOrigins:  cfg.Server.CORSOrigins,
		Reload: func(ctx context.Context) (*catalog.Catalog, error) {
			return catalog.LoadOrEmpty(ctx, catalogSource(cfg), logger)
		},
		Logger: logger,
	})

	printSuccess("Studio ready with %s widgets", StyleNumber.Render(fmt.Sprint(cat.Len())))
	printKeyValue("Address", StyleLink.Render(listenURL(cfg.Server.Addr)))
	printKeyValue("Images", cfg.Assets.ImagePath())
	printKeyValue("HTML", cfg.Assets.HTMLPath())
	printKeyValue("Manifest", catalogSource(cfg).String())
	printKeyValue("Cache", cacheLabel(cfg, noCache))
	printNewline()

	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// listenURL turns a listen address into a clickable URL.
func listenURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func cacheLabel(cfg *config.Config, noCache bool) string {
	switch {
	case noCache || cfg.Cache.Backend == config.CacheNone:
		return "disabled"
	case cfg.Cache.Backend == config.CacheRedis:
		return "redis " + cfg.Cache.Redis.Addr
	default:
		return cfg.Cache.Dir
	}
}
