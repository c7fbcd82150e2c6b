package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wireframe/pkg/config"
	"github.com/matzehuels/wireframe/pkg/errors"
	"github.com/matzehuels/wireframe/pkg/export"
	"github.com/matzehuels/wireframe/pkg/studio"
)

// exportOpts holds options for the export command.
type exportOpts struct {
	project   string
	output    string
	assetsURL string
	manifest  string
	root      string
	seed      uint64
	unzip     bool
	noCache   bool
}

// entrySpec is one "widget[:image]" argument.
type entrySpec struct {
	widget string
	image  string
}

// parseEntrySpec parses "widget" or "widget:image".
func parseEntrySpec(s string) (entrySpec, error) {
	widget, image, _ := strings.Cut(s, ":")
	if err := errors.ValidateWidgetName(widget); err != nil {
		return entrySpec{}, err
	}
	if image != "" {
		if err := errors.ValidateAssetFilename(image); err != nil {
			return entrySpec{}, err
		}
	}
	return entrySpec{widget: widget, image: image}, nil
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	opts := &exportOpts{}

	cmd := &cobra.Command{
		Use:   "export [widget[:image]...]",
		Short: "Export a layout as an HTML, PNG and layout bundle",
		Long: `Export composes the given widgets top to bottom and packages them the same
way the studio's Export button does: <project>.html, <project>.png and
<project>_layout.txt in <project>.zip.

Each argument names a widget, optionally pinned to one of its images.
Widgets without a pinned image get a random one; use --seed for
reproducible picks. Widgets without any image appear only in the layout
file.`,
		Example: `  wireframe export hero features footer --project landing
  wireframe export hero:hero_3.webp footer -o ./out --unzip
  wireframe export hero --assets-url http://localhost:8000 --manifest http://localhost:8000/manifest.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs := make([]entrySpec, len(args))
			for i, a := range args {
				spec, err := parseEntrySpec(a)
				if err != nil {
					return err
				}
				specs[i] = spec
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			return runExport(cmd.Context(), cfg, specs, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.project, "project", "p", "", "project name (default "+export.DefaultProjectName+")")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.assetsURL, "assets-url", "", "load assets from a running studio instead of local folders")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "manifest file path or http(s) URL")
	cmd.Flags().StringVar(&opts.root, "root", ".", "directory holding the asset folders")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for random image picks (0 = random)")
	cmd.Flags().BoolVar(&opts.unzip, "unzip", false, "write the bundle files instead of a zip archive")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the export cache")

	return cmd
}

func (o *exportOpts) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("root") {
		cfg.Assets.Root = o.root
	}
	if cmd.Flags().Changed("manifest") {
		setManifest(cfg, o.manifest)
	}
	if cmd.Flags().Changed("seed") {
		cfg.Preview.Seed = o.seed
	}
}

func runExport(ctx context.Context, cfg *config.Config, specs []entrySpec, opts *exportOpts) error {
	logger := loggerFromContext(ctx)

	cat, err := catalogSource(cfg).Load(ctx)
	if err != nil {
		return err
	}

	exp, store, err := newExporter(ctx, cfg, newAssets(cfg, opts.assetsURL), opts.noCache, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	st := studio.New(studio.Options{
		Catalog:  cat,
		Rand:     newRand(cfg.Preview.Seed),
		Exporter: exp,
		Logger:   logger,
	})
	if err := composeEntries(st, specs); err != nil {
		return err
	}

	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", opts.output)
	}

	spinner := newSpinnerWithContext(ctx, "Exporting...")
	spinner.Start()

	sels := st.Selections()
	if opts.unzip {
		b, err := exp.Build(ctx, export.Request{Project: opts.project, Selections: sels})
		if err != nil {
			spinner.StopWithError("Export failed")
			return err
		}
		spinner.StopWithSuccess("Exported " + b.Name)
		printComposition(sels)
		for _, f := range b.Files() {
			path := filepath.Join(opts.output, f.Name)
			if err := os.WriteFile(path, f.Data, 0o644); err != nil {
				return err
			}
			printFile(path)
		}
		return nil
	}

	arch, err := st.Export(ctx, opts.project)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.StopWithSuccess("Exported " + arch.Name)
	printComposition(sels)

	path := filepath.Join(opts.output, arch.Filename())
	if err := os.WriteFile(path, arch.Data, 0o644); err != nil {
		return err
	}
	printStats(len(specs), len(arch.Data), arch.Cached)
	printFile(path)
	return nil
}

// composeEntries appends one entry per spec, draws previews, then pins the
// images the specs name.
func composeEntries(st *studio.Studio, specs []entrySpec) error {
	ids := make([]string, len(specs))
	for i, spec := range specs {
		// Rows put entry i at midpoint i+0.5; pointing below the last appends.
		e, err := st.Drop(spec.widget, float64(i+1), nil)
		if err != nil {
			return err
		}
		ids[i] = e.ID
	}

	snap := st.Update()
	for i, v := range snap.Layout {
		if v.Placeholder {
			printWarning("%s has no images; it appears only in the layout file", v.Widget)
		}
		if specs[i].image == "" {
			continue
		}
		if _, err := st.Select(ids[i], specs[i].image); err != nil {
			return fmt.Errorf("%s: %w", specs[i].widget, err)
		}
	}
	return nil
}
