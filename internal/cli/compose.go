package cli

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wireframe/pkg/errors"
	"github.com/matzehuels/wireframe/pkg/layout"
	"github.com/matzehuels/wireframe/pkg/studio"
)

// composeCommand creates the compose command.
func (c *CLI) composeCommand() *cobra.Command {
	opts := &exportOpts{}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a layout interactively in the terminal",
		Long: `Compose opens a terminal studio: pick widgets from the catalog, arrange
them, cycle through their preview images and export the bundle, all
without a browser. Exports are written to the output directory.`,
		Example: `  wireframe compose --project landing
  wireframe compose --root ./site -o ./exports --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if err := os.MkdirAll(opts.output, 0o755); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", opts.output)
			}

			cat, catErr := loadCatalog(ctx, cfg, logger)

			// Logs would corrupt the alternate screen.
			quiet := newLogger(io.Discard, LogInfo)
			exp, store, err := newExporter(ctx, cfg, newAssets(cfg, opts.assetsURL), opts.noCache, quiet)
			if err != nil {
				return err
			}
			defer store.Close()

			st := studio.New(studio.Options{
				Catalog:    cat,
				CatalogErr: catErr,
				Measurer:   layout.Rows{Height: 1},
				Rand:       newRand(cfg.Preview.Seed),
				Exporter:   exp,
				Logger:     quiet,
			})

			model := NewComposeModel(ctx, st, opts.project, opts.output)
			final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}

			if m, ok := final.(ComposeModel); ok && len(m.Exported()) > 0 {
				printSuccess("Exported %d bundles", len(m.Exported()))
				for _, path := range m.Exported() {
					printFile(path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.project, "project", "p", "", "project name for exports")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "directory exports are written to")
	cmd.Flags().StringVar(&opts.assetsURL, "assets-url", "", "load assets from a running studio instead of local folders")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "manifest file path or http(s) URL")
	cmd.Flags().StringVar(&opts.root, "root", ".", "directory holding the asset folders")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for random image picks (0 = random)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the export cache")

	return cmd
}
