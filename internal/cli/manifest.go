package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wireframe/pkg/catalog"
	"github.com/matzehuels/wireframe/pkg/config"
)

// manifestCommand creates the manifest command.
func (c *CLI) manifestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Generate and inspect the widget manifest",
	}

	cmd.AddCommand(c.manifestGenerateCommand())
	cmd.AddCommand(c.manifestListCommand())
	cmd.AddCommand(c.manifestPublishCommand())

	return cmd
}

// manifestGenerateCommand creates the "manifest generate" subcommand.
func (c *CLI) manifestGenerateCommand() *cobra.Command {
	var root, output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Scan the asset folders and write manifest.json",
		Long: `Scan <root>/img_wireframes/<widget>/ for .webp and .png images and
<root>/kadence_wireframes/<widget>/ for .html fragments, and write the
result as manifest.json.

Widgets are sorted by name and files in natural order, so hero_2.webp
comes before hero_10.webp.`,
		Example: `  wireframe manifest generate
  wireframe manifest generate --root ./site -o ./site/manifest.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("root") {
				cfg.Assets.Root = root
			}
			if output == "" {
				output = defaultManifestPath(cfg)
			}

			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			cat, err := catalog.Generate(cfg.Assets.ImagePath(), cfg.Assets.HTMLPath())
			if err != nil {
				return err
			}
			if err := catalog.WriteFile(cat, output); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Scanned %d widgets", cat.Len()))

			printSuccess("Manifest written with %d widgets", cat.Len())
			printFile(output)
			printNewline()
			printNextStep("Start the studio", appName+" serve")
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "directory holding the asset folders")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <root>/manifest.json)")

	return cmd
}

// manifestListCommand creates the "manifest list" subcommand.
func (c *CLI) manifestListCommand() *cobra.Command {
	var manifest string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the widgets of the configured manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if manifest != "" {
				setManifest(cfg, manifest)
			}

			cat, err := catalogSource(cfg).Load(cmd.Context())
			if err != nil {
				return err
			}
			if cat.Len() == 0 {
				printInfo("The manifest has no widgets")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCatalogTable(cat))
			return nil
		},
	}

	cmd.Flags().StringVar(&manifest, "manifest", "", "manifest file path or http(s) URL")

	return cmd
}

// manifestPublishCommand creates the "manifest publish" subcommand.
func (c *CLI) manifestPublishCommand() *cobra.Command {
	var uri, database, collection string

	cmd := &cobra.Command{
		Use:   "publish [manifest.json]",
		Short: "Publish a manifest to a MongoDB collection",
		Long: `Publish the widgets of a manifest file to MongoDB, one document per
widget. Widgets already in the collection are replaced; a studio configured
with catalog.source = "mongo" then serves them.`,
		Example: `  wireframe manifest publish --mongo-uri mongodb://localhost:27017
  wireframe manifest publish ./site/manifest.json --collection staging_widgets`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			path := cfg.ManifestPath()
			if len(args) == 1 {
				path = args[0]
			}
			if uri == "" {
				uri = cfg.Catalog.Mongo.URI
			}
			if uri == "" {
				return fmt.Errorf("no MongoDB URI: pass --mongo-uri or set WIREFRAME_MONGO_URI")
			}

			ctx := cmd.Context()
			spinner := newSpinnerWithContext(ctx, "Loading "+path+"...")
			spinner.Start()
			cat, err := catalog.FileSource{Path: path}.Load(ctx)
			if err != nil {
				spinner.StopWithError("Could not read " + path)
				return err
			}

			dst := catalog.MongoSource{
				URI:        uri,
				Database:   firstNonEmpty(database, cfg.Catalog.Mongo.Database),
				Collection: firstNonEmpty(collection, cfg.Catalog.Mongo.Collection),
			}
			spinner.SetMessage("Publishing to " + dst.String() + "...")
			n, err := dst.Publish(ctx, cat)
			if err != nil {
				spinner.StopWithError("Publish failed")
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Published %d widgets to %s", n, dst))
			return nil
		},
	}

	cmd.Flags().StringVar(&uri, "mongo-uri", "", "MongoDB connection URI")
	cmd.Flags().StringVar(&database, "database", "", "database name (default "+catalog.DefaultMongoDatabase+")")
	cmd.Flags().StringVar(&collection, "collection", "", "collection name (default "+catalog.DefaultMongoCollection+")")

	return cmd
}

// renderCatalogTable renders one row per widget with its file counts and
// the first few images.
func renderCatalogTable(cat *catalog.Catalog) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, cat.Len())
	for _, w := range cat.Widgets() {
		rows = append(rows, []string{
			w.Name,
			fmt.Sprint(len(w.Images)),
			fmt.Sprint(len(w.HTML)),
			summarizeFiles(w.Images, 3),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Widget", "Images", "HTML", "Files").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorAccent)
			case col == 3:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// summarizeFiles joins up to n names and counts the rest.
func summarizeFiles(files []string, n int) string {
	if len(files) == 0 {
		return "—"
	}
	if len(files) <= n {
		return strings.Join(files, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(files[:n], ", "), len(files)-n)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// defaultManifestPath is where generate writes when no --output is given.
func defaultManifestPath(cfg *config.Config) string {
	if cfg.Catalog.Source == config.SourceFile {
		return cfg.ManifestPath()
	}
	return filepath.Join(cfg.Assets.Root, catalog.DefaultManifest)
}
