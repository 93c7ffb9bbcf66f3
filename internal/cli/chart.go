package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brewtower/pkg/backend"
	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/catalog"
	pkgio "github.com/matzehuels/brewtower/pkg/io"
	"github.com/matzehuels/brewtower/pkg/pipeline"
	"github.com/matzehuels/brewtower/pkg/render"
	"github.com/matzehuels/brewtower/pkg/session"
)

type chartOpts struct {
	output  string
	formats []render.Format
	styleID string
	pick    bool
	noStyle bool
	width   int
	scale   float64
	refresh bool
}

func (c *CLI) chartCommand() *cobra.Command {
	var opts chartOpts
	var formats string
	cmd := &cobra.Command{
		Use:   "chart <recipe.json|recipe.xml|stored-filename>",
		Short: "Compare a recipe with a BJCP style and write chart files",
		Long: `Chart computes a recipe's OG, IBU and SRM through the backend and draws them
against a style's ranges. The style comes from --style or --pick, then from the
last selection, then from the style written in the recipe. The selection is
remembered for the next run; --no-style forgets it and draws the plain values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := pipeline.ParseFormats(formats)
			if err != nil {
				return err
			}
			opts.formats = f
			if opts.noStyle && (opts.pick || opts.styleID != "") {
				return fmt.Errorf("--no-style cannot be combined with --style or --pick")
			}
			if opts.width == 0 {
				opts.width = c.config().Chart.Width
			}
			return c.runChart(cmd.Context(), args[0], &opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&formats, "format", "f", "svg", "output format(s): svg, png, pdf, html, json (comma-separated)")
	cmd.Flags().StringVar(&opts.styleID, "style", "", "BJCP style id, e.g. 21A")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose the style interactively")
	cmd.Flags().BoolVar(&opts.noStyle, "no-style", false, "clear the remembered style and draw plain values")
	cmd.Flags().IntVar(&opts.width, "width", 0, "chart width in pixels (default from config, 600)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached statistics and styles")
	return cmd
}

func (c *CLI) runChart(ctx context.Context, arg string, opts *chartOpts) error {
	logger := loggerFromContext(ctx)

	bs, err := c.openBackend(ctx, opts.refresh)
	if err != nil {
		return err
	}
	defer bs.Close()

	cat, err := c.loadCatalog(ctx, bs.client, bs.cache, opts.refresh)
	if err != nil {
		return err
	}
	rec, err := resolveRecipe(ctx, bs.client, arg)
	if err != nil {
		return err
	}

	sessions, sess := c.loadSession(ctx)
	style, changed, err := chooseStyle(cat, rec, sess, opts)
	if err != nil {
		return err
	}
	if opts.pick && !changed {
		printInfo("No style chosen")
		return nil
	}

	runner := pipeline.NewRunner(bs.client, cat, bs.cache, nil, logger)
	spin := newSpinner(ctx, "Calculating "+rec.Name)
	spin.Start()
	styleID := ""
	if style != nil {
		styleID = style.ID
	}
	res, err := runner.Execute(ctx, pipeline.Options{
		Recipe:  rec,
		StyleID: styleID,
		Formats: opts.formats,
		Width:   opts.width,
		Scale:   opts.scale,
		Refresh: opts.refresh,
		Logger:  logger,
	})
	if err != nil {
		spin.StopWithError("Chart failed")
		return err
	}
	spin.Stop()

	paths, err := writeArtifacts(res.Artifacts, opts.formats, chartBasePath(opts.output, arg, rec))
	if err != nil {
		return err
	}

	title := rec.Name
	if style != nil {
		title += StyleDim.Render(" vs ") + style.Label()
	}
	fmt.Println(StyleTitle.Render(title))
	printStats(res.Stats, res.CacheInfo.StatsHit)
	fmt.Print(renderBars(res.Comparison))
	for _, p := range paths {
		printFile(p)
	}

	if sessions != nil && changed {
		sess.StyleID = styleID
		stats := res.Stats
		sess.Stats = &stats
		sess.ExpiresAt = time.Now().Add(session.DefaultTTL)
		if err := sessions.Set(ctx, sess); err != nil {
			logger.Warn("could not remember style selection", "error", err)
		}
	}
	return nil
}

// resolveRecipe reads arg as a local JSON or BeerXML file when one exists,
// otherwise fetches it from the backend's recipe store.
func resolveRecipe(ctx context.Context, client *backend.Client, arg string) (*brew.Recipe, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return pkgio.ImportRecipe(arg)
	}
	return client.Recipe(ctx, arg)
}

// loadSession returns the CLI session, creating it on first use. A broken
// session store is logged and ignored.
func (c *CLI) loadSession(ctx context.Context) (session.Store, *session.Session) {
	logger := loggerFromContext(ctx)
	store, err := c.sessionStore()
	if err != nil {
		logger.Warn("session store unavailable", "error", err)
		return nil, session.New("", session.DefaultTTL)
	}
	sess, err := store.Get(ctx, session.CLISessionID)
	if err != nil {
		logger.Warn("could not read saved selection", "error", err)
	}
	if sess == nil {
		sess = session.New("", session.DefaultTTL)
		sess.ID = session.CLISessionID
	}
	return store, sess
}

// chooseStyle applies the precedence documented on the chart command.
// changed reports whether the selection should be saved.
func chooseStyle(cat *catalog.Catalog, rec *brew.Recipe, sess *session.Session, opts *chartOpts) (style *brew.Style, changed bool, err error) {
	switch {
	case opts.noStyle:
		return nil, true, nil
	case opts.pick:
		picked, ok, err := pickStyle(cat.Styles(), sess.StyleID)
		if err != nil || !ok {
			return nil, false, err
		}
		return picked, true, nil
	case opts.styleID != "":
		st, err := cat.Lookup(opts.styleID)
		if err != nil {
			return nil, false, err
		}
		return &st, true, nil
	case sess.StyleID != "":
		if st, err := cat.Lookup(sess.StyleID); err == nil {
			return &st, false, nil
		}
	}
	if st, ok := cat.FindByName(rec.Style); ok {
		return &st, false, nil
	}
	return nil, false, nil
}

// chartBasePath picks the output base: --output without a chart extension,
// else the input file without its extension, else the recipe filename.
func chartBasePath(output, arg string, rec *brew.Recipe) string {
	if output != "" {
		ext := filepath.Ext(output)
		if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if _, err := os.Stat(arg); err == nil {
		return strings.TrimSuffix(arg, filepath.Ext(arg))
	}
	name := rec.Filename
	if name == "" {
		name = brew.DefaultFilename(rec.Name)
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func writeArtifacts(artifacts map[render.Format][]byte, formats []render.Format, base string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + string(f)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
