package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/brewtower/pkg/buildinfo"
)

// RootCommand creates the brewtower command with every subcommand
// registered. Configuration is loaded once in the persistent pre-run, after
// flags are parsed.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "brewtower",
		Short: "Brewtower compares beer recipes with BJCP style guidelines",
		Long: `Brewtower manages beer recipes, computes their gravity, bitterness and
color, and charts how those statistics sit within a BJCP style's ranges.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.serverURL, "server", "", "backend URL (default from config, http://localhost:5000)")
	flags.StringVar(&c.configPath, "config", "", "config file (default ~/.config/brewtower/config.toml)")
	flags.BoolVar(&c.noCache, "no-cache", false, "bypass the local cache")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.stylesCommand())
	root.AddCommand(c.chartCommand())
	root.AddCommand(c.recipesCommand())
	root.AddCommand(c.ingredientsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
