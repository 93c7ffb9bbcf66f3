package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brewtower/pkg/brew"
	pkgio "github.com/matzehuels/brewtower/pkg/io"
	"github.com/matzehuels/brewtower/pkg/render/diagram"
)

func (c *CLI) recipesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"recipe"},
		Short:   "Manage recipes in the backend's recipe directory",
	}
	cmd.AddCommand(
		c.recipesListCommand(),
		c.recipesShowCommand(),
		c.recipesSearchCommand(),
		c.recipesDeleteCommand(),
		c.recipesTagsCommand(),
		c.recipesImportCommand(),
		c.recipesExportCommand(),
		c.recipesDiagramCommand(),
	)
	return cmd
}

func (c *CLI) recipesListCommand() *cobra.Command {
	var tag string
	var summary, asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes, optionally filtered by tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := c.openBackend(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer bs.Close()
			recipes, err := bs.client.Recipes(cmd.Context())
			if err != nil {
				return err
			}
			recipes = brew.FilterByTag(recipes, tag)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), recipes)
			}
			if len(recipes) == 0 {
				printInfo("No recipes")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), recipesTable(recipes))
			if summary {
				printSummary(brew.Summarize(recipes))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "only recipes carrying this tag")
	cmd.Flags().BoolVar(&summary, "summary", false, "print collection statistics")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (c *CLI) recipesSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find recipes by name, brewer, style or tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := c.openBackend(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer bs.Close()
			recipes, err := bs.client.SearchRecipes(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(recipes) == 0 {
				printInfo("No recipes match %q", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), recipesTable(recipes))
			return nil
		},
	}
}

func (c *CLI) recipesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <filename>",
		Short: "Show a stored recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := c.openBackend(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer bs.Close()
			r, err := bs.client.Recipe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printRecipe(r)
			return nil
		},
	}
}

func (c *CLI) recipesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <filename>",
		Short: "Delete a stored recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := c.openBackend(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer bs.Close()
			if err := bs.client.DeleteRecipe(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

func (c *CLI) recipesTagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <filename> [tags]",
		Short: "Show or replace a recipe's comma-separated tags",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := c.openBackend(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer bs.Close()
			if len(args) == 1 {
				r, err := bs.client.Recipe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), r.Tags)
				return nil
			}
			r, err := bs.client.SetTags(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printSuccess("Tagged %s: %s", r.Filename, formatTags(r.Tags))
			return nil
		},
	}
}

func (c *CLI) recipesImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json|file.xml>",
		Short: "Store a local JSON or BeerXML recipe in the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := c.openBackend(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer bs.Close()

			doc, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var saved *brew.Recipe
			if pkgio.Detect(doc) == pkgio.FormatBeerXML {
				saved, err = bs.client.ImportRecipe(cmd.Context(), doc)
			} else {
				var r *brew.Recipe
				if r, err = pkgio.ImportRecipe(args[0]); err == nil {
					saved, err = bs.client.CreateRecipe(cmd.Context(), r)
				}
			}
			if err != nil {
				return err
			}
			printSuccess("Imported %s", saved.Name)
			printKeyValue("File", saved.Filename)
			printKeyValue("Stats", statsLine(saved.Stats))
			printNextStep("Compare it with a style", "brewtower chart "+saved.Filename+" --style 21A")
			return nil
		},
	}
}

func (c *CLI) recipesExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <filename>",
		Short: "Export a stored recipe as BeerXML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := c.openBackend(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer bs.Close()
			doc, err := bs.client.ExportRecipe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(doc)
				return err
			}
			if err := os.WriteFile(output, doc, 0o644); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) recipesDiagramCommand() *cobra.Command {
	var output string
	var detailed bool
	cmd := &cobra.Command{
		Use:   "diagram <filename|file.json|file.xml>",
		Short: "Draw a recipe's ingredient graph as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := c.openBackend(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer bs.Close()
			r, err := resolveRecipe(cmd.Context(), bs.client, args[0])
			if err != nil {
				return err
			}
			dot := diagram.ToDOT(r, diagram.Options{Detailed: detailed})
			if strings.EqualFold(filepath.Ext(output), ".dot") {
				if err := os.WriteFile(output, []byte(dot), 0o644); err != nil {
					return err
				}
				printFile(output)
				return nil
			}
			svg, err := diagram.RenderSVG(cmd.Context(), dot)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])) + "_diagram.svg"
			}
			if err := os.WriteFile(output, svg, 0o644); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.svg or .dot)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with amounts and ingredient values")
	return cmd
}

func recipesTable(recipes []brew.Recipe) string {
	rows := make([][]string, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, []string{
			r.Filename,
			r.Name,
			r.Style,
			fmt.Sprintf("%.3f", r.OG),
			fmt.Sprintf("%.1f", r.IBU),
			fmt.Sprintf("%.1f", r.SRM),
			r.Tags,
		})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("File", "Name", "Style", "OG", "IBU", "SRM", "Tags").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return StyleHighlight
			case col == 6:
				return styleTag
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func printSummary(s brew.Summary) {
	fmt.Println()
	fmt.Println(StyleTitle.Render(fmt.Sprintf("%d recipes", s.Count)))
	printKeyValue("Mean OG", fmt.Sprintf("%.3f", s.MeanOG))
	printKeyValue("Mean IBU", fmt.Sprintf("%.1f", s.MeanIBU))
	printKeyValue("Median IBU", fmt.Sprintf("%.1f", s.MedianIBU))
	printKeyValue("Max IBU", fmt.Sprintf("%.1f", s.MaxIBU))
	printKeyValue("Mean SRM", fmt.Sprintf("%.1f", s.MeanSRM))
}
