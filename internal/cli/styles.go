package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brewtower/pkg/brew"
)

func (c *CLI) stylesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "styles",
		Short: "Browse the BJCP style catalog",
	}
	cmd.AddCommand(c.stylesListCommand())
	cmd.AddCommand(c.stylesShowCommand())
	cmd.AddCommand(c.stylesRefreshCommand())
	return cmd
}

func (c *CLI) stylesListCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every style with its ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			styles, err := c.fetchStyles(cmd, false)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), styles)
			}
			fmt.Fprintln(cmd.OutOrStdout(), stylesTable(styles))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (c *CLI) stylesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one style",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := c.openBackend(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer bs.Close()
			cat, err := c.loadCatalog(cmd.Context(), bs.client, bs.cache, false)
			if err != nil {
				return err
			}
			st, err := cat.Lookup(args[0])
			if err != nil {
				return err
			}
			printStyle(st)
			return nil
		},
	}
}

func (c *CLI) stylesRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refetch the catalog from the backend, bypassing the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()))
			styles, err := c.fetchStyles(cmd, true)
			if err != nil {
				return err
			}
			prog.done("catalog refreshed", "styles", len(styles))
			printSuccess("Refreshed %d styles from %s", len(styles), c.config().Backend.URL)
			return nil
		},
	}
}

func (c *CLI) fetchStyles(cmd *cobra.Command, refresh bool) ([]brew.Style, error) {
	bs, err := c.openBackend(cmd.Context(), refresh)
	if err != nil {
		return nil, err
	}
	defer bs.Close()
	cat, err := c.loadCatalog(cmd.Context(), bs.client, bs.cache, refresh)
	if err != nil {
		return nil, err
	}
	return cat.Styles(), nil
}

func stylesTable(styles []brew.Style) string {
	rows := make([][]string, 0, len(styles))
	for _, s := range styles {
		rows = append(rows, []string{s.ID, s.Name, s.OG.String(), s.FG.String(), s.IBU.String(), s.SRM.String()})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Style", "OG", "FG", "IBU", "SRM").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
