package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brewtower/pkg/brew"
)

func (c *CLI) ingredientsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ingredients",
		Aliases: []string{"ing"},
		Short:   "Browse and edit the ingredient catalog",
	}
	cmd.AddCommand(
		c.ingredientsListCommand(),
		c.ingredientsSearchCommand(),
		c.ingredientsAddCommand(),
		c.ingredientsDeleteCommand(),
	)
	return cmd
}

func (c *CLI) ingredientsListCommand() *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog ingredients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.showIngredients(cmd, "", typ)
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "", "grain, hop or yeast")
	return cmd
}

func (c *CLI) ingredientsSearchCommand() *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find ingredients by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.showIngredients(cmd, args[0], typ)
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "", "grain, hop or yeast")
	return cmd
}

func (c *CLI) showIngredients(cmd *cobra.Command, query, typ string) error {
	t, err := brew.ParseIngredientType(typ)
	if err != nil {
		return err
	}
	bs, err := c.openBackend(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer bs.Close()
	var items []brew.Ingredient
	if query == "" && t == "" {
		items, err = bs.client.Ingredients(cmd.Context())
	} else {
		items, err = bs.client.SearchIngredients(cmd.Context(), query, t)
	}
	if err != nil {
		return err
	}
	if len(items) == 0 {
		printInfo("No ingredients")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), ingredientsTable(items))
	return nil
}

func (c *CLI) ingredientsAddCommand() *cobra.Command {
	var ing brew.Ingredient
	var typ string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom ingredient",
		Long: `Add a custom ingredient. Values left at zero get the catalog defaults:
37 PPG and 2 °L for grains, 5% alpha acid for hops, Ale for yeasts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := brew.ParseIngredientType(typ)
			if err != nil {
				return err
			}
			if t == "" {
				return fmt.Errorf("--type is required")
			}
			ing.Name = args[0]
			ing.Type = t

			bs, err := c.openBackend(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer bs.Close()
			added, err := bs.client.AddIngredient(cmd.Context(), ing.WithDefaults())
			if err != nil {
				return err
			}
			printSuccess("Added %s %q as #%d", added.Type, added.Name, added.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "", "grain, hop or yeast (required)")
	cmd.Flags().Float64Var(&ing.PPG, "ppg", 0, "grain potential, points per pound per gallon")
	cmd.Flags().Float64Var(&ing.Lovibond, "lovibond", 0, "grain color in °L")
	cmd.Flags().Float64Var(&ing.Alpha, "alpha", 0, "hop alpha acid percentage")
	cmd.Flags().StringVar(&ing.YeastType, "yeast-type", "", "yeast type, e.g. Ale or Lager")
	return cmd
}

func (c *CLI) ingredientsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an ingredient by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid ingredient id %q", args[0])
			}
			bs, err := c.openBackend(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer bs.Close()
			if err := bs.client.DeleteIngredient(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess("Deleted ingredient #%d", id)
			return nil
		},
	}
}

func ingredientsTable(items []brew.Ingredient) string {
	rows := make([][]string, 0, len(items))
	for _, i := range items {
		rows = append(rows, []string{strconv.Itoa(i.ID), i.Name, string(i.Type), ingredientDetail(i)})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Type", "Values").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 {
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func ingredientDetail(i brew.Ingredient) string {
	switch i.Type {
	case brew.GrainType:
		return fmt.Sprintf("%g ppg, %g °L", i.PPG, i.Lovibond)
	case brew.HopType:
		return fmt.Sprintf("%g%% AA", i.Alpha)
	case brew.YeastType:
		return i.YeastType
	}
	return ""
}
