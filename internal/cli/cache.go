package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brewtower/internal/config"
	"github.com/matzehuels/brewtower/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local style, statistics and chart cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config().Cache
			if cfg.Kind == config.CacheNone {
				printInfo("Caching is disabled")
				return nil
			}
			ch, err := c.newCache(cmd.Context())
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				return fmt.Errorf("%s cache cannot be cleared", cfg.Kind)
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Cleared %s cache", cfg.Kind)
			printDetail("%s", cacheLocation(cfg))
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(c.config().Cache))
			return nil
		},
	}
}

func cacheLocation(cfg config.CacheConfig) string {
	switch cfg.Kind {
	case config.CacheRedis:
		return "redis://" + cfg.RedisAddr
	case config.CacheNone:
		return "(disabled)"
	default:
		return cfg.Dir
	}
}
