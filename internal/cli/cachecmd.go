package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsonkit/ecmason/pkg/cache"
)

// newCacheCmd creates the cache management command.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the format result cache",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())

	return cmd
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached format results",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache()
			if err != nil {
				return err
			}
			if err := fc.Clear(); err != nil {
				return err
			}
			printSuccess("Cleared cache")
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// newCachePathCmd creates the "cache path" subcommand.
func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache()
			if err != nil {
				return err
			}
			fmt.Println(fc.Dir())
			return nil
		},
	}
}

// openFileCache opens the configured file cache regardless of the enabled
// flag, so cache subcommands work even when caching is off.
func openFileCache() (*cache.FileCache, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}
	return fc.(*cache.FileCache), nil
}
