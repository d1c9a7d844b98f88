package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figslides/pkg/cache"
	"github.com/matzehuels/figslides/pkg/config"
	"github.com/matzehuels/figslides/pkg/errors"
)

// cacheCommand groups the subcommands that inspect and empty the local
// file cache. Redis entries expire on their own and are not touched here.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local plan and artifact cache",
	}
	cmd.AddCommand(
		c.cacheInfoCommand(),
		c.cachePruneCommand(),
		c.cacheClearCommand(),
		c.cachePathCommand(),
	)
	return cmd
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache backend, location and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			printKeyValue("backend", c.Config.Cache.Backend)
			fc, err := c.localCache()
			if err != nil || fc == nil {
				return err
			}
			st, err := fc.Stats()
			if err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "read cache")
			}
			printKeyValue("directory", fc.Dir())
			printKeyValue("entries", fmt.Sprintf("%d (%d expired)", st.Entries, st.Expired))
			printKeyValue("size", humanBytes(st.Bytes))
			return nil
		},
	}
}

func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.localCache()
			if err != nil || fc == nil {
				return err
			}
			n, err := fc.Prune()
			if err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "prune cache")
			}
			printSuccess("Removed %d expired entries", n)
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached plans and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.localCache()
			if err != nil || fc == nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "clear cache")
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir(c.Config)
			if err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "get cache dir")
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// localCache opens the configured file cache. It returns nil without an
// error, after telling the user, when there is nothing local to act on.
func (c *CLI) localCache() (*cache.FileCache, error) {
	if c.Config.Cache.Backend != config.BackendFile {
		printInfo("Cache backend is %s; nothing stored locally", c.Config.Cache.Backend)
		return nil, nil
	}
	dir, err := cacheDir(c.Config)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "get cache dir")
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open cache")
	}
	return fc, nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
