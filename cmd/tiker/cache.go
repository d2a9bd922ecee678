package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// cacheCmd inspects and maintains the disk cache.
type cacheCmd struct {
	clear        bool
	clearExpired bool
}

func (*cacheCmd) Name() string     { return "cache" }
func (*cacheCmd) Synopsis() string { return "Show cache statistics or clear cached data." }
func (*cacheCmd) Usage() string {
	return `cache [-clear | -clear-expired]
  Without flags, print cache statistics. With -clear-expired, remove only
  entries past their TTL; with -clear, wipe the cache entirely.
`
}

func (c *cacheCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.clear, "clear", false, "remove every cache entry")
	f.BoolVar(&c.clearExpired, "clear-expired", false, "remove entries past their TTL")
}

func (c *cacheCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	defer a.close()

	switch {
	case c.clear:
		if err := a.cache.ClearAll(); err != nil {
			return fail(err)
		}
		fmt.Println("cache cleared")
	case c.clearExpired:
		removed := a.cache.ClearExpired()
		fmt.Printf("removed %d expired entries\n", removed)
	default:
		stats := a.cache.GetStats()
		fmt.Printf("items:     %d\n", stats.TotalItems)
		fmt.Printf("size:      %.2f MB\n", stats.TotalSizeMB)
		for dataType, count := range stats.ByType {
			fmt.Printf("  %-16s %d\n", dataType, count)
		}
		if stats.OldestItem != nil {
			fmt.Printf("oldest:    %s\n", stats.OldestItem.Format("2006-01-02 15:04:05"))
		}
		if stats.NewestItem != nil {
			fmt.Printf("newest:    %s\n", stats.NewestItem.Format("2006-01-02 15:04:05"))
		}
	}
	return subcommands.ExitSuccess
}
