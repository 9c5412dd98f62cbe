package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/windowstash/internal/adapter/output"
	"github.com/jmylchreest/windowstash/internal/core"
	"github.com/jmylchreest/windowstash/internal/model"
	"github.com/jmylchreest/windowstash/internal/view"
)

var listOpts struct {
	// Filter options
	class  string
	search string
	limit  int

	// Sort options
	sortBy    string
	sortOrder string

	// Output options
	format    string
	template  string
	withIcons bool
	classes   bool
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stashed windows",
	Long: `List the windows currently stashed by hypr-minimizer.

Windows are listed in stash order: the last entry is the most recently
minimized one.

Examples:
  # Human-readable list
  windowstash list

  # Only kitty windows, newest first
  windowstash list --class kitty --order desc

  # JSON with resolved glyphs
  windowstash list --format json --icons

  # Feed a launcher and restore the choice by address
  windowstash list --format dmenu | fuzzel -d`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listOpts.class, "class", "",
		"Filter by window class (case-insensitive)")
	listCmd.Flags().StringVarP(&listOpts.search, "search", "s", "",
		"Search in titles and class")
	listCmd.Flags().IntVarP(&listOpts.limit, "limit", "n", 0,
		"Maximum number of windows to show (0=unlimited)")

	listCmd.Flags().StringVar(&listOpts.sortBy, "sort", "stash",
		"Sort by field (stash, class, title)")
	listCmd.Flags().StringVar(&listOpts.sortOrder, "order", "asc",
		"Sort order (asc, desc)")

	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", "plain",
		fmt.Sprintf("Output format (%s)", formatNames()))
	listCmd.Flags().StringVar(&listOpts.template, "template", "",
		"Custom Go template for dmenu output")
	listCmd.Flags().BoolVar(&listOpts.withIcons, "icons", false,
		"Include resolved glyphs in json/yaml output")
	listCmd.Flags().BoolVar(&listOpts.classes, "classes", false,
		"Only print the distinct window classes")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	format, err := output.ParseFormat(listOpts.format)
	if err != nil {
		return err
	}
	sortOpts, err := parseSortOptions(listOpts.sortBy, listOpts.sortOrder)
	if err != nil {
		return err
	}

	windows := core.Sort(readWindows(ctx), sortOpts)
	windows = core.Filter(windows, core.FilterOptions{
		Class:  listOpts.class,
		Search: listOpts.search,
		Limit:  listOpts.limit,
	})
	logger.Debug("listing windows", "count", len(windows), "format", format)

	if listOpts.classes {
		for _, class := range core.UniqueClasses(windows) {
			fmt.Println(class)
		}
		return nil
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = listOpts.template
	opts.WithIcons = listOpts.withIcons
	opts.Resolver = view.ResolverFromConfig(cfg.Icons)

	return output.NewFormatter(format, opts).Format(os.Stdout, windows)
}

func parseSortOptions(field, order string) (core.SortOptions, error) {
	f, err := core.ParseSortField(field)
	if err != nil {
		return core.SortOptions{}, err
	}
	o, err := core.ParseSortOrder(order)
	if err != nil {
		return core.SortOptions{}, err
	}
	return core.SortOptions{Field: f, Order: o}, nil
}

func formatNames() string {
	names := make([]string, 0, len(output.ValidFormats()))
	for _, f := range output.ValidFormats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// resolveRef picks a window from the stash by reference, honouring the
// --first/--last shortcuts.
func resolveRef(windows []model.MinimizedWindow, args []string, first bool) (model.MinimizedWindow, error) {
	ref := "last"
	if len(args) > 0 {
		ref = args[0]
	} else if first {
		ref = "first"
	}
	return core.Select(windows, ref)
}
