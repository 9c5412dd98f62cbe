package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/windowstash/internal/view"
)

var iconCmd = &cobra.Command{
	Use:   "icon <class>...",
	Short: "Print the glyph for a window class",
	Long: `Print the glyph windowstash shows for each window class, using the
[icons] settings from the config file.

Examples:
  windowstash icon firefox
  windowstash icon Google-chrome org.wezfurlong.wezterm`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIcon,
}

func init() {
	rootCmd.AddCommand(iconCmd)
}

func runIcon(cmd *cobra.Command, args []string) error {
	resolver := view.ResolverFromConfig(cfg.Icons)
	if len(args) == 1 {
		fmt.Println(resolver.Resolve(args[0]))
		return nil
	}
	for _, class := range args {
		fmt.Printf("%s\t%s\n", resolver.Resolve(class), class)
	}
	return nil
}
