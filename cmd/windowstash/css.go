package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/windowstash/internal/style"
)

var cssOpts struct {
	list bool
}

var cssCmd = &cobra.Command{
	Use:   "css [style]",
	Short: "Print the Waybar stylesheet for a bar style",
	Long: `Print the stylesheet for a bar style, with its imports inlined.

Without an argument the [bar] style from the config is used. Stylesheets in
~/.config/windowstash/styles/ override the bundled ones of the same name.

Example:
  windowstash css > ~/.config/waybar/windowstash.css
  # then in waybar style.css:
  @import "windowstash.css";`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCSS,
}

func init() {
	rootCmd.AddCommand(cssCmd)

	cssCmd.Flags().BoolVar(&cssOpts.list, "list", false,
		"List available styles")
}

func runCSS(cmd *cobra.Command, args []string) error {
	dir, err := style.Dir()
	if err != nil {
		logger.Debug("no user styles directory", "error", err)
		dir = ""
	}
	loader := style.NewLoader(dir, logger)

	if cssOpts.list {
		for _, name := range loader.List() {
			fmt.Println(name)
		}
		return nil
	}

	name := cfg.Bar.Style
	if len(args) > 0 {
		name = args[0]
	}
	sheet, err := loader.Load(name)
	if err != nil {
		return err
	}
	fmt.Print(sheet.CSS)
	return nil
}
