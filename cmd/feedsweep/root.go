package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/daehyun-ko/feedsweep/internal/config"
	"github.com/daehyun-ko/feedsweep/internal/core"
)

var (
	cfgFile       string
	feedPath      string
	feedStdin     bool
	feedURL       string
	nodePattern   string
	targetCount   int
	reversed      bool
	caseSensitive bool
	contains      []string
	outputPath    string
	outputFormat  string
	noColor       bool
	autoEngage    bool
	useTUI        bool
	noStats       bool

	rootCmd = &cobra.Command{
		Use:   "feedsweep",
		Short: "feedsweep filters a social activity feed and keeps paginating for you",
		Long: `feedsweep removes feed entries matching configured content conditions
(or, in reversed mode, entries failing to match) and keeps invoking the
page's own "load more" control until enough entries survive or you cancel.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return core.Run(ctx, cfg, core.RunOptions{
				TUI:        useTUI,
				AutoEngage: autoEngage,
				ShowStats:  !noStats,
			})
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/feedsweep/feedsweep.yaml)")
	rootCmd.Flags().StringVarP(&feedPath, "feed", "f", "", "feed replay fixture (YAML)")
	rootCmd.Flags().BoolVar(&feedStdin, "stdin", false, "read feed nodes from stdin")
	rootCmd.Flags().StringVar(&feedURL, "url", "", "page URL for surface allow-listing")
	rootCmd.Flags().StringVar(&nodePattern, "pattern", "", "node line pattern for stdin mode")
	rootCmd.Flags().IntVarP(&targetCount, "target", "t", 0, "stop once this many entries survive")
	rootCmd.Flags().BoolVarP(&reversed, "reversed", "r", false, "keep only entries matching the conditions")
	rootCmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "case-sensitive string matching")
	rootCmd.Flags().StringSliceVar(&contains, "contains", nil, "remove entries containing any of these strings")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write decisions to a file instead of stdout")
	rootCmd.Flags().StringVar(&outputFormat, "format", "", "decision output format: text or json")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Flags().BoolVarP(&autoEngage, "auto", "a", false, "engage pagination without waiting for a load-more click")
	rootCmd.Flags().BoolVar(&useTUI, "tui", false, "interactive dashboard")
	rootCmd.Flags().BoolVar(&noStats, "no-stats", false, "skip the summary after the sweep")

	rootCmd.Flags().BoolVar(&removeUncommented, "uncommented", false, "remove entries without comments")
	rootCmd.Flags().BoolVar(&removeUnliked, "unliked", false, "remove entries without likes")
	rootCmd.Flags().BoolVar(&removeTextOnly, "text-only", false, "remove text-only entries")
	rootCmd.Flags().BoolVar(&removeHasImage, "has-image", false, "remove entries with images")
	rootCmd.Flags().BoolVar(&removeHasVideo, "has-video", false, "remove entries with videos")
}

var (
	removeUncommented bool
	removeUnliked     bool
	removeTextOnly    bool
	removeHasImage    bool
	removeHasVideo    bool
)

// applyFlags overlays explicitly set flags on the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if feedPath != "" {
		cfg.Feed.Path = feedPath
	}
	if feedStdin {
		cfg.Feed.Stdin = true
	}
	if feedURL != "" {
		cfg.Feed.URL = feedURL
	}
	if nodePattern != "" {
		cfg.Feed.Pattern = nodePattern
	}
	if cmd.Flags().Changed("target") {
		cfg.Options.TargetCount = targetCount
	}
	if cmd.Flags().Changed("reversed") {
		cfg.Options.Reversed = reversed
	}
	if cmd.Flags().Changed("case-sensitive") {
		cfg.Options.CaseSensitive = caseSensitive
	}
	if len(contains) > 0 {
		for _, s := range contains {
			cfg.Remove.ContainsStrings = append(cfg.Remove.ContainsStrings, s)
		}
	}
	if outputPath != "" {
		cfg.Output.Path = outputPath
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if noColor {
		cfg.Output.Color = false
	}
	if removeUncommented {
		cfg.Remove.Uncommented = true
	}
	if removeUnliked {
		cfg.Remove.Unliked = true
	}
	if removeTextOnly {
		cfg.Remove.TextOnly = true
	}
	if removeHasImage {
		cfg.Remove.HasImage = true
	}
	if removeHasVideo {
		cfg.Remove.HasVideo = true
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
