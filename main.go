// Command dailynews harvests a curated list of web feeds and writes
// the recent, deduplicated selection to a material group on disk.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ge-xing/DailyNews/pkg/config"
	"github.com/ge-xing/DailyNews/pkg/feedlist"
	"github.com/ge-xing/DailyNews/pkg/fetcher"
	"github.com/ge-xing/DailyNews/pkg/logger"
	"github.com/ge-xing/DailyNews/pkg/materials"
	"github.com/ge-xing/DailyNews/pkg/pipeline"
	"github.com/ge-xing/DailyNews/pkg/selector"
)

type cliFlags struct {
	configPath        string
	sourceURL         string
	feedListFile      string
	windowHours       float64
	maxFeeds          int
	maxPerSource      int
	maxWorkers        int
	feedTimeoutSec    int
	articleTimeoutSec int
	outputDir         string
	dateLabel         string
	groupName         string
	dryRun            bool
	quiet             bool
}

func main() {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:   "dailynews",
		Short: "Harvest recent entries from a curated feed list",
		Long: "dailynews resolves candidate feed URLs from a source document, fetches\n" +
			"them concurrently, selects entries from a trailing time window, enriches\n" +
			"them with article excerpts, and writes the result as a material group.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	f.StringVar(&flags.sourceURL, "gist-url", "", "feed list URL (gist or web page)")
	f.StringVar(&flags.feedListFile, "feed-list-file", "", "read feed URLs from a local file instead of --gist-url")
	f.Float64Var(&flags.windowHours, "window-hours", 0, "only keep entries published in this recent window")
	f.IntVar(&flags.maxFeeds, "max-feeds", 0, "max feed URLs extracted from the source document (<=0 keeps all)")
	f.IntVar(&flags.maxPerSource, "max-per-source", 0, "max selected entries per feed source")
	f.IntVar(&flags.maxWorkers, "max-workers", 0, "worker pool size for concurrent fetches")
	f.IntVar(&flags.feedTimeoutSec, "feed-timeout", 0, "per-feed request timeout in seconds")
	f.IntVar(&flags.articleTimeoutSec, "article-timeout", 0, "per-article request timeout in seconds")
	f.StringVar(&flags.outputDir, "output-dir", "", "directory for material group output")
	f.StringVar(&flags.dateLabel, "date", "", "date label used in output naming")
	f.StringVar(&flags.groupName, "material-group-name", "", "material group name (without date prefix)")
	f.BoolVar(&flags.dryRun, "dry-run", false, "fetch and print stats only, skip writing output")
	f.BoolVar(&flags.quiet, "quiet", false, "suppress progress bars")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, flags *cliFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, flags, cfg)

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		return err
	}
	defer logger.Sync()

	dateLabel := flags.dateLabel
	if dateLabel == "" {
		dateLabel = time.Now().Format("2006-01-02")
	}

	pipeCfg := pipeline.Config{
		SourceURL:      cfg.Harvest.SourceURL,
		SourceFile:     cfg.Harvest.FeedListFile,
		MaxFeeds:       cfg.Harvest.MaxFeeds,
		Window:         time.Duration(cfg.Harvest.WindowHours * float64(time.Hour)),
		MaxPerSource:   cfg.Harvest.MaxPerSource,
		Workers:        cfg.Harvest.MaxWorkers,
		FeedTimeout:    time.Duration(cfg.Harvest.FeedTimeoutSeconds) * time.Second,
		ArticleTimeout: time.Duration(cfg.Harvest.ArticleTimeoutSeconds) * time.Second,
	}
	if !flags.quiet {
		pipeCfg.FetchProgress = progressBar("Fetching feeds")
		pipeCfg.EnrichProgress = progressBar("Fetching articles")
	}

	result, err := pipeline.New(pipeCfg).Run(cmd.Context())
	if err != nil {
		var emptyWindow *selector.EmptyWindowError
		switch {
		case errors.Is(err, feedlist.ErrNoCandidates):
			return fmt.Errorf("%w: nothing to fetch from the configured source", err)
		case errors.As(err, &emptyWindow):
			return fmt.Errorf("%w: try increasing --window-hours", err)
		}
		return err
	}

	fmt.Fprintf(os.Stderr, "[Fetch] feeds=%d ok=%d failed=%d selected_items=%d\n",
		result.Stats.FeedsTotal, result.Stats.FeedsOK, result.Stats.FeedsFailed, result.Stats.ItemsInWindow)

	if flags.dryRun {
		fmt.Fprintf(os.Stderr, "[Dry Run] material group not written (%d entries)\n", len(result.Entries))
		return nil
	}

	groupDir, err := materials.WriteGroup(cfg.Output.Dir, dateLabel, cfg.Output.MaterialGroupName, result.Entries)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "[Materials] %s\n", groupDir)
	return nil
}

// applyFlagOverrides lets explicitly set flags win over config values.
func applyFlagOverrides(cmd *cobra.Command, flags *cliFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("gist-url") {
		cfg.Harvest.SourceURL = flags.sourceURL
		cfg.Harvest.FeedListFile = ""
	}
	if changed("feed-list-file") {
		cfg.Harvest.FeedListFile = flags.feedListFile
	}
	if changed("window-hours") {
		cfg.Harvest.WindowHours = flags.windowHours
	}
	if changed("max-feeds") {
		cfg.Harvest.MaxFeeds = flags.maxFeeds
	}
	if changed("max-per-source") {
		cfg.Harvest.MaxPerSource = flags.maxPerSource
	}
	if changed("max-workers") {
		cfg.Harvest.MaxWorkers = flags.maxWorkers
	}
	if changed("feed-timeout") {
		cfg.Harvest.FeedTimeoutSeconds = flags.feedTimeoutSec
	}
	if changed("article-timeout") {
		cfg.Harvest.ArticleTimeoutSeconds = flags.articleTimeoutSec
	}
	if changed("output-dir") {
		cfg.Output.Dir = flags.outputDir
	}
	if changed("material-group-name") {
		cfg.Output.MaterialGroupName = flags.groupName
	}
}

// progressBar renders a fixed-width bar on stderr after each task
// completion.
func progressBar(label string) fetcher.Progress {
	const width = 28
	return func(done, total, succeeded, failed int) {
		if total <= 0 {
			return
		}
		ratio := float64(done) / float64(total)
		if ratio > 1 {
			ratio = 1
		}
		filled := int(width * ratio)
		bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
		fmt.Fprintf(os.Stderr, "\r%s [%s] %d/%d | ok %d failed %d", label, bar, done, total, succeeded, failed)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	}
}
