package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/gantta/pkg/config"
)

var (
	v       = config.New()
	cfg     *config.Config
	timeNow = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "gantta",
	Short: "Render project Gantt charts with milestone markers",
	Long: `gantta reads tasks (name, start, end, effort %) and milestones from
schedule files, Org files or Taskwarrior, and renders a Gantt chart as an
interactive HTML page or an SVG image. Milestones can also be published to
a Google Calendar as all-day events.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}
		setupLogging(cfg.LogLevel)
		return nil
	},
}

var setupOnce sync.Once

func setup() {
	setupOnce.Do(func() {
		addPersistentFlags()
		registerCommands()
	})
}

func main() {
	setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPersistentFlags() {
	pf := rootCmd.PersistentFlags()
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.Bool("include-today", false, "widen the chart to today and draw a Today marker")
	pf.String("title", "", "chart title (overrides the schedule file)")
	pf.StringSlice("taskwarrior", nil, "add tasks from `task <filter> export`")
	pf.String("tag", "", "only keep tasks carrying this tag")
	_ = v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = v.BindPFlag("include_today", pf.Lookup("include-today"))
	_ = v.BindPFlag("title", pf.Lookup("title"))
}

func registerCommands() {
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(tableCmd())
	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(publishCmd())
	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(setCalendarCmd())
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
