package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/gantta/pkg/auth"
	"github.com/harrisonrobin/gantta/pkg/chart"
	"github.com/harrisonrobin/gantta/pkg/config"
	"github.com/harrisonrobin/gantta/pkg/google"
	"github.com/harrisonrobin/gantta/pkg/index"
	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/overdue"
	"github.com/harrisonrobin/gantta/pkg/overlay"
	"github.com/harrisonrobin/gantta/pkg/render"
	"github.com/harrisonrobin/gantta/pkg/report"
	"github.com/harrisonrobin/gantta/pkg/schedule"
	"github.com/harrisonrobin/gantta/pkg/scheduleio"
)

func gather(cmd *cobra.Command, files []string) (*scheduleio.File, error) {
	filter, _ := cmd.Flags().GetStringSlice("taskwarrior")
	tag, _ := cmd.Flags().GetString("tag")
	if len(files) == 0 && len(filter) == 0 {
		return nil, fmt.Errorf("no input: pass schedule files or --taskwarrior")
	}
	return scheduleio.Gather(cmd.Context(), scheduleio.Sources{
		Files:             files,
		TaskwarriorFilter: filter,
		Tag:               tag,
	})
}

func chartOptions(sf *scheduleio.File) chart.Options {
	title := cfg.Title
	if title == "" {
		title = sf.Title
	}
	return chart.Options{
		Title:   title,
		Options: overlay.Options{IncludeToday: cfg.IncludeToday},
	}
}

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [FILE...]",
		Short: "Render the chart to HTML or SVG",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := v.GetString("output")
			format := v.GetString("format")
			if !cmd.Flags().Changed("format") {
				format = render.FormatFromPath(output, format)
			}
			renderer, err := render.ForFormat(format)
			if err != nil {
				return err
			}
			if h, ok := renderer.(*render.HTML); ok && cfg.PlotlyCDN != "" {
				h.CDN = cfg.PlotlyCDN
			}

			build := func() error {
				sf, err := gather(cmd, args)
				if err != nil {
					return err
				}
				c, err := chart.Build(sf.Tasks, sf.Milestones, chartOptions(sf))
				if err != nil {
					return err
				}
				if err := writeChart(output, renderer, c); err != nil {
					return err
				}
				log.Info().Str("output", output).Str("format", format).
					Int("tasks", len(c.Ranged)+len(c.Instantaneous)).Int("markers", len(c.Markers)).
					Str("range", fmt.Sprintf("%s..%s", c.Range.Lower, c.Range.Upper)).
					Msg("chart written")
				return nil
			}

			if err := build(); err != nil {
				return err
			}
			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				return watchFiles(cmd.Context(), args, build)
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", config.DefaultOutput, "output file (- for stdout)")
	cmd.Flags().StringP("format", "f", "html", "output format: html or svg (guessed from the --output extension when unset)")
	cmd.Flags().Bool("watch", false, "re-render when an input file changes")
	_ = v.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = v.BindPFlag("format", cmd.Flags().Lookup("format"))
	return cmd
}

func writeChart(output string, r chart.Renderer, c *chart.Chart) error {
	if output == "-" {
		return r.Render(os.Stdout, c)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := r.Render(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func tableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table [FILE...]",
		Short: "Print the schedule and milestone markers as tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := gather(cmd, args)
			if err != nil {
				return err
			}
			t, err := schedule.New(sf.Tasks)
			if err != nil {
				return err
			}
			if err := schedule.ValidateMilestones(sf.Milestones); err != nil {
				return err
			}
			report.WriteTasks(cmd.OutOrStdout(), t)

			ov, err := overlay.Compute(t.Tasks(), sf.Milestones, overlay.Options{IncludeToday: cfg.IncludeToday})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			report.WriteMarkers(cmd.OutOrStdout(), ov)
			return nil
		},
	}
}

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [FILE...]",
		Short: "Write tasks gathered from Org files or Taskwarrior to a schedule file",
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := gather(cmd, args)
			if err != nil {
				return err
			}
			if _, err := schedule.New(sf.Tasks); err != nil {
				return err
			}
			if err := schedule.ValidateMilestones(sf.Milestones); err != nil {
				return err
			}
			if cfg.Title != "" {
				sf.Title = cfg.Title
			}
			output, _ := cmd.Flags().GetString("output")
			if err := scheduleio.Save(output, sf); err != nil {
				return err
			}
			log.Info().Str("output", output).Int("tasks", len(sf.Tasks)).
				Int("milestones", len(sf.Milestones)).Msg("schedule written")
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "schedule.yaml", "schedule file to write")
	return cmd
}

func publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish [FILE...]",
		Short: "Publish milestones to Google Calendar as all-day events",
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := gather(cmd, args)
			if err != nil {
				return err
			}
			c, err := chart.Build(sf.Tasks, sf.Milestones, chartOptions(sf))
			if err != nil {
				return err
			}
			prune, _ := cmd.Flags().GetBool("prune")
			return publish(cmd.Context(), v.GetString("calendar"), c, prune)
		},
	}
	cmd.Flags().String("calendar", "", "Google Calendar name (overrides config)")
	cmd.Flags().Bool("prune", false, "delete published events whose milestone was removed")
	_ = v.BindPFlag("calendar", cmd.Flags().Lookup("calendar"))
	return cmd
}

func publish(ctx context.Context, calendarName string, c *chart.Chart, prune bool) error {
	evtIndex, err := index.NewEventIndex()
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize event index")
	}
	table, err := overdue.NewTable()
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize upcoming milestone table")
	}

	client, err := google.NewClient(ctx, calendarName, evtIndex)
	if err != nil {
		return fmt.Errorf("error creating Google Calendar client: %w", err)
	}

	res, pubErr := google.Publish(ctx, client, c.Markers, table, google.PublishOptions{
		Title: c.Title,
		Today: model.DateOf(timeNow()),
		Prune: prune,
	})

	if evtIndex != nil {
		if err := evtIndex.Save(); err != nil {
			log.Warn().Err(err).Msg("failed to save event index")
		}
	}
	if table != nil {
		if err := table.Save(); err != nil {
			log.Warn().Err(err).Msg("failed to save upcoming milestone table")
		}
	}
	log.Info().Str("calendar", calendarName).Int("synced", res.Synced).Int("swept", res.Swept).
		Int("pruned", res.Pruned).Int("failed", res.Failed).Msg("milestones published")
	return pubErr
}

func authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.Reset(); err != nil {
				return err
			}
			if _, err := auth.GetCalendarService(cmd.Context()); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			path, _ := auth.TokenPath()
			log.Info().Str("token_file", path).Msg("authentication successful")
			return nil
		},
	}
}

func setCalendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-calendar NAME",
		Short: "Set the default Google Calendar name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.SaveCalendar(v, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default calendar set to: %s (%s)\n", args[0], path)
			return nil
		},
	}
}
