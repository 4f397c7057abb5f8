package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Esteb4ncd/solace-server/pkg/domain/file_generators"
	"github.com/Esteb4ncd/solace-server/pkg/domain/progress"
	"github.com/Esteb4ncd/solace-server/pkg/wellness"
)

func (c *cli) catalogCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the exercise catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := c.catalog()
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out(cmd))
				enc.SetIndent("", "  ")
				return enc.Encode(catalog.All())
			}

			w := tabwriter.NewWriter(out(cmd), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDIFFICULTY\tXP\tAREAS")
			for _, e := range catalog.All() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\n",
					e.ID, e.Name, e.Difficulty, e.BaseXPReward, e.RecommendedXPReward, strings.Join(e.TargetAreas, ", "))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")
	return cmd
}

func (c *cli) recommendCmd() *cobra.Command {
	var req wellness.RecommendRequest
	var limit int
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank exercises for pain areas, work tasks and keywords",
		Example: `  solace recommend --area shoulder --task "heavy lifting"
  solace recommend --keyword ladders --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			req.UserID = c.userID
			req.Limit = &limit
			c.logger.Debug("Ranking exercises",
				zap.Strings("areas", req.PainAreas),
				zap.Strings("tasks", req.WorkTasks),
				zap.Strings("keywords", req.Keywords),
				zap.Int("limit", limit))

			rec, err := svc.Recommend(cmd.Context(), req)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(out(cmd), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "\tID\tNAME\tSCORE\tXP")
			for _, r := range rec.Recommended {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", done(rec, r.Exercise.ID), r.Exercise.ID, r.Exercise.Name, r.Score, r.XPReward())
			}
			if len(rec.Recommended) == 0 {
				fmt.Fprintln(w, "\t(no matches)\t\t\t")
			}
			fmt.Fprintln(w, "\t\t\t\t")
			fmt.Fprintln(w, "\tALSO AVAILABLE\t\t\t")
			for _, r := range rec.Secondary {
				fmt.Fprintf(w, "%s\t%s\t%s\t\t%d\n", done(rec, r.Exercise.ID), r.Exercise.ID, r.Exercise.Name, r.XPReward())
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringSliceVar(&req.PainAreas, "area", nil, "Pain area (repeatable)")
	cmd.Flags().StringSliceVar(&req.WorkTasks, "task", nil, "Work task (repeatable)")
	cmd.Flags().StringSliceVar(&req.Keywords, "keyword", nil, "Free-text keyword (repeatable)")
	cmd.Flags().IntVarP(&limit, "limit", "n", wellness.DefaultRecommendLimit, "Maximum recommendations")
	return cmd
}

// done marks exercises already ticked off on the daily checklist.
func done(rec *wellness.Recommendation, id string) string {
	for _, t := range rec.DailyTasks {
		if t.ID == id && t.IsCompleted {
			return "✓"
		}
	}
	return " "
}

func (c *cli) completeCmd() *cobra.Command {
	var recommended bool
	cmd := &cobra.Command{
		Use:   "complete <exercise-id>",
		Short: "Record a completed exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.Complete(cmd.Context(), c.userID, args[0], recommended)
			if err != nil {
				return err
			}
			c.logger.Info("Completion processed", zap.String("exercise_id", args[0]), zap.Bool("added", res.Added))

			if res.Added {
				fmt.Fprintf(out(cmd), "Completed %s (+%d XP)\n", res.Completion.Name, res.Completion.XPGained)
			} else {
				fmt.Fprintf(out(cmd), "%s was already completed\n", args[0])
			}
			printSummary(cmd, &res.Progress)
			return nil
		},
	}
	cmd.Flags().BoolVar(&recommended, "recommended", false, "Award the recommended XP reward")
	return cmd
}

func (c *cli) streakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show streak, XP and level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			sum, err := svc.Progress(cmd.Context(), c.userID)
			if err != nil {
				return err
			}
			printSummary(cmd, sum)
			return nil
		},
	}
}

func printSummary(cmd *cobra.Command, sum *wellness.Summary) {
	w := out(cmd)
	extended := "not yet today"
	if sum.StreakExtendedToday {
		extended = "extended today"
	}
	fmt.Fprintf(w, "Streak: %d day(s), %s\n", sum.StreakCount, extended)
	fmt.Fprintf(w, "XP: %d (Level %d %s", sum.TotalXP, sum.Level.Number, sum.Level.Name)
	if sum.XPToNextLevel > 0 {
		fmt.Fprintf(w, ", %d to next", sum.XPToNextLevel)
	}
	fmt.Fprintln(w, ")")
}

func (c *cli) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear all completions for the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			gen, err := svc.Reset(cmd.Context(), c.userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Progress reset (generation %d)\n", gen)
			return nil
		},
	}
}

func (c *cli) intakeCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "intake <message>",
		Short:   "Describe how you feel and get coached suggestions",
		Example: `  solace intake "my lower back is tight from tying rebar"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			reply := svc.Intake(cmd.Context(), strings.Join(args, " "), limit)
			c.logger.Debug("Intake answered",
				zap.String("source", reply.Source),
				zap.Strings("areas", reply.Extraction.PainAreas),
				zap.Strings("tasks", reply.Extraction.WorkTasks),
				zap.Strings("keywords", reply.Extraction.Keywords))

			w := out(cmd)
			fmt.Fprintln(w, reply.Message)
			if len(reply.Recommendations) > 0 {
				fmt.Fprintln(w)
				for _, r := range reply.Recommendations {
					fmt.Fprintf(w, "  - %s (%s, +%d XP)\n", r.Exercise.Name, r.Exercise.ID, r.XPReward())
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 3, "Maximum recommendations")
	return cmd
}

func (c *cli) exportFitCmd() *cobra.Command {
	var dayStr, output string
	cmd := &cobra.Command{
		Use:   "export-fit",
		Short: "Write a day's completions as a FIT activity file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service(cmd.Context())
			if err != nil {
				return err
			}

			var day progress.Day
			if dayStr == "" {
				now := time.Now()
				if c.now != nil {
					now = c.now()
				}
				day = progress.DayOf(now, svc.Location)
			} else if day, err = wellness.ParseDay(dayStr); err != nil {
				return err
			}

			completions, err := svc.CompletionsOn(cmd.Context(), c.userID, day)
			if err != nil {
				return err
			}
			if len(completions) == 0 {
				return fmt.Errorf("no completions on %s", day)
			}

			data, err := file_generators.GenerateSessionFitFile(completions, svc.Catalog)
			if err != nil {
				return err
			}

			if output == "" {
				output = filepath.FromSlash(file_generators.SessionObject(c.userID, day))
			}
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			c.logger.Info("Session exported", zap.String("path", output), zap.Int("sets", len(completions)))
			fmt.Fprintf(out(cmd), "Wrote %s (%d sets, %d bytes)\n", output, len(completions), len(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&dayStr, "day", "", "Day to export, YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default sessions/<user>/<day>.fit)")
	return cmd
}

func (c *cli) inspectFitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect-fit <file>",
		Short: "Summarize the messages, session and sets of a FIT file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			summary, err := file_generators.InspectFitFile(data)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(out(cmd), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "Message\tCount")
			fmt.Fprintln(w, "-------\t-----")
			for _, name := range summary.MessageNames() {
				fmt.Fprintf(w, "%s\t%d\n", name, summary.MessageCounts[name])
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "Start\t%s\n", summary.StartTime.UTC().Format(time.RFC3339))
			fmt.Fprintf(w, "Elapsed\t%s\n", summary.TotalElapsedTime)
			fmt.Fprintf(w, "Timer\t%s\n", summary.TotalTimerTime)
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Set\tStart\tDuration\tCategory")
			for i, s := range summary.Sets {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, s.StartTime.UTC().Format(time.TimeOnly), s.Duration, s.Category)
			}
			return w.Flush()
		},
	}
}
