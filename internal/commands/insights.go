package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

func addStats(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show entry counts and the current streak.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			c, err := signedIn(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			ins, err := c.Insights(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.Print(ins.Stats, func() { printStats(ins.Stats) })
		},
	}

	topLevel.AddCommand(cmd)
}

func addInsights(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show achievements, the weekly summary and the mood trend.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			c, err := signedIn(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			ins, err := c.Insights(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.Print(ins, func() { printInsights(ins) })
		},
	}

	topLevel.AddCommand(cmd)
}

func addExport(topLevel *cobra.Command) {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download all entries and check-ins as a JSON file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			c, err := signedIn(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			doc, err := c.Export(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			if out == "" {
				out = models.ExportFileName(time.Now())
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return err
			}
			return oo.Print(map[string]string{"file": out}, func() {
				linef("Exported %d entries and %d check-ins to %s.\n", len(doc.Entries), len(doc.Moods), bold(out))
			})
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "File to write. Defaults to mindjourney-export-<date>.json.")

	topLevel.AddCommand(cmd)
}

func printInsights(ins *models.Insights) {
	printStats(ins.Stats)

	if len(ins.Achievements) > 0 {
		heading("\nAchievements")
		tbl := newTable("", "Title", "Description")
		for _, a := range ins.Achievements {
			tbl.AddRow(a.Icon, a.Title, a.Description)
		}
		printTable(tbl)
	}

	if w := ins.Weekly; w != nil {
		heading("\nThis week")
		linef("%d entries over %d days, mostly %s.\n", w.TotalEntries, w.ActiveDays, moodLabel(w.AverageMood))
		if len(w.CommonThemes) > 0 {
			themes := make([]string, len(w.CommonThemes))
			for i, t := range w.CommonThemes {
				themes[i] = fmt.Sprintf("%s (%d)", t.Theme, t.Count)
			}
			linef("Themes: %s\n", strings.Join(themes, ", "))
		}
		line(green(w.GrowthNote))
	}

	if len(ins.Trend) > 0 {
		heading("\nLast 7 days")
		tbl := newTable("Date", "Mood")
		for _, p := range ins.Trend {
			tbl.AddRow(p.Date, moodLabel(p.Mood))
		}
		printTable(tbl)
	}

	if len(ins.Distribution) > 0 {
		heading("\nMood distribution")
		moods := make([]models.Mood, 0, len(ins.Distribution))
		for m := range ins.Distribution {
			moods = append(moods, m)
		}
		sort.Slice(moods, func(i, j int) bool { return ins.Distribution[moods[i]] > ins.Distribution[moods[j]] })
		tbl := newTable("Mood", "Count")
		for _, m := range moods {
			tbl.AddRow(moodLabel(m), ins.Distribution[m])
		}
		printTable(tbl)
	}
}
