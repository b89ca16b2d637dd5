package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

func addMood(topLevel *cobra.Command) {
	var emoji string
	var tags []string

	cmd := &cobra.Command{
		Use:       "mood <happy|sad|anxious|angry|tired|neutral>",
		Short:     "Log a mood check-in.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: moodNames(),
		Example: `
mindjourney mood tired --tag work --tag sleep
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			c, err := signedIn(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			res, err := c.CreateMood(ctx, args[0], emoji, tags)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.Print(res, func() {
				linef("Logged %s for %s.\n", moodLabel(res.Mood.Mood), res.Mood.Date)
				recs := c.Recommendations(res.Mood.Mood, 1)
				for _, q := range recs.Quotes {
					linef("%q %s\n", q.Text, faint("- "+q.Author))
				}
				printStats(res.Stats)
			})
		},
	}

	cmd.Flags().StringVar(&emoji, "emoji", "", "Override the mood's emoji.")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag the check-in. Repeatable.")

	topLevel.AddCommand(cmd)
}

func addMoods(topLevel *cobra.Command) {
	var limit, skip int

	cmd := &cobra.Command{
		Use:   "moods",
		Short: "List mood check-ins, newest first.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if skip < 0 {
				return errNegativeSkip
			}
			cmd.SilenceUsage = true
			ctx := context.Background()
			c, err := signedIn(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			moods, total, err := c.ListMoods(ctx, limit, skip)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.Print(map[string]interface{}{"moods": moods, "total": total}, func() {
				tbl := newTable("Date", "Time", "Mood", "Tags")
				for _, m := range moods {
					tbl.AddRow(m.Date, m.Timestamp.Local().Format("15:04"), m.Emoji+" "+string(m.Mood), strings.Join(m.Tags, ", "))
				}
				printTable(tbl)
				linef("%s\n", faint(pageNote(len(moods), skip, total)))
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Check-ins per page, 0 for all.")
	cmd.Flags().IntVar(&skip, "skip", 0, "Check-ins to skip.")

	topLevel.AddCommand(cmd)
}

func moodNames() []string {
	out := make([]string, len(models.Moods))
	for i, m := range models.Moods {
		out[i] = string(m)
	}
	return out
}
