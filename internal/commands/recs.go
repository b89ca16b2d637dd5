package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

func addRecs(topLevel *cobra.Command) {
	var count int

	cmd := &cobra.Command{
		Use:       "recs <mood>",
		Short:     "Movies, music and quotes for a mood.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: moodNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			c, err := newClient(context.Background())
			if err != nil {
				return err
			}
			mood, err := models.ValidateMood(args[0])
			if err != nil {
				mood = models.MoodNeutral
			}
			recs := c.Recommendations(mood, count)
			return oo.Print(recs, func() { printRecommendations(recs) })
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 3, "Items per kind.")

	addRecsAdd(cmd)
	addRecsSearch(cmd)
	topLevel.AddCommand(cmd)
}

func addRecsAdd(parent *cobra.Command) {
	var mood, description, genre string

	cmd := &cobra.Command{
		Use:   "add <movies|music|quotes> <title or quote>",
		Short: "Add your own recommendation for a mood. Kept on this device.",
		Args:  cobra.ExactArgs(2),
		Example: `
mindjourney recs add movies "Paddington 2" --mood sad --genre Family --description "pure warmth"
mindjourney recs add quotes "This too shall pass." --mood anxious --description "Persian proverb"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			c, err := newClient(context.Background())
			if err != nil {
				return err
			}
			if err := c.AddCustomRecommendation(args[0], mood, args[1], description, genre); err != nil {
				return oo.HandleError(err)
			}
			custom := c.CustomRecommendations()
			return oo.Print(custom, func() { linef("Added to %s recommendations.\n", bold(mood)) })
		},
	}

	cmd.Flags().StringVar(&mood, "mood", string(models.MoodNeutral), "Mood the item is for.")
	cmd.Flags().StringVar(&description, "description", "", "Why it helps. For quotes, the author.")
	cmd.Flags().StringVar(&genre, "genre", "", "Genre for movies and music.")

	parent.AddCommand(cmd)
}

func addRecsSearch(parent *cobra.Command) {
	var kind string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search every mood's recommendations.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			c, err := newClient(context.Background())
			if err != nil {
				return err
			}
			recs := c.SearchRecommendations(args[0], kind)
			return oo.Print(recs, func() {
				if len(recs.Movies)+len(recs.Music)+len(recs.Quotes) == 0 {
					line(faint("Nothing found."))
					return
				}
				printRecommendations(recs)
			})
		},
	}

	cmd.Flags().StringVar(&kind, "type", "all", "all, movies, music or quotes.")

	parent.AddCommand(cmd)
}

func addDaily(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Today's quote and this week's story.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			c, err := newClient(context.Background())
			if err != nil {
				return err
			}
			quote, story := c.Daily()
			return oo.Print(map[string]interface{}{"quote": quote, "story": story}, func() {
				linef("%q %s\n\n", quote.Text, faint("- "+quote.Author))
				heading(story.Title)
				line(story.Content)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
