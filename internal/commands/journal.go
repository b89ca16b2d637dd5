package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AnshRaj112/mindjourney-backend/internal/client"
	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

func addWrite(topLevel *cobra.Command) {
	var template, image, file string

	cmd := &cobra.Command{
		Use:   "write [text]",
		Short: "Save a journal entry and get a reflection back.",
		Example: `
mindjourney write "Had a long walk and feel calmer"
mindjourney write --template gratitude --file today.txt
echo "rough day" | mindjourney write -
mindjourney write "first snow" --image ./snow.jpg
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			c, err := signedIn(ctx)
			if err != nil {
				return oo.HandleError(err)
			}

			text, err := entryText(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if text == "" {
				if d, _ := c.LoadDraft(ctx); d != nil {
					text, template = d.Text, firstNonEmpty(template, d.Template)
				}
			}

			in := client.NewEntry{Text: text, Template: template, IdempotencyKey: uuid.NewString()}
			if image != "" {
				img, err := readImage(image)
				if err != nil {
					return err
				}
				in.Image = img
			}

			res, err := c.CreateEntry(ctx, in)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.Print(res, func() {
				printEntry(res.Entry)
				line()
				printStats(res.Stats)
			})
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Guided template key, see `mindjourney templates`.")
	cmd.Flags().StringVar(&image, "image", "", "Attach an image (jpeg, png, gif, webp, up to 5MB).")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the entry from a file.")

	topLevel.AddCommand(cmd)
}

func addEntries(topLevel *cobra.Command) {
	var limit, skip int
	var full bool

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List journal entries, newest first.",
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
			entries, total, err := c.ListEntries(ctx, limit, skip)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.Print(map[string]interface{}{"entries": entries, "total": total}, func() {
				if full {
					for _, e := range entries {
						printEntry(e)
						line()
					}
					return
				}
				tbl := newTable("ID", "When", "Mood", "Words", "Entry")
				for _, e := range entries {
					tbl.AddRow(e.ID, e.CreatedAt.Local().Format("Jan 2 15:04"), moodLabel(e.Mood()), e.WordCount, excerpt(e.Text, 50))
				}
				printTable(tbl)
				linef("%s\n", faint(pageNote(len(entries), skip, total)))
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Entries per page, 0 for all.")
	cmd.Flags().IntVar(&skip, "skip", 0, "Entries to skip.")
	cmd.Flags().BoolVar(&full, "full", false, "Show full entries with their reflections.")

	topLevel.AddCommand(cmd)
}

func addRetry(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "retry <entry id>",
		Short: "Re-run analysis for an entry whose reflection failed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			c, err := signedIn(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			e, err := c.RetryAnalysis(ctx, args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.Print(e, func() { printEntry(*e) })
		},
	}

	topLevel.AddCommand(cmd)
}

func addDraft(topLevel *cobra.Command) {
	var template string
	var discard bool

	cmd := &cobra.Command{
		Use:   "draft [text]",
		Short: "Show, save or discard the unsent draft.",
		Example: `
mindjourney draft
mindjourney draft "started writing about"
mindjourney draft --discard
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			c, err := signedIn(ctx)
			if err != nil {
				return oo.HandleError(err)
			}

			switch {
			case discard:
				if err := c.DiscardDraft(ctx); err != nil {
					return oo.HandleError(err)
				}
				return oo.Print(map[string]bool{"discarded": true}, func() { line("Draft discarded.") })
			case len(args) > 0:
				d := models.Draft{Text: strings.Join(args, " "), Template: template}
				if err := c.NewAutosaver(func() models.Draft { return d }).SaveNow(ctx); err != nil {
					return oo.HandleError(err)
				}
			}

			d, err := c.LoadDraft(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.Print(d, func() {
				if d == nil {
					line(faint("No draft."))
					return
				}
				heading("Draft, saved " + d.UpdatedAt.Local().Format("Jan 2 15:04"))
				line(d.Text)
			})
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Template key to keep with the draft.")
	cmd.Flags().BoolVar(&discard, "discard", false, "Delete the draft.")

	topLevel.AddCommand(cmd)
}

func addTemplates(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List guided journaling templates.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			c, err := newClient(context.Background())
			if err != nil {
				return err
			}
			tpls := c.Templates()
			return oo.Print(tpls, func() {
				tbl := newTable("Key", "Title", "Prompt")
				tbl.Wrap = true
				for _, t := range tpls {
					tbl.AddRow(t.Key, t.Title, t.Prompt)
				}
				printTable(tbl)
			})
		},
	}

	topLevel.AddCommand(cmd)
}

// entryText takes the entry from args, a file, or stdin when the only arg is "-".
func entryText(args []string, file string, stdin io.Reader) (string, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		return string(b), err
	}
	if len(args) == 1 && args[0] == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	return strings.Join(args, " "), nil
}

func readImage(path string) (*client.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("image is empty")
	}
	return &client.Image{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Data:        data,
	}, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

var errNegativeSkip = errors.New("--skip must not be negative")

func pageNote(shown, skip, total int) string {
	if shown == 0 {
		return "no entries"
	}
	return fmt.Sprintf("%d-%d of %d", skip+1, skip+shown, total)
}
