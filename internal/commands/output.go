package commands

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

// OutputOptions selects between tables and JSON.
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.PersistentFlags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		b, merr := json.Marshal(map[string]string{"error": err.Error()})
		if merr != nil {
			return merr
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}
	return err
}

// Print writes v as indented JSON when --json is set, otherwise calls human.
func (o *OutputOptions) Print(v interface{}, human func()) error {
	if !o.JSON {
		human()
		return nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(color.Output, string(b))
	return nil
}

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	warn  = color.New(color.FgYellow).SprintFunc()
)

func heading(s string) {
	_, _ = fmt.Fprintln(color.Output, bold(s))
}

func line(a ...interface{}) {
	_, _ = fmt.Fprintln(color.Output, a...)
}

func linef(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(color.Output, format, a...)
}

func newTable(cols ...interface{}) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	headers := make([]interface{}, len(cols))
	for i, c := range cols {
		headers[i] = bold(c)
	}
	tbl.AddRow(headers...)
	return tbl
}

func printTable(tbl *uitable.Table) {
	_, _ = fmt.Fprintln(color.Output, tbl)
}

func moodLabel(m models.Mood) string {
	if m == "" {
		return faint("pending")
	}
	return m.Emoji() + " " + string(m)
}

func excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	r := []rune(text)
	return string(r[:n-1]) + "…"
}

func printEntry(e models.JournalEntry) {
	heading(e.CreatedAt.Local().Format("Mon Jan 2 2006 15:04"))
	if e.TemplateTitle != "" {
		line(faint(e.TemplateTitle))
	}
	line(e.Text)
	linef("%s  %d words, %d characters\n", moodLabel(e.Mood()), e.WordCount, e.CharCount)
	if e.ImageURL != "" {
		line(faint("image: " + e.ImageURL))
	}
	if e.SupportMessage != "" {
		line(warn(e.SupportMessage))
	}
	if a := e.Analysis; a != nil {
		line()
		line(a.Response)
		line(green(a.Affirmation))
		printRecommendations(a.Recommendations)
	}
}

func printRecommendations(r models.Recommendations) {
	if len(r.Movies) > 0 {
		tbl := newTable("Movie", "Genre", "Why")
		for _, m := range r.Movies {
			tbl.AddRow(m.Title, m.Genre, m.Description)
		}
		printTable(tbl)
	}
	if len(r.Music) > 0 {
		tbl := newTable("Music", "Genre", "Why")
		for _, m := range r.Music {
			tbl.AddRow(m.Title, m.Genre, m.Description)
		}
		printTable(tbl)
	}
	for _, q := range r.Quotes {
		linef("%q %s\n", q.Text, faint("- "+q.Author))
	}
}

func printStats(s models.Stats) {
	tbl := newTable("Entries", "Check-ins", "Streak", "Long entries", "Days")
	tbl.AddRow(s.TotalEntries, s.MoodEntries, s.CurrentStreak, s.LongEntries, s.TotalDays)
	printTable(tbl)
}
