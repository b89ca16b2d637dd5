package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/viper"
)

// run executes the CLI against dir and returns what it printed.
func run(t *testing.T, dir string, args ...string) string {
	t.Helper()
	viper.Reset()
	*oo = OutputOptions{}

	var buf bytes.Buffer
	prevOut, prevNoColor := color.Output, color.NoColor
	color.Output, color.NoColor = &buf, true
	t.Cleanup(func() { color.Output, color.NoColor = prevOut, prevNoColor })

	cmd := New()
	cmd.SetArgs(append([]string{"--data-dir", dir, "--server", "http://unused.invalid"}, args...))
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, buf.String())
	}
	return buf.String()
}

func TestAnonymousJournaling(t *testing.T) {
	dir := t.TempDir()

	if out := run(t, dir, "anon"); !strings.Contains(out, "Welcome to MindJourney") {
		t.Errorf("first anon output = %q", out)
	}
	if out := run(t, dir, "anon"); strings.Contains(out, "Welcome") {
		t.Errorf("welcome shown twice: %q", out)
	}

	out := run(t, dir, "write", "I feel happy and grateful today", "--template", "gratitude")
	if !strings.Contains(out, "Gratitude Practice") || !strings.Contains(out, "happy") {
		t.Errorf("write output = %q", out)
	}
	run(t, dir, "mood", "tired", "--tag", "work")

	var listed struct {
		Entries []struct {
			Text      string `json:"text"`
			WordCount int    `json:"word_count"`
		} `json:"entries"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal([]byte(run(t, dir, "entries", "--json")), &listed); err != nil {
		t.Fatal(err)
	}
	if listed.Total != 1 || listed.Entries[0].WordCount != 6 {
		t.Errorf("entries = %+v", listed)
	}

	var stats struct {
		TotalEntries int `json:"total_entries"`
		MoodEntries  int `json:"mood_entries"`
	}
	if err := json.Unmarshal([]byte(run(t, dir, "stats", "--json")), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalEntries != 1 || stats.MoodEntries != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDraftCommand(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "anon")

	if out := run(t, dir, "draft"); !strings.Contains(out, "No draft") {
		t.Errorf("empty draft output = %q", out)
	}
	if out := run(t, dir, "draft", "half a thought"); !strings.Contains(out, "half a thought") {
		t.Errorf("saved draft output = %q", out)
	}
	// write with no text sends the draft.
	run(t, dir, "write")
	if out := run(t, dir, "draft"); !strings.Contains(out, "No draft") {
		t.Errorf("draft after write = %q", out)
	}
	if out := run(t, dir, "entries"); !strings.Contains(out, "half a thought") {
		t.Errorf("entries = %q", out)
	}
}

func TestCustomRecommendationCommand(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "recs", "add", "movies", "My Comfort Film", "--mood", "sad")

	if out := run(t, dir, "recs", "search", "comfort film", "--type", "movies"); !strings.Contains(out, "My Comfort Film") {
		t.Errorf("search output = %q", out)
	}
}

func TestRequiresSession(t *testing.T) {
	viper.Reset()
	*oo = OutputOptions{}
	cmd := New()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--data-dir", t.TempDir(), "entries"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "not signed in") {
		t.Errorf("err = %v", err)
	}
}

func TestNegativeSkipRejected(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "anon")

	for _, name := range []string{"entries", "moods"} {
		t.Run(name, func(t *testing.T) {
			viper.Reset()
			*oo = OutputOptions{}
			cmd := New()
			var buf bytes.Buffer
			cmd.SetOut(&buf)
			cmd.SetErr(&buf)
			cmd.SetArgs([]string{"--data-dir", dir, name, "--skip", "-1"})
			if err := cmd.Execute(); !errors.Is(err, errNegativeSkip) {
				t.Errorf("err = %v, want %v", err, errNegativeSkip)
			}
		})
	}
}

func TestEntryText(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{"args joined", []string{"a", "b"}, "", "a b"},
		{"stdin", []string{"-"}, "from stdin\n", "from stdin\n"},
		{"none", nil, "ignored", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := entryText(tt.args, "", strings.NewReader(tt.stdin))
			if err != nil || got != tt.want {
				t.Errorf("entryText = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}
