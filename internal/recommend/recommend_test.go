package recommend

import (
	"testing"
	"time"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

func TestForCounts(t *testing.T) {
	tests := []struct {
		count                    int
		movies, songs, numQuotes int
	}{
		{0, 3, 3, 2},
		{1, 1, 1, 1},
		{3, 3, 3, 2},
		{10, 4, 4, 2},
	}
	for _, tt := range tests {
		recs := For(models.MoodHappy, tt.count)
		if len(recs.Movies) != tt.movies || len(recs.Music) != tt.songs || len(recs.Quotes) != tt.numQuotes {
			t.Errorf("For(happy, %d) = %d/%d/%d, want %d/%d/%d", tt.count,
				len(recs.Movies), len(recs.Music), len(recs.Quotes), tt.movies, tt.songs, tt.numQuotes)
		}
	}
}

func TestForUnknownMoodUsesNeutral(t *testing.T) {
	got := For(models.Mood("elated"), 3)
	want := For(models.MoodNeutral, 3)
	if got.Movies[0].Title != want.Movies[0].Title {
		t.Errorf("unknown mood movie = %q, want %q", got.Movies[0].Title, want.Movies[0].Title)
	}
}

func TestForIsDeterministic(t *testing.T) {
	a := For(models.MoodSad, 3)
	b := For(models.MoodSad, 3)
	for i := range a.Movies {
		if a.Movies[i] != b.Movies[i] {
			t.Fatalf("movie %d differs between calls", i)
		}
	}
}

func TestMergeAppendsCustom(t *testing.T) {
	var c Custom
	if !c.Add(KindMovies, models.MoodHappy, models.ContentItem{Title: "Amélie"}, models.Quote{}) {
		t.Fatal("Add returned false")
	}
	if c.Add("podcasts", models.MoodHappy, models.ContentItem{}, models.Quote{}) {
		t.Error("Add accepted unknown kind")
	}

	merged := Default().Merge(c)
	recs := merged.For(models.MoodHappy, 5)
	if recs.Movies[len(recs.Movies)-1].Title != "Amélie" {
		t.Errorf("custom movie not appended: %+v", recs.Movies)
	}
	if len(Default().For(models.MoodHappy, 5).Movies) != 4 {
		t.Error("Merge mutated the built-in catalog")
	}
}

func TestSearch(t *testing.T) {
	res := Default().Search("totoro", KindAll)
	if len(res.Movies) != 1 {
		t.Errorf("Search(totoro) movies = %d, want 1 (deduplicated)", len(res.Movies))
	}
	res = Default().Search("rumi", KindQuotes)
	if len(res.Quotes) != 2 || len(res.Movies) != 0 {
		t.Errorf("Search(rumi, quotes) = %+v", res)
	}
	if res := Default().Search("  ", KindAll); len(res.Movies)+len(res.Music)+len(res.Quotes) != 0 {
		t.Error("blank query should match nothing")
	}
}

func TestDailyQuoteStableWithinDay(t *testing.T) {
	morning := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)
	if DailyQuote(morning) != DailyQuote(evening) {
		t.Error("daily quote changed within a day")
	}
	if DailyQuote(morning) == DailyQuote(morning.AddDate(0, 0, 1)) {
		t.Error("daily quote did not rotate")
	}
}

func TestLookupTemplate(t *testing.T) {
	tpl, ok := LookupTemplate("gratitude")
	if !ok || tpl.Title != "Gratitude Practice" {
		t.Errorf("LookupTemplate(gratitude) = %+v, %v", tpl, ok)
	}
	if _, ok := LookupTemplate("dreams"); ok {
		t.Error("unexpected template")
	}
}
