package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/seqkit/core"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoader_LoadInteractions(t *testing.T) {
	path := writeTempFile(t, "ratings.dat",
		"1::10::5.0::100\n"+
			"1::20::3.5::101\n"+
			"2::10::4.0::100\n")

	l := &Loader{}
	got, err := l.LoadInteractions(path)
	if err != nil {
		t.Fatalf("LoadInteractions() error = %v", err)
	}
	want := []core.Interaction{
		{UserID: "1", ItemID: 10, Rating: 5.0, Timestamp: 100},
		{UserID: "1", ItemID: 20, Rating: 3.5, Timestamp: 101},
		{UserID: "2", ItemID: 10, Rating: 4.0, Timestamp: 100},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoader_LoadInteractions_CustomSeparator(t *testing.T) {
	path := writeTempFile(t, "ratings.tsv", "user_id\titem_id\trating\tts\n1\t10\t5.0\t100\n")

	l := &Loader{Separator: "\t", SkipHeader: true}
	got, err := l.LoadInteractions(path)
	if err != nil {
		t.Fatalf("LoadInteractions() error = %v", err)
	}
	if len(got) != 1 || got[0].ItemID != 10 {
		t.Errorf("got = %+v, want one row with item 10", got)
	}
}

func TestLoader_LoadInteractions_BadTimestamp(t *testing.T) {
	path := writeTempFile(t, "ratings.dat", "1::10::5.0::not-a-ts\n")

	l := &Loader{}
	if _, err := l.LoadInteractions(path); err == nil {
		t.Fatal("LoadInteractions() expected error for bad timestamp")
	}
}

func TestLoader_LoadItems(t *testing.T) {
	path := writeTempFile(t, "movies.dat",
		"10::Heat (1995)::Action|Crime\n"+
			"20::Sabrina (1995)::Comedy\n")

	l := &Loader{}
	got, err := l.LoadItems(path)
	if err != nil {
		t.Fatalf("LoadItems() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	heat := got[10]
	if heat.Title != "Heat (1995)" {
		t.Errorf("title = %q", heat.Title)
	}
	if len(heat.Genres) != 2 || heat.Genres[0] != "Action" || heat.Genres[1] != "Crime" {
		t.Errorf("genres = %v", heat.Genres)
	}
}
