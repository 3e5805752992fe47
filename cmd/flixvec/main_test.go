package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/liliang-cn/flixvec"
)

const testDataset = `{
  "movie_dict": {
    "A": [1, 0],
    "B": [1, 0],
    "C": [0, 1],
    "D": [0.7, 0.7]
  },
  "df": [
    {"Series_Title": "B", "Genre": "Drama", "Poster_Link": "https://example.com/b.jpg"},
    {"Series_Title": "D", "Genre": "Comedy"}
  ]
}`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.json")
	if err := os.WriteFile(path, []byte(testDataset), 0o644); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--log-level", "disabled"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRecommendCommand(t *testing.T) {
	data := writeDataset(t)

	out, err := run(t, "recommend", "A", "-n", "2", "--json", "--data", data)
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}

	var recs []flixvec.Recommendation
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("failed to decode output %q: %v", out, err)
	}
	if len(recs) != 2 || recs[0].Title != "B" || recs[1].Title != "D" {
		t.Fatalf("got %+v, want [B D]", recs)
	}
	if recs[0].Genre != "Drama" {
		t.Errorf("expected genre Drama, got %q", recs[0].Genre)
	}
}

func TestRecommendTable(t *testing.T) {
	data := writeDataset(t)

	out, err := run(t, "recommend", "A", "--scores", "--data", data)
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	for _, want := range []string{"TITLE", "SCORE", "1.0000", "0.7071", "Drama"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRecommendUnknownTitle(t *testing.T) {
	data := writeDataset(t)

	_, err := run(t, "recommend", "Jaws", "--data", data)
	if err == nil || err.Error() != flixvec.NotFoundMessage {
		t.Fatalf("expected %q, got %v", flixvec.NotFoundMessage, err)
	}
}

func TestListCommand(t *testing.T) {
	data := writeDataset(t)

	out, err := run(t, "list", "--data", data)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if out != "A\nB\nC\nD\n" {
		t.Errorf("unexpected list output %q", out)
	}

	out, err = run(t, "list", "--search", "c", "--data", data)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if out != "C\n" {
		t.Errorf("unexpected search output %q", out)
	}
}

func TestShowCommand(t *testing.T) {
	data := writeDataset(t)

	out, err := run(t, "show", "B", "--json", "--data", data)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	var movie flixvec.Movie
	if err := json.Unmarshal([]byte(out), &movie); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if movie.Title != "B" || movie.Genre != "Drama" || len(movie.Vector) != 2 {
		t.Errorf("unexpected movie %+v", movie)
	}
}

func TestConvertCommand(t *testing.T) {
	data := writeDataset(t)
	out := filepath.Join(t.TempDir(), "movies.jsonl")

	if _, err := run(t, "convert", "--out", out, "--data", data); err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	stdout, err := run(t, "recommend", "A", "-n", "2", "--json", "--data", out)
	if err != nil {
		t.Fatalf("recommend on converted data failed: %v", err)
	}
	var recs []flixvec.Recommendation
	if err := json.Unmarshal([]byte(stdout), &recs); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if len(recs) != 2 || recs[0].Title != "B" || recs[1].Title != "D" {
		t.Fatalf("got %+v after convert, want [B D]", recs)
	}
}

func TestStatsCommand(t *testing.T) {
	data := writeDataset(t)

	out, err := run(t, "stats", "--json", "--data", data)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	var stats flixvec.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if stats.Movies != 4 || stats.Dimensions != 2 || stats.CatalogEntries != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestMissingDataset(t *testing.T) {
	_, err := run(t, "stats", "--data", filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected an error for a missing dataset")
	}
}
