// Package flixvec recommends movies by similarity of precomputed feature vectors.
//
// A dataset is a table of movie title → embedding, loaded once and then only
// read. Given a title, flixvec ranks every other movie by cosine similarity
// and returns the best N, ties broken by the order the table was loaded in.
//
// # Key Features
//
//   - Exact ranking - brute-force float64 cosine scan, no approximate index.
//   - Deterministic - stable ordering for equal scores.
//   - Several table formats - JSON, JSONL, CSV, Parquet and SQLite.
//   - Catalog join - genre and poster link travel with each recommendation.
//   - Read-only after load - one DB can serve any number of goroutines.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/liliang-cn/flixvec"
//	)
//
//	func main() {
//	    ctx := context.Background()
//	    db, err := flixvec.Open(ctx, flixvec.DefaultConfig("movies.json"))
//	    if err != nil {
//	        log.Fatal(err) // *core.LoadError
//	    }
//
//	    titles, err := db.Recommend("The Dark Knight", flixvec.DefaultN)
//	    if flixvec.IsNotFound(err) {
//	        fmt.Println(flixvec.NotFoundMessage)
//	    }
//	}
//
// # Metadata
//
// JSON, JSONL, Parquet and SQLite tables may carry genre and poster link
// columns. A separate IMDB style CSV can be given with Config.MetadataPath:
//
//	config := flixvec.DefaultConfig("vectors.parquet")
//	config.MetadataPath = "imdb_top_1000.csv"
//	db, err := flixvec.Open(ctx, config)
//
//	recs, err := db.RecommendMovies("Inception", 10)
//	for _, r := range recs {
//	    fmt.Printf("%.3f %s (%s)\n", r.Score, r.Title, r.Genre)
//	}
//
// # Lower Level
//
// pkg/core exposes the VectorStore and Ranker directly, pkg/source the
// format readers and writers, pkg/catalog the metadata table.
//
// The flixvec command (cmd/flixvec) wraps the same API as a CLI and an
// HTTP server.
package flixvec
