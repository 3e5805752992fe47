package flixvec

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/liliang-cn/flixvec/pkg/catalog"
	"github.com/liliang-cn/flixvec/pkg/core"
	"github.com/liliang-cn/flixvec/pkg/source"
)

// DefaultN is the number of recommendations returned when the caller has no preference.
const DefaultN = core.DefaultN

// NotFoundMessage is the user-facing text for an unknown title.
const NotFoundMessage = "Movie not found in database."

// DB is a loaded, read-only movie dataset.
type DB struct {
	store   *core.VectorStore
	catalog *catalog.Catalog
	ranker  *core.Ranker
	titles  []string
	stats   Stats
	logger  core.Logger
}

// Config represents dataset configuration
type Config struct {
	Path           string              // Vector table path
	Format         source.Format       // Vector table format (detected from Path when empty)
	MetadataPath   string              // Optional separate catalog table
	MetadataFormat source.Format       // Catalog table format (detected when empty)
	SimilarityFn   core.SimilarityFunc // Similarity function (default: cosine)
	Logger         core.Logger         // Optional logger
}

// DefaultConfig returns default configuration
func DefaultConfig(path string) Config {
	return Config{
		Path:         path,
		SimilarityFn: core.CosineSimilarity,
	}
}

// Recommendation is a ranked title joined with its catalog metadata.
type Recommendation struct {
	Title      string  `json:"title"`
	Score      float64 `json:"score"`
	Genre      string  `json:"genre,omitempty"`
	PosterLink string  `json:"poster_link,omitempty"`
}

// Movie describes one movie in the dataset.
type Movie struct {
	Title      string    `json:"title"`
	Genre      string    `json:"genre,omitempty"`
	PosterLink string    `json:"poster_link,omitempty"`
	Vector     []float64 `json:"vector,omitempty"`
}

// Stats describes a loaded dataset.
type Stats struct {
	Source         string        `json:"source"`
	Format         source.Format `json:"format"`
	Movies         int           `json:"movies"`
	Dimensions     int           `json:"dimensions"`
	CatalogEntries int           `json:"catalog_entries"`
	Unannotated    int           `json:"unannotated"`
	LoadedAt       time.Time     `json:"loaded_at"`
	LoadDuration   time.Duration `json:"load_duration"`
}

// Open loads the dataset described by config.
// Load failures are *core.LoadError and should stop the caller.
func Open(ctx context.Context, config Config) (*DB, error) {
	if config.Path == "" {
		return nil, errors.New("flixvec: dataset path cannot be empty")
	}
	if config.SimilarityFn == nil {
		config.SimilarityFn = core.CosineSimilarity
	}
	logger := config.Logger
	if logger == nil {
		logger = core.NopLogger()
	}

	start := time.Now()
	ds, err := source.Load(ctx, config.Path, source.Options{Format: config.Format, Logger: logger})
	if err != nil {
		return nil, err
	}

	cat := ds.Catalog
	if config.MetadataPath != "" {
		cat, err = source.LoadCatalog(ctx, config.MetadataPath, source.Options{Format: config.MetadataFormat, Logger: logger})
		if err != nil {
			return nil, err
		}
	}

	format := config.Format
	if format == "" {
		format, _ = source.DetectFormat(config.Path)
	}

	db := newDB(ds.Vectors, cat, config.SimilarityFn, logger)
	db.stats.Source = config.Path
	db.stats.Format = format
	db.stats.LoadedAt = time.Now()
	db.stats.LoadDuration = time.Since(start)

	if db.stats.Unannotated > 0 && cat != nil {
		logger.Warn("movies without catalog metadata", "count", db.stats.Unannotated)
	}
	return db, nil
}

// New wraps an already loaded store. cat may be nil.
func New(store *core.VectorStore, cat *catalog.Catalog, opts ...core.RankerOption) *DB {
	db := newDB(store, cat, core.CosineSimilarity, core.NopLogger())
	if len(opts) > 0 {
		db.ranker = core.NewRanker(store, append([]core.RankerOption{core.WithLogger(db.logger)}, opts...)...)
	}
	return db
}

func newDB(store *core.VectorStore, cat *catalog.Catalog, fn core.SimilarityFunc, logger core.Logger) *DB {
	titles := store.IDs()
	sort.Strings(titles)

	unannotated := 0
	for _, id := range titles {
		if _, ok := cat.Lookup(id); !ok {
			unannotated++
		}
	}

	return &DB{
		store:   store,
		catalog: cat,
		ranker:  core.NewRanker(store, core.WithSimilarityFunc(fn), core.WithLogger(logger)),
		titles:  titles,
		logger:  logger,
		stats: Stats{
			Movies:         store.Len(),
			Dimensions:     store.Dimensions(),
			CatalogEntries: cat.Len(),
			Unannotated:    unannotated,
		},
	}
}

// Recommend returns up to n titles most similar to title.
func (db *DB) Recommend(title string, n int) ([]string, error) {
	return db.ranker.Recommend(title, n)
}

// RecommendMovies is Recommend with scores and catalog metadata.
func (db *DB) RecommendMovies(title string, n int) ([]Recommendation, error) {
	scored, err := db.ranker.RecommendScored(title, n)
	if err != nil {
		return nil, err
	}

	out := make([]Recommendation, len(scored))
	for i, s := range scored {
		out[i] = Recommendation{Title: s.ID, Score: s.Score}
		if e, ok := db.catalog.Lookup(s.ID); ok {
			out[i].Genre = e.Genre
			out[i].PosterLink = e.PosterLink
		}
	}
	return out, nil
}

// Movie returns the stored vector and metadata of title.
func (db *DB) Movie(title string) (Movie, error) {
	vec, err := db.store.Get(title)
	if err != nil {
		return Movie{}, fmt.Errorf("flixvec: movie: %w", err)
	}
	m := Movie{Title: title, Vector: vec}
	if e, ok := db.catalog.Lookup(title); ok {
		m.Genre = e.Genre
		m.PosterLink = e.PosterLink
	}
	return m, nil
}

// Titles returns every title sorted ascending.
func (db *DB) Titles() []string {
	out := make([]string, len(db.titles))
	copy(out, db.titles)
	return out
}

// Search returns sorted titles containing query, ignoring case.
// An empty query matches everything; limit <= 0 means no limit.
func (db *DB) Search(query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))

	out := []string{}
	for _, title := range db.titles {
		if limit > 0 && len(out) >= limit {
			break
		}
		if query == "" || strings.Contains(strings.ToLower(title), query) {
			out = append(out, title)
		}
	}
	return out
}

// Contains reports whether title is in the dataset.
func (db *DB) Contains(title string) bool {
	return db.store.Contains(title)
}

// Stats returns statistics about the loaded dataset.
func (db *DB) Stats() Stats {
	return db.stats
}

// Store returns the underlying vector store.
func (db *DB) Store() *core.VectorStore {
	return db.store
}

// Catalog returns the metadata catalog, or nil.
func (db *DB) Catalog() *catalog.Catalog {
	return db.catalog
}

// Dataset returns the vectors and catalog for re-serialization.
func (db *DB) Dataset() *source.Dataset {
	return &source.Dataset{Vectors: db.store, Catalog: db.catalog}
}

// IsNotFound reports whether err means an unknown title.
func IsNotFound(err error) bool {
	return core.IsNotFound(err)
}
