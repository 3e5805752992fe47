package core

import (
	"fmt"
	"sort"
)

// Ranker performs exact brute-force similarity ranking over a VectorStore.
// Every query is an O(n·d) scan; it holds no state between calls.
type Ranker struct {
	store        *VectorStore
	similarityFn SimilarityFunc
	logger       Logger
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithSimilarityFunc overrides the scoring function (default CosineSimilarity).
func WithSimilarityFunc(fn SimilarityFunc) RankerOption {
	return func(r *Ranker) {
		if fn != nil {
			r.similarityFn = fn
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l Logger) RankerOption {
	return func(r *Ranker) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRanker creates a ranker over store.
func NewRanker(store *VectorStore, opts ...RankerOption) *Ranker {
	r := &Ranker{
		store:        store,
		similarityFn: CosineSimilarity,
		logger:       NopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the store the ranker scans.
func (r *Ranker) Store() *VectorStore {
	return r.store
}

// Recommend returns up to n ids most similar to queryID, best first.
//
// The query itself is never part of the result. Equal scores keep the
// store's load order. A missing queryID yields an error matching ErrNotFound.
func (r *Ranker) Recommend(queryID string, n int) ([]string, error) {
	scored, err := r.RecommendScored(queryID, n)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(scored))
	for i, s := range scored {
		ids[i] = s.ID
	}
	return ids, nil
}

// RecommendScored is Recommend with the similarity of each result.
func (r *Ranker) RecommendScored(queryID string, n int) ([]ScoredMovie, error) {
	if n < 0 {
		return nil, wrapError("recommend", fmt.Errorf("%w: %d", ErrInvalidCount, n))
	}

	query, ok := r.store.vectors[queryID]
	if !ok {
		r.logger.Debug("query not in store", "id", queryID)
		return nil, wrapError("recommend", &NotFoundError{ID: queryID})
	}

	if n == 0 {
		return []ScoredMovie{}, nil
	}

	candidates := make([]ScoredMovie, 0, r.store.Len()-1)
	r.store.Each(func(id string, vector []float64) bool {
		if id != queryID {
			candidates = append(candidates, ScoredMovie{ID: id, Score: r.similarityFn(query, vector)})
		}
		return true
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if n < len(candidates) {
		candidates = candidates[:n]
	}

	r.logger.Debug("ranked candidates", "id", queryID, "n", n, "returned", len(candidates))
	return candidates, nil
}

// Recommend ranks store entries by cosine similarity to queryID and returns
// the top n ids.
func Recommend(store *VectorStore, queryID string, n int) ([]string, error) {
	return NewRanker(store).Recommend(queryID, n)
}
