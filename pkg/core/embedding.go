package core

// DefaultN is the number of recommendations returned when the caller has no preference.
const DefaultN = 20

// MovieVector is one movie's precomputed feature embedding.
type MovieVector struct {
	ID     string    `json:"id"`
	Vector []float64 `json:"vector"`
}

// ScoredMovie is a ranked candidate with its similarity to the query.
type ScoredMovie struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// StoreStats provides statistics about the vector store
type StoreStats struct {
	Count      int `json:"count"`
	Dimensions int `json:"dimensions"`
}
