// Package core provides the vector store and similarity ranker for flixvec.
//
// A VectorStore is an immutable title → embedding table built once from
// decoded records. A Ranker scans it and orders every other movie by cosine
// similarity to a query title.
//
// # Key Components
//
//   - VectorStore: validated, load-ordered, read-only table of MovieVector.
//   - Ranker: exact brute-force top-N ranking with stable tie-breaking.
//   - LoadError / NotFoundError: the two failure kinds callers handle.
//   - Logger: pluggable structured logging, zerolog-backed or no-op.
//
// # Example
//
//	store, err := core.NewVectorStore([]core.MovieVector{
//	    {ID: "Heat", Vector: []float64{0.9, 0.1}},
//	    {ID: "Ronin", Vector: []float64{0.8, 0.2}},
//	    {ID: "Amelie", Vector: []float64{0.1, 0.9}},
//	})
//	if err != nil {
//	    return err
//	}
//	ids, err := core.Recommend(store, "Heat", core.DefaultN)
//	if core.IsNotFound(err) {
//	    // no recommendations
//	}
package core
