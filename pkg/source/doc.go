// Package source reads and writes the serialized movie tables that feed a
// core.VectorStore and a catalog.Catalog.
//
// Supported formats:
//
//   - json: {"movie_dict": {title: vector}, "df": [{Series_Title, Genre, Poster_Link}]}
//     or a bare {title: vector} object. A vector may be a flat array or a
//     single-row matrix such as [[0.1, 0.2]]. Key order is preserved.
//   - jsonl: one {"id", "vector", "genre", "poster_link"} object per line.
//   - csv: id,v1,...,vd rows with an optional header row.
//   - parquet: id, vector (a repeated DOUBLE field, not a 3-level LIST),
//     genre, poster_link columns.
//   - sqlite: movie_vectors(position, id, vector BLOB) and movie_metadata tables.
//
// Any malformed, empty, inconsistent or duplicated input fails with a
// *core.LoadError.
package source
