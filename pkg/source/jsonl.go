package source

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/goccy/go-json"

	"github.com/liliang-cn/flixvec/pkg/catalog"
	"github.com/liliang-cn/flixvec/pkg/core"
)

const maxLineSize = 64 << 20

type jsonlRecord struct {
	ID         string    `json:"id"`
	Vector     []float64 `json:"vector"`
	Genre      string    `json:"genre,omitempty"`
	PosterLink string    `json:"poster_link,omitempty"`
}

func readJSONLFile(ctx context.Context, path string) (*decoded, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	d := &decoded{}
	record := 0
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		record++
		if record%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, core.NewLoadError(path, record, "", err)
			}
		}

		var rec jsonlRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, malformed(path, record, "", "%v", err)
		}
		if rec.Vector == nil {
			return nil, malformed(path, record, rec.ID, "missing vector")
		}
		d.records = append(d.records, core.MovieVector{ID: rec.ID, Vector: rec.Vector})
		if hasMetadata(rec.Genre, rec.PosterLink) {
			d.entries = append(d.entries, catalog.Entry{Title: rec.ID, Genre: rec.Genre, PosterLink: rec.PosterLink})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, malformed(path, record+1, "", "%v", err)
	}
	return d, nil
}

func encodeJSONL(ctx context.Context, w io.Writer, ds *Dataset) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	for i, rec := range ds.Vectors.Records() {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		line := jsonlRecord{ID: rec.ID, Vector: rec.Vector}
		if e, ok := ds.Catalog.Lookup(rec.ID); ok {
			line.Genre = e.Genre
			line.PosterLink = e.PosterLink
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
