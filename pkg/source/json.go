package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/liliang-cn/flixvec/pkg/catalog"
	"github.com/liliang-cn/flixvec/pkg/core"
)

const (
	vectorTableKey  = "movie_dict"
	metadataKey     = "df"
	dfTitleField    = "Series_Title"
	dfGenreField    = "Genre"
	dfPosterField   = "Poster_Link"
	maxJSONFileSize = 2 << 30
)

// dfRecord is one row of the metadata table in a JSON dataset.
type dfRecord struct {
	SeriesTitle string `json:"Series_Title"`
	Genre       string `json:"Genre,omitempty"`
	PosterLink  string `json:"Poster_Link,omitempty"`
}

func readJSON(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.NewLoadError(path, 0, "", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, core.NewLoadError(path, 0, "", err)
	}
	if info.Size() > maxJSONFileSize {
		return nil, malformed(path, 0, "", "file of %d bytes is too large", info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewLoadError(path, 0, "", err)
	}
	return data, nil
}

func readJSONFile(ctx context.Context, path string) (*decoded, error) {
	data, err := readJSON(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodeJSON(path, data, true)
}

func readJSONCatalogFile(ctx context.Context, path string) (*decoded, error) {
	data, err := readJSON(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodeJSON(path, data, false)
}

// decodeJSON walks the document with gjson so that object key order, and
// repeated keys, are seen exactly as written.
func decodeJSON(path string, data []byte, withVectors bool) (*decoded, error) {
	if len(data) == 0 {
		return nil, core.NewLoadError(path, 0, "", core.ErrEmptySource)
	}
	if !gjson.ValidBytes(data) {
		return nil, malformed(path, 0, "", "invalid JSON document")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, malformed(path, 0, "", "top level must be an object")
	}

	d := &decoded{}
	table := root.Get(vectorTableKey)
	wrapped := table.Exists()
	if !wrapped {
		table = root
	}

	if withVectors {
		if !table.IsObject() {
			return nil, malformed(path, 0, "", "%s must be an object", vectorTableKey)
		}
		var decodeErr error
		record := 0
		table.ForEach(func(key, value gjson.Result) bool {
			record++
			vec, err := jsonVector(value)
			if err != nil {
				decodeErr = core.NewLoadError(path, record, key.String(), err)
				return false
			}
			d.records = append(d.records, core.MovieVector{ID: key.String(), Vector: vec})
			return true
		})
		if decodeErr != nil {
			return nil, decodeErr
		}
	}

	if !wrapped && withVectors {
		return d, nil
	}

	df := root.Get(metadataKey)
	if !df.Exists() {
		return d, nil
	}
	if !df.IsArray() {
		return nil, malformed(path, 0, "", "%s must be an array of records", metadataKey)
	}

	record := 0
	var decodeErr error
	df.ForEach(func(_, row gjson.Result) bool {
		record++
		if !row.IsObject() {
			decodeErr = malformed(path, record, "", "%s row is not an object", metadataKey)
			return false
		}
		d.entries = append(d.entries, catalog.Entry{
			Title:      row.Get(dfTitleField).String(),
			Genre:      row.Get(dfGenreField).String(),
			PosterLink: row.Get(dfPosterField).String(),
		})
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}

	return d, nil
}

// jsonVector accepts [x, y, ...] or a single-row matrix [[x, y, ...]].
func jsonVector(value gjson.Result) ([]float64, error) {
	if !value.IsArray() {
		return nil, fmt.Errorf("%w: vector is not an array", core.ErrMalformed)
	}

	items := value.Array()
	if len(items) == 1 && items[0].IsArray() {
		items = items[0].Array()
	}

	vec := make([]float64, len(items))
	for i, item := range items {
		if item.Type != gjson.Number {
			return nil, fmt.Errorf("%w: component %d is not a number", core.ErrMalformed, i)
		}
		vec[i] = item.Float()
	}
	return vec, nil
}

// encodeJSON writes the dataset document with keys in load order.
func encodeJSON(w io.Writer, ds *Dataset) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(`{"` + vectorTableKey + `":{`)
	for i, rec := range ds.Vectors.Records() {
		if i > 0 {
			bw.WriteByte(',')
		}
		key, err := json.Marshal(rec.ID)
		if err != nil {
			return err
		}
		vec, err := json.Marshal(rec.Vector)
		if err != nil {
			return err
		}
		bw.Write(key)
		bw.WriteByte(':')
		bw.Write(vec)
	}
	bw.WriteByte('}')

	if ds.Catalog != nil {
		rows := make([]dfRecord, 0, ds.Catalog.Len())
		_ = catalogEntries(ds, func(e catalog.Entry) error {
			rows = append(rows, dfRecord{SeriesTitle: e.Title, Genre: e.Genre, PosterLink: e.PosterLink})
			return nil
		})
		data, err := json.Marshal(rows)
		if err != nil {
			return err
		}
		bw.WriteString(`,"` + metadataKey + `":`)
		bw.Write(data)
	}

	bw.WriteString("}\n")
	return bw.Flush()
}
