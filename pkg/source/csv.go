package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/liliang-cn/flixvec/pkg/catalog"
	"github.com/liliang-cn/flixvec/pkg/core"
)

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true
	return cr
}

// headerIDColumns are first-column names that mark a header row.
var headerIDColumns = map[string]bool{
	"id":           true,
	"title":        true,
	"series_title": true,
}

// looksLikeHeader reports whether the first row names columns instead of
// carrying a movie. A known id column name is enough; otherwise no field
// after the first may parse as a number, so a data row with one bad
// component is still reported as malformed.
func looksLikeHeader(row []string) bool {
	if headerIDColumns[strings.ToLower(strings.TrimSpace(row[0]))] {
		return true
	}
	for _, field := range row[1:] {
		if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err == nil {
			return false
		}
	}
	return true
}

// readCSVFile reads id,v0..vn rows. Errors carry the 1-based data record,
// header excluded, matching the numbering of store validation.
func readCSVFile(ctx context.Context, path string) (*decoded, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := newCSVReader(f)
	d := &decoded{}
	first := true
	record := 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed(path, record+1, "", "%v", err)
		}
		if first {
			first = false
			if len(row) > 1 && looksLikeHeader(row) {
				continue
			}
		}
		record++
		if record%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, core.NewLoadError(path, record, "", err)
			}
		}
		if len(row) < 2 {
			return nil, malformed(path, record, "", "expected id and at least one component, got %d fields", len(row))
		}

		id := row[0]
		vec := make([]float64, len(row)-1)
		for i, field := range row[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, malformed(path, record, id, "component %d: %q is not a number", i, field)
			}
			vec[i] = v
		}
		d.records = append(d.records, core.MovieVector{ID: id, Vector: vec})
	}
	return d, nil
}

// readCatalogCSVFile reads an IMDB style table. The header is required and
// column names are matched case-insensitively.
func readCatalogCSVFile(ctx context.Context, path string) ([]catalog.Entry, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := newCSVReader(f)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.NewLoadError(path, 0, "", core.ErrEmptySource)
	}
	if err != nil {
		return nil, malformed(path, 0, "", "header: %v", err)
	}

	titleCol, genreCol, posterCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "series_title", "title", "id":
			if titleCol < 0 {
				titleCol = i
			}
		case "genre":
			genreCol = i
		case "poster_link", "poster":
			posterCol = i
		}
	}
	if titleCol < 0 {
		return nil, malformed(path, 0, "", "header has no Series_Title column")
	}

	field := func(row []string, col int) string {
		if col < 0 || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	var entries []catalog.Entry
	record := 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		record++
		if err != nil {
			return nil, malformed(path, record, "", "%v", err)
		}
		if record%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, core.NewLoadError(path, record, "", err)
			}
		}
		title := ""
		if titleCol < len(row) {
			title = row[titleCol]
		}
		entries = append(entries, catalog.Entry{
			Title:      title,
			Genre:      field(row, genreCol),
			PosterLink: field(row, posterCol),
		})
	}
	return entries, nil
}

func encodeCSV(ctx context.Context, w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)

	dim := ds.Vectors.Dimensions()
	header := make([]string, 0, dim+1)
	header = append(header, "id")
	for i := 0; i < dim; i++ {
		header = append(header, "v"+strconv.Itoa(i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, dim+1)
	for i, rec := range ds.Vectors.Records() {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		row[0] = rec.ID
		for j, v := range rec.Vector {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
