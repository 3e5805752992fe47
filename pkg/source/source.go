package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/liliang-cn/flixvec/pkg/catalog"
	"github.com/liliang-cn/flixvec/pkg/core"
)

// Format identifies a serialized table layout.
type Format string

const (
	// FormatJSON is a {"movie_dict": {...}, "df": [...]} dataset document
	FormatJSON Format = "json"
	// FormatJSONL holds one {"id", "vector"} object per line
	FormatJSONL Format = "jsonl"
	// FormatCSV holds id,v1,...,vd rows
	FormatCSV Format = "csv"
	// FormatParquet holds an id column and a repeated DOUBLE vector field
	FormatParquet Format = "parquet"
	// FormatSQLite holds movie_vectors and movie_metadata tables
	FormatSQLite Format = "sqlite"
)

// ErrUnknownFormat is returned when a format name or file extension is not recognised
var ErrUnknownFormat = errors.New("unknown source format")

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatJSONL, FormatCSV, FormatParquet, FormatSQLite}
}

// ParseFormat converts a user-supplied name to a Format. An empty name yields "".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return "", nil
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "csv":
		return FormatCSV, nil
	case "parquet":
		return FormatParquet, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// DetectFormat picks a format from the file extension of path.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".csv":
		return FormatCSV, nil
	case ".parquet":
		return FormatParquet, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: cannot detect format of %q", ErrUnknownFormat, path)
	}
}

// Options controls how a source is read.
type Options struct {
	Format Format      // Forced format, detected from the extension when empty
	Logger core.Logger // Optional logger
}

func (o Options) logger() core.Logger {
	if o.Logger == nil {
		return core.NopLogger()
	}
	return o.Logger
}

func (o Options) format(path string) (Format, error) {
	if o.Format != "" {
		return ParseFormat(string(o.Format))
	}
	return DetectFormat(path)
}

// Dataset is a loaded vector table plus the catalog carried by the same source, if any.
type Dataset struct {
	Vectors *core.VectorStore
	Catalog *catalog.Catalog // nil when the source carries no metadata
}

// decoded is the raw output of a format reader before validation.
type decoded struct {
	records []core.MovieVector
	entries []catalog.Entry
}

// Load parses the table at path into a validated Dataset.
// Every failure is a *core.LoadError.
func Load(ctx context.Context, path string, opts Options) (*Dataset, error) {
	start := time.Now()
	logger := opts.logger()

	format, err := opts.format(path)
	if err != nil {
		return nil, core.NewLoadError(path, 0, "", err)
	}

	var d *decoded
	switch format {
	case FormatJSON:
		d, err = readJSONFile(ctx, path)
	case FormatJSONL:
		d, err = readJSONLFile(ctx, path)
	case FormatCSV:
		d, err = readCSVFile(ctx, path)
	case FormatParquet:
		d, err = readParquetFile(ctx, path)
	case FormatSQLite:
		d, err = readSQLiteFile(ctx, path)
	default:
		err = core.NewLoadError(path, 0, "", fmt.Errorf("%w: %q", ErrUnknownFormat, format))
	}
	if err != nil {
		return nil, err
	}

	store, err := core.NewVectorStoreFrom(path, d.records)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Vectors: store}
	if len(d.entries) > 0 {
		if ds.Catalog, err = catalog.NewFrom(path, d.entries); err != nil {
			return nil, err
		}
	}

	logger.Info("dataset loaded",
		"source", path,
		"format", string(format),
		"movies", store.Len(),
		"dimensions", store.Dimensions(),
		"catalog", ds.Catalog.Len(),
		"duration", time.Since(start).String(),
	)
	return ds, nil
}

// LoadCatalog reads only the metadata table at path.
//
// CSV files are read in the IMDB layout (Series_Title, Genre, Poster_Link);
// the other formats use the catalog half of their dataset.
func LoadCatalog(ctx context.Context, path string, opts Options) (*catalog.Catalog, error) {
	format, err := opts.format(path)
	if err != nil {
		return nil, core.NewLoadError(path, 0, "", err)
	}

	var entries []catalog.Entry
	switch format {
	case FormatCSV:
		entries, err = readCatalogCSVFile(ctx, path)
	default:
		var d *decoded
		d, err = readCatalogDataset(ctx, path, format)
		if d != nil {
			entries = d.entries
		}
	}
	if err != nil {
		return nil, err
	}

	c, err := catalog.NewFrom(path, entries)
	if err != nil {
		return nil, err
	}
	opts.logger().Info("catalog loaded", "source", path, "format", string(format), "entries", c.Len())
	return c, nil
}

func readCatalogDataset(ctx context.Context, path string, format Format) (*decoded, error) {
	switch format {
	case FormatJSON:
		return readJSONCatalogFile(ctx, path)
	case FormatJSONL:
		return readJSONLFile(ctx, path)
	case FormatParquet:
		return readParquetFile(ctx, path)
	case FormatSQLite:
		return readSQLiteFile(ctx, path)
	default:
		return nil, core.NewLoadError(path, 0, "", fmt.Errorf("%w: %q", ErrUnknownFormat, format))
	}
}

// Write serializes ds to path in the given format, detected from the
// extension when format is empty. Load order is preserved.
func Write(ctx context.Context, path string, format Format, ds *Dataset) error {
	if ds == nil || ds.Vectors == nil {
		return errors.New("source: nothing to write")
	}
	if format == "" {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return err
		}
	}

	switch format {
	case FormatJSON:
		return writeFile(path, func(f *os.File) error { return encodeJSON(f, ds) })
	case FormatJSONL:
		return writeFile(path, func(f *os.File) error { return encodeJSONL(ctx, f, ds) })
	case FormatCSV:
		return writeFile(path, func(f *os.File) error { return encodeCSV(ctx, f, ds) })
	case FormatParquet:
		return writeParquetFile(ctx, path, ds)
	case FormatSQLite:
		return writeSQLiteFile(ctx, path, ds)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("source: create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("source: write %s: %w", path, err)
	}
	return f.Close()
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewLoadError(path, 0, "", err)
	}
	return f, nil
}

func malformed(path string, record int, id string, format string, args ...any) error {
	return core.NewLoadError(path, record, id, fmt.Errorf("%w: %s", core.ErrMalformed, fmt.Sprintf(format, args...)))
}

// hasMetadata reports whether a record carries any catalog fields.
func hasMetadata(genre, poster string) bool {
	return strings.TrimSpace(genre) != "" || strings.TrimSpace(poster) != ""
}

func catalogEntries(ds *Dataset, fn func(catalog.Entry) error) error {
	if ds.Catalog == nil {
		return nil
	}
	for _, e := range ds.Catalog.Entries() {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}
