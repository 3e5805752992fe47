package source

import (
	"context"
	"fmt"
	"os"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/liliang-cn/flixvec/pkg/catalog"
	"github.com/liliang-cn/flixvec/pkg/core"
)

const parquetBatchSize = 1024

type parquetRow struct {
	ID         string    `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Vector     []float64 `parquet:"name=vector, type=DOUBLE, repetitiontype=REPEATED"`
	Genre      string    `parquet:"name=genre, type=BYTE_ARRAY, convertedtype=UTF8"`
	PosterLink string    `parquet:"name=poster_link, type=BYTE_ARRAY, convertedtype=UTF8"`
}

func readParquetFile(ctx context.Context, path string) (*decoded, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, core.NewLoadError(path, 0, "", err)
	}

	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, core.NewLoadError(path, 0, "", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(parquetRow), 4)
	if err != nil {
		return nil, malformed(path, 0, "", "%v", err)
	}
	defer pr.ReadStop()

	total := int(pr.GetNumRows())
	d := &decoded{records: make([]core.MovieVector, 0, total)}
	for read := 0; read < total; {
		if err := ctx.Err(); err != nil {
			return nil, core.NewLoadError(path, read, "", err)
		}

		n := min(parquetBatchSize, total-read)
		rows := make([]parquetRow, n)
		if err := pr.Read(&rows); err != nil {
			return nil, malformed(path, read+1, "", "%v", err)
		}
		for _, row := range rows {
			d.records = append(d.records, core.MovieVector{ID: row.ID, Vector: row.Vector})
			if hasMetadata(row.Genre, row.PosterLink) {
				d.entries = append(d.entries, catalog.Entry{Title: row.ID, Genre: row.Genre, PosterLink: row.PosterLink})
			}
		}
		read += n
	}
	return d, nil
}

func writeParquetFile(ctx context.Context, path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("source: create %s: %w", path, err)
	}
	defer f.Close()

	pw, err := writer.NewParquetWriterFromWriter(f, new(parquetRow), 4)
	if err != nil {
		return fmt.Errorf("source: parquet writer: %w", err)
	}
	pw.RowGroupSize = 128 * 1024 * 1024 //128M
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i, rec := range ds.Vectors.Records() {
		if i%parquetBatchSize == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		row := parquetRow{ID: rec.ID, Vector: rec.Vector}
		if e, ok := ds.Catalog.Lookup(rec.ID); ok {
			row.Genre = e.Genre
			row.PosterLink = e.PosterLink
		}
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("source: write %s: %w", path, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("source: finish %s: %w", path, err)
	}
	return f.Close()
}
