// Package export writes resource listings as CSV files, locally and to S3.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/absensi/absensi/internal/aws"
	"github.com/absensi/absensi/internal/config/data"
	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/model"
	"github.com/absensi/absensi/internal/model1"
)

// ContentType is the media type of the exports.
const ContentType = "text/csv"

// Walker returns every record matching a page request.
type Walker[T any] interface {
	All(ctx context.Context, pr dao.PageRequest) ([]T, error)
}

// Options tunes the rendered columns.
type Options struct {
	// Hidden lists column keys left out of the file.
	Hidden []string

	// Search keeps the rows with a cell containing the text.
	Search string
}

// Target tells where an export goes. Dir and Uploader are both optional.
type Target struct {
	Dir      string
	Uploader *aws.Uploader
	Logger   *slog.Logger
}

// Result describes a finished export.
type Result struct {
	Rows int
	Path string
	URI  string
}

// FileName returns the export file name of a resource.
func FileName(resource string, now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", data.SanitizeFileName(resource), now.Format("20060102-150405"))
}

// WriteCSV renders the records through a table and writes the visible
// columns. The action column is never written. It returns the number of
// data rows written.
func WriteCSV[T any](w io.Writer, r model.Renderer[T], oo []T, opts Options) (int, error) {
	t := model.NewTable[T](r, max(len(oo), 1))
	t.SetData(oo)
	for _, k := range opts.Hidden {
		t.SetColumnVisibility(k, false)
	}
	for _, h := range t.Header() {
		if h.Kind == model1.KindActions {
			t.SetColumnVisibility(h.Key, false)
		}
	}
	t.SetGlobalFilter(opts.Search)
	g := t.Render()

	cw := csv.NewWriter(w)
	names := make([]string, 0, len(g.Header))
	for _, h := range g.Header {
		names = append(names, h.Name)
	}
	if err := cw.Write(names); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range g.Rows {
		if err := cw.Write(row.Fields); err != nil {
			return i, fmt.Errorf("write csv row %s: %w", row.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	return len(g.Rows), nil
}

// Resource walks every page of a resource and exports it.
func Resource[T any](ctx context.Context, name string, src Walker[T], r model.Renderer[T], pr dao.PageRequest, opts Options, tgt Target, now time.Time) (Result, error) {
	log := tgt.Logger
	if log == nil {
		log = slog.Default()
	}
	var res Result

	oo, err := src.All(ctx, pr)
	if err != nil {
		return res, fmt.Errorf("export %s: %w", name, err)
	}
	var buf bytes.Buffer
	if res.Rows, err = WriteCSV(&buf, r, oo, opts); err != nil {
		return res, fmt.Errorf("export %s: %w", name, err)
	}
	file := FileName(name, now)

	if tgt.Dir != "" {
		res.Path = filepath.Join(tgt.Dir, file)
		if err := data.EnsureFullPath(res.Path, 0700); err != nil {
			return res, err
		}
		if err := os.WriteFile(res.Path, buf.Bytes(), 0600); err != nil {
			return res, fmt.Errorf("write export %q: %w", res.Path, err)
		}
		log.Info("export written", "resource", name, "rows", res.Rows, "path", res.Path)
	}
	if tgt.Uploader != nil {
		if res.URI, err = tgt.Uploader.Upload(ctx, file, ContentType, bytes.NewReader(buf.Bytes())); err != nil {
			return res, err
		}
	}

	return res, nil
}
