package transfer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/idilsaglam/watchlist/internal/model"
)

// Export renders the whole collection as a pretty-printed JSON array that
// Import accepts unchanged.
func Export(items []model.Item) ([]byte, error) {
	b, err := model.EncodeCollection(items)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return append(b, '\n'), nil
}

// ExportFileName is the dated name offered for an export, e.g. watchlist-2025-03-09.json.
// The date is taken in UTC.
func ExportFileName(t time.Time) string {
	return "watchlist-" + t.UTC().Format(time.DateOnly) + ".json"
}

// WriteExport writes the export document to path, creating parent directories.
func WriteExport(path string, items []model.Item) error {
	b, err := Export(items)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure export dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

var csvHeader = []string{
	"id", "type", "title", "creator", "status", "progress",
	"rating", "media", "link", "cover", "notes", "updatedAt",
}

// ExportCSV writes one row per item for spreadsheets. It cannot be re-imported.
func ExportCSV(w io.Writer, items []model.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, it := range items {
		row := []string{
			it.ID,
			it.Type,
			it.Title,
			it.Creator,
			string(it.Status),
			strconv.Itoa(it.Progress),
			strconv.FormatFloat(it.Rating, 'f', -1, 64),
			it.Media,
			it.Link,
			it.Cover,
			it.Notes,
			it.UpdatedAt,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
