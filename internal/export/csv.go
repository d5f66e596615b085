package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"trakt2letterboxd/internal/fileutil"
)

const filePrefix = "trakt-exported-"

// FileName returns the export file name for a list, e.g. trakt-exported-history.csv.
func FileName(list string) string {
	return filePrefix + list + ".csv"
}

// RecentFileName returns the file name of the most-recent-n history variant.
func RecentFileName(n int) string {
	return filePrefix + "history-last" + strconv.Itoa(n) + ".csv"
}

// Path joins dir and the export file name for list.
func Path(dir, list string) string {
	return filepath.Join(dir, FileName(list))
}

// Encode writes the header and one row per record to w as UTF-8 CSV.
func Encode(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, record := range records {
		if err := writer.Write(record.Row()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSV replaces path with the encoded records. An empty record set writes
// nothing and reports false.
func WriteCSV(path string, records []Record) (bool, error) {
	if len(records) == 0 {
		return false, nil
	}
	if err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, records)
	}); err != nil {
		return false, fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return true, nil
}
