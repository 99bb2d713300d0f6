// Package sheet loads ranking spreadsheets exported as one CSV file per
// position tab.
package sheet

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// ReadDir reads every *.csv file in dir. The sheet name is the file name
// without extension, so QB.csv becomes sheet "QB".
func ReadDir(dir string) (map[string][][]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet dir %s", dir)
	}

	sheets := make(map[string][][]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		rows, err := ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		sheets[name] = rows
	}

	if len(sheets) == 0 {
		return nil, errors.Newf("no csv sheets found in %s", dir)
	}
	return sheets, nil
}

func ReadFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sheet %s", path)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse sheet %s", path)
	}
	return rows, nil
}

// Read parses CSV rows. Rows may have differing widths and a leading UTF-8
// byte order mark is dropped.
func Read(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}
