// Package data loads hourly series from files for the CLI and API. The
// dispatch engine itself never touches files; it only consumes typed series.
package data

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"hybrid-sizing/internal/model"
)

// LoadSeries reads an hourly series from a .csv or .json file, dispatching
// on the extension.
func LoadSeries(path string) (model.HourlySeries, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadSeriesCSV(path)
	case ".json":
		return LoadSeriesJSON(path)
	default:
		return nil, fmt.Errorf("unsupported series file extension: %s", path)
	}
}

// LoadSeriesCSV reads one value per row (MW). A single header row is
// tolerated; a trailing column layout of "hour,value" works too, in which
// case the last column is taken.
func LoadSeriesCSV(path string) (model.HourlySeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make(model.HourlySeries, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[len(row)-1]), 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s contains no values", path)
	}
	return out, nil
}

// LoadSeriesJSON reads either a bare JSON array of numbers or an object with
// a "values" array.
func LoadSeriesJSON(path string) (model.HourlySeries, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var values []float64
	if err := json.Unmarshal(raw, &values); err == nil {
		return values, nil
	}

	var wrapper struct {
		Values []float64 `json:"values"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(wrapper.Values) == 0 {
		return nil, fmt.Errorf("%s contains no values", path)
	}
	return wrapper.Values, nil
}
