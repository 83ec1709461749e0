package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/sandpend/internal/physics"
)

// WriteCSV writes one time,x,y row per sample.
func WriteCSV(w io.Writer, path *physics.Path) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "x", "y"}); err != nil {
		return err
	}

	for t, p := range path.All() {
		row := []string{
			strconv.FormatFloat(t, 'f', 6, 64),
			strconv.FormatFloat(p.X, 'f', 9, 64),
			strconv.FormatFloat(p.Y, 'f', 9, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses samples written by WriteCSV.
func ReadCSV(r io.Reader) ([]float64, []physics.Point, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv: missing header")
	}

	times := make([]float64, 0, len(records)-1)
	points := make([]physics.Point, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 3 {
			return nil, nil, fmt.Errorf("csv: row %d has %d fields, want 3", i+2, len(rec))
		}
		var vals [3]float64
		for j, s := range rec {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("csv: row %d: %w", i+2, err)
			}
			vals[j] = v
		}
		times = append(times, vals[0])
		points = append(points, physics.Point{X: vals[1], Y: vals[2]})
	}
	return times, points, nil
}
