package cellsio

import (
	"errors"
	"io"
	"math"
	"os"
	"sort"

	"biomass-tools/celltools"
	"biomass-tools/grid"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
)

// PixelRow is one valid pixel of a dense field.
type PixelRow struct {
	Lon   float64 `csv:"lon"`
	Lat   float64 `csv:"lat"`
	Row   int     `csv:"row"`
	Col   int     `csv:"col"`
	Value float64 `csv:"value"`
	Crop  string  `csv:"crop,omitempty"`
}

// BreakdownRow is the energy one crop contributes to a scenario.
type BreakdownRow struct {
	Scenario string  `csv:"scenario"`
	Crop     string  `csv:"crop"`
	EnergyGJ float64 `csv:"energy_gj"`
}

// PixelRows lists the valid pixels of f in row-major order. label, when not
// nil, names the crop of a pixel.
func PixelRows(f *grid.Field, label func(row, col int) string) []PixelRow {
	var rows []PixelRow
	for row := 0; row < f.Height; row++ {
		for col := 0; col < f.Width; col++ {
			v := f.At(row, col)
			if math.IsNaN(v) {
				continue
			}
			lon, lat := f.Transform.PixelCenter(row, col)
			r := PixelRow{Lon: lon, Lat: lat, Row: row, Col: col, Value: v}
			if label != nil {
				r.Crop = label(row, col)
			}
			rows = append(rows, r)
		}
	}
	return rows
}

func WritePixelsCSV(w io.Writer, f *grid.Field, label func(row, col int) string) error {
	rows := PixelRows(f, label)
	logrus.Infof("Writing %d pixels", len(rows))
	return gocsv.Marshal(rows, w)
}

// WriteBreakdownCSV writes one row per crop, sorted by crop name.
func WriteBreakdownCSV(w io.Writer, scenario string, breakdown map[string]float64) error {
	rows := make([]BreakdownRow, 0, len(breakdown))
	for crop, energy := range breakdown {
		rows = append(rows, BreakdownRow{Scenario: scenario, Crop: crop, EnergyGJ: energy})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Crop < rows[j].Crop })
	return gocsv.Marshal(rows, w)
}

func WriteCellsCSV(w io.Writer, cellData []celltools.S2CellData) error {
	rows := make([]CellRow, len(cellData))
	for i, cell := range cellData {
		if i%10000 == 0 {
			logrus.Debugf("Writing cell %d", i)
		}
		rows[i] = CellRow{int64(cell.Cell), cell.Data, cell.GeomString}
	}
	return gocsv.Marshal(rows, w)
}

// WriteFile creates path and hands it to write. Close errors are joined.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := write(f); err != nil {
		return err
	}
	return f.Sync()
}
