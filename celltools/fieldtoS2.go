package celltools

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"biomass-tools/area"
	"biomass-tools/grid"

	"github.com/golang/geo/s2"
	"github.com/sirupsen/logrus"
)

const EarthRadius = 6371000

type S2CellData struct {
	Cell       s2.CellID
	Data       float64
	GeomString string
}

type S2CellGeom struct {
	cell s2.CellID
	geom string
}

func (c S2CellData) String() string {
	return fmt.Sprintf("%v;%v;%s", int64(c.Cell), c.Data, c.GeomString)
}

type ConfigOpts struct {
	NumWorkers int
	S2Lvl      int
	// AggFunc reduces the pixel values falling into one cell. Energy fields
	// are extensive, so grid.Sum is the usual choice.
	AggFunc grid.AggFunc
}

// Sink consumes the indexed cells, e.g. a parquet or CSV writer.
type Sink func(chan S2CellData) error

// IndexField indexes f to S2 cells and streams the aggregated cells into
// sink. Streaming stops when sink returns.
func IndexField(ctx context.Context, f *grid.Field, opts ConfigOpts, sink Sink) error {
	cells, err := Index(ctx, f, opts)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cellCh := make(chan S2CellData)
	go func() {
		defer close(cellCh)
		for _, c := range cells {
			select {
			case cellCh <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return sink(cellCh)
}

// Index assigns the centre of every valid pixel of f to the S2 cell of
// level opts.S2Lvl containing it and aggregates per cell. A cell smaller
// than the pixel only receives the share of the value its area covers.
// Cells come back ordered by ID.
func Index(ctx context.Context, f *grid.Field, opts ConfigOpts) ([]S2CellData, error) {
	logrus.Debug("Entered Index")
	if opts.S2Lvl < 0 || opts.S2Lvl > s2.MaxLevel {
		return nil, fmt.Errorf("s2 level %d out of range [0, %d]", opts.S2Lvl, s2.MaxLevel)
	}
	if opts.AggFunc == nil {
		opts.AggFunc = grid.Sum
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rows := genRows(ctx, f.Height)
	resCh := processRows(ctx, f, opts, rows)
	resMap := groupByCell(resCh)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	aggResults := aggCellResults(resMap, opts.AggFunc)
	sort.Slice(aggResults, func(i, j int) bool { return aggResults[i].Cell < aggResults[j].Cell })
	logrus.WithField("cells", len(aggResults)).Debug("Exited Index")
	return aggResults, nil
}

// Produce row numbers to be consumed downstream. A field is held in memory,
// so a row is the natural block.
func genRows(ctx context.Context, height int) <-chan int {
	rows := make(chan int)
	go func() {
		defer close(rows)
		for row := 0; row < height; row++ {
			select {
			case rows <- row:
			case <-ctx.Done():
				return
			}
		}
	}()
	return rows
}

func processRows(ctx context.Context, f *grid.Field, opts ConfigOpts, rows <-chan int) chan S2CellData {
	logrus.Debug("Entered processRows")
	resCh := make(chan S2CellData, f.Width)
	var wg sync.WaitGroup

	workers := max(1, opts.NumWorkers)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for row := range rows {
				if !indexRow(ctx, f, row, opts.S2Lvl, resCh) {
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resCh)
	}()
	return resCh
}

// indexRow returns false once ctx is done.
func indexRow(ctx context.Context, f *grid.Field, row, level int, resCh chan<- S2CellData) bool {
	pw, ph := f.Transform.PixelWidth(), f.Transform.PixelHeight()
	for col := 0; col < f.Width; col++ {
		value := f.At(row, col)
		if math.IsNaN(value) {
			continue
		}
		lng, lat := f.Transform.PixelCenter(row, col)
		s2Cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng)).Parent(level)
		cell := s2.CellFromCellID(s2Cell)

		pixArea := area.PixelHectares(pw, ph, lat) * area.SquareMetresPerHectare
		if cellArea := cell.ExactArea() * EarthRadius * EarthRadius; cellArea < pixArea {
			value = value * cellArea / pixArea
		}

		select {
		case resCh <- S2CellData{s2Cell, value, cellToWKT(cell)}:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

func aggCellResults(resMap map[S2CellGeom][]float64, aggFunc grid.AggFunc) []S2CellData {
	aggResults := make([]S2CellData, 0, len(resMap))
	for cellGeom, values := range resMap {
		aggResults = append(aggResults, S2CellData{cellGeom.cell, aggFunc(values...), cellGeom.geom})
	}
	return aggResults
}

func groupByCell(resCh <-chan S2CellData) map[S2CellGeom][]float64 {
	outMap := make(map[S2CellGeom][]float64)
	for cellData := range resCh {
		cellGeom := S2CellGeom{cellData.Cell, cellData.GeomString}
		outMap[cellGeom] = append(outMap[cellGeom], cellData.Data)
	}
	return outMap
}
