package cellsio

import (
	"errors"
	"os"
	"sync"

	"biomass-tools/celltools"

	"github.com/parquet-go/parquet-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RowBufferSize is how many rows a worker holds before flushing.
const RowBufferSize = 10000

type CellRow struct {
	S2id  int64   `parquet:"s2_id" csv:"s2_id"`
	Value float64 `parquet:"value" csv:"value"`
	Geom  string  `parquet:"geom" csv:"geom"`
}

// StreamToParquet drains cellData into a snappy-compressed parquet file at
// path using numWorkers writers.
func StreamToParquet(cellData chan celltools.S2CellData, path string, numWorkers int) (err error) {
	var mu sync.Mutex

	output, err := os.Create(path)
	if err != nil {
		return err
	}
	writer := parquet.NewGenericWriter[CellRow](output, parquet.Compression(&parquet.Snappy))
	defer func() {
		err = errors.Join(err, writer.Close(), output.Close())
	}()

	flush := func(rows []CellRow) error {
		mu.Lock()
		defer mu.Unlock()
		if _, err := writer.Write(rows); err != nil {
			return err
		}
		return writer.Flush()
	}

	var g errgroup.Group
	for i := 0; i < max(1, numWorkers); i++ {
		g.Go(func() error {
			rowBuf := make([]CellRow, 0, RowBufferSize)
			for cell := range cellData {
				rowBuf = append(rowBuf, CellRow{int64(cell.Cell), cell.Data, cell.GeomString})
				if len(rowBuf) == RowBufferSize {
					logrus.Infof("Writing %d cells", len(rowBuf))
					if err := flush(rowBuf); err != nil {
						// keep draining so the producer is not blocked
						for range cellData {
						}
						return err
					}
					rowBuf = rowBuf[:0]
				}
			}
			if len(rowBuf) == 0 {
				return nil
			}
			return flush(rowBuf)
		})
	}
	return g.Wait()
}

// ReadParquet loads every row of a cell file.
func ReadParquet(path string) ([]CellRow, error) {
	return parquet.ReadFile[CellRow](path)
}
