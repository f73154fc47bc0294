package scenario

import (
	"context"

	"biomass-tools/catalog"
	"biomass-tools/residue"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Axes spans the scenarios of a comparison.
type Axes struct {
	HistoricalPeriods []string
	// HistoricalWater is the water regime of the observed years.
	HistoricalWater string
	FuturePeriods   []string
	RCPs            []string
	ClimateModel    string
	WaterSupply     string
	InputLevel      string
}

func DefaultAxes() Axes {
	return Axes{
		HistoricalPeriods: []string{"2000", "2010"},
		HistoricalWater:   "Total",
		FuturePeriods:     []string{"2011-2040", "2041-2070", "2071-2100"},
		RCPs:              []string{"RCP2.6", "RCP4.5", "RCP6.0", "RCP8.5"},
		ClimateModel:      "IPSL-CM5A-LR",
		WaterSupply:       "Rainfed",
		InputLevel:        "High",
	}
}

// Futures lists every projected scenario, period-major.
func (x Axes) Futures() []catalog.Scenario {
	var out []catalog.Scenario
	for _, period := range x.FuturePeriods {
		for _, rcp := range x.RCPs {
			out = append(out, catalog.Scenario{
				Period:       period,
				ClimateModel: x.ClimateModel,
				RCP:          rcp,
				WaterSupply:  x.WaterSupply,
				InputLevel:   x.InputLevel,
			})
		}
	}
	return out
}

// Kind tells which pipeline produced a cell.
type Kind string

const (
	Cropland Kind = "cropland"
	Marginal Kind = "marginal"
)

// Cell is one scenario of a comparison. A failed scenario keeps its error
// and does not stop the others.
type Cell struct {
	Kind      Kind
	Scenario  catalog.Scenario
	Total     float64 // GJ
	Breakdown map[string]float64
	Quality   residue.Quality
	Err       error
}

// Cropland runs the cropland residue path for every historical year and
// every future scenario of axes.
func (a *Aggregator) Cropland(ctx context.Context, axes Axes) ([]Cell, error) {
	var jobs []catalog.Scenario
	for _, p := range axes.HistoricalPeriods {
		jobs = append(jobs, catalog.Scenario{Period: p, WaterSupply: axes.HistoricalWater})
	}
	historical := len(jobs)
	jobs = append(jobs, axes.Futures()...)

	return a.compare(ctx, jobs, func(ctx context.Context, i int, s catalog.Scenario) Cell {
		var res *residue.Result
		var err error
		if i < historical {
			res, err = a.Historical(ctx, s.Period, s.WaterSupply)
		} else {
			res, err = a.Future(ctx, s)
		}
		c := Cell{Kind: Cropland, Scenario: s, Err: err}
		if res != nil {
			c.Total, c.Breakdown, c.Quality = res.Total, res.Breakdown(), res.Quality
		}
		return c
	})
}

// MarginalComparison runs the marginal-land path for every future scenario
// of axes.
func (a *Aggregator) MarginalComparison(ctx context.Context, axes Axes) ([]Cell, error) {
	return a.compare(ctx, axes.Futures(), func(ctx context.Context, _ int, s catalog.Scenario) Cell {
		res, err := a.Marginal(ctx, s)
		c := Cell{Kind: Marginal, Scenario: s, Err: err}
		if res != nil {
			c.Total, c.Breakdown, c.Quality = res.Total, res.Breakdown(), res.Quality
		}
		return c
	})
}

// compare runs fn for every scenario with at most Concurrency in flight.
// Only cancellation of ctx is returned as an error.
func (a *Aggregator) compare(ctx context.Context, jobs []catalog.Scenario, fn func(context.Context, int, catalog.Scenario) Cell) ([]Cell, error) {
	cells := make([]Cell, len(jobs))
	var g errgroup.Group
	g.SetLimit(max(1, a.Concurrency))
	for i, s := range jobs {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				cells[i] = Cell{Scenario: s, Err: err}
				return err
			}
			cells[i] = fn(ctx, i, s)
			if cells[i].Err != nil {
				logrus.WithFields(logrus.Fields{"scenario": s, "kind": cells[i].Kind}).Warn(cells[i].Err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return cells, err
	}
	return cells, ctx.Err()
}
