// Package exclusion finds the pixels that cannot count as marginal land and
// turns them into a mask over the crop grid.
package exclusion

import (
	"fmt"
	"math"

	"biomass-tools/catalog"
	"biomass-tools/grid"
)

// Point is one flagged pixel of a pass.
type Point struct {
	Lon   float64
	Lat   float64
	Value float64
	Row   int
	Col   int
}

// Pass is the output of one extraction rule on one clipped layer.
type Pass struct {
	Rule   string
	Grid   grid.Key
	Points []Point
}

// Extract flags every valid pixel of f that rule matches.
func Extract(f *grid.Field, rule catalog.ExclusionRule) Pass {
	p := Pass{Rule: rule.Name, Grid: f.Key()}
	for row := 0; row < f.Height; row++ {
		for col := 0; col < f.Width; col++ {
			v := f.At(row, col)
			if math.IsNaN(v) || !rule.Match(v) {
				continue
			}
			lon, lat := f.Transform.PixelCenter(row, col)
			p.Points = append(p.Points, Point{Lon: lon, Lat: lat, Value: v, Row: row, Col: col})
		}
	}
	return p
}

// MatchCodes flags pixels whose value is one of codes.
func MatchCodes(f *grid.Field, codes ...float64) Pass {
	return Extract(f, catalog.ExclusionRule{Name: "codes", Codes: codes})
}

// AboveThreshold flags pixels strictly above threshold.
func AboveThreshold(f *grid.Field, threshold float64) Pass {
	return Extract(f, catalog.ExclusionRule{Name: "threshold", Threshold: threshold})
}

// CoordinateSet is the concatenation of several passes. A pixel may appear
// in more than one pass.
type CoordinateSet struct {
	Passes []Pass
}

func (s *CoordinateSet) Add(p Pass) {
	s.Passes = append(s.Passes, p)
}

// Len counts coordinates including duplicates across passes.
func (s *CoordinateSet) Len() int {
	var n int
	for _, p := range s.Passes {
		n += len(p.Points)
	}
	return n
}

// Mask is the boolean exclusion mask of one pixel grid.
type Mask struct {
	Grid     grid.Key
	excluded []bool
}

// NewMask writes every coordinate of set into a mask over target. A pass
// derived from a different grid, or a coordinate outside target, is a
// configuration error and fails with grid.ErrResolutionMismatch.
func NewMask(target grid.Key, set *CoordinateSet) (*Mask, error) {
	m := &Mask{Grid: target, excluded: make([]bool, target.Width*target.Height)}
	if set == nil {
		return m, nil
	}
	for _, p := range set.Passes {
		if !p.Grid.Matches(target) {
			return nil, fmt.Errorf("%w: pass %q on %s, target %s", grid.ErrResolutionMismatch, p.Rule, p.Grid, target)
		}
		for _, pt := range p.Points {
			if pt.Row < 0 || pt.Col < 0 || pt.Row >= target.Height || pt.Col >= target.Width {
				return nil, fmt.Errorf("%w: pass %q pixel (%d, %d) outside %s", grid.ErrResolutionMismatch, p.Rule, pt.Row, pt.Col, target)
			}
			m.excluded[pt.Row*target.Width+pt.Col] = true
		}
	}
	return m, nil
}

func (m *Mask) Excluded(row, col int) bool {
	return m.excluded[row*m.Grid.Width+col]
}

// Count is the number of distinct excluded pixels.
func (m *Mask) Count() int {
	var n int
	for _, e := range m.excluded {
		if e {
			n++
		}
	}
	return n
}

func (m *Mask) check(f *grid.Field) error {
	if !f.Key().Matches(m.Grid) {
		return fmt.Errorf("%w: mask %s, field %s", grid.ErrResolutionMismatch, m.Grid, f.Key())
	}
	return nil
}

// Apply returns a copy of f with excluded pixels set to NaN.
func (m *Mask) Apply(f *grid.Field) (*grid.Field, error) {
	return m.fill(f, math.NaN())
}

// Zero returns a copy of f with excluded pixels set to zero.
func (m *Mask) Zero(f *grid.Field) (*grid.Field, error) {
	return m.fill(f, 0)
}

func (m *Mask) fill(f *grid.Field, v float64) (*grid.Field, error) {
	if err := m.check(f); err != nil {
		return nil, err
	}
	out := f.Clone()
	for i, e := range m.excluded {
		if e {
			out.Data[i] = v
		}
	}
	return out, nil
}
