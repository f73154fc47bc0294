// Package catalog holds the static reference data of the estimator: which
// raster serves which crop and scenario, the residue coefficients per crop,
// and the immutable run configuration built from them.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
)

var ErrUnknownCrop = errors.New("no catalog entry")

// Theme is what a raster layer measures.
type Theme string

const (
	Production     Theme = "production"
	HarvestedArea  Theme = "harvested_area"
	PotentialYield Theme = "potential_yield"
	Classification Theme = "classification"
	Exclusion      Theme = "exclusion"
	TreeCover      Theme = "tree_cover"
	Pasture        Theme = "pasture"
)

// Kind decides how a layer may be resampled.
type Kind string

const (
	Categorical Kind = "categorical"
	Continuous  Kind = "continuous"
)

// DefaultKind is used for entries without an explicit kind.
func DefaultKind(t Theme) Kind {
	switch t {
	case Classification, Exclusion:
		return Categorical
	default:
		return Continuous
	}
}

// Scenario is one point on the scenario axes.
type Scenario struct {
	Period       string
	ClimateModel string
	RCP          string
	WaterSupply  string
	InputLevel   string
}

func (s Scenario) String() string {
	parts := []string{s.Period}
	for _, p := range []string{s.ClimateModel, s.RCP, s.WaterSupply, s.InputLevel} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/")
}

// Entry maps one crop and scenario combination to a raster location. An
// empty field matches any value, on either the entry or the requested
// scenario side, so historical lookups need not name a climate model.
type Entry struct {
	Theme        Theme  `csv:"Theme"`
	Crop         string `csv:"Crop"`
	Period       string `csv:"Time Period"`
	ClimateModel string `csv:"Climate Model"`
	RCP          string `csv:"RCP"`
	WaterSupply  string `csv:"Water Supply"`
	InputLevel   string `csv:"Input Level"`
	Location     string `csv:"Download URL"`
	Kind         Kind   `csv:"Kind"`
}

func (e *Entry) Matches(theme Theme, crop string, s Scenario) bool {
	if e.Theme != theme || !strings.EqualFold(e.Crop, crop) {
		return false
	}
	return matchAxis(e.Period, s.Period) &&
		matchAxis(e.ClimateModel, s.ClimateModel) &&
		matchAxis(e.RCP, s.RCP) &&
		matchAxis(e.WaterSupply, s.WaterSupply) &&
		matchAxis(e.InputLevel, s.InputLevel)
}

func matchAxis(entry, want string) bool {
	return entry == "" || want == "" || entry == want
}

// Catalog is read-only once built and safe for concurrent use.
type Catalog struct {
	entries []Entry
	crops   map[Theme][]string
}

func New(entries []Entry) *Catalog {
	c := &Catalog{crops: make(map[Theme][]string)}
	seen := make(map[Theme]map[string]bool)
	for _, e := range entries {
		e.Crop = strings.TrimSpace(e.Crop)
		e.Location = strings.TrimSpace(e.Location)
		if e.Kind == "" {
			e.Kind = DefaultKind(e.Theme)
		}
		c.entries = append(c.entries, e)
		if e.Crop == "" {
			continue
		}
		if seen[e.Theme] == nil {
			seen[e.Theme] = make(map[string]bool)
		}
		if !seen[e.Theme][e.Crop] {
			seen[e.Theme][e.Crop] = true
			c.crops[e.Theme] = append(c.crops[e.Theme], e.Crop)
		}
	}
	return c
}

// Crops lists the crops of a theme in first-appearance order. The order is
// stable and decides argmax ties.
func (c *Catalog) Crops(theme Theme) []string {
	return append([]string(nil), c.crops[theme]...)
}

// Lookup returns the first entry in catalog order serving crop under s. Use
// an empty crop for static layers.
func (c *Catalog) Lookup(theme Theme, crop string, s Scenario) (Entry, error) {
	for _, e := range c.entries {
		if e.Matches(theme, crop, s) {
			return e, nil
		}
	}
	if crop == "" {
		return Entry{}, fmt.Errorf("%w: %s layer for %s", ErrUnknownCrop, theme, s)
	}
	return Entry{}, fmt.Errorf("%w: %s %q for %s", ErrUnknownCrop, theme, crop, s)
}

func (c *Catalog) Len() int { return len(c.entries) }

// ReadEntries decodes a catalog CSV. Every file carries one theme, so rows
// with an empty Theme column take defaultTheme.
func ReadEntries(r io.Reader, defaultTheme Theme) ([]Entry, error) {
	var rows []*Entry
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		if row.Theme == "" {
			row.Theme = defaultTheme
		}
		out = append(out, *row)
	}
	return out, nil
}

func LoadEntries(path string, defaultTheme Theme) (_ []Entry, err error) {
	logrus.WithField("path", path).Debug("Entered LoadEntries")
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return ReadEntries(file, defaultTheme)
}
