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

var ErrMissingCoefficients = errors.New("no residue coefficients")

// Row is one residue component of a crop. LHV is in MJ/kg.
type Row struct {
	Crop    string  `csv:"Crop"`
	Residue string  `csv:"Residue Type"`
	RPR     float64 `csv:"RPR"`
	SAF     float64 `csv:"SAF"`
	LHV     float64 `csv:"LHV (MJ/kg)"`
}

// Energy is RPR*SAF*LHV, the energy in MJ per kg of harvested product.
func (r Row) Energy() float64 { return r.RPR * r.SAF * r.LHV }

type residueKey struct {
	crop    string
	residue string
}

// Table is an immutable (crop, residue) -> Row mapping.
type Table struct {
	rows   map[residueKey]Row
	byCrop map[string][]Row
	crops  []string
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewTable rejects duplicate (crop, residue) pairs and negative
// coefficients. SAF above 1 is kept as given.
func NewTable(rows []Row) (*Table, error) {
	t := &Table{
		rows:   make(map[residueKey]Row, len(rows)),
		byCrop: make(map[string][]Row),
	}
	for _, r := range rows {
		k := residueKey{normalize(r.Crop), normalize(r.Residue)}
		if _, ok := t.rows[k]; ok {
			return nil, fmt.Errorf("duplicate coefficients for %s/%s", r.Crop, r.Residue)
		}
		if r.RPR < 0 || r.SAF < 0 || r.LHV < 0 {
			return nil, fmt.Errorf("negative coefficient for %s/%s", r.Crop, r.Residue)
		}
		if r.SAF > 1 {
			logrus.WithFields(logrus.Fields{"crop": r.Crop, "residue": r.Residue, "saf": r.SAF}).Warn("SAF outside [0,1]")
		}
		t.rows[k] = r
		if _, ok := t.byCrop[k.crop]; !ok {
			t.crops = append(t.crops, r.Crop)
		}
		t.byCrop[k.crop] = append(t.byCrop[k.crop], r)
	}
	return t, nil
}

func mustTable(rows []Row) *Table {
	t, err := NewTable(rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Get returns the coefficients of one residue component.
func (t *Table) Get(crop, residue string) (Row, bool) {
	r, ok := t.rows[residueKey{normalize(crop), normalize(residue)}]
	return r, ok
}

// Residues lists the residue rows of a crop.
func (t *Table) Residues(crop string) []Row {
	return append([]Row(nil), t.byCrop[normalize(crop)]...)
}

// Factor is the crop's total conversion factor, the sum of RPR*SAF*LHV
// over its residue rows, in GJ per tonne of product.
func (t *Table) Factor(crop string) (float64, error) {
	rows, ok := t.byCrop[normalize(crop)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingCoefficients, crop)
	}
	var sum float64
	for _, r := range rows {
		sum += r.Energy()
	}
	return sum, nil
}

func (t *Table) Crops() []string { return append([]string(nil), t.crops...) }

func ReadCoefficients(r io.Reader) (*Table, error) {
	var rows []*Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return NewTable(out)
}

func LoadCoefficients(path string) (_ *Table, err error) {
	logrus.WithField("path", path).Debug("Entered LoadCoefficients")
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return ReadCoefficients(file)
}

// WriteCoefficients writes t in the CSV layout ReadCoefficients accepts.
func WriteCoefficients(w io.Writer, t *Table) error {
	var rows []*Row
	for _, crop := range t.crops {
		for _, r := range t.byCrop[normalize(crop)] {
			r := r
			rows = append(rows, &r)
		}
	}
	return gocsv.Marshal(&rows, w)
}
