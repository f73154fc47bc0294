package catalog

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestMaizeFactor(t *testing.T) {
	got, err := DefaultHistorical().Factor("Maize")
	if err != nil {
		t.Fatal(err)
	}
	want := 0.273*1*16.63 + 0.2*1*15.56 + 2*0.8*16.3
	if math.Abs(got-want) > 1e-9 || math.Abs(got-33.287) > 1e-3 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFactorIsSumOfRows(t *testing.T) {
	table := DefaultPotential()
	for _, crop := range table.Crops() {
		var want float64
		for _, r := range table.Residues(crop) {
			want += r.RPR * r.SAF * r.LHV
		}
		got, err := table.Factor(crop)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("%s: got %v, want %v", crop, got, want)
		}
	}
}

func TestJatrophaKeepsPublishedSAF(t *testing.T) {
	r, ok := DefaultPotential().Get("jatropha", "tegument")
	if !ok {
		t.Fatal("jatropha tegument missing")
	}
	if r.SAF != 10.8 {
		t.Errorf("got SAF %v, want 10.8", r.SAF)
	}
}

func TestMissingCoefficients(t *testing.T) {
	_, err := DefaultHistorical().Factor("Quinoa")
	if !errors.Is(err, ErrMissingCoefficients) {
		t.Errorf("got %v, want ErrMissingCoefficients", err)
	}
}

func TestDuplicateRowsRejected(t *testing.T) {
	_, err := NewTable([]Row{
		{Crop: "Rye", Residue: "straw", RPR: 1, SAF: 1, LHV: 1},
		{Crop: "rye", Residue: "Straw", RPR: 2, SAF: 1, LHV: 1},
	})
	if err == nil {
		t.Error("expected duplicate error")
	}
}

func TestCoefficientsCSV(t *testing.T) {
	in := "Crop,Residue Type,RPR,SAF,LHV (MJ/kg)\nRye,straw,1.25,0.4,15.24\nOat,straw,1.15,0.4,18.45\n"
	table, err := ReadCoefficients(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if got := table.Crops(); !reflect.DeepEqual(got, []string{"Rye", "Oat"}) {
		t.Errorf("got %v", got)
	}

	var buf bytes.Buffer
	if err := WriteCoefficients(&buf, table); err != nil {
		t.Fatal(err)
	}
	again, err := ReadCoefficients(&buf)
	if err != nil {
		t.Fatal(err)
	}
	f1, _ := table.Factor("Oat")
	f2, _ := again.Factor("Oat")
	if f1 != f2 {
		t.Errorf("got %v after rewrite, want %v", f2, f1)
	}
}

const potentialCSV = `Crop,Time Period,Climate Model,RCP,Water Supply,Input Level,Download URL
Maize,2041-2070,IPSL,RCP4.5,Rainfed,High, https://example.org/maize-45.tif
Maize,2041-2070,IPSL,RCP8.5,Rainfed,High,https://example.org/maize-85.tif
Alfalfa,2041-2070,IPSL,RCP4.5,Rainfed,High,https://example.org/alfalfa.tif
Maize,2041-2070,IPSL,RCP4.5,Rainfed,High,https://example.org/maize-dup.tif
`

func TestLookup(t *testing.T) {
	entries, err := ReadEntries(strings.NewReader(potentialCSV), PotentialYield)
	if err != nil {
		t.Fatal(err)
	}
	entries = append(entries, Entry{Theme: Exclusion, Location: "excl.tif"})
	c := New(entries)

	if got := c.Crops(PotentialYield); !reflect.DeepEqual(got, []string{"Maize", "Alfalfa"}) {
		t.Errorf("got crops %v", got)
	}

	s := Scenario{Period: "2041-2070", ClimateModel: "IPSL", RCP: "RCP4.5", WaterSupply: "Rainfed", InputLevel: "High"}
	e, err := c.Lookup(PotentialYield, "maize", s)
	if err != nil {
		t.Fatal(err)
	}
	if e.Location != "https://example.org/maize-45.tif" {
		t.Errorf("got %q, want first trimmed match", e.Location)
	}
	if e.Kind != Continuous {
		t.Errorf("got kind %q, want continuous", e.Kind)
	}

	// static layers match every scenario
	excl, err := c.Lookup(Exclusion, "", s)
	if err != nil {
		t.Fatal(err)
	}
	if excl.Kind != Categorical {
		t.Errorf("got kind %q, want categorical", excl.Kind)
	}

	s.RCP = "RCP2.6"
	if _, err := c.Lookup(PotentialYield, "Maize", s); !errors.Is(err, ErrUnknownCrop) {
		t.Errorf("got %v, want ErrUnknownCrop", err)
	}
}

func TestLookupBlankAxisMatchesAny(t *testing.T) {
	c := New([]Entry{
		{Theme: Production, Crop: "Maize", Period: "2000", ClimateModel: "CRUTS32", WaterSupply: "Total", Location: "maize-2000.tif"},
		{Theme: Production, Crop: "Maize", Period: "2010", ClimateModel: "CRUTS32", WaterSupply: "Total", Location: "maize-2010.tif"},
	})
	e, err := c.Lookup(Production, "Maize", Scenario{Period: "2010", WaterSupply: "Total"})
	if err != nil {
		t.Fatal(err)
	}
	if e.Location != "maize-2010.tif" {
		t.Errorf("got %q, want maize-2010.tif", e.Location)
	}
	if _, err := c.Lookup(Production, "Maize", Scenario{Period: "2010", WaterSupply: "Rainfed"}); !errors.Is(err, ErrUnknownCrop) {
		t.Errorf("got %v, want ErrUnknownCrop", err)
	}
}

func TestExclusionRuleMatch(t *testing.T) {
	rules := DefaultExclusionRules()
	if !rules[0].Match(49) || rules[0].Match(51) {
		t.Error("classification codes matched wrongly")
	}
	if !rules[2].Match(50.5) || rules[2].Match(50) {
		t.Error("tree cover threshold must be strict")
	}
}
