package region

import (
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
)

// Property names used by GADM level-0/level-1 exports.
const (
	CountryProperty     = "NAME_0"
	SubdivisionProperty = "NAME_1"
)

// Finder resolves a country and optional subdivision to a region.
type Finder interface {
	Lookup(country, subdivision string) (Region, error)
}

// Boundaries is an administrative boundary set held in memory.
type Boundaries struct {
	features []*geojson.Feature
}

func LoadBoundaries(path string) (*Boundaries, error) {
	logrus.Debug("Entered LoadBoundaries")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBoundaries(data)
}

func ParseBoundaries(data []byte) (*Boundaries, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode boundaries: %w", err)
	}
	return &Boundaries{features: fc.Features}, nil
}

// Lookup merges every feature of country, or only those of subdivision when
// it is set. Names compare case-insensitively.
func (b *Boundaries) Lookup(country, subdivision string) (Region, error) {
	var mp orb.MultiPolygon
	for _, f := range b.features {
		if !strings.EqualFold(f.Properties.MustString(CountryProperty, ""), country) {
			continue
		}
		if subdivision != "" && !strings.EqualFold(f.Properties.MustString(SubdivisionProperty, ""), subdivision) {
			continue
		}
		part, err := toMultiPolygon(f.Geometry)
		if err != nil {
			return Region{}, err
		}
		mp = append(mp, part...)
	}
	name := country
	if subdivision != "" {
		name = country + "/" + subdivision
	}
	if len(mp) == 0 {
		return Region{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	logrus.WithFields(logrus.Fields{"region": name, "polygons": len(mp)}).Debug("Resolved region")
	return New(name, mp, DefaultCRS)
}
