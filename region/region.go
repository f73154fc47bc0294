// Package region holds the polygon a computation is restricted to and the
// administrative boundary lookup that produces it.
package region

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// GeoJSON coordinates are always WGS84 lon/lat.
const DefaultCRS = "EPSG:4326"

var (
	ErrNotFound     = errors.New("region not found")
	ErrEmptyRegion  = errors.New("region has no polygons")
	errNotPolygonal = errors.New("geometry is not a polygon or multipolygon")
)

// Region is an immutable multi-polygon in a named CRS.
type Region struct {
	Name     string
	Geometry orb.MultiPolygon
	CRS      string
}

// New builds a region from a Polygon, MultiPolygon or Bound.
func New(name string, g orb.Geometry, crs string) (Region, error) {
	mp, err := toMultiPolygon(g)
	if err != nil {
		return Region{}, err
	}
	if len(mp) == 0 {
		return Region{}, ErrEmptyRegion
	}
	if crs == "" {
		crs = DefaultCRS
	}
	return Region{Name: name, Geometry: mp, CRS: crs}, nil
}

// FromBounds is a rectangular region in lon/lat.
func FromBounds(name string, minX, minY, maxX, maxY float64) Region {
	b := orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}
	return Region{Name: name, Geometry: orb.MultiPolygon{b.ToPolygon()}, CRS: DefaultCRS}
}

func toMultiPolygon(g orb.Geometry) (orb.MultiPolygon, error) {
	switch v := g.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{v}, nil
	case orb.MultiPolygon:
		return v, nil
	case orb.Bound:
		return orb.MultiPolygon{v.ToPolygon()}, nil
	case orb.Collection:
		var out orb.MultiPolygon
		for _, c := range v {
			mp, err := toMultiPolygon(c)
			if err != nil {
				return nil, err
			}
			out = append(out, mp...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", errNotPolygonal, g)
	}
}

func (r Region) Bound() orb.Bound { return r.Geometry.Bound() }

// Contains reports whether the point lies inside the region. Points on a
// ring boundary count as inside.
func (r Region) Contains(lon, lat float64) bool {
	return planar.MultiPolygonContains(r.Geometry, orb.Point{lon, lat})
}

// FromGeoJSON accepts a FeatureCollection, a single Feature or a bare
// geometry. Every polygonal feature is merged into one region.
func FromGeoJSON(name string, data []byte) (Region, error) {
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && fc.Type == "FeatureCollection" {
		return fromFeatures(name, fc.Features)
	}
	if f, err := geojson.UnmarshalFeature(data); err == nil && f.Type == "Feature" {
		return fromFeatures(name, []*geojson.Feature{f})
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return Region{}, fmt.Errorf("decode geojson: %w", err)
	}
	return New(name, g.Geometry(), DefaultCRS)
}

func fromFeatures(name string, features []*geojson.Feature) (Region, error) {
	var mp orb.MultiPolygon
	for _, f := range features {
		if f.Geometry == nil {
			continue
		}
		part, err := toMultiPolygon(f.Geometry)
		if err != nil {
			return Region{}, err
		}
		mp = append(mp, part...)
	}
	return New(name, mp, DefaultCRS)
}
