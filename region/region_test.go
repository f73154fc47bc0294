package region

import (
	"errors"
	"testing"
)

const provinces = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"NAME_0": "Ghana", "NAME_1": "Ashanti"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]}},
    {"type": "Feature", "properties": {"NAME_0": "Ghana", "NAME_1": "Volta"},
     "geometry": {"type": "Polygon", "coordinates": [[[2,0],[3,0],[3,1],[2,1],[2,0]]]}},
    {"type": "Feature", "properties": {"NAME_0": "Togo", "NAME_1": "Plateaux"},
     "geometry": {"type": "Polygon", "coordinates": [[[4,0],[5,0],[5,1],[4,1],[4,0]]]}}
  ]
}`

func TestLookup(t *testing.T) {
	b, err := ParseBoundaries([]byte(provinces))
	if err != nil {
		t.Fatal(err)
	}

	ghana, err := b.Lookup("ghana", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(ghana.Geometry) != 2 {
		t.Errorf("got %d polygons, want 2", len(ghana.Geometry))
	}
	if !ghana.Contains(2.5, 0.5) || ghana.Contains(4.5, 0.5) {
		t.Errorf("containment is wrong for merged country")
	}

	volta, err := b.Lookup("Ghana", "Volta")
	if err != nil {
		t.Fatal(err)
	}
	if volta.Name != "Ghana/Volta" || volta.CRS != DefaultCRS {
		t.Errorf("got %q in %q", volta.Name, volta.CRS)
	}
	if bound := volta.Bound(); bound.Min.X() != 2 || bound.Max.X() != 3 {
		t.Errorf("got bound %v", bound)
	}

	if _, err := b.Lookup("Ghana", "Lagos"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestFromGeoJSON(t *testing.T) {
	geom := `{"type": "MultiPolygon", "coordinates": [[[[0,0],[2,0],[2,2],[0,2],[0,0]]]]}`
	r, err := FromGeoJSON("square", []byte(geom))
	if err != nil {
		t.Fatal(err)
	}
	if !r.Contains(1, 1) || r.Contains(3, 1) {
		t.Errorf("containment is wrong")
	}

	r, err = FromGeoJSON("fc", []byte(provinces))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Geometry) != 3 {
		t.Errorf("got %d polygons, want 3", len(r.Geometry))
	}

	if _, err := FromGeoJSON("point", []byte(`{"type": "Point", "coordinates": [1, 1]}`)); err == nil {
		t.Error("expected error for point geometry")
	}
}
