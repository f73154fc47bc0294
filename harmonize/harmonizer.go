package harmonize

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"biomass-tools/catalog"
	"biomass-tools/grid"
	"biomass-tools/raster"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type cacheKey struct {
	location string
	factor   int
	kind     catalog.Kind
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s@%d/%s", k.location, k.factor, k.kind)
}

// Harmonizer coarsens catalog layers and keeps the results, so static land
// layers are only processed once across scenarios.
type Harmonizer struct {
	opener  raster.Opener
	workers int

	group singleflight.Group
	mu    sync.RWMutex
	cache map[cacheKey]*grid.Field
}

func New(opener raster.Opener, workers int) *Harmonizer {
	return &Harmonizer{
		opener:  opener,
		workers: workers,
		cache:   make(map[cacheKey]*grid.Field),
	}
}

// Open returns entry coarsened by factor as an in-memory source. The
// resampling method follows the entry kind.
func (h *Harmonizer) Open(ctx context.Context, entry catalog.Entry, factor int) (raster.Source, error) {
	key := cacheKey{location: entry.Location, factor: factor, kind: entry.Kind}

	h.mu.RLock()
	f, ok := h.cache[key]
	h.mu.RUnlock()
	if ok {
		return raster.NewMemSource(f), nil
	}

	v, err, _ := h.group.Do(key.String(), func() (interface{}, error) {
		return h.coarsen(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return raster.NewMemSource(v.(*grid.Field)), nil
}

func (h *Harmonizer) coarsen(ctx context.Context, key cacheKey) (_ *grid.Field, err error) {
	log := logrus.WithFields(logrus.Fields{"location": key.location, "factor": key.factor, "kind": key.kind})
	log.Info("Harmonizing layer")

	src, err := h.opener.Open(ctx, key.location)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, src.Close())
	}()

	f, err := Coarsen(ctx, src, key.factor, MethodFor(key.kind), h.workers)
	if err != nil {
		return nil, fmt.Errorf("harmonize %s: %w", key.location, err)
	}

	h.mu.Lock()
	h.cache[key] = f
	h.mu.Unlock()
	log.WithField("grid", f.Key()).Debug("Harmonized layer")
	return f, nil
}

// Cached reports how many harmonized layers are held.
func (h *Harmonizer) Cached() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.cache)
}
