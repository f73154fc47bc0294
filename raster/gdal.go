package raster

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"biomass-tools/grid"
	"biomass-tools/metrics"

	"github.com/airbusgeo/godal"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// GDALOpener opens local paths and HTTP(S) URLs through GDAL. Remote opens
// are retried with exponential backoff; every attempt is bounded by Timeout.
type GDALOpener struct {
	Timeout    time.Duration
	MaxElapsed time.Duration
}

func NewGDALOpener(timeout, maxElapsed time.Duration) *GDALOpener {
	godal.RegisterAll()
	return &GDALOpener{Timeout: timeout, MaxElapsed: maxElapsed}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func gdalPath(location string) string {
	location = strings.TrimSpace(location)
	if isRemote(location) {
		return "/vsicurl/" + location
	}
	return location
}

func (o *GDALOpener) Open(ctx context.Context, location string) (Source, error) {
	start := time.Now()
	defer func() {
		metrics.RasterOpenLatency.Observe(time.Since(start).Seconds())
	}()

	path := gdalPath(location)
	var src *gdalSource
	operation := func() error {
		s, err := o.openOnce(ctx, path)
		if err != nil {
			if !isRemote(strings.TrimSpace(location)) {
				return backoff.Permanent(err)
			}
			return err
		}
		src = s
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = o.MaxElapsed
	notify := func(err error, wait time.Duration) {
		logrus.WithField("location", location).Warnf("Open failed, retrying in %v: %v", wait, err)
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(bo, ctx), notify); err != nil {
		metrics.RasterOpensTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, location, err)
	}
	metrics.RasterOpensTotal.WithLabelValues("ok").Inc()
	return src, nil
}

// openOnce runs a single blocking GDAL open under the per-fetch timeout. A
// dataset that arrives after the deadline is closed in the background.
func (o *GDALOpener) openOnce(ctx context.Context, path string) (*gdalSource, error) {
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	type result struct {
		src *gdalSource
		err error
	}
	done := make(chan result, 1)
	go func() {
		s, err := openGDAL(path)
		done <- result{s, err}
	}()

	select {
	case r := <-done:
		return r.src, r.err
	case <-ctx.Done():
		go func() {
			if r := <-done; r.src != nil {
				if err := r.src.Close(); err != nil {
					logrus.Error(err)
				}
			}
		}()
		return nil, ctx.Err()
	}
}

type gdalSource struct {
	ds        *godal.Dataset
	band      godal.Band
	transform grid.Transform
	crs       string
	noData    float64
	hasNoData bool
	width     int
	height    int
	mu        sync.Mutex
}

func openGDAL(path string) (*gdalSource, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, err
	}
	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, errors.Join(fmt.Errorf("%s has no bands", path), ds.Close())
	}
	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, errors.Join(err, ds.Close())
	}
	structure := ds.Structure()
	noData, ok := bands[0].NoData()
	if !ok {
		logrus.WithField("path", path).Debug("NoData not set")
	}
	return &gdalSource{
		ds:        ds,
		band:      bands[0],
		transform: grid.Transform(gt),
		crs:       spatialRefName(ds),
		noData:    noData,
		hasNoData: ok,
		width:     structure.SizeX,
		height:    structure.SizeY,
	}, nil
}

// spatialRefName prefers an "EPSG:4326" style authority code and falls back
// to the WKT projection.
func spatialRefName(ds *godal.Dataset) string {
	sr := ds.SpatialRef()
	if sr == nil {
		return ds.Projection()
	}
	defer sr.Close()
	name, code := sr.AuthorityName(""), sr.AuthorityCode("")
	if name != "" && code != "" {
		return name + ":" + code
	}
	return ds.Projection()
}

func (s *gdalSource) Size() (int, int) { return s.width, s.height }

func (s *gdalSource) GeoTransform() grid.Transform { return s.transform }

func (s *gdalSource) CRS() string { return s.crs }

func (s *gdalSource) ReadWindow(x0, y0, width, height int) (*grid.Field, error) {
	if x0 < 0 || y0 < 0 || x0+width > s.width || y0+height > s.height {
		return nil, fmt.Errorf("window [%d,%d %dx%d] outside %dx%d raster", x0, y0, width, height, s.width, s.height)
	}
	out := grid.New(width, height, s.transform.Shift(y0, x0), s.crs)
	if width == 0 || height == 0 {
		return out, nil
	}
	if err := s.lockedRead(x0, y0, out.Data, width, height); err != nil {
		return nil, err
	}
	if s.hasNoData {
		out.NoData = s.noData
		for i, v := range out.Data {
			if v == s.noData {
				out.Data[i] = math.NaN()
			}
		}
	}
	return out, nil
}

// Locking is required to read from compressed rasters.
func (s *gdalSource) lockedRead(x0, y0 int, buf []float64, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.band.Read(x0, y0, buf, width, height)
}

func (s *gdalSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ds.Close()
}
