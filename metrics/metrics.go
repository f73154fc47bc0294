package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RasterOpensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biomass_raster_opens_total",
			Help: "Total raster open attempts",
		},
		[]string{"status"},
	)

	RasterOpenLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "biomass_raster_open_latency_seconds",
			Help:    "Raster open latency in seconds, retries included",
			Buckets: prometheus.DefBuckets,
		},
	)

	CropFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biomass_crop_failures_total",
			Help: "Crops whose data could not be used in a computation",
		},
		[]string{"stage"},
	)

	ClampedPixelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biomass_clamped_pixels_total",
			Help: "Pixels clamped to zero because of a negative value",
		},
		[]string{"quantity"},
	)

	MissingCoefficientsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "biomass_missing_coefficients_total",
			Help: "Crops treated as zero because they have no residue coefficients",
		},
	)
)
