package residue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"biomass-tools/clip"
	"biomass-tools/metrics"

	"github.com/gammazero/workerpool"
	"github.com/sirupsen/logrus"
)

// CropFailure is the error one crop ended with.
type CropFailure struct {
	Crop string
	Err  error
}

// PartialError lists the crops a computation had to leave out. The result
// it accompanies is still usable.
type PartialError struct {
	Stage    string
	Failures []CropFailure
}

func (e *PartialError) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Crop
	}
	return fmt.Sprintf("%s: %d crops failed: %s", e.Stage, len(e.Failures), strings.Join(names, ", "))
}

func (e *PartialError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// Failed reports whether crop is among the failures.
func (e *PartialError) Failed(crop string) bool {
	for _, f := range e.Failures {
		if f.Crop == crop {
			return true
		}
	}
	return false
}

// Fatal reports whether err must abort the whole computation rather than
// only the crop it came from.
func Fatal(err error) bool {
	return errors.Is(err, clip.ErrEmptyIntersection) || errors.Is(err, context.Canceled)
}

// ForEach runs fn for every crop on a worker pool and joins before
// returning. Results and errors keep the order of crops. A fatal error
// cancels the crops that have not started.
func ForEach[T any](ctx context.Context, workers int, crops []string, fn func(context.Context, string) (T, error)) ([]T, []error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]T, len(crops))
	errs := make([]error, len(crops))

	wp := workerpool.New(max(1, workers))
	for i, crop := range crops {
		i, crop := i, crop
		wp.Submit(func() {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			res, err := fn(ctx, crop)
			results[i], errs[i] = res, err
			if err != nil && Fatal(err) {
				logrus.WithField("crop", crop).Error(err)
				cancel()
			}
		})
	}
	wp.StopWait()
	return results, errs
}

// Collect splits per-crop errors into the first fatal one and a
// PartialError for the rest. Both are nil when every crop succeeded.
func Collect(stage string, crops []string, errs []error) (error, *PartialError) {
	var partial *PartialError
	var fatal error
	for i, err := range errs {
		if err == nil {
			continue
		}
		if Fatal(err) {
			if fatal == nil || errors.Is(fatal, context.Canceled) {
				fatal = err
			}
			continue
		}
		if partial == nil {
			partial = &PartialError{Stage: stage}
		}
		partial.Failures = append(partial.Failures, CropFailure{Crop: crops[i], Err: err})
		metrics.CropFailuresTotal.WithLabelValues(stage).Inc()
		logrus.WithFields(logrus.Fields{"stage": stage, "crop": crops[i]}).Error(err)
	}
	return fatal, partial
}
