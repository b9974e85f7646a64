// Package analytics is the Analytics Aggregator (C7) service seam, plus the
// supplemented seat-level and booking-level filtered views original_source/
// exposed and the distilled spec compressed into one paragraph.
package analytics

import "errors"

var ErrEventNotFound = errors.New("analytics: event not found")
