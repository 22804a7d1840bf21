package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	DirectionEncode = "encode"
	DirectionDecode = "decode"
)

var (
	registerOnce sync.Once

	framesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bitstream",
			Subsystem: "frame",
			Name:      "total",
			Help:      "Frames processed by direction and result.",
		},
		[]string{"direction", "result"},
	)
	frameBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bitstream",
			Subsystem: "frame",
			Name:      "size_bytes",
			Help:      "Encoded frame size in bytes.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		},
		[]string{"direction"},
	)
	fieldsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bitstream",
			Subsystem: "tlv",
			Name:      "fields_total",
			Help:      "TLV fields processed by direction and kind.",
		},
		[]string{"direction", "kind"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(framesTotal, frameBytes, fieldsTotal)
	})
}

// RecordFrame counts one frame. result is "ok" or a failure reason.
func RecordFrame(direction, result string, size int) {
	RegisterMetrics()
	framesTotal.WithLabelValues(direction, result).Inc()
	if result == "ok" {
		frameBytes.WithLabelValues(direction).Observe(float64(size))
	}
}

func RecordField(direction, kind string) {
	RegisterMetrics()
	fieldsTotal.WithLabelValues(direction, kind).Inc()
}
