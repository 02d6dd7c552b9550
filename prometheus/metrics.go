// Package prometheus records crawl progress as Prometheus metrics.
package prometheus

import (
	"github.com/fwojciec/imgcrawl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters of a crawl run on a private registry.
// Metrics is safe for concurrent use.
type Metrics struct {
	registry   *prometheus.Registry
	pages      *prometheus.CounterVec
	images     *prometheus.CounterVec
	imageBytes prometheus.Counter
}

// NewMetrics creates Metrics registered on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		pages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "imgcrawl_pages_total",
			Help: "Pages processed by the crawler, by result.",
		}, []string{"result"}),
		images: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "imgcrawl_images_total",
			Help: "Images processed by download workers, by result.",
		}, []string{"result"}),
		imageBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "imgcrawl_image_bytes_total",
			Help: "Bytes of image data written to disk.",
		}),
	}
}

// Observe records a progress event. It has the signature of
// imgcrawl.ProgressFunc.
func (m *Metrics) Observe(event imgcrawl.ProgressEvent) {
	switch event.Type {
	case imgcrawl.PageAccepted:
		m.pages.WithLabelValues("accepted").Inc()
	case imgcrawl.PageSkipped:
		m.pages.WithLabelValues("skipped").Inc()
	case imgcrawl.PageFailed:
		m.pages.WithLabelValues("failed").Inc()
	case imgcrawl.ImageSaved:
		m.images.WithLabelValues("saved").Inc()
		m.imageBytes.Add(float64(event.Bytes))
	case imgcrawl.ImageSkipped:
		m.images.WithLabelValues("skipped").Inc()
	case imgcrawl.ImageFailed:
		m.images.WithLabelValues("failed").Inc()
	}
}

// WriteFile writes the metrics to path in the text exposition format,
// suitable for the node exporter's textfile collector.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
