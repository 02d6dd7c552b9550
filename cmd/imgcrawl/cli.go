package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/imgcrawl"
	"github.com/fwojciec/imgcrawl/crawl"
	"github.com/fwojciec/imgcrawl/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Pipeline *crawl.Pipeline
	Metrics  *prometheus.Metrics
	Manifest imgcrawl.ManifestService // nil unless --manifest is set
}

// CrawlCmd handles the crawl-and-download operation.
type CrawlCmd struct {
	URL         string
	Out         string
	MetricsPath string
}
