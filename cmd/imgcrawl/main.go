package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/imgcrawl"
	"github.com/fwojciec/imgcrawl/crawl"
	"github.com/fwojciec/imgcrawl/fs"
	"github.com/fwojciec/imgcrawl/goquery"
	imghttp "github.com/fwojciec/imgcrawl/http"
	"github.com/fwojciec/imgcrawl/prometheus"
	"github.com/fwojciec/imgcrawl/rod"
	imgslog "github.com/fwojciec/imgcrawl/slog"
	"github.com/fwojciec/imgcrawl/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("imgcrawl"),
		kong.Description("Crawl a site and download the images its pages reference"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  logger,
		Metrics: prometheus.NewMetrics(),
	}

	httpFetcher := imghttp.NewFetcher(
		imghttp.WithTimeout(cli.Timeout),
		imghttp.WithUserAgent(cli.UserAgent),
	)
	defer httpFetcher.Close()

	// Images are always fetched over plain HTTP; only pages are rendered.
	var imageFetcher, pageFetcher imgcrawl.Fetcher = httpFetcher, httpFetcher
	if cli.Render {
		rodFetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer rodFetcher.Close()
		pageFetcher = rodFetcher
	}

	if cli.Manifest != "" {
		db := sqlite.NewDB(cli.Manifest)
		if err := db.Open(); err != nil {
			return err
		}
		defer db.Close()
		deps.Manifest = sqlite.NewManifestService(db)
	}

	var storeOpts []fs.Option
	if cli.HashNames {
		storeOpts = append(storeOpts, fs.WithHashedNames())
	}
	fileStore := fs.NewImageStore(cli.Out, storeOpts...)
	if err := fileStore.Prepare(); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	var store imgcrawl.ImageStore = fileStore

	if cli.Verbose {
		pageFetcher = imgslog.NewLoggingFetcher(pageFetcher, logger)
		imageFetcher = imgslog.NewLoggingFetcher(imageFetcher, logger)
		store = imgslog.NewLoggingImageStore(store, logger)
	}

	htmlParser := goquery.NewParser()
	deps.Pipeline = &crawl.Pipeline{
		Crawler: &crawl.Crawler{
			Fetcher:  pageFetcher,
			Parser:   htmlParser,
			MaxPages: cli.MaxPages,
		},
		Downloader: &crawl.Downloader{
			Fetcher: imageFetcher,
			Parser:  htmlParser,
			Store:   store,
			Workers: cli.Workers,
		},
		Staged: cli.Staged,
	}

	cmd := &CrawlCmd{
		URL:         cli.URL,
		Out:         fileStore.Dir(),
		MetricsPath: cli.Metrics,
	}
	return cmd.Run(deps)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	MaxPages  int           `short:"n" default:"10" help:"Maximum number of HTML pages to crawl"`
	Workers   int           `short:"w" default:"2" help:"Number of concurrent download workers"`
	Out       string        `short:"o" default:"images" type:"path" help:"Directory to write images to"`
	Timeout   time.Duration `short:"t" default:"10s" help:"Fetch timeout per request"`
	UserAgent string        `default:"imgcrawl/1.0" help:"User-Agent header sent with requests"`
	Staged    bool          `help:"Finish crawling before downloading any image"`
	HashNames bool          `help:"Prefix file names with a hash of the image URL to avoid collisions"`
	Render    bool          `help:"Fetch pages with headless Chrome so scripted images are found"`
	Metrics   string        `type:"path" placeholder:"FILE" help:"Write Prometheus metrics to FILE when done"`
	Manifest  string        `type:"path" placeholder:"FILE" help:"Record saved images in the SQLite manifest FILE"`
	Verbose   bool          `short:"v" help:"Log every fetch and write"`
	URL       string        `arg:"" required:"" help:"Root URL to start crawling from"`
}

// Validate is called by kong after parsing.
func (c *CLI) Validate() error {
	if c.MaxPages <= 0 {
		return imgcrawl.Errorf(imgcrawl.EINVALID, "--max-pages must be positive, got %d", c.MaxPages)
	}
	if c.Workers <= 0 {
		return imgcrawl.Errorf(imgcrawl.EINVALID, "--workers must be positive, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return imgcrawl.Errorf(imgcrawl.EINVALID, "--timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
