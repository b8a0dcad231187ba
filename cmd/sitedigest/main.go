package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sitedigest/sitedigest"
	"github.com/sitedigest/sitedigest/cookies"
	"github.com/sitedigest/sitedigest/crawl"
	"github.com/sitedigest/sitedigest/fs"
	"github.com/sitedigest/sitedigest/gemini"
	"github.com/sitedigest/sitedigest/goquery"
	"github.com/sitedigest/sitedigest/htmltomarkdown"
	sdhttp "github.com/sitedigest/sitedigest/http"
	"github.com/sitedigest/sitedigest/rod"
	sdslog "github.com/sitedigest/sitedigest/slog"
	"github.com/sitedigest/sitedigest/sqlite"
	"github.com/sitedigest/sitedigest/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

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
		kong.Name("sitedigest"),
		kong.Description("Discover a website's pages and write one summary file per page"),
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

	cfg := &sitedigest.RunConfig{
		RootURL:      cli.URL,
		MaxPages:     cli.MaxPages,
		MaxDepth:     cli.MaxDepth,
		SameHostOnly: !cli.AllHosts,
		Delay:        cli.Delay,
		CookieFile:   cli.Cookies,
		DryRun:       cli.DryRun,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return m.run(ctx, cli, cfg, logger, stdout, stderr)
}

// run wires the dependencies and executes a full run.
func (m *Main) run(ctx context.Context, cli *CLI, cfg *sitedigest.RunConfig, logger *slog.Logger, stdout, stderr io.Writer) error {
	var cookieJar []sitedigest.CookieEntry
	if cfg.CookieFile != "" {
		var err error
		cookieJar, err = cookies.Load(cfg.CookieFile)
		if err != nil {
			return fmt.Errorf("failed to load cookies: %w", err)
		}
		logger.Info("cookies loaded", "file", cfg.CookieFile, "count", len(cookieJar))
	}

	httpFetcher := sdhttp.NewFetcher(
		sdhttp.WithTimeout(cli.Timeout),
		sdhttp.WithCookies(cookieJar),
	)
	defer httpFetcher.Close()

	// Probe the root for a bot challenge before any bulk work. A headless
	// session exists only when the cheap path is blocked.
	session, err := rod.Probe(ctx, cfg.RootURL, httpFetcher.Get, cookieJar, logger)
	if err != nil {
		return fmt.Errorf("root probe failed: %w", err)
	}
	if session != nil {
		defer session.Close()
	}
	resolved := session != nil && session.State() == sitedigest.SessionResolved

	client := &http.Client{Timeout: cli.Timeout}
	limiter := crawl.NewDomainLimiter(cfg.Delay)

	wpOpts := []sdhttp.WordPressOption{}
	if resolved {
		wpOpts = append(wpOpts, sdhttp.WithSession(session))
	}
	wordpress := sdhttp.NewWordPress(client, logger, wpOpts...)

	discovery := crawl.NewComposite(logger,
		sdslog.NewLoggingDiscoveryStrategy(wordpress, logger),
		sdslog.NewLoggingDiscoveryStrategy(sdhttp.NewSitemapStrategy(client), logger),
		sdslog.NewLoggingDiscoveryStrategy(sdhttp.NewFeedStrategy(client), logger),
		sdslog.NewLoggingDiscoveryStrategy(crawl.NewBFS(httpFetcher, goquery.Links, limiter, logger), logger),
	)

	urls, err := discovery.Discover(ctx, cfg)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	if len(urls) == 0 {
		return sitedigest.Errorf(sitedigest.ENOTFOUND, "no URLs discovered for %s", cfg.RootURL)
	}

	rootHost := ""
	if u, err := url.Parse(cfg.RootURL); err == nil {
		rootHost = u.Hostname()
	}
	rodOpts := []rod.FetcherOption{rod.WithCookies(rootHost, cookieJar)}
	if resolved {
		rodOpts = append(rodOpts, rod.WithSharedSession(session))
	}
	headless := rod.NewFetcher(logger, rodOpts...)
	defer headless.Close()

	fetcher := crawl.NewFallbackFetcher(
		[]sitedigest.FetchStrategy{wordpress.CacheStrategy(), httpFetcher},
		headless,
		logger,
	)

	manifestStore := fs.NewManifestStore(cli.Out)
	manifest, err := manifestStore.Load(cfg.RootURL)
	if err != nil {
		return err
	}

	pipeline := &crawl.Pipeline{
		Fetcher:     rod.NewLoggingStrategy(fetcher, logger),
		Extractor:   trafilatura.NewExtractor(),
		Converter:   htmltomarkdown.NewConverter(),
		Limiter:     limiter,
		Logger:      logger,
		Concurrency: cli.Concurrency,
	}

	if !cfg.DryRun {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		pipeline.Summarizer = gemini.NewSummarizer(genaiClient)
		pipeline.Writer = fs.NewWriter(cli.Out)
	}

	if cli.Archive {
		db := sqlite.NewDB(filepath.Join(cli.Out, sitedigest.HostPath(cfg.RootURL)+".db"))
		if err := os.MkdirAll(cli.Out, 0755); err != nil {
			return err
		}
		if err := db.Open(); err != nil {
			return fmt.Errorf("failed to open archive database: %w", err)
		}
		defer db.Close()
		pipeline.Archive = sqlite.NewPageArchive(db)
	}

	stats, err := pipeline.Run(ctx, cfg, urls, manifest)
	if err != nil {
		return err
	}

	if !cfg.DryRun {
		if err := manifestStore.Save(manifest); err != nil {
			return fmt.Errorf("failed to save manifest: %w", err)
		}
	}

	fmt.Fprintf(stdout, "%d processed, %d cached, %d skipped, %d failed (%d URLs via %s)\n",
		stats.Processed, stats.Cached, stats.Skipped, stats.Failed, len(urls), urls[0].Method)
	return nil
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL         string        `arg:"" required:"" help:"Site URL to digest"`
	Out         string        `short:"o" default:"digest" help:"Output directory for summaries and the manifest"`
	MaxPages    int           `default:"50" help:"Maximum number of pages to process"`
	MaxDepth    int           `default:"3" help:"Maximum crawl depth when falling back to link crawling"`
	AllHosts    bool          `help:"Follow links to other hosts"`
	Delay       time.Duration `default:"1s" help:"Minimum pause between requests to the same host"`
	Cookies     string        `help:"Path to an exported cookie file (Netscape or JSON format)"`
	DryRun      bool          `help:"Discover and fetch but skip summarization and writing"`
	Concurrency int           `short:"c" default:"1" help:"Concurrent page workers"`
	Archive     bool          `help:"Keep raw HTML snapshots in a SQLite archive"`
	Timeout     time.Duration `short:"t" default:"10s" help:"HTTP fetch timeout per request"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`
}
