package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jefrnc/optionsdash/internal/api"
	"github.com/jefrnc/optionsdash/internal/config"
	"github.com/jefrnc/optionsdash/internal/dashboard"
	"github.com/jefrnc/optionsdash/internal/filter"
	"github.com/jefrnc/optionsdash/internal/lifecycle"
	"github.com/jefrnc/optionsdash/internal/logger"
	"github.com/jefrnc/optionsdash/internal/server"
	"github.com/jefrnc/optionsdash/internal/summary"
)

// version is set at build time via ldflags in the release pipeline.
var version = "dev"

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "overview":
		runOverview(os.Args[2:])
	case "metrics":
		runMetrics(os.Args[2:])
	case "strategy":
		runStrategy(os.Args[2:])
	case "trades":
		runTrades(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "version":
		fmt.Printf("odash v%s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// commonFlags registers the connection flags shared by every command.
func commonFlags(fs *flag.FlagSet) *config.Overrides {
	o := &config.Overrides{}
	fs.StringVar(&o.BackendURL, "backend", "", "Backend base URL (default: $ODASH_BACKEND_URL)")
	fs.DurationVar(&o.Timeout, "timeout", 0, "Fetch timeout (default: 30s)")
	fs.StringVar(&o.StatusFile, "status-file", "", "Strategy status JSON file")
	fs.StringVar(&o.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&o.BackendURL, "b", "", "")
	return o
}

func parse(fs *flag.FlagSet, args []string) {
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: odash %s [options]\n\nOptions:\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	log    *zap.Logger
	client *api.Client
	status dashboard.StatusSource
}

func setup(o config.Overrides) *app {
	cfg, err := config.Load(o)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	status, err := dashboard.LoadStatusFile(cfg.StatusFile)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	return &app{
		cfg:    cfg,
		log:    zl,
		client: api.NewClient(cfg.BackendURL, cfg.UserAgent, cfg.Timeout),
		status: status,
	}
}

func (a *app) newLifecycle() *lifecycle.Lifecycle {
	return lifecycle.New(a.client, a.log)
}

// load fetches once and exits on failure, the CLI counterpart of the
// dashboard's error state.
func (a *app) load() *dashboard.ViewModel {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lc := a.newLifecycle()
	vm := dashboard.New(lc, a.status, a.log)
	lc.Run(ctx)

	if st, msg := vm.State(); st == lifecycle.Failed {
		fmt.Fprintf(os.Stderr, "Error loading analytics: %s\n", msg)
		if a.cfg.BackendURL == "" {
			fmt.Fprintln(os.Stderr, "Hint: set ODASH_BACKEND_URL or pass --backend.")
		}
		a.log.Sync()
		os.Exit(1)
	}
	return vm
}

func runOverview(args []string) {
	fs := flag.NewFlagSet("overview", flag.ExitOnError)
	o := commonFlags(fs)
	parse(fs, args)

	a := setup(*o)
	defer a.log.Sync()
	vm := a.load()

	ov, err := vm.Overview()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	summary.PrintOverview(os.Stdout, ov)
	fmt.Println()
	summary.PrintStrategy(os.Stdout, vm.Strategy())
}

func runMetrics(args []string) {
	fs := flag.NewFlagSet("metrics", flag.ExitOnError)
	o := commonFlags(fs)
	parse(fs, args)

	a := setup(*o)
	defer a.log.Sync()
	vm := a.load()

	m, err := vm.Metrics()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	summary.PrintMetrics(os.Stdout, m)
}

func runStrategy(args []string) {
	fs := flag.NewFlagSet("strategy", flag.ExitOnError)
	o := commonFlags(fs)
	parse(fs, args)

	a := setup(*o)
	defer a.log.Sync()
	summary.PrintStrategy(os.Stdout, dashboard.BuildStrategyPanel(a.status.StrategyStatus()))
}

func runTrades(args []string) {
	fs := flag.NewFlagSet("trades", flag.ExitOnError)
	o := commonFlags(fs)

	optionType := fs.String("type", filter.All, "Option type: CE, PE or all")
	exitReason := fs.String("reason", filter.All, "Exit reason, or all")
	strike := fs.String("strike", "", "Strike substring search")
	minPnL := fs.String("min-pnl", "", "Minimum P&L (inclusive)")
	maxPnL := fs.String("max-pnl", "", "Maximum P&L (inclusive)")
	csvOutput := fs.Bool("csv", false, "Output as CSV")
	outputFile := fs.String("output", "", "Output file (default: stdout)")

	// Short aliases
	fs.StringVar(outputFile, "o", "", "")

	parse(fs, args)

	a := setup(*o)
	defer a.log.Sync()
	vm := a.load()

	vm.SetPredicates(filter.Predicates{
		OptionType:   *optionType,
		ExitReason:   *exitReason,
		StrikeSearch: *strike,
		MinPnL:       *minPnL,
		MaxPnL:       *maxPnL,
	})

	// Determine output writer
	var w io.Writer = os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			log.Fatalf("Error creating output file: %v", err)
		}
		defer f.Close()
		w = f
	}

	if *csvOutput {
		if err := summary.ExportCSV(w, vm.Filtered()); err != nil {
			log.Fatalf("Error writing CSV: %v", err)
		}
		return
	}
	summary.PrintTrades(w, vm.View())
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	o := commonFlags(fs)
	fs.StringVar(&o.HTTPAddr, "addr", "", "Listen address (default: :8080)")
	parse(fs, args)

	a := setup(*o)
	defer a.log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lc := a.newLifecycle()
	vm := dashboard.New(lc, a.status, a.log)
	lc.Start(ctx)

	engine := server.NewEngine(a.log, a.cfg.Log.Development)
	h := &server.DashboardHandler{VM: vm, Logger: a.log, NewLifecycle: a.newLifecycle}
	h.Register(engine)

	if err := server.Serve(ctx, a.cfg.HTTPAddr, engine, a.log); err != nil {
		a.log.Error("http server stopped", zap.Error(err))
		a.log.Sync()
		os.Exit(1)
	}

	// Give an in-flight fetch a moment to observe cancellation.
	select {
	case <-vm.Lifecycle().Done():
	case <-time.After(time.Second):
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `odash v%s - Options Trading Dashboard

Fetch post-session analytics from the trading backend and show summary
cards, strategy status and a filterable trade table.

Usage:
  odash <command> [options]

Commands:
  overview  Show headline cards, details and per-type breakdown
  metrics   Show the compact metrics panel
  strategy  Show strategy status from --status-file
  trades    Show the trade table (filters: --type --reason --strike --min-pnl --max-pnl)
  serve     Serve the dashboard JSON API over HTTP
  version   Print version
  help      Show this help

Examples:
  odash overview -b http://localhost:8000     # Headline numbers
  odash trades --type CE --min-pnl 0          # Winning calls
  odash trades --reason STOPLOSS --csv -o sl.csv
  odash serve --addr :9090                    # JSON API

Configuration:
  Settings via flags or environment / .env file:
    ODASH_BACKEND_URL=http://localhost:8000
    ODASH_TIMEOUT=30s
    ODASH_HTTP_ADDR=:8080
    ODASH_STATUS_FILE=status.json
    ODASH_LOG_LEVEL=info

`, version)
}
