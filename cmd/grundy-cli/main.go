package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/thyrook/grundy/internal/config"
	"github.com/thyrook/grundy/internal/evaluator"
	"github.com/thyrook/grundy/internal/game"
	"github.com/thyrook/grundy/internal/logging"
	"github.com/thyrook/grundy/internal/monitor"
	"github.com/thyrook/grundy/internal/storage"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════════════════╗
║                                                       ║
║   GRUNDY - Sprague-Grundy nimber evaluator            ║
║                                                       ║
║                  Version %s                        ║
║                                                       ║
╚═══════════════════════════════════════════════════════╝
`
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply if missing)")
	gameName := flag.String("game", "kayles", "game to evaluate: kayles or nim")
	timeout := flag.Duration("timeout", 0, "abort the evaluation after this duration (0 = the configured default timeout)")
	record := flag.Bool("record", false, "record the result in the result ledger")
	quiet := flag.Bool("quiet", false, "suppress progress logging")
	flag.Parse()

	cfg := config.LoadOrDefault(*configPath)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	level := cfg.Logging.Level
	if *quiet {
		level = "error"
	}
	logger := logging.MustSetup(level, cfg.Logging.Path)
	defer logger.Sync()

	fmt.Printf(banner, version)
	fmt.Println()

	size, err := readHeapSize(cfg.Solver.MaxHeapSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *timeout == 0 && cfg.Solver.DefaultTimeoutMs > 0 {
		*timeout = time.Duration(cfg.Solver.DefaultTimeoutMs) * time.Millisecond
	}

	opts := runOptions{
		cfg:     cfg,
		logger:  logger,
		timeout: *timeout,
		record:  *record,
	}

	switch *gameName {
	case "kayles":
		run(game.NewKayles(size), fmt.Sprintf("kayles/%d", size), opts)
	case "nim":
		run(game.NewNim(size), fmt.Sprintf("nim/%d", size), opts)
	default:
		fmt.Fprintf(os.Stderr, "unknown game: %s\n", *gameName)
		os.Exit(1)
	}
}

type runOptions struct {
	cfg     *config.Config
	logger  *zap.Logger
	timeout time.Duration
	record  bool
}

// run evaluates a single position with progress reporting and an optional
// timeout wired to the evaluator's cancel flag.
func run[G game.Impartial[G]](g G, label string, opts runOptions) {
	eval := evaluator.NewWithLogger[G](opts.logger)

	interval := time.Duration(opts.cfg.Solver.ProgressIntervalMs) * time.Millisecond
	reporter := monitor.NewReporter(eval, interval, opts.logger)
	if err := reporter.Start(); err != nil {
		opts.logger.Warn("progress reporter failed to start", zap.Error(err))
	}

	if opts.timeout > 0 {
		timer := time.AfterFunc(opts.timeout, eval.Stop)
		defer timer.Stop()
	}

	start := time.Now()
	nimber, ok := eval.Nimber(g)
	elapsed := time.Since(start)

	reporter.Stop()

	stats := eval.Stats()
	if !ok {
		fmt.Printf("\n✗ Evaluation of %s cancelled after %v\n", label, elapsed.Round(time.Millisecond))
		fmt.Printf("  cached positions: %d (done: %d)\n", stats.Total(), stats.Done)
		fmt.Println("  re-run with a longer timeout to continue from scratch")
		return
	}

	fmt.Printf("\n✓ Nimber of %s: %d\n", label, nimber)
	fmt.Printf("  elapsed: %v, cached positions: %d\n", elapsed.Round(time.Millisecond), stats.Total())

	if !opts.record {
		return
	}

	if err := opts.cfg.EnsureDirectories(); err != nil {
		opts.logger.Error("failed to prepare data directories", zap.Error(err))
		return
	}
	store, err := storage.NewResultStore(opts.cfg.Storage.DBPath)
	if err != nil {
		opts.logger.Error("failed to open result store", zap.Error(err))
		return
	}
	defer store.Close()

	result := storage.Result{
		Game:      label,
		Nimber:    nimber,
		CacheSize: eval.CacheSize(),
		ElapsedMs: float64(elapsed.Microseconds()) / 1000.0,
	}
	if err := store.Put(result); err != nil {
		opts.logger.Error("failed to record result", zap.Error(err))
		return
	}
	opts.logger.Info("result recorded",
		zap.String("game", label),
		zap.Int("nimber", nimber))
}

// readHeapSize prompts for and parses the heap size from standard input.
func readHeapSize(maxSize int) (int, error) {
	fmt.Print("How large is your heap? ")

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return 0, fmt.Errorf("line could not be read: %w", err)
	}

	size, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("could not be parsed to integer: %w", err)
	}
	if size < 0 {
		return 0, fmt.Errorf("heap size must be non-negative, got %d", size)
	}
	if size > maxSize {
		return 0, fmt.Errorf("heap size %d exceeds configured maximum %d", size, maxSize)
	}

	return size, nil
}
