package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Eyevinn/moqabr/internal/abr"
	"github.com/Eyevinn/moqabr/internal/metrics"
)

type decideOptions struct {
	category        string
	requests        []string
	throughput      []float64
	buffer          time.Duration
	cycles          int
	minQuality      int
	maxQuality      int
	minBandwidth    float64
	maxBandwidth    float64
	playbackQuality int
	noAutoSwitch    bool
	sqlitePath      string
	serve           bool
}

func newDecideCommand(ctx *commandContext) *cobra.Command {
	opts := decideOptions{}

	cmd := &cobra.Command{
		Use:   "decide <asset-dir|catalog.json>",
		Short: "Run decision cycles against a bitrate ladder",
		Long: `Run decision cycles for one category against a bitrate ladder.

Rules are static switch requests given as quality:confidence, for example
--request 3:default --request 1:strong. Configured policy for the category
applies, and runtime boundaries can be set with the bound flags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecide(cmd, ctx, args[0], &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.category, "category", string(abr.Video), "Category to decide for (video, audio or stream)")
	f.StringArrayVarP(&opts.requests, "request", "r", nil, "Static switch request as quality[:confidence] (repeatable)")
	f.Float64SliceVar(&opts.throughput, "throughput", nil, "Throughput samples in bits per second")
	f.DurationVar(&opts.buffer, "buffer", 0, "Current buffer level")
	f.IntVarP(&opts.cycles, "cycles", "n", 1, "Number of decision cycles")
	f.IntVar(&opts.minQuality, "min-quality", -1, "Runtime minimum quality index (-1 for none)")
	f.IntVar(&opts.maxQuality, "max-quality", -1, "Runtime maximum quality index (-1 for none)")
	f.Float64Var(&opts.minBandwidth, "min-bandwidth", 0, "Runtime minimum bandwidth in bits per second (0 for none)")
	f.Float64Var(&opts.maxBandwidth, "max-bandwidth", 0, "Runtime maximum bandwidth in bits per second (0 for none)")
	f.IntVar(&opts.playbackQuality, "playback-quality", -1, "Set the playback quality before the first cycle (-1 to skip)")
	f.BoolVar(&opts.noAutoSwitch, "no-auto-switch", false, "Disable rule evaluation")
	f.StringVar(&opts.sqlitePath, "db", "", "Record to this SQLite database (overrides recorder.sqlite_path)")
	f.BoolVar(&opts.serve, "serve", false, "Keep serving Prometheus metrics after the cycles until interrupted")
	return cmd
}

func runDecide(cmd *cobra.Command, cctx *commandContext, source string, opts *decideOptions) error {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cctx.newLogger()
	if err != nil {
		return err
	}
	category := abr.Category(strings.ToLower(opts.category))
	rules, err := parseRequests(opts.requests)
	if err != nil {
		return err
	}
	if opts.cycles < 1 {
		return fmt.Errorf("cycles must be positive, got %d", opts.cycles)
	}

	src, err := loadLadder(source, cfg)
	if err != nil {
		return err
	}
	group, err := src.ladder.GroupFor(category)
	if err != nil {
		return err
	}
	if opts.playbackQuality >= len(group.Renditions) {
		return fmt.Errorf("playback quality %d outside ladder of %d renditions", opts.playbackQuality, len(group.Renditions))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := metrics.NewStore()
	for _, bps := range opts.throughput {
		store.AddThroughput(category, bps)
	}
	store.SetBufferLevel(category, opts.buffer)

	sqlitePath := cfg.Recorder.SQLitePath
	if opts.sqlitePath != "" {
		sqlitePath = opts.sqlitePath
	}
	recs, err := buildRecorders(ctx, store, sqlitePath, cfg.Recorder.Prometheus, logger)
	if err != nil {
		return err
	}
	defer recs.Close()

	serveCtx, stopServe := context.WithCancel(ctx)
	defer stopServe()
	serveErr := make(chan error, 1)
	if recs.registry != nil && cfg.Recorder.MetricsAddr != "" {
		go func() {
			serveErr <- serveMetrics(serveCtx, cfg.Recorder.MetricsAddr, recs.registry, logger)
		}()
	} else {
		close(serveErr)
	}

	engine := abr.NewEngine(logger, abr.EngineConfig{
		Catalog:  src.ladder,
		Rules:    rules,
		Metrics:  store,
		Recorder: recs.recorder,
		Params:   cfg,
	})
	engine.SetAutoSwitchBitrate(cfg.ABR.AutoSwitch && !opts.noAutoSwitch)
	applyRuntimeBounds(engine, category, opts)
	if opts.playbackQuality >= 0 {
		engine.SetPlaybackQuality(category, opts.playbackQuality)
	}

	headers := []string{"Cycle", "Quality", "Confidence", "Rendition", "Bitrate", "Warning"}
	aligns := []columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight, alignLeft}
	rows := make([][]string, 0, opts.cycles)
	for i := 0; i < opts.cycles; i++ {
		d, err := decideWithRetry(ctx, engine, category, group, cfg.Retry, cfg.CycleTimeout(), logger)
		if err != nil {
			return fmt.Errorf("cycle %d: %w", i+1, err)
		}
		warning := ""
		if d.Warning != nil {
			warning = d.Warning.Error()
		}
		r := group.Renditions[d.Quality]
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(d.Quality),
			d.Confidence.String(),
			r.Name,
			formatBitrate(r.Bitrate),
			warning,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	fmt.Fprintf(out, "Switches: %d\n", len(store.Switches(category)))
	if recs.sqlite != nil {
		fmt.Fprintf(out, "Session: %s\n", recs.sqlite.SessionID())
	}

	if opts.serve && recs.registry != nil {
		fmt.Fprintf(out, "Serving metrics on %s, press Ctrl-C to stop\n", cfg.Recorder.MetricsAddr)
		<-ctx.Done()
	}
	stopServe()
	if err := <-serveErr; err != nil {
		return err
	}
	return nil
}

func applyRuntimeBounds(engine *abr.Engine, category abr.Category, opts *decideOptions) {
	var qb abr.QualityBounds
	if opts.minQuality >= 0 {
		qb.Min = abr.Ptr(opts.minQuality)
	}
	if opts.maxQuality >= 0 {
		qb.Max = abr.Ptr(opts.maxQuality)
	}
	if qb.Min != nil || qb.Max != nil {
		engine.SetQualityBoundaries(category, qb)
	}

	var bb abr.BandwidthBounds
	if opts.minBandwidth > 0 {
		bb.Min = abr.Ptr(opts.minBandwidth)
	}
	if opts.maxBandwidth > 0 {
		bb.Max = abr.Ptr(opts.maxBandwidth)
	}
	if bb.Min != nil || bb.Max != nil {
		engine.SetBandwidthBoundaries(category, bb)
	}
}

// parseRequests turns quality[:confidence] arguments into static rules.
func parseRequests(args []string) (abr.StaticRegistry, error) {
	rules := make(abr.StaticRegistry, 0, len(args))
	for _, arg := range args {
		qs, cs, hasConf := strings.Cut(strings.TrimSpace(arg), ":")
		quality, err := strconv.Atoi(qs)
		if err != nil || quality < abr.NoChange {
			return nil, fmt.Errorf("invalid request %q: bad quality", arg)
		}
		confidence := abr.ConfidenceDefault
		if hasConf {
			if confidence, err = abr.ParseConfidence(strings.ToLower(cs)); err != nil {
				return nil, fmt.Errorf("invalid request %q: %w", arg, err)
			}
		}
		if quality == abr.NoChange {
			confidence = abr.ConfidenceNoChange
		}
		rules = append(rules, abr.StaticRule(abr.NewSwitchRequest(quality, confidence)))
	}
	return rules, nil
}
