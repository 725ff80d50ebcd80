package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/epw-codec/internal/config"
	"github.com/couchcryptid/epw-codec/internal/epw"
	"github.com/couchcryptid/epw-codec/internal/observability"
	"github.com/couchcryptid/epw-codec/internal/pipeline"
)

// app holds what every subcommand shares. It is set up once in the root
// command's PersistentPreRunE.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	codec   *epw.Codec
	clock   clockwork.Clock
}

var env *app

var rootCmd = &cobra.Command{
	Use:   "epw",
	Short: "Decode, verify and export EnergyPlus Weather files",
	Long: `epw reads EnergyPlus Weather (EPW) files: eight header lines followed by
hourly records of 35 fields.

Commands:
  epw fields FILE HEADER NAME...   # print metafields or columns
  epw inspect FILE...              # YAML summary per file
  epw check FILE...                # verify decode/encode round trips
  epw export --db PATH FILE...     # load files into SQLite

Environment:
  LOG_LEVEL, LOG_FORMAT, EPW_SHORT_ROWS, EPW_WORKERS, METRICS_TEXTFILE`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		env = &app{
			cfg:     cfg,
			logger:  observability.NewLogger(cfg),
			metrics: observability.NewMetrics(),
			codec:   epw.NewCodec(epw.NewRegistry(), epw.WithRowPolicy(cfg.RowPolicy)),
			clock:   clockwork.NewRealClock(),
		}
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if env != nil && env.cfg.MetricsTextfile != "" {
		if werr := observability.WriteTextfile(env.cfg.MetricsTextfile); werr != nil {
			env.logger.Error("write metrics textfile", "path", env.cfg.MetricsTextfile, "error", werr)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) pipeline(verify bool, loader pipeline.Loader) *pipeline.Pipeline {
	tfm := pipeline.NewTransformer(a.codec, verify, a.logger)
	return pipeline.New(pipeline.NewFileExtractor(), tfm, loader, a.logger, a.metrics, a.clock, a.cfg.Workers)
}

// decodeFile reads and decodes a single file outside the pipeline.
func (a *app) decodeFile(ctx context.Context, path string) (*epw.Document, error) {
	lines, err := pipeline.NewFileExtractor().Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	doc, err := a.codec.Decode(lines)
	if err != nil {
		a.metrics.DecodeErrors.WithLabelValues(epw.ErrorKind(err)).Inc()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.metrics.DocumentsDecoded.Inc()
	a.metrics.RecordsDecoded.Add(float64(doc.Data().Len()))
	return doc, nil
}

// failures counts results with an error and reports each on stderr.
func failures(cmd *cobra.Command, results []pipeline.Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
			fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s\n", r.Err)
		}
	}
	return n
}
