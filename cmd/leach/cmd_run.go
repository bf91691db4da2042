package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/nvandessel/leach/internal/config"
	"github.com/nvandessel/leach/internal/export"
	"github.com/nvandessel/leach/internal/logging"
	"github.com/nvandessel/leach/internal/metrics"
	"github.com/nvandessel/leach/internal/pathutil"
	"github.com/nvandessel/leach/internal/report"
	"github.com/nvandessel/leach/internal/runner"
	"github.com/spf13/cobra"
)

// runOptions is the fully resolved input of one `leach run`.
type runOptions struct {
	params      runner.Params
	format      string
	outPath     string
	sqlitePath  string
	metricsPath string
	logLevel    string
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate LEACH clusterhead elections",
		Long: `Run the clusterhead election for a number of nodes over a number of rounds.

Parameters come from ~/.leach/config.yaml, LEACH_* environment variables and
flags, in that order. --interactive asks for nodes, rounds and p on stdin.

Examples:
  leach run --nodes 100 --rounds 20 --probability 0.05
  leach run --seed 42 --format yaml --out run.yaml
  leach run --sqlite run.db --metrics-file leach.prom
  leach run --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			opts, err := resolveRunOptions(cmd, cfg)
			if err != nil {
				return err
			}

			if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
				if err := promptParams(cmd.InOrStdin(), cmd.OutOrStdout(), &opts.params); err != nil {
					return err
				}
			}

			return executeRun(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().Int("nodes", 0, "Number of nodes (default from config)")
	cmd.Flags().Int("rounds", 0, "Number of rounds (default from config)")
	cmd.Flags().String("probability", "", "Desired clusterhead fraction p, strictly between 0 and 1 (default from config)")
	cmd.Flags().Uint64("seed", 0, "Seed for the random draws (0 picks one)")
	cmd.Flags().Int("workers", 0, "Goroutines per round; 1 runs nodes serially (default from config)")
	cmd.Flags().String("format", "", "Output format: text, json, yaml, msgpack or cbor (default from config)")
	cmd.Flags().String("out", "", "Write the result to this file instead of stdout")
	cmd.Flags().String("sqlite", "", "Also export the run to a new SQLite database")
	cmd.Flags().String("metrics-file", "", "Also write Prometheus metrics in textfile format")
	cmd.Flags().Bool("interactive", false, "Prompt for nodes, rounds and p")

	return cmd
}

// resolveRunOptions layers explicitly set flags over the loaded config.
func resolveRunOptions(cmd *cobra.Command, cfg *config.LeachConfig) (runOptions, error) {
	sim := cfg.Simulation
	opts := runOptions{
		params: runner.Params{
			Nodes:       sim.Nodes,
			Rounds:      sim.Rounds,
			Probability: sim.Probability,
			Seed:        sim.Seed,
			Workers:     sim.Workers,
		},
		format:   cfg.Output.Format,
		logLevel: resolveLogLevel(cmd, cfg.Logging.Level),
	}

	flags := cmd.Flags()
	if flags.Changed("nodes") {
		opts.params.Nodes, _ = flags.GetInt("nodes")
	}
	if flags.Changed("rounds") {
		opts.params.Rounds, _ = flags.GetInt("rounds")
	}
	if flags.Changed("probability") {
		raw, _ := flags.GetString("probability")
		p, err := config.ParseProbability(raw)
		if err != nil {
			return runOptions{}, fmt.Errorf("invalid --probability: %w", err)
		}
		opts.params.Probability = p
	}
	if flags.Changed("seed") {
		opts.params.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("workers") {
		opts.params.Workers, _ = flags.GetInt("workers")
	}

	switch {
	case flags.Changed("format"):
		opts.format, _ = flags.GetString("format")
	case jsonFlag(cmd):
		opts.format = string(export.FormatJSON)
	}
	if opts.format == "" {
		opts.format = "text"
	}
	if opts.format != "text" {
		f, err := export.ParseFormat(opts.format)
		if err != nil {
			return runOptions{}, err
		}
		opts.format = string(f)
	}

	for _, o := range []struct {
		flag string
		dst  *string
	}{
		{"out", &opts.outPath},
		{"sqlite", &opts.sqlitePath},
		{"metrics-file", &opts.metricsPath},
	} {
		raw, _ := flags.GetString(o.flag)
		if raw == "" {
			continue
		}
		path, err := pathutil.PrepareOutput(raw)
		if err != nil {
			return runOptions{}, fmt.Errorf("invalid --%s: %w", o.flag, err)
		}
		*o.dst = path
	}
	if err := pathutil.DistinctOutputs(opts.outPath, opts.sqlitePath, opts.metricsPath); err != nil {
		return runOptions{}, err
	}

	return opts, nil
}

func jsonFlag(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// promptParams asks for nodes, rounds and p, one line each.
func promptParams(in io.Reader, out io.Writer, p *runner.Params) error {
	sc := bufio.NewScanner(in)
	readLine := func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("reading input: %w", err)
			}
			return "", io.ErrUnexpectedEOF
		}
		return strings.TrimSpace(sc.Text()), nil
	}

	line, err := readLine("Number of nodes (int): ")
	if err != nil {
		return err
	}
	if p.Nodes, err = strconv.Atoi(line); err != nil {
		return fmt.Errorf("number of nodes: %q is not an integer", line)
	}

	line, err = readLine("Number of rounds (int): ")
	if err != nil {
		return err
	}
	if p.Rounds, err = strconv.Atoi(line); err != nil {
		return fmt.Errorf("number of rounds: %q is not an integer", line)
	}

	line, err = readLine("Possibility (p) (double): ")
	if err != nil {
		return err
	}
	if p.Probability, err = config.ParseProbability(line); err != nil {
		return fmt.Errorf("possibility: %w", err)
	}
	return nil
}

func executeRun(ctx context.Context, cmd *cobra.Command, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newCmdLogger(cmd, opts.logLevel)

	res, err := runner.New(logger).Run(ctx, opts.params)
	if err != nil {
		return err
	}

	if err := writeResult(cmd.OutOrStdout(), opts, res.Summary); err != nil {
		return err
	}

	if opts.sqlitePath != "" {
		if err := export.WriteSQLite(ctx, opts.sqlitePath, res.Summary); err != nil {
			return err
		}
		logger.Info("sqlite export written", "path", pathutil.RedactPath(opts.sqlitePath))
	}

	if opts.metricsPath != "" {
		rec := metrics.NewRecorder()
		rec.Observe(res.History)
		if err := rec.WriteTextfile(opts.metricsPath); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		logger.Info("metrics written", "path", pathutil.RedactPath(opts.metricsPath))
	}

	return traceDecisions(ctx, logger, opts.logLevel, res)
}

// writeResult renders the summary to --out, or to stdout when unset.
func writeResult(stdout io.Writer, opts runOptions, s report.Summary) (retErr error) {
	w := stdout
	if opts.outPath != "" {
		f, err := os.Create(opts.outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil && retErr == nil {
				retErr = fmt.Errorf("closing output file: %w", err)
			}
		}()
		w = f
	}

	if opts.format == "text" {
		return report.WriteText(w, s)
	}
	if err := export.Encode(w, export.Format(opts.format), s); err != nil {
		return fmt.Errorf("encoding %s output: %w", opts.format, err)
	}
	return nil
}

// traceDecisions appends every node decision to ~/.leach/decisions.jsonl at
// debug level and above, and echoes them to the logger at trace level.
func traceDecisions(ctx context.Context, logger *slog.Logger, level string, res *runner.Result) error {
	if logging.ParseLevel(level) >= slog.LevelInfo {
		return nil
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	dl := logging.NewDecisionLogger(dir, level, res.RunID)
	if dl == nil {
		logger.Warn("decision log unavailable", "dir", dir)
	}

	echo := logger.Enabled(ctx, logging.LevelTrace)
	for _, d := range report.Decisions(res.Summary) {
		dl.Log(d.Fields())
		if echo {
			logger.Log(ctx, logging.LevelTrace, "decision",
				"round", d.Round,
				"node", d.Node,
				"draw", d.Draw,
				"theta", d.Theta,
				"cooldown", d.Cooldown,
				"outcome", d.Outcome)
		}
	}

	if err := dl.Close(); err != nil {
		return fmt.Errorf("closing decision log: %w", err)
	}
	return nil
}
