package commands

import (
	"errors"
	"fmt"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"go-best-conversion/config"
	"go-best-conversion/conversion"
	"go-best-conversion/rates"
	"go-best-conversion/sink"
	"io"
	"os"
)

// Exit codes for the error kinds a run can end with
const (
	ExitFailure         = 1
	ExitDataUnavailable = 2
	ExitWriteFailure    = 3
	ExitNonTermination  = 4
)

var (
	cfg    *config.Config
	logger log.Logger

	develop    bool
	logLevel   string
	maxSettles int

	sourceCode   string
	sourceName   string
	sourceAmount float64
	outputFile   string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bestrate",
		Short:         "Best conversion of a home currency into every reachable currency",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				logger = newLogger(os.Stderr, "info")
				level.Error(logger).Log("msg", "loading configuration", "err", err)
				return err
			}
			applyFlags(cmd)

			logger = newLogger(os.Stderr, cfg.Logging.Level)
			if err := cfg.Validate(); err != nil {
				level.Error(logger).Log("msg", "invalid configuration", "err", err)
				return err
			}
			return nil
		},
		RunE: runConversions,
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&develop, "develop", false, "read rates from the local fixture (same as APP_ENV=develop)")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default from LOG_LEVEL)")
	flags.IntVar(&maxSettles, "max-settles", 0, "relaxation budget, zero or less disables it (default from MAX_SETTLES)")
	flags.StringVar(&sourceCode, "code", "", "home currency code (default CAD)")
	flags.StringVar(&sourceName, "name", "", "home currency name (default Canada Dollar)")
	flags.Float64Var(&sourceAmount, "amount", 0, "amount of the home currency to convert (default 100)")
	root.Flags().StringVarP(&outputFile, "output", "o", "", "CSV file to write, - for stdout (default optimal_conversions.csv)")

	root.AddCommand(runCmd(), serveCmd())
	return root
}

// Execute runs the command line
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil && logger == nil {
		// rejected before any command ran, e.g. an unknown flag
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// applyFlags lets explicitly set flags win over the loaded configuration
func applyFlags(cmd *cobra.Command) {
	if develop {
		cfg.Env = config.DevelopEnv
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("max-settles") {
		cfg.Engine.MaxSettles = maxSettles
	}
	if cmd.Flags().Changed("code") {
		cfg.Source.Code = sourceCode
		cfg.Source.Name = sourceName
	}
	if cmd.Flags().Changed("name") {
		cfg.Source.Name = sourceName
	}
	if cmd.Flags().Changed("amount") {
		cfg.Source.Amount = sourceAmount
	}
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		cfg.Output.File = outputFile
	}
}

// ExitCode maps an error returned by Execute onto the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, rates.ErrDataUnavailable):
		return ExitDataUnavailable
	case errors.Is(err, sink.ErrWriteFailure):
		return ExitWriteFailure
	case errors.Is(err, conversion.ErrNonTermination):
		return ExitNonTermination
	default:
		return ExitFailure
	}
}

func newLogger(w io.Writer, lvl string) log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(w))
	l = log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return level.NewFilter(l, level.Allow(level.ParseDefault(lvl, level.InfoValue())))
}
