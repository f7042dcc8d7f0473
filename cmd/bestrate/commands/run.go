package commands

import (
	"context"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"go-best-conversion/sink"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute the best conversions once and write them as CSV",
		RunE:  runConversions,
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "CSV file to write, - for stdout (default optimal_conversions.csv)")
	return cmd
}

func runConversions(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Engine.RunTimeout)
	defer cancel()

	a := wire(ctx, cfg, logger, false)
	defer a.Close()

	var out sink.Sink
	if cfg.Output.File == "-" {
		out = sink.NewWriter(cmd.OutOrStdout())
	} else {
		out = sink.NewCSVFile(cfg.Output.File)
	}
	out = sink.NewLoggingSink(log.With(logger, "component", "sink"), out)

	conversions, err := a.Conversions.BestConversions(ctx, cfg.HomeSource())
	if err != nil {
		level.Error(logger).Log("msg", "an error occurred", "err", err)
		return err
	}

	if err := out.Write(ctx, conversions); err != nil {
		level.Error(logger).Log("msg", "an error occurred", "err", err)
		return err
	}

	if cfg.Output.File != "-" {
		level.Info(logger).Log("msg", "conversion results saved", "file", cfg.Output.File, "rows", len(conversions))
	}
	return nil
}
