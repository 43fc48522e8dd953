// Command lossysim pumps items through a lossy duplex link and
// reports the empirically observed loss and delay, which is handy for
// eyeballing whether a given configuration produces the network
// conditions a protocol test needs.
package main

//
// Main
//

import (
	"context"
	"errors"
	"time"

	"github.com/apex/log"
	"github.com/fatih/color"
	"github.com/montanaflynn/stats"
	"github.com/ooni/lossylink/internal/logx"
	"github.com/ooni/lossylink/internal/lossylink"
	"github.com/ooni/lossylink/internal/runtimex"
	"github.com/spf13/cobra"
)

// options contains the command line options.
type options struct {
	count        int
	delayAverage time.Duration
	delayStddev  time.Duration
	lossRate     float64
	seed         int64
	verbose      bool
}

func main() {
	opts := &options{}
	root := &cobra.Command{
		Use:   "lossysim",
		Short: "Simulates a lossy duplex link and reports delivery statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return simulate(opts)
		},
		SilenceUsage: true,
	}
	flags := root.Flags()
	flags.IntVar(&opts.count, "count", 1000, "number of items to send")
	flags.DurationVar(&opts.delayAverage, "delay-avg", 10*time.Millisecond, "average delivery delay")
	flags.DurationVar(&opts.delayStddev, "delay-stddev", 4*time.Millisecond, "delivery delay standard deviation")
	flags.Float64Var(&opts.lossRate, "loss", 0.1, "loss probability in [0, 1]")
	flags.Int64Var(&opts.seed, "seed", 0, "seed for reproducible runs (0 means random)")
	flags.BoolVar(&opts.verbose, "verbose", false, "emit debug messages")

	logHandler := logx.NewHandlerWithDefaultSettings()
	logHandler.Emoji = true
	logger := &log.Logger{Level: log.InfoLevel, Handler: logHandler}
	log.Log = logger

	root.PreRun = func(cmd *cobra.Command, args []string) {
		if opts.verbose {
			logger.Level = log.DebugLevel
		}
	}

	if err := root.Execute(); err != nil {
		log.WithError(err).Fatal("lossysim failed")
	}
}

// simulate runs the simulation described by opts.
func simulate(opts *options) error {
	runtimex.Assert(opts.count >= 0, "lossysim: count must be non-negative")
	config := &lossylink.Config{
		DelayAverage: opts.delayAverage,
		DelayStddev:  opts.delayStddev,
		Logger:       log.Log,
		LossRate:     opts.lossRate,
		Seed:         opts.seed,
	}
	left, right, err := lossylink.NewPair[int](config)
	if err != nil {
		return err
	}

	log.Infof(
		"sending %s items with loss=%v delayAvg=%s delayStddev=%s",
		color.BlueString("%d", opts.count), opts.lossRate,
		opts.delayAverage, opts.delayStddev,
	)

	// accepted[i] is set before item i enters the transport and the
	// channel send orders it before the receiver's read of item i
	accepted := make([]time.Time, opts.count)
	ctx := context.Background()
	go func() {
		defer left.Close()
		for i := 0; i < opts.count; i++ {
			accepted[i] = time.Now()
			if err := left.Write(ctx, i); err != nil {
				log.WithError(err).Warn("write failed")
				return
			}
		}
	}()

	var delays []float64
	for {
		item, err := right.Read(ctx)
		if errors.Is(err, lossylink.ErrLinkClosed) {
			break
		}
		if err != nil {
			return err
		}
		delays = append(delays, time.Since(accepted[item]).Seconds())
	}

	st := right.Stats()
	fraction := 100 * float64(st.Delivered) / float64(opts.count)
	log.Infof(
		"delivered %s of %d items (%.1f%%), lost %d",
		color.BlueString("%d", st.Delivered), opts.count, fraction, st.Lost,
	)
	if len(delays) > 0 {
		mean := runtimex.Try1(stats.Mean(delays))
		stddev := runtimex.Try1(stats.StandardDeviation(delays))
		log.Infof(
			"observed delay: mean %s stddev %s",
			time.Duration(mean*float64(time.Second)),
			time.Duration(stddev*float64(time.Second)),
		)
	}
	return nil
}
