// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/fatih/color"
	"github.com/gogama/simplehttp/internal/bench"
	"github.com/gogama/simplehttp/metrics"
	"github.com/gogama/simplehttp/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type benchOptions struct {
	method      string
	requests    int
	concurrency int
	rate        float64
	metricsAddr string
}

func newBenchCommand(opts *options) *cobra.Command {
	b := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench <url> [body]",
		Short: "Send the same request many times and report latency",
		Long: `Send the same request many times from concurrent workers and report
the status code distribution and latency percentiles.

Examples:
  simplehttp bench http://localhost:8080/ --requests 1000 --concurrency 20
  simplehttp bench http://localhost:8080/ --rate 50 --metrics-addr :9100`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return b.run(cmd, opts, args)
		},
	}
	cmd.Flags().StringVarP(&b.method, "method", "X", "GET", "Request verb")
	cmd.Flags().IntVarP(&b.requests, "requests", "n", 100, "Total number of requests")
	cmd.Flags().IntVarP(&b.concurrency, "concurrency", "c", 10, "Number of concurrent workers")
	cmd.Flags().Float64VarP(&b.rate, "rate", "r", 0, "Maximum requests per second (0 for unlimited)")
	cmd.Flags().StringVar(&b.metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address while running")
	return cmd
}

func (b *benchOptions) run(cmd *cobra.Command, opts *options, args []string) error {
	e, err := opts.env(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync() //nolint:errcheck

	var body interface{}
	if len(args) == 2 {
		raw, err := readBody(cmd.InOrStdin(), args[1])
		if err != nil {
			return err
		}
		body = raw
	}
	s, err := request.NewSpec(b.method, args[0], body, opts.contentType, opts.headerLines(e.cfg)...)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics.New(reg).Install(e.client.Handlers)
	if b.metricsAddr != "" {
		ln, err := net.Listen("tcp", b.metricsAddr)
		if err != nil {
			return &usageError{fmt.Errorf("failed to listen on metrics address: %w", err)}
		}
		srv := &http.Server{Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go srv.Serve(ln) //nolint:errcheck
		defer srv.Close()
		fmt.Fprintf(cmd.ErrOrStderr(), "Serving metrics on http://%s/metrics\n", ln.Addr())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := bench.Run(ctx, e.client, s, bench.Options{
		Requests:    b.requests,
		Concurrency: b.concurrency,
		Rate:        b.rate,
	})
	if sum == nil {
		return &usageError{err}
	}
	printSummary(cmd.OutOrStdout(), sum)
	return err
}

func printSummary(w io.Writer, sum *bench.Summary) {
	bold := color.New(color.Bold)
	bold.Fprintln(w, "Summary")
	fmt.Fprintf(w, "  Requests:  %d (%d succeeded, %d failed)\n", sum.Total, sum.Succeeded, sum.Failed)
	fmt.Fprintf(w, "  Elapsed:   %s\n", sum.Elapsed)
	fmt.Fprintf(w, "  Rate:      %.1f req/s\n", sum.RPS())

	bold.Fprintln(w, "Latency")
	fmt.Fprintf(w, "  min %s  mean %s  p50 %s  p95 %s  p99 %s  max %s\n",
		sum.Min, sum.Mean, sum.P50, sum.P95, sum.P99, sum.Max)

	if len(sum.Statuses) > 0 {
		bold.Fprintln(w, "Status codes")
		for _, code := range sum.StatusCodes() {
			statusColor(code).Fprintf(w, "  %d", code)
			fmt.Fprintf(w, ": %d\n", sum.Statuses[code])
		}
	}
	if len(sum.Failures) > 0 {
		bold.Fprintln(w, "Failures")
		red := color.New(color.FgRed)
		kinds := make([]string, 0, len(sum.Failures))
		for kind := range sum.Failures {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			red.Fprintf(w, "  %s", kind)
			fmt.Fprintf(w, ": %d\n", sum.Failures[kind])
		}
	}
}
