// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cli implements the simplehttp command line tool.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gogama/simplehttp"
	"github.com/gogama/simplehttp/config"
	"github.com/gogama/simplehttp/logging"
	"github.com/gogama/simplehttp/retry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion sets the version info printed by the version command.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// options holds the flags shared by all commands.
type options struct {
	headers     []string
	contentType string
	configPath  string
	verbose     bool
	include     bool
	extract     string
	requestID   bool
	retries     int
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "simplehttp",
		Short: "Send one HTTP request and print the response",
		Long: `simplehttp sends a single HTTP/1.1 request, waits for the complete
response, and prints its body.

Examples:
  simplehttp get https://example.com/
  simplehttp post https://example.com/api '{"a":1}' --content-type application/json
  simplehttp get https://example.com/api --extract items.0.name
  simplehttp bench http://localhost:8080/ --requests 1000 --concurrency 20`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(flagError)

	f := root.PersistentFlags()
	f.StringArrayVarP(&opts.headers, "header", "H", nil, "Extra header line, e.g. \"Accept: text/plain\" (repeatable)")
	f.StringVar(&opts.contentType, "content-type", "", "Content type of the request body")
	f.StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log each request stage to stderr")
	f.BoolVarP(&opts.include, "include", "i", false, "Print the status line and headers before the body")
	f.StringVar(&opts.extract, "extract", "", "Print only the value at this path of a JSON body")
	f.BoolVar(&opts.requestID, "request-id", false, "Send a random X-Request-Id header")
	f.IntVar(&opts.retries, "retries", 0, "Retry transient failures up to this many times")

	root.AddCommand(
		newVerbCommand(opts, "GET", false),
		newVerbCommand(opts, "HEAD", false),
		newVerbCommand(opts, "DELETE", false),
		newVerbCommand(opts, "POST", true),
		newVerbCommand(opts, "PUT", true),
		newRequestCommand(opts),
		newBenchCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command line tool and exits the process.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return ExitSuccess
}

// env is what a command needs to execute requests.
type env struct {
	cfg    *config.Config
	client *simplehttp.Client
	policy retry.Policy
	logger *zap.Logger
}

func (o *options) env(cmd *cobra.Command) (*env, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return nil, &configError{err}
		}
	}
	if cmd.Flags().Changed("retries") {
		if o.retries < 0 {
			return nil, &usageError{fmt.Errorf("--retries must not be negative")}
		}
		cfg.Retry.Times = o.retries
	}

	logger, err := logging.NewLogger(o.verbose)
	if err != nil {
		return nil, err
	}
	handlers := &simplehttp.HandlerGroup{}
	logging.Install(handlers, logger)

	return &env{
		cfg: cfg,
		client: &simplehttp.Client{
			Session:  cfg.Session(),
			Handlers: handlers,
		},
		policy: cfg.RetryPolicy(),
		logger: logger,
	}, nil
}

// headerLines returns the configured default headers, then the flag
// headers, then the request id header if one was asked for.
func (o *options) headerLines(cfg *config.Config) []string {
	lines := make([]string, 0, len(cfg.Headers)+len(o.headers)+1)
	lines = append(lines, cfg.Headers...)
	lines = append(lines, o.headers...)
	if o.requestID {
		lines = append(lines, "X-Request-Id: "+uuid.NewString())
	}
	return lines
}
