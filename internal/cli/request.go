// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gogama/simplehttp/request"
	"github.com/gogama/simplehttp/retry"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func newVerbCommand(opts *options, verb string, withBody bool) *cobra.Command {
	use := strings.ToLower(verb) + " <url>"
	args := cobra.ExactArgs(1)
	if withBody {
		use += " <body>"
		args = cobra.ExactArgs(2)
	}
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Send a %s request", verb),
		Args:  usageArgs(args),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body string
			if withBody {
				body = args[1]
			}
			return opts.send(cmd, verb, args[0], body, withBody)
		},
	}
}

func newRequestCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "request <verb> <url> [body]",
		Short: "Send a request with any verb",
		Long: `Send a request with any verb. A body argument of "@file" sends the
contents of file; "@-" sends standard input.`,
		Args: usageArgs(cobra.RangeArgs(2, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body string
			if len(args) == 3 {
				body = args[2]
			}
			return opts.send(cmd, args[0], args[1], body, len(args) == 3)
		},
	}
}

func (o *options) send(cmd *cobra.Command, verb, url, arg string, withBody bool) error {
	e, err := o.env(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync() //nolint:errcheck

	var body interface{}
	if withBody {
		b, err := readBody(cmd.InOrStdin(), arg)
		if err != nil {
			return err
		}
		body = b
	}
	s, err := request.NewSpec(verb, url, body, o.contentType, o.headerLines(e.cfg)...)
	if err != nil {
		return err
	}

	x, err := retry.Do(e.client, s, e.policy)
	if err != nil {
		return err
	}
	return o.print(cmd.OutOrStdout(), x.Response)
}

// readBody interprets a body argument: "@-" is standard input, "@path"
// is the contents of a file, and anything else is literal text.
func readBody(stdin io.Reader, arg string) ([]byte, error) {
	switch {
	case arg == "@-":
		return io.ReadAll(stdin)
	case strings.HasPrefix(arg, "@"):
		b, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, &usageError{fmt.Errorf("failed to read body: %w", err)}
		}
		return b, nil
	default:
		return []byte(arg), nil
	}
}

func (o *options) print(w io.Writer, r *request.Response) error {
	if o.include {
		statusColor(r.StatusCode).Fprintf(w, "HTTP %d %s\n", r.StatusCode, r.StatusText)
		for _, h := range r.Headers {
			fmt.Fprintln(w, h)
		}
		fmt.Fprintln(w)
	}
	if o.extract == "" {
		_, err := w.Write(r.Body)
		return err
	}
	if !gjson.ValidBytes(r.Body) {
		return fmt.Errorf("response body is not valid JSON")
	}
	v := gjson.GetBytes(r.Body, o.extract)
	if !v.Exists() {
		return fmt.Errorf("no value at path %q", o.extract)
	}
	_, err := fmt.Fprintln(w, v.String())
	return err
}

func statusColor(code int) *color.Color {
	switch {
	case code >= 500:
		return color.New(color.FgRed, color.Bold)
	case code >= 400:
		return color.New(color.FgYellow, color.Bold)
	case code >= 300:
		return color.New(color.FgCyan, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}
