// Package cli holds the fetchctl subcommands.
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/dvcrn/go-fetch-adapter/internal/adapter"
	"github.com/dvcrn/go-fetch-adapter/internal/client"
	nativehttp "github.com/dvcrn/go-fetch-adapter/internal/http"
)

// headerFlag collects repeated -H "Name: value" flags.
type headerFlag map[string]string

func (h headerFlag) String() string {
	pairs := make([]string, 0, len(h))
	for k, v := range h {
		pairs = append(pairs, k+": "+v)
	}
	return strings.Join(pairs, ", ")
}

func (h headerFlag) Set(value string) error {
	name, v, ok := strings.Cut(value, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("invalid header %q, expected \"Name: value\"", value)
	}
	h[strings.TrimSpace(name)] = strings.TrimSpace(v)
	return nil
}

// RequestCommand sends one request and prints the normalized response.
type RequestCommand struct {
	method          string
	headers         headerFlag
	data            string
	timeout         time.Duration
	responseType    string
	user            string
	baseURL         string
	withCredentials bool

	out io.Writer
}

type output struct {
	Status     int               `json:"status"`
	StatusText string            `json:"status_text"`
	Headers    map[string]string `json:"headers"`
	Data       any               `json:"data"`
	Error      string            `json:"error,omitempty"`
	Code       string            `json:"code,omitempty"`
}

func (*RequestCommand) Name() string     { return "request" }
func (*RequestCommand) Synopsis() string { return "Send one request and print the normalized response" }
func (*RequestCommand) Usage() string {
	return `request [flags] <url>:
	Send a request through the fetch adapter and print status, headers and
	data as JSON. With -type stream the raw body is copied to stdout.

	Defaults are read from FETCH_BASE_URL, FETCH_TIMEOUT,
	FETCH_WITH_CREDENTIALS, FETCH_XSRF_COOKIE_NAME and FETCH_XSRF_HEADER_NAME.
`
}

func (cmd *RequestCommand) SetFlags(f *flag.FlagSet) {
	cmd.headers = headerFlag{}
	f.StringVar(&cmd.method, "X", "GET", "request method")
	f.Var(cmd.headers, "H", "request header \"Name: value\", may be repeated")
	f.StringVar(&cmd.data, "d", "", "request body; parsed as JSON when valid, sent as text otherwise")
	f.DurationVar(&cmd.timeout, "timeout", 0, "abort the request after this long")
	f.StringVar(&cmd.responseType, "type", "", "response type: arraybuffer, blob, json, stream or text")
	f.StringVar(&cmd.user, "u", "", "basic auth credentials as user:password")
	f.StringVar(&cmd.baseURL, "base-url", "", "base URL for relative request URLs")
	f.BoolVar(&cmd.withCredentials, "with-credentials", false, "send and store cookies")
}

func (cmd *RequestCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one url")
		return subcommands.ExitUsageError
	}

	cfg := client.Config{
		URL:          f.Arg(0),
		BaseURL:      cmd.baseURL,
		Method:       cmd.method,
		Headers:      cmd.headers,
		Timeout:      cmd.timeout,
		ResponseType: adapter.ResponseType(cmd.responseType),
	}
	if cmd.withCredentials {
		cfg.WithCredentials = client.Bool(true)
	}
	if cmd.user != "" {
		username, password, _ := strings.Cut(cmd.user, ":")
		cfg.Auth = &adapter.Auth{Username: username, Password: password}
	}
	if cmd.data != "" {
		var data any
		if err := json.Unmarshal([]byte(cmd.data), &data); err != nil {
			data = cmd.data
		}
		cfg.Data = data
	}

	c := client.New(adapter.New(nativehttp.NewFetcher()), client.DefaultsFromEnv())
	return cmd.run(ctx, c, cfg)
}

func (cmd *RequestCommand) run(ctx context.Context, c *client.Client, cfg client.Config) subcommands.ExitStatus {
	w := cmd.out
	if w == nil {
		w = os.Stdout
	}

	resp, err := c.Request(ctx, cfg)
	if err != nil {
		e, ok := adapter.AsError(err)
		if !ok || e.Response == nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return subcommands.ExitFailure
		}
		out := newOutput(e.Response)
		if body, ok := out.Data.(io.ReadCloser); ok {
			body.Close()
			out.Data = nil
		}
		out.Error = e.Message
		out.Code = e.Code
		writeOutput(w, out)
		return subcommands.ExitFailure
	}

	if body, ok := resp.Data.(io.ReadCloser); ok {
		defer body.Close()
		if _, err := io.Copy(w, body); err != nil {
			fmt.Fprintf(os.Stderr, "failed to read body: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if err := writeOutput(w, newOutput(resp)); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode response: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func newOutput(resp *adapter.Response) output {
	return output{
		Status:     resp.Status,
		StatusText: resp.StatusText,
		Headers:    resp.Headers,
		Data:       resp.Data,
	}
}

func writeOutput(w io.Writer, out output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
