// Package main provides the calldash command line client. It talks to the
// telephony API directly with the same client and aggregation the server uses.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dennisdiepolder/calldash/internal/api"
	"github.com/dennisdiepolder/calldash/internal/calllog"
	"github.com/dennisdiepolder/calldash/internal/config"
	"github.com/dennisdiepolder/calldash/internal/dashboard"
	"github.com/dennisdiepolder/calldash/internal/export"
	"github.com/dennisdiepolder/calldash/internal/retell"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is built once per invocation from config and flags
type app struct {
	cfg       *config.Config
	client    *retell.Client
	dashboard *dashboard.Service
	logger    zerolog.Logger
}

func rootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
		verbose bool
		a       app
	)

	cmd := &cobra.Command{
		Use:   "calldash",
		Short: "Query Retell call data from the command line",
		Long: `Query Retell call data from the command line.

The API key is read from RETELL_API_KEY (or a .env file).

Examples:
  calldash dashboard                   # Print the dashboard snapshot as JSON
  calldash calls --limit 20            # List calls
  calldash get call_abc123             # Print one call
  calldash export --out calls.xlsx     # Export the call log
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if baseURL != "" {
				cfg.RetellBaseURL = baseURL
			}
			if timeout > 0 {
				cfg.UpstreamTimeout = timeout
			}

			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).
				Level(level).With().Timestamp().Logger()

			var opts []retell.Option
			if cfg.UpstreamTimeout > 0 {
				opts = append(opts, retell.WithTimeout(cfg.UpstreamTimeout))
			}

			a.cfg = cfg
			a.logger = logger
			a.client = retell.NewClient(cfg.RetellBaseURL, cfg.RetellAPIKey, logger, opts...)
			a.dashboard = dashboard.NewService(a.client, cfg.Location, logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Retell API base URL (overrides RETELL_BASE_URL)")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Upstream request timeout (overrides UPSTREAM_TIMEOUT)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(dashboardCmd(&a))
	cmd.AddCommand(callsCmd(&a))
	cmd.AddCommand(getCmd(&a))
	cmd.AddCommand(exportCmd(&a))

	return cmd
}

func dashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			snapshot, err := a.dashboard.Load(ctx)
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), snapshot)
		},
	}
}

func callsCmd(a *app) *cobra.Command {
	var (
		cursor    string
		limit     string
		direction string
		from      string
		to        string
		agentID   string
	)

	cmd := &cobra.Command{
		Use:   "calls",
		Short: "List calls, normalized to {calls, next_cursor}",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			// same parsing and validation as GET /api/calls
			query := url.Values{
				"cursor":               {cursor},
				"limit":                {limit},
				"direction":            {direction},
				"start_timestamp_from": {from},
				"start_timestamp_to":   {to},
				"agent_id":             {agentID},
			}
			filters, err := api.ParseListFilters(query)
			if err != nil {
				return err
			}

			page, err := a.client.ListCalls(ctx, filters)
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), page)
		},
	}

	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor")
	cmd.Flags().StringVar(&limit, "limit", "", "Maximum number of calls")
	cmd.Flags().StringVar(&direction, "direction", "", "inbound or outbound")
	cmd.Flags().StringVar(&from, "from", "", "Earliest start timestamp (ms since epoch)")
	cmd.Flags().StringVar(&to, "to", "", "Latest start timestamp (ms since epoch)")
	cmd.Flags().StringVar(&agentID, "agent", "", "Agent id")

	return cmd
}

func getCmd(a *app) *cobra.Command {
	var detail bool

	cmd := &cobra.Command{
		Use:   "get <call-id>",
		Short: "Print a single call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			raw, err := a.client.GetCall(ctx, args[0])
			if err != nil {
				return describe(err)
			}

			if !detail {
				var v any
				if err := json.Unmarshal(raw, &v); err != nil {
					return fmt.Errorf("decode call: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), v)
			}

			calls, errs := retell.DecodeCalls([]json.RawMessage{raw})
			if len(errs) > 0 {
				return fmt.Errorf("decode call: %w", errs[0])
			}
			return printJSON(cmd.OutOrStdout(), calllog.BuildDetail(calls[0], a.logOptions()))
		},
	}

	cmd.Flags().BoolVar(&detail, "detail", false, "Print the formatted detail view instead of the raw call")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var (
		out    string
		search string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the call log to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			calls, err := a.dashboard.Calls(ctx)
			if err != nil {
				return describe(err)
			}
			entries := calllog.Filter(calllog.Build(calls, a.logOptions()), search)

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := export.WriteWorkbook(f, entries); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d calls to %s\n", len(entries), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "call-logs.xlsx", "Output file")
	cmd.Flags().StringVar(&search, "search", "", "Only export calls matching this text")
	return cmd
}

func (a *app) logOptions() calllog.Options {
	return calllog.Options{Location: a.cfg.Location, Region: a.cfg.PhoneRegion}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// describe turns client errors into the message the HTTP API would show
func describe(err error) error {
	status, msg := retell.Describe(err)
	return fmt.Errorf("%s (status %d): %w", msg, status, err)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
