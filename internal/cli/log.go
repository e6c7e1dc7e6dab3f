package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/hexleg/internal/geom"
	"github.com/roach88/hexleg/internal/harness"
	"github.com/roach88/hexleg/internal/ik"
	"github.com/roach88/hexleg/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Database string
	Run      string
	Leg      string
	Outcome  string // ok | geometric | range
	Limit    int
}

// LogEntry is one solve in the log output.
type LogEntry struct {
	Seq         int64           `json:"seq"`
	RunToken    string          `json:"run_token"`
	Leg         string          `json:"leg"`
	Target      geom.Vector3    `json:"target"`
	Orientation ik.Orientation  `json:"orientation"`
	Outcome     string          `json:"outcome"`
	Angles      *ik.JointAngles `json:"angles,omitempty"`
	Joint       string          `json:"joint,omitempty"`
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List solves from a solve log",
		Long: `List recorded solves in seq order, optionally filtered.

Examples:
  hexleg log --db ./solves.db
  hexleg log --db ./solves.db --leg r1 --outcome range
  hexleg log --db ./solves.db --run 0192f0c1-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Run, "run", "", "only solves of this run")
	cmd.Flags().StringVar(&opts.Leg, "leg", "", "only solves of this leg")
	cmd.Flags().StringVar(&opts.Outcome, "outcome", "", "only this outcome (ok|geometric|range)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of solves (0 for all)")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	filter := store.SolveFilter{RunToken: opts.Run, Leg: opts.Leg, Limit: opts.Limit}
	if opts.Outcome != "" {
		code, ok := harness.OutcomeCode(opts.Outcome)
		if !ok {
			return report(f, ErrCodeBadFlag,
				NewExitError(ExitCommandError, fmt.Sprintf("invalid --outcome %q: must be ok, geometric, or range", opts.Outcome)))
		}
		filter.Outcome = code
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return report(f, ErrCodeDatabase, WrapExitError(ExitCommandError, "failed to open database", err))
	}
	defer st.Close()

	solves, err := st.QuerySolves(context.Background(), filter)
	if err != nil {
		return report(f, ErrCodeDatabase, WrapExitError(ExitCommandError, "failed to query solves", err))
	}

	entries := make([]LogEntry, len(solves))
	for i, sv := range solves {
		entries[i] = LogEntry{
			Seq:         sv.Seq,
			RunToken:    sv.RunToken,
			Leg:         sv.Leg,
			Target:      sv.Request.Target,
			Orientation: sv.Request.Orientation,
			Outcome:     sv.Outcome,
			Joint:       sv.Joint,
		}
		if sv.OK() {
			angles := sv.Angles
			entries[i].Angles = &angles
		}
	}

	if f.JSON() {
		return f.Success(entries)
	}
	for _, e := range entries {
		switch {
		case e.Angles != nil:
			fmt.Fprintf(f.Writer, "[%d] %s %s  %s\n", e.Seq, e.Leg, e.Target, e.Angles)
		case e.Joint != "":
			fmt.Fprintf(f.Writer, "[%d] %s %s  %s (%s)\n", e.Seq, e.Leg, e.Target, e.Outcome, e.Joint)
		default:
			fmt.Fprintf(f.Writer, "[%d] %s %s  %s\n", e.Seq, e.Leg, e.Target, e.Outcome)
		}
	}
	fmt.Fprintf(f.Writer, "%d solve(s)\n", len(entries))
	return nil
}
