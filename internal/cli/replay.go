package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/hexleg/internal/ik"
	"github.com/roach88/hexleg/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Robot    string // replay against this description instead of the recorded one
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunToken      string             `json:"run_token"`
	RobotHash     string             `json:"robot_hash"`
	Solves        int                `json:"solves"`
	Deterministic bool               `json:"deterministic"`
	Diverged      []store.Divergence `json:"diverged,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay [run-token]",
		Short: "Re-solve a solve log and verify determinism",
		Long: `Re-solve every request in a solve log and compare with the recorded outcome.

Angles must match bit for bit. With --robot the requests are replayed
against a different description, which shows what a calibration change
would alter.

Exit codes:
  0 - Every run replayed identically
  1 - One or more solves diverged
  2 - Command error (database not found, unknown run, etc.)

Examples:
  hexleg replay --db ./solves.db
  hexleg replay --db ./solves.db 0192f0c1-...
  hexleg replay --db ./solves.db --robot ./robots/recalibrated`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			return runReplay(opts, token, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Robot, "robot", "", "replay against this robot directory")

	return cmd
}

func runReplay(opts *ReplayOptions, token string, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	var legs []ik.Leg
	if opts.Robot != "" {
		r, err := loadRobot(opts.Robot)
		if err != nil {
			return report(f, errorCode(err), err)
		}
		legs = r.Legs
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return report(f, ErrCodeDatabase, WrapExitError(ExitCommandError, "failed to open database", err))
	}
	defer st.Close()

	var tokens []string
	if token != "" {
		tokens = []string{token}
	} else {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return report(f, ErrCodeDatabase, WrapExitError(ExitCommandError, "failed to list runs", err))
		}
		for _, run := range runs {
			tokens = append(tokens, run.Token)
		}
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(tokens)),
		TotalRuns:        len(tokens),
		AllDeterministic: true,
	}
	for _, tok := range tokens {
		res, err := st.Replay(ctx, tok, legs)
		if err != nil {
			return report(f, ErrCodeDatabase, WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", tok), err))
		}
		f.VerboseLog("Replayed %s: %d solve(s), %d diverged", tok, res.Total, len(res.Diverged))

		result.Runs = append(result.Runs, ReplayRunResult{
			RunToken:      res.RunToken,
			RobotHash:     res.RobotHash,
			Solves:        res.Total,
			Deterministic: res.Deterministic(),
			Diverged:      res.Diverged,
		})
		if !res.Deterministic() {
			result.AllDeterministic = false
		}
	}

	if f.JSON() {
		if result.AllDeterministic {
			return f.Success(result)
		}
		if err := f.Failure(ErrCodeNotDeterministic, "replay diverged", result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "replay diverged")
	}
	return outputReplayText(f, result)
}

func outputReplayText(f *OutputFormatter, result ReplayResult) error {
	if result.TotalRuns == 0 {
		fmt.Fprintln(f.Writer, "No runs found in database.")
		return nil
	}

	for _, run := range result.Runs {
		if run.Deterministic {
			fmt.Fprintf(f.Writer, "✓ %s  %d solve(s)\n", run.RunToken, run.Solves)
			continue
		}
		fmt.Fprintf(f.Writer, "✗ %s  %d of %d solve(s) diverged\n", run.RunToken, len(run.Diverged), run.Solves)
		for _, d := range run.Diverged {
			fmt.Fprintf(f.Writer, "  [%d] %s: recorded %s, replayed %s\n", d.Seq, d.Leg, d.Recorded, d.Replayed)
		}
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "replay diverged")
	}
	fmt.Fprintln(f.Writer, "✓ All runs deterministic")
	return nil
}
