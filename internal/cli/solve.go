package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/hexleg/internal/bridge"
	"github.com/roach88/hexleg/internal/ik"
	"github.com/roach88/hexleg/internal/robot"
	"github.com/roach88/hexleg/internal/store"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	Robot    string
	Targets  []string // leg=x,y,z
	Offset   string   // x,y,z
	Roll     float64
	Pitch    float64
	Yaw      float64
	Database string
}

// LegSolution is one leg's row in the solve output.
type LegSolution struct {
	Leg         string          `json:"leg"`
	Angles      *ik.JointAngles `json:"angles,omitempty"`
	Unreachable ik.ErrorCode    `json:"unreachable,omitempty"`
	Joint       string          `json:"joint,omitempty"`
}

// SolveResult is the output of the solve command.
type SolveResult struct {
	Robot    string        `json:"robot"`
	RunToken string        `json:"run_token,omitempty"`
	Legs     []LegSolution `json:"legs"`
	Solved   int           `json:"solved"`
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve --target leg=x,y,z [--target ...]",
		Short: "Solve joint angles for foot targets",
		Long: `Solve coxa, femur, and tibia angles for one or more legs.

Targets are body-space foot positions. The body pose is given in radians;
--offset shifts the body, which moves every target the opposite way.
With --db the request and its outcome are appended to a solve log.

Exit codes:
  0 - Every leg solved
  1 - One or more legs unreachable
  2 - Command error (bad flags, unknown leg, robot not loadable)

Examples:
  hexleg solve --target r1=11.25,-4,12.15
  hexleg solve --target r1=11.25,-4,12.15 --target l1=-11.25,-4,12.15 --pitch 0.1
  hexleg solve --robot ./robots/mini --target a=10,-4,0 --db ./solves.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Robot, "robot", "", "robot description directory (default: built-in phoenix)")
	cmd.Flags().StringArrayVarP(&opts.Targets, "target", "t", nil, "foot target as leg=x,y,z (repeatable)")
	cmd.Flags().StringVar(&opts.Offset, "offset", "", "body offset as x,y,z")
	cmd.Flags().Float64Var(&opts.Roll, "roll", 0, "body roll in radians")
	cmd.Flags().Float64Var(&opts.Pitch, "pitch", 0, "body pitch in radians")
	cmd.Flags().Float64Var(&opts.Yaw, "yaw", 0, "body yaw in radians")
	cmd.Flags().StringVar(&opts.Database, "db", "", "append the solve to this SQLite log")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func runSolve(opts *SolveOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	req := &bridge.Request{
		ID:          "cli",
		Orientation: ik.Orientation{Roll: opts.Roll, Pitch: opts.Pitch, Yaw: opts.Yaw},
		Targets:     make(map[string][3]float64, len(opts.Targets)),
	}
	for _, t := range opts.Targets {
		leg, v, err := parseLegTarget(t)
		if err != nil {
			return report(f, ErrCodeBadFlag, flagError("target", err))
		}
		req.Targets[leg] = v.Array()
	}
	if opts.Offset != "" {
		v, err := parseVector(opts.Offset)
		if err != nil {
			return report(f, ErrCodeBadFlag, flagError("offset", err))
		}
		req.Offset = v.Array()
	}

	r, err := loadRobot(opts.Robot)
	if err != nil {
		return report(f, errorCode(err), err)
	}
	for leg := range req.Targets {
		if _, ok := r.Leg(leg); !ok {
			return report(f, ErrCodeUnknownLeg,
				NewExitError(ExitCommandError, fmt.Sprintf("leg %q not in robot %s (legs: %v)", leg, r.Name, r.Names())))
		}
	}

	var rec *store.Recorder
	if opts.Database != "" {
		st, err := openLog(opts.Database)
		if err != nil {
			return report(f, ErrCodeDatabase, err)
		}
		defer st.Close()
		if rec, err = st.start(ctx, r); err != nil {
			return report(f, ErrCodeDatabase, err)
		}
	}

	reply, err := bridge.New(r.Legs, rec).Solve(ctx, req)
	if err != nil {
		return report(f, ErrCodeDatabase, WrapExitError(ExitCommandError, "solve failed", err))
	}

	result := solveResult(r, reply)
	if rec != nil {
		result.RunToken = rec.Run().Token
	}

	if f.JSON() {
		if result.Solved < len(result.Legs) {
			_ = f.Failure(ErrCodeUnreachable, unreachableSummary(result), result)
			return NewExitError(ExitFailure, unreachableSummary(result))
		}
		return f.Success(result)
	}

	w := cmd.OutOrStdout()
	for _, ls := range result.Legs {
		switch {
		case ls.Angles != nil:
			fmt.Fprintf(w, "✓ %s  %s\n", ls.Leg, ls.Angles)
		case ls.Joint != "":
			fmt.Fprintf(w, "✗ %s  %s (%s)\n", ls.Leg, ls.Unreachable, ls.Joint)
		default:
			fmt.Fprintf(w, "✗ %s  %s\n", ls.Leg, ls.Unreachable)
		}
	}
	if result.RunToken != "" {
		fmt.Fprintf(w, "run %s\n", result.RunToken)
	}
	if result.Solved < len(result.Legs) {
		return NewExitError(ExitFailure, unreachableSummary(result))
	}
	return nil
}

// solveResult orders the reply by the robot's leg order.
func solveResult(r *robot.Robot, reply *bridge.Reply) SolveResult {
	result := SolveResult{Robot: r.Name, Legs: []LegSolution{}}
	for _, leg := range r.Legs {
		lr, ok := reply.Legs[leg.Name]
		if !ok {
			continue
		}
		result.Legs = append(result.Legs, LegSolution{
			Leg:         leg.Name,
			Angles:      lr.JointAngles,
			Unreachable: lr.Unreachable,
			Joint:       lr.Joint,
		})
		if lr.JointAngles != nil {
			result.Solved++
		}
	}
	return result
}

func unreachableSummary(result SolveResult) string {
	return fmt.Sprintf("%d of %d leg(s) unreachable", len(result.Legs)-result.Solved, len(result.Legs))
}

// solveLog wraps a store opened by a command.
type solveLog struct {
	*store.Store
}

// openLog opens the SQLite solve log at path.
func openLog(path string) (*solveLog, *ExitError) {
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return &solveLog{Store: st}, nil
}

// start records a new run for r, continuing the log's clock.
func (l *solveLog) start(ctx context.Context, r *robot.Robot) (*store.Recorder, *ExitError) {
	last, err := l.LastSeq(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read database", err)
	}
	rec, err := l.StartRun(ctx, store.UUIDv7Generator{}, store.NewClockAt(last), r.Name, r.Legs)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to record run", err)
	}
	slog.Debug("recording solves", "token", rec.Run().Token, "after_seq", last)
	return rec, nil
}
