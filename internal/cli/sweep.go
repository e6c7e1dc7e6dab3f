package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/hexleg/internal/geom"
	"github.com/roach88/hexleg/internal/ik"
)

// SweepOptions holds flags for the sweep command.
type SweepOptions struct {
	*RootOptions
	Robot string
	Leg   string
	From  string
	To    string
	Steps int
	Roll  float64
	Pitch float64
	Yaw   float64
}

// SweepPoint is one sample along the sweep line.
type SweepPoint struct {
	Index       int             `json:"index"`
	Target      [3]float64      `json:"target"`
	Angles      *ik.JointAngles `json:"angles,omitempty"`
	Unreachable ik.ErrorCode    `json:"unreachable,omitempty"`
	Joint       string          `json:"joint,omitempty"`
}

// SweepResult is the output of the sweep command.
type SweepResult struct {
	Leg       string       `json:"leg"`
	Points    []SweepPoint `json:"points"`
	Reachable int          `json:"reachable"`
}

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SweepOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sweep --leg <name> --from x,y,z --to x,y,z",
		Short: "Probe reachability along a straight line",
		Long: `Solve one leg at evenly spaced targets from --from to --to, both ends
included, and report which samples are reachable.

Examples:
  hexleg sweep --leg r1 --from 8,-4,12.15 --to 22,-4,12.15 --steps 14
  hexleg sweep --leg l2 --from -13.25,-10,0 --to -13.25,6,0 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Robot, "robot", "", "robot description directory (default: built-in phoenix)")
	cmd.Flags().StringVar(&opts.Leg, "leg", "", "leg to probe (required)")
	cmd.Flags().StringVar(&opts.From, "from", "", "first target as x,y,z (required)")
	cmd.Flags().StringVar(&opts.To, "to", "", "last target as x,y,z (required)")
	cmd.Flags().IntVar(&opts.Steps, "steps", 10, "number of intervals between --from and --to")
	cmd.Flags().Float64Var(&opts.Roll, "roll", 0, "body roll in radians")
	cmd.Flags().Float64Var(&opts.Pitch, "pitch", 0, "body pitch in radians")
	cmd.Flags().Float64Var(&opts.Yaw, "yaw", 0, "body yaw in radians")
	_ = cmd.MarkFlagRequired("leg")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runSweep(opts *SweepOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	from, err := parseVector(opts.From)
	if err != nil {
		return report(f, ErrCodeBadFlag, flagError("from", err))
	}
	to, err := parseVector(opts.To)
	if err != nil {
		return report(f, ErrCodeBadFlag, flagError("to", err))
	}
	if opts.Steps < 1 {
		return report(f, ErrCodeBadFlag, NewExitError(ExitCommandError, "invalid --steps: must be at least 1"))
	}

	r, err := loadRobot(opts.Robot)
	if err != nil {
		return report(f, errorCode(err), err)
	}
	leg, ok := r.Leg(opts.Leg)
	if !ok {
		return report(f, ErrCodeUnknownLeg,
			NewExitError(ExitCommandError, fmt.Sprintf("leg %q not in robot %s (legs: %v)", opts.Leg, r.Name, r.Names())))
	}

	result := Sweep(leg, from, to, opts.Steps, ik.Orientation{Roll: opts.Roll, Pitch: opts.Pitch, Yaw: opts.Yaw})

	if f.JSON() {
		return f.Success(result)
	}
	for _, p := range result.Points {
		target := geom.V(p.Target[0], p.Target[1], p.Target[2])
		switch {
		case p.Angles != nil:
			fmt.Fprintf(f.Writer, "✓ %3d  %s  %s\n", p.Index, target, p.Angles)
		case p.Joint != "":
			fmt.Fprintf(f.Writer, "✗ %3d  %s  %s (%s)\n", p.Index, target, p.Unreachable, p.Joint)
		default:
			fmt.Fprintf(f.Writer, "✗ %3d  %s  %s\n", p.Index, target, p.Unreachable)
		}
	}
	fmt.Fprintf(f.Writer, "%d of %d reachable\n", result.Reachable, len(result.Points))
	return nil
}

// Sweep solves leg at steps+1 evenly spaced targets from from to to.
func Sweep(leg ik.Leg, from, to geom.Vector3, steps int, o ik.Orientation) SweepResult {
	result := SweepResult{Leg: leg.Name, Points: make([]SweepPoint, 0, steps+1)}
	delta := to.Sub(from)
	for i := 0; i <= steps; i++ {
		target := from.Add(delta.Scale(float64(i) / float64(steps)))
		p := SweepPoint{Index: i, Target: target.Array()}

		angles, err := ik.Solve(ik.Request{Target: target, Orientation: o}, leg)
		if err == nil {
			p.Angles = &angles
			result.Reachable++
		} else {
			p.Unreachable = ik.CodeOf(err)
			var ue *ik.UnreachableError
			if errors.As(err, &ue) && ue.Code == ik.ErrCodeOutOfMechanicalRange {
				p.Joint = ue.Joint.String()
			}
		}
		result.Points = append(result.Points, p)
	}
	return result
}
