package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/hexleg/internal/bridge"
	"github.com/roach88/hexleg/internal/robot"
	"github.com/roach88/hexleg/internal/store"
)

// BridgeOptions holds flags for the bridge command.
type BridgeOptions struct {
	*RootOptions
	Robot    string
	Broker   string
	ClientID string
	Prefix   string
	QoS      int
	Database string
}

// NewBridgeCommand creates the bridge command.
func NewBridgeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BridgeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Serve pose requests over MQTT",
		Long: `Subscribe to <prefix>/request, solve each pose request, and publish the
joint angles on <prefix>/angles. Runs until interrupted.

With --db every solved request is appended to one run of the solve log.

Examples:
  hexleg bridge --broker tcp://localhost:1883
  hexleg bridge --broker tcp://pi.local:1883 --prefix phoenix --db ./bridge.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBridge(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Robot, "robot", "", "robot description directory (default: built-in phoenix)")
	cmd.Flags().StringVar(&opts.Broker, "broker", "tcp://localhost:1883", "MQTT broker URL")
	cmd.Flags().StringVar(&opts.ClientID, "client-id", "hexleg-bridge", "MQTT client ID")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", bridge.DefaultPrefix, "topic prefix")
	cmd.Flags().IntVar(&opts.QoS, "qos", 0, "MQTT quality of service (0, 1, or 2)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "append solves to this SQLite log")

	return cmd
}

func runBridge(opts *BridgeOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	if opts.QoS < 0 || opts.QoS > 2 {
		return report(f, ErrCodeBadFlag, NewExitError(ExitCommandError, "invalid --qos: must be 0, 1, or 2"))
	}

	r, err := loadRobot(opts.Robot)
	if err != nil {
		return report(f, errorCode(err), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	cfg := bridge.Config{
		Broker:   opts.Broker,
		ClientID: opts.ClientID,
		Prefix:   opts.Prefix,
		QoS:      byte(opts.QoS),
	}
	if err := bridge.New(r.Legs, rec).Serve(ctx, cfg); err != nil {
		return report(f, robot.ErrCodeGeneric, WrapExitError(ExitCommandError, "bridge failed", err))
	}
	return nil
}
