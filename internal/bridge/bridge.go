package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/roach88/hexleg/internal/ik"
	"github.com/roach88/hexleg/internal/store"
)

// DefaultPrefix is the topic prefix used when none is configured.
const DefaultPrefix = "hexleg"

// Config configures the broker connection.
type Config struct {
	Broker   string
	ClientID string
	Prefix   string
	QoS      byte
}

// RequestTopic is the topic pose requests arrive on.
func (c Config) RequestTopic() string {
	return c.prefix() + "/request"
}

// AnglesTopic is the topic replies are published on.
func (c Config) AnglesTopic() string {
	return c.prefix() + "/angles"
}

func (c Config) prefix() string {
	if c.Prefix == "" {
		return DefaultPrefix
	}
	return c.Prefix
}

// Bridge solves pose requests for a fixed set of legs.
type Bridge struct {
	legs []ik.Leg
	rec  *store.Recorder
}

// New creates a bridge for legs. rec may be nil; when set, every solved
// request is appended to its run.
func New(legs []ik.Leg, rec *store.Recorder) *Bridge {
	return &Bridge{legs: legs, rec: rec}
}

// Handle decodes a request payload, solves it, and returns the encoded reply.
func (b *Bridge) Handle(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := DecodeRequest(payload)
	if err != nil {
		return nil, err
	}
	reply, err := b.Solve(ctx, req)
	if err != nil {
		return nil, err
	}
	return json.Marshal(reply)
}

// Solve solves every leg named in req. Legs are solved in robot order.
func (b *Bridge) Solve(ctx context.Context, req *Request) (*Reply, error) {
	for name := range req.Targets {
		if !slices.ContainsFunc(b.legs, func(l ik.Leg) bool { return l.Name == name }) {
			return nil, fmt.Errorf("request %q: unknown leg %q", req.ID, name)
		}
	}

	var legs []ik.Leg
	var reqs []ik.Request
	for _, leg := range b.legs {
		t, ok := req.Targets[leg.Name]
		if !ok {
			continue
		}
		legs = append(legs, leg)
		reqs = append(reqs, ik.Request{
			Target:      ik.ApplyOffset(vec(t), vec(req.Offset)),
			Orientation: req.Orientation,
		})
	}

	outcomes, err := ik.SolveBody(legs, reqs)
	if err != nil {
		return nil, err
	}
	if b.rec != nil {
		if err := b.rec.Record(ctx, reqs, outcomes); err != nil {
			return nil, fmt.Errorf("request %q: %w", req.ID, err)
		}
	}

	reply := &Reply{ID: req.ID, Legs: make(map[string]LegReply, len(outcomes))}
	for _, o := range outcomes {
		reply.Legs[o.Leg] = replyFor(o)
	}
	return reply, nil
}

// Serve connects to the broker and answers requests until ctx is done.
func (b *Bridge) Serve(ctx context.Context, cfg Config) error {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect %s: %w", cfg.Broker, token.Error())
	}
	defer client.Disconnect(250)
	slog.Info("bridge connected", "broker", cfg.Broker, "request", cfg.RequestTopic(), "angles", cfg.AnglesTopic())

	sub := client.Subscribe(cfg.RequestTopic(), cfg.QoS, func(c mqtt.Client, msg mqtt.Message) {
		out, err := b.Handle(ctx, msg.Payload())
		if err != nil {
			slog.Warn("bridge request rejected", "topic", msg.Topic(), "error", err)
			return
		}
		pub := c.Publish(cfg.AnglesTopic(), cfg.QoS, false, out)
		if pub.Wait() && pub.Error() != nil {
			slog.Warn("bridge publish failed", "error", pub.Error())
		}
	})
	if sub.Wait() && sub.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", cfg.RequestTopic(), sub.Error())
	}

	<-ctx.Done()
	slog.Info("bridge stopping")
	return nil
}
