// Package bus publishes fault reports over an NNG pub/sub socket so
// shop-floor monitoring tools can react to diagnoses without polling the
// HTTP API.
package bus

import (
	"encoding/json"
	"fmt"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"
	"go.nanomsg.org/mangos/v3/protocol/sub"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/voltaic-labs/sigraph/pkg/logging"
)

// topicSeparator splits the topic prefix from the JSON payload on the wire.
const topicSeparator = '|'

// Publisher broadcasts JSON messages on a pub socket. Subscribers filter
// by topic prefix, so every message is framed as "topic|payload".
type Publisher struct {
	sock   mangos.Socket
	topic  string
	logger logging.Logger
}

// NewPublisher opens a pub socket listening on addr.
func NewPublisher(addr, topic string, logger logging.Logger) (*Publisher, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("open pub socket: %w", err)
	}
	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	logger.Info("fault bus listening",
		logging.String("addr", addr),
		logging.String("topic", topic),
	)
	return &Publisher{sock: sock, topic: topic, logger: logger}, nil
}

// Publish marshals the message to JSON and broadcasts it under the
// publisher's topic. Publishing with no subscribers is not an error.
func (p *Publisher) Publish(message any) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	frame := make([]byte, 0, len(p.topic)+1+len(payload))
	frame = append(frame, p.topic...)
	frame = append(frame, topicSeparator)
	frame = append(frame, payload...)

	if err := p.sock.Send(frame); err != nil {
		return fmt.Errorf("publish on topic %s: %w", p.topic, err)
	}
	return nil
}

// Close shuts the socket down.
func (p *Publisher) Close() error {
	return p.sock.Close()
}

// Subscriber receives topic-filtered messages from a Publisher.
type Subscriber struct {
	sock  mangos.Socket
	topic string
}

// NewSubscriber dials the publisher at addr and subscribes to the topic.
func NewSubscriber(addr, topic string) (*Subscriber, error) {
	sock, err := sub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("open sub socket: %w", err)
	}
	if err := sock.Dial(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if err := sock.SetOption(mangos.OptionSubscribe, []byte(topic)); err != nil {
		sock.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	return &Subscriber{sock: sock, topic: topic}, nil
}

// Receive waits up to timeout for one message and unmarshals its payload
// into out.
func (s *Subscriber) Receive(timeout time.Duration, out any) error {
	if err := s.sock.SetOption(mangos.OptionRecvDeadline, timeout); err != nil {
		return err
	}

	frame, err := s.sock.Recv()
	if err != nil {
		return fmt.Errorf("receive on topic %s: %w", s.topic, err)
	}

	payload := frame
	for i, b := range frame {
		if b == topicSeparator {
			payload = frame[i+1:]
			break
		}
	}
	return json.Unmarshal(payload, out)
}

// Close shuts the socket down.
func (s *Subscriber) Close() error {
	return s.sock.Close()
}
