// Package relay carries admission decisions from the decision path to the
// reconciliation consumer over an at-least-once channel.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
	"github.com/sennaseo/BOINDANG-sub000/internal/domain"
)

// ErrEncode marks a payload marshal failure. It is a programmer error,
// distinct from transport failures, which are operational.
var ErrEncode = errors.New("encode decision event")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Producer publishes decision events keyed by campaign id, so decisions for
// one campaign land on one partition.
type Producer struct {
	writer messageWriter
	closer func() error
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return &Producer{writer: w, closer: w.Close}
}

func (p *Producer) Publish(ctx context.Context, ev domain.DecisionEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.CampaignID, 10)),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write decision event: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}
