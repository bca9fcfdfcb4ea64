package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/sennaseo/BOINDANG-sub000/internal/domain"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestProducer_Publish(t *testing.T) {
	t.Parallel()

	w := &captureWriter{}
	p := &Producer{writer: w}

	ev := domain.DecisionEvent{CampaignID: 12, UserID: 34, Selected: true}
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "12" {
		t.Fatalf("expected key 12, got %q", msg.Key)
	}
	want := `{"campaignId":12,"userId":34,"selected":true}`
	if string(msg.Value) != want {
		t.Fatalf("expected payload %s, got %s", want, msg.Value)
	}
}

func TestProducer_PublishTransportFailure(t *testing.T) {
	t.Parallel()

	transportErr := errors.New("broker unreachable")
	p := &Producer{writer: &captureWriter{err: transportErr}}

	err := p.Publish(context.Background(), domain.DecisionEvent{CampaignID: 1, UserID: 2})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, transportErr) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	if errors.Is(err, ErrEncode) {
		t.Fatalf("transport failure must not look like an encode failure: %v", err)
	}
}
