package events

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by video id, so all events of one video
// land on the same partition. A circuit breaker stops the request path from
// waiting on an unreachable broker.
type KafkaPublisher struct {
	writer  messageWriter
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	log     *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		Async:        false,
	}
	return newKafkaPublisher(w, logger)
}

func newKafkaPublisher(w messageWriter, logger *zap.Logger) *KafkaPublisher {
	st := gobreaker.Settings{
		Name:        "kafka-events",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("circuit breaker state", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}
	return &KafkaPublisher{
		writer:  w,
		cb:      gobreaker.NewCircuitBreaker(st),
		timeout: 2 * time.Second,
		log:     logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.cb.Execute(func() (interface{}, error) {
		wctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return nil, p.writer.WriteMessages(wctx, kafkago.Message{
			Key:   []byte(ev.VideoID),
			Value: b,
			Time:  ev.At,
		})
	})
	return err
}

func (p *KafkaPublisher) State() gobreaker.State { return p.cb.State() }

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
