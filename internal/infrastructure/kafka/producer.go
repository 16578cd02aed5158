package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/example/admin-dashboard/internal/resource"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	log    *logrus.Entry
}

// NewProducer builds an asynchronous producer: Publish hands the message to
// the writer's batch and delivery errors are logged when the batch completes.
func NewProducer(brokers []string, topic string, logger *logrus.Logger) *Producer {
	log := logger.WithFields(logrus.Fields{"component": "kafka-producer", "topic": topic})
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.WithError(err).Warnf("Failed to deliver %d messages", len(messages))
			}
		},
	}
	return &Producer{writer: writer, log: log}
}

func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// FetchPublisher forwards every completed resource load to Kafka, keyed by
// resource name so one resource's events stay ordered within a partition.
type FetchPublisher struct {
	producer *Producer
}

func NewFetchPublisher(producer *Producer) *FetchPublisher {
	return &FetchPublisher{producer: producer}
}

func (f *FetchPublisher) FetchCompleted(ctx context.Context, event resource.FetchEvent) {
	if err := f.producer.Publish(ctx, event.Resource, event); err != nil {
		f.producer.log.WithError(err).WithField("resource", event.Resource).Warn("Failed to publish fetch event")
	}
}
