package kafka

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	defaultRetryDelay      = 200 * time.Millisecond
	defaultMaxRetryDelay   = 10 * time.Second
	defaultMaxReadFailures = 20
)

type MessageHandler func(ctx context.Context, key, value []byte) error

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer feeds fetch events to a handler. Consecutive read failures back
// off exponentially and stop the consumer once maxReadFailures is reached.
type Consumer struct {
	reader messageReader
	log    *logrus.Entry

	retryDelay      time.Duration
	maxRetryDelay   time.Duration
	maxReadFailures int
}

func NewConsumer(brokers []string, topic, groupID string, logger *logrus.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{
		reader:          reader,
		log:             logger.WithFields(logrus.Fields{"component": "kafka-consumer", "topic": topic, "group": groupID}),
		retryDelay:      defaultRetryDelay,
		maxRetryDelay:   defaultMaxRetryDelay,
		maxReadFailures: defaultMaxReadFailures,
	}
}

// ErrTooManyReadFailures is returned by Consume when the broker stays unreadable
var ErrTooManyReadFailures = errors.New("too many consecutive read failures")

// Consume reads until ctx ends. Handler errors are logged and skipped; read
// errors are retried with backoff.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	failures := 0
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			failures++
			c.log.WithError(err).WithField("failures", failures).Error("Error reading message")
			if c.maxReadFailures > 0 && failures >= c.maxReadFailures {
				return errors.Wrapf(ErrTooManyReadFailures, "%d in a row, last: %v", failures, err)
			}
			if err := c.wait(ctx, failures); err != nil {
				return err
			}
			continue
		}
		failures = 0
		c.handle(ctx, msg, handler)
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message, handler MessageHandler) {
	if err := handler(ctx, msg.Key, msg.Value); err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"key":       string(msg.Key),
			"partition": msg.Partition,
			"offset":    msg.Offset,
		}).Error("Error handling message")
	}
}

// wait sleeps retryDelay doubled per failure, capped at maxRetryDelay
func (c *Consumer) wait(ctx context.Context, failures int) error {
	delay := c.backoff(failures)
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Consumer) backoff(failures int) time.Duration {
	delay := c.retryDelay
	for i := 1; i < failures && delay < c.maxRetryDelay; i++ {
		delay *= 2
	}
	if c.maxRetryDelay > 0 && delay > c.maxRetryDelay {
		delay = c.maxRetryDelay
	}
	return delay
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
