package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/example/admin-dashboard/internal/resource"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type readResult struct {
	msg kafka.Message
	err error
}

// fakeReader replays results and cancels the consumer once drained
type fakeReader struct {
	results []readResult
	pos     int
	cancel  context.CancelFunc
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if r.pos >= len(r.results) {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	res := r.results[r.pos]
	r.pos++
	return res.msg, res.err
}

func (r *fakeReader) Close() error { return nil }

func newTestProducer() (*Producer, *fakeWriter, *test.Hook) {
	logger, hook := test.NewNullLogger()
	w := &fakeWriter{}
	return &Producer{writer: w, log: logger.WithField("component", "kafka-producer")}, w, hook
}

// ============================================
// Producer Tests
// ============================================

func TestProducer_Publish(t *testing.T) {
	p, w, _ := newTestProducer()

	err := p.Publish(context.Background(), "products", map[string]int{"count": 20})

	require.NoError(t, err)
	require.Len(t, w.messages, 1)
	assert.Equal(t, "products", string(w.messages[0].Key))
	assert.JSONEq(t, `{"count":20}`, string(w.messages[0].Value))
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishUnmarshalable(t *testing.T) {
	p, w, _ := newTestProducer()

	err := p.Publish(context.Background(), "k", make(chan int))

	assert.Error(t, err)
	assert.Empty(t, w.messages)
}

func TestFetchPublisher_FetchCompleted(t *testing.T) {
	p, w, _ := newTestProducer()
	pub := NewFetchPublisher(p)
	event := resource.FetchEvent{
		ID:       "e-1",
		Resource: "medicines",
		Outcome:  resource.OutcomeFailed,
		Kind:     resource.KindDecode,
		Duration: 120 * time.Millisecond,
		At:       time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
	}

	pub.FetchCompleted(context.Background(), event)

	require.Len(t, w.messages, 1)
	assert.Equal(t, "medicines", string(w.messages[0].Key))
	var got resource.FetchEvent
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &got))
	assert.Equal(t, event, got)
}

func TestFetchPublisher_LogsWriteErrors(t *testing.T) {
	p, w, hook := newTestProducer()
	w.err = errors.New("broker down")

	NewFetchPublisher(p).FetchCompleted(context.Background(), resource.FetchEvent{Resource: "users"})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "users", entry.Data["resource"])
}

// ============================================
// Consumer Tests
// ============================================

func TestConsumer_Consume(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		results: []readResult{
			{msg: kafka.Message{Key: []byte("a"), Value: []byte("1")}},
			{msg: kafka.Message{Key: []byte("b"), Value: []byte("2")}},
			{msg: kafka.Message{Key: []byte("c"), Value: []byte("3")}},
		},
		cancel: cancel,
	}
	c := &Consumer{reader: reader, log: logger.WithField("component", "kafka-consumer")}

	var keys []string
	err := c.Consume(ctx, func(_ context.Context, key, _ []byte) error {
		keys = append(keys, string(key))
		if string(key) == "b" {
			return errors.New("bad payload")
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "b", hook.Entries[0].Data["key"])
}

func TestConsumer_ContinuesAfterReadError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		results: []readResult{
			{err: errors.New("rebalance")},
			{msg: kafka.Message{Key: []byte("x")}},
		},
		cancel: cancel,
	}
	c := &Consumer{reader: reader, log: logger.WithField("component", "kafka-consumer")}

	var keys []string
	_ = c.Consume(ctx, func(_ context.Context, key, _ []byte) error {
		keys = append(keys, string(key))
		return nil
	})

	assert.Equal(t, []string{"x"}, keys)
	assert.Equal(t, "Error reading message", hook.Entries[0].Message)
}

func TestConsumer_StopsAfterConsecutiveReadFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		results: []readResult{
			{err: errors.New("broker down")},
			{err: errors.New("broker down")},
			{err: errors.New("broker down")},
			{msg: kafka.Message{Key: []byte("never")}},
		},
		cancel: cancel,
	}
	c := &Consumer{
		reader:          reader,
		log:             logger.WithField("component", "kafka-consumer"),
		retryDelay:      time.Millisecond,
		maxRetryDelay:   2 * time.Millisecond,
		maxReadFailures: 3,
	}

	var keys []string
	err := c.Consume(ctx, func(_ context.Context, key, _ []byte) error {
		keys = append(keys, string(key))
		return nil
	})

	assert.ErrorIs(t, err, ErrTooManyReadFailures)
	assert.Empty(t, keys)
	assert.Len(t, hook.Entries, 3)
	assert.NoError(t, ctx.Err())
}

func TestConsumer_SuccessfulReadResetsFailureCount(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		results: []readResult{
			{err: errors.New("rebalance")},
			{msg: kafka.Message{Key: []byte("a")}},
			{err: errors.New("rebalance")},
			{msg: kafka.Message{Key: []byte("b")}},
		},
		cancel: cancel,
	}
	c := &Consumer{
		reader:          reader,
		log:             logger.WithField("component", "kafka-consumer"),
		retryDelay:      time.Millisecond,
		maxRetryDelay:   time.Millisecond,
		maxReadFailures: 2,
	}

	var keys []string
	err := c.Consume(ctx, func(_ context.Context, key, _ []byte) error {
		keys = append(keys, string(key))
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestConsumer_Backoff(t *testing.T) {
	c := &Consumer{retryDelay: 100 * time.Millisecond, maxRetryDelay: time.Second}

	assert.Equal(t, 100*time.Millisecond, c.backoff(1))
	assert.Equal(t, 200*time.Millisecond, c.backoff(2))
	assert.Equal(t, 400*time.Millisecond, c.backoff(3))
	assert.Equal(t, 800*time.Millisecond, c.backoff(4))
	assert.Equal(t, time.Second, c.backoff(5))
	assert.Equal(t, time.Second, c.backoff(30))
}

func TestConsumer_WaitReturnsOnCancel(t *testing.T) {
	c := &Consumer{retryDelay: time.Hour, maxRetryDelay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.wait(ctx, 1), context.Canceled)
}
