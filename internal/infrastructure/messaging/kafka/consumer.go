package kafka

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/ProjectPulse/internal/config"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/pkg/errors"
	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

var (
	ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")
)

const (
	defaultMaxRetries      = 3
	defaultRetryBackoff    = time.Second
	defaultMaxRetryBackoff = 30 * time.Second
	fetchErrorPause        = time.Second
)

// Header keys added to dead-lettered messages.
const (
	HeaderOriginalTopic = "original_topic"
	HeaderErrorMessage  = "error_message"
	HeaderRetryCount    = "retry_count"
)

// RetryConfig defines retry behavior.  An empty DeadLetterSuffix disables
// dead-lettering.
type RetryConfig struct {
	MaxRetries       int
	RetryBackoff     time.Duration
	MaxRetryBackoff  time.Duration
	DeadLetterSuffix string
}

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers         []string
	GroupID         string
	Topics          []string
	AutoOffsetReset string
	Retry           RetryConfig
}

// ConsumerConfigFrom maps the kafka config section onto the record topics.
func ConsumerConfigFrom(cfg config.KafkaConfig) ConsumerConfig {
	return ConsumerConfig{
		Brokers:         cfg.Brokers,
		GroupID:         cfg.GroupID,
		Topics:          []string{cfg.ProjectTopic, cfg.TaskTopic},
		AutoOffsetReset: cfg.AutoOffsetReset,
		Retry: RetryConfig{
			MaxRetries:       cfg.MaxRetries,
			RetryBackoff:     cfg.RetryBackoff,
			DeadLetterSuffix: cfg.DLQSuffix,
		},
	}
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
	Stats() kafka.ReaderStats
}

// Publisher sends a single message.  *Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, msg *common.ProducerMessage) error
}

// ConsumerStats is a point-in-time copy of the consumer counters.
type ConsumerStats struct {
	Consumed     int64
	Processed    int64
	Failed       int64
	Retried      int64
	DeadLettered int64
	Lag          int64
}

// Consumer dispatches fetched messages to per-topic handlers.  A handler
// failure is retried with exponential backoff, then dead-lettered.  The
// offset is committed once the message is handled or parked.
type Consumer struct {
	reader ReaderInterface
	config ConsumerConfig
	dlq    Publisher
	logger logging.Logger

	handlers map[string]common.MessageHandler
	mu       sync.RWMutex

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	consumed     atomic.Int64
	processed    atomic.Int64
	failed       atomic.Int64
	retried      atomic.Int64
	deadLettered atomic.Int64
	lag          atomic.Int64
}

// NewConsumer creates a group consumer over cfg.Topics.  dlq may be nil.
func NewConsumer(cfg ConsumerConfig, dlq Publisher, logger logging.Logger) (*Consumer, error) {
	if err := ValidateConsumerConfig(cfg); err != nil {
		return nil, err
	}

	readerCfg := kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		GroupTopics:    cfg.Topics,
		MinBytes:       1,
		MaxBytes:       10 << 20,
		MaxWait:        500 * time.Millisecond,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	}
	if cfg.AutoOffsetReset == "latest" {
		readerCfg.StartOffset = kafka.LastOffset
	}

	return NewConsumerWithReader(kafka.NewReader(readerCfg), cfg, dlq, logger), nil
}

// NewConsumerWithReader builds a Consumer over an existing reader.
func NewConsumerWithReader(r ReaderInterface, cfg ConsumerConfig, dlq Publisher, logger logging.Logger) *Consumer {
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = defaultMaxRetries
	}
	if cfg.Retry.RetryBackoff == 0 {
		cfg.Retry.RetryBackoff = defaultRetryBackoff
	}
	if cfg.Retry.MaxRetryBackoff == 0 {
		cfg.Retry.MaxRetryBackoff = defaultMaxRetryBackoff
	}
	return &Consumer{
		reader:   r,
		config:   cfg,
		dlq:      dlq,
		logger:   logger,
		handlers: make(map[string]common.MessageHandler),
	}
}

// Subscribe routes messages of topic to handler.
func (c *Consumer) Subscribe(topic string, handler common.MessageHandler) error {
	if topic == "" || handler == nil {
		return errors.New(errors.ErrCodeValidation, "topic and handler required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = handler
	c.logger.Info("Subscribed to topic", logging.String("topic", topic))
	return nil
}

func (c *Consumer) Unsubscribe(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, topic)
}

// Start runs the consume loop in the background until ctx ends or Close.
func (c *Consumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.Info("Kafka consumer started",
		logging.String("group", c.config.GroupID),
		logging.Strings("topics", c.config.Topics))
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for ctx.Err() == nil {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("FetchMessage error", logging.Err(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(fetchErrorPause):
			}
			continue
		}

		c.consumed.Add(1)
		if m.HighWaterMark > 0 {
			c.lag.Store(m.HighWaterMark - m.Offset - 1)
		}

		if err := c.dispatch(ctx, toCommonMessage(m)); err != nil {
			// Cancelled mid-retry: leave uncommitted for redelivery.
			return
		}
		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("CommitMessages failed", logging.Err(err), logging.Int64("offset", m.Offset))
		}
	}
}

// dispatch returns an error only when ctx ends before the message is settled.
func (c *Consumer) dispatch(ctx context.Context, msg *common.Message) error {
	c.mu.RLock()
	handler, ok := c.handlers[msg.Topic]
	c.mu.RUnlock()

	if !ok {
		c.logger.Warn("No handler for topic", logging.String("topic", msg.Topic))
		return nil
	}

	attempts, err := c.processMessage(ctx, msg, handler)
	if err == nil {
		c.processed.Add(1)
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	c.failed.Add(1)
	c.logger.Error("Message processing failed",
		logging.String("topic", msg.Topic),
		logging.Int64("offset", msg.Offset),
		logging.Int("attempts", attempts),
		logging.Err(err))
	c.deadLetter(ctx, msg, attempts, err)
	return nil
}

// processMessage runs handler with retries and reports the attempts made.
// Errors that cannot succeed on replay are not retried.
func (c *Consumer) processMessage(ctx context.Context, msg *common.Message, handler common.MessageHandler) (int, error) {
	backoff := c.config.Retry.RetryBackoff
	attempts := 0
	for {
		attempts++
		err := handler(ctx, msg)
		if err == nil {
			return attempts, nil
		}
		if !retryable(err) || attempts > c.config.Retry.MaxRetries {
			return attempts, err
		}

		c.retried.Add(1)
		select {
		case <-ctx.Done():
			return attempts, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > c.config.Retry.MaxRetryBackoff {
			backoff = c.config.Retry.MaxRetryBackoff
		}
	}
}

func retryable(err error) bool {
	return !errors.IsCode(err, errors.ErrCodeSerialization) &&
		!errors.IsCode(err, errors.ErrCodeRecordMalformed) &&
		!errors.IsCode(err, errors.ErrCodeValidation)
}

func (c *Consumer) deadLetter(ctx context.Context, msg *common.Message, attempts int, cause error) {
	if c.dlq == nil || c.config.Retry.DeadLetterSuffix == "" {
		c.logger.Warn("Dropping failed message", logging.String("topic", msg.Topic), logging.Int64("offset", msg.Offset))
		return
	}

	headers := make(map[string]string, len(msg.Headers)+3)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[HeaderOriginalTopic] = msg.Topic
	headers[HeaderErrorMessage] = cause.Error()
	headers[HeaderRetryCount] = strconv.Itoa(attempts - 1)

	dl := &common.ProducerMessage{
		Topic:   DLQTopic(msg.Topic, c.config.Retry.DeadLetterSuffix),
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
	if err := c.dlq.Publish(ctx, dl); err != nil {
		c.logger.Error("Failed to send to dead letter queue", logging.String("topic", dl.Topic), logging.Err(err))
		return
	}
	c.deadLettered.Add(1)
}

// Stats returns the consumer counters.
func (c *Consumer) Stats() ConsumerStats {
	return ConsumerStats{
		Consumed:     c.consumed.Load(),
		Processed:    c.processed.Load(),
		Failed:       c.failed.Load(),
		Retried:      c.retried.Load(),
		DeadLettered: c.deadLettered.Load(),
		Lag:          c.lag.Load(),
	}
}

// Close stops the loop, waits for the in-flight message and closes the
// reader.  The dead-letter publisher belongs to the caller.
func (c *Consumer) Close() error {
	if !c.running.CompareAndSwap(true, false) {
		return c.reader.Close()
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	err := c.reader.Close()
	c.logger.Info("Kafka consumer closed", logging.Int64("consumed", c.consumed.Load()))
	return err
}

func toCommonMessage(m kafka.Message) *common.Message {
	msg := &common.Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Timestamp: m.Time,
		Headers:   make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

// ValidateConsumerConfig checks the required settings.
func ValidateConsumerConfig(cfg ConsumerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.GroupID == "" {
		return errors.New(errors.ErrCodeValidation, "group id required")
	}
	if len(cfg.Topics) == 0 {
		return errors.New(errors.ErrCodeValidation, "at least one topic required")
	}
	if cfg.AutoOffsetReset != "" && cfg.AutoOffsetReset != "earliest" && cfg.AutoOffsetReset != "latest" {
		return errors.Newf(errors.ErrCodeValidation, "invalid auto offset reset %q", cfg.AutoOffsetReset)
	}
	if cfg.Retry.MaxRetries < 0 {
		return errors.New(errors.ErrCodeValidation, "max retries must be >= 0")
	}
	return nil
}

//Personal.AI order the ending
