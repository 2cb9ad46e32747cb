package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/artchain-labs/artwork-indexer/internal/adapter"
	"github.com/artchain-labs/artwork-indexer/internal/domain"
	"github.com/artchain-labs/artwork-indexer/internal/logger"
	"github.com/artchain-labs/artwork-indexer/internal/reconciler"
)

// Config holds the configuration for the event dispatcher
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	Subject        string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
}

// Dispatcher delivers contract events to the reconciler, one at a time.
// Each message is fully processed (including any metadata fetch) before the
// next is handled, preserving per-token event ordering.
type Dispatcher interface {
	// Run starts consuming events until the context is canceled
	Run(ctx context.Context) error
	// Close closes the dispatcher and cleans up resources
	Close()
}

type dispatcher struct {
	nc     adapter.NatsConn
	js     adapter.JetStream
	core   reconciler.Reconciler
	json   adapter.JSON
	config Config
}

// NewDispatcher connects to NATS and creates an event dispatcher
func NewDispatcher(
	cfg Config,
	natsJS adapter.NatsJetStream,
	core reconciler.Reconciler,
	jsonAdapter adapter.JSON,
) (Dispatcher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &dispatcher{
		nc:     nc,
		js:     js,
		core:   core,
		json:   jsonAdapter,
		config: cfg,
	}, nil
}

// Run starts consuming events until the context is canceled
func (d *dispatcher) Run(ctx context.Context) error {
	logger.Info("Starting event dispatcher", zap.String("stream", d.config.StreamName), zap.String("consumer", d.config.ConsumerName))

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       d.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       d.config.AckWaitTimeout,
		MaxDeliver:    d.config.MaxDeliver,
		FilterSubject: d.config.Subject,
		// One outstanding message: the reconciler must see events in causal
		// order, fully processed one at a time
		MaxAckPending: 1,
	}

	consumer, err := d.js.CreateOrUpdateConsumer(ctx, d.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.Info("Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	// One-slot buffer: with MaxAckPending 1 at most one callback is in
	// flight, and the buffer lets it return even when Run has already
	// exited on shutdown
	msgChan := make(chan adapter.Message, 1)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.Info("Started consuming messages")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down event dispatcher")
			return ctx.Err()
		case msg := <-msgChan:
			// Handled inline: no overlap between events
			d.handleMessage(ctx, msg)
		}
	}
}

// handleMessage processes a single NATS message
func (d *dispatcher) handleMessage(ctx context.Context, msg adapter.Message) {
	metadata, _ := msg.Metadata()

	var event domain.ContractEvent
	if err := d.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to unmarshal event"))
		// Terminate message for unparseable data
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	if !event.Valid() {
		logger.Warn("Dropping structurally invalid event",
			zap.String("eventType", string(event.EventType)),
			zap.String("tokenId", event.TokenNumber),
			zap.String("txHash", event.TxHash),
		)
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	var deliveries uint64
	if metadata != nil {
		deliveries = metadata.NumDelivered
	}
	logger.Info("Received event",
		zap.String("eventType", string(event.EventType)),
		zap.String("tokenId", event.TokenNumber),
		zap.String("txHash", event.TxHash),
		zap.Uint64("deliveryCount", deliveries),
	)

	if err := d.core.Handle(ctx, &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to reconcile event"))
		// NAK to retry: on abort none of the event's mutations were applied
		if err := msg.Nak(); err != nil {
			logger.Error(err, zap.String("message", "Failed to NAK message"))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		logger.Error(err, zap.String("message", "Failed to ACK message"))
	}
}

// Close closes the dispatcher and cleans up resources
func (d *dispatcher) Close() {
	if d.nc != nil {
		d.nc.Close()
	}
}
