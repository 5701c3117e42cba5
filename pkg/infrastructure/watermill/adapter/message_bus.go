package adapter

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/railbook/railbook/pkg/application"
	"github.com/railbook/railbook/pkg/domain"
)

// The message buses below run the command, query and event contracts
// over any Watermill transport. GoChannel, Redis stream and Kafka
// publishers all satisfy message.Publisher/message.Subscriber, so the
// subscribe/decode/dispatch/ack loop lives here once; the transport
// packages only export typed constructors.
//
// A message that fails to decode, to type-assert or to handle is not
// acked, leaving redelivery to the transport's own policy.

// responseSuffix names the reply topic of a query topic.
const responseSuffix = "_response"

type MessageCommandBus[C domain.Command[T], T any] struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     application.AppLogger
}

func NewMessageCommandBus[C domain.Command[T], T any](publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) *MessageCommandBus[C, T] {
	return &MessageCommandBus[C, T]{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
	}
}

// RegisterHandler starts a consumer on the command's topic. Each call
// owns its own subscription, so one bus can serve several command
// names.
func (bus *MessageCommandBus[C, T]) RegisterHandler(commandName string, handler application.CommandHandler[C, T]) {
	go bus.consume(commandName, handler)
}

func (bus *MessageCommandBus[C, T]) consume(commandName string, handler application.CommandHandler[C, T]) {
	ctx := context.Background()
	messages, err := bus.subscriber.Subscribe(ctx, commandName)
	if err != nil {
		application.LogError(ctx, bus.logger, "error subscribing to command", err, map[string]interface{}{
			"command_name": commandName,
		})
		return
	}

	for msg := range messages {
		go bus.handleMessage(ctx, commandName, handler, msg)
	}
}

func (bus *MessageCommandBus[C, T]) handleMessage(ctx context.Context, commandName string, handler application.CommandHandler[C, T], msg *message.Message) {
	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		application.LogError(ctx, bus.logger, "error unmarshalling command payload", err, map[string]interface{}{
			"command_name": commandName,
		})
		msg.Nack()
		return
	}

	command, ok := any(&dynamicCommand[T]{name: commandName, payload: payload}).(C)
	if !ok {
		bus.logger.Error(ctx, "command type mismatch", map[string]interface{}{
			"command_name": commandName,
		})
		msg.Nack()
		return
	}

	if err := handler.Handle(ctx, command); err != nil {
		application.LogError(ctx, bus.logger, "error handling command", err, map[string]interface{}{
			"command_name": commandName,
		})
		msg.Nack()
		return
	}

	bus.logger.Debug(ctx, "command handled", map[string]interface{}{
		"command_name": commandName,
	})
	msg.Ack()
}

func (bus *MessageCommandBus[C, T]) Dispatch(ctx context.Context, command C) error {
	return publishJSON(ctx, bus.publisher, bus.logger, command.CommandName(), command.Payload())
}

type MessageQueryBus[Q domain.Query[D], D any, R any] struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     application.AppLogger
}

func NewMessageQueryBus[Q domain.Query[D], D any, R any](publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) *MessageQueryBus[Q, D, R] {
	return &MessageQueryBus[Q, D, R]{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
	}
}

// RegisterHandler starts a consumer that answers each query message on
// the query's reply topic.
func (bus *MessageQueryBus[Q, D, R]) RegisterHandler(queryName string, handler application.QueryHandler[Q, D, R]) {
	go bus.consume(queryName, handler)
}

func (bus *MessageQueryBus[Q, D, R]) consume(queryName string, handler application.QueryHandler[Q, D, R]) {
	ctx := context.Background()
	messages, err := bus.subscriber.Subscribe(ctx, queryName)
	if err != nil {
		application.LogError(ctx, bus.logger, "error subscribing to query", err, map[string]interface{}{
			"query_name": queryName,
		})
		return
	}

	for msg := range messages {
		go bus.handleMessage(ctx, queryName, handler, msg)
	}
}

func (bus *MessageQueryBus[Q, D, R]) handleMessage(ctx context.Context, queryName string, handler application.QueryHandler[Q, D, R], msg *message.Message) {
	var payload D
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		application.LogError(ctx, bus.logger, "error unmarshalling query payload", err, map[string]interface{}{
			"query_name": queryName,
		})
		msg.Nack()
		return
	}

	query, ok := any(&dynamicQuery[D]{name: queryName, payload: payload}).(Q)
	if !ok {
		bus.logger.Error(ctx, "query type mismatch", map[string]interface{}{
			"query_name": queryName,
		})
		msg.Nack()
		return
	}

	result, err := handler.Handle(ctx, query)
	if err != nil {
		application.LogError(ctx, bus.logger, "error handling query", err, map[string]interface{}{
			"query_name": queryName,
		})
		msg.Nack()
		return
	}

	if err := publishJSON(ctx, bus.publisher, bus.logger, queryName+responseSuffix, result); err != nil {
		msg.Nack()
		return
	}

	bus.logger.Debug(ctx, "query handled", map[string]interface{}{
		"query_name": queryName,
	})
	msg.Ack()
}

// Dispatch publishes the query and blocks until the first reply or the
// context expires. The reply subscription is opened before the query
// goes out so a fast in-process handler cannot answer into the void.
func (bus *MessageQueryBus[Q, D, R]) Dispatch(ctx context.Context, query Q) (R, error) {
	var zero R

	responses, err := bus.subscriber.Subscribe(ctx, query.QueryName()+responseSuffix)
	if err != nil {
		application.LogError(ctx, bus.logger, "error subscribing to query response", err, map[string]interface{}{
			"query_name": query.QueryName(),
		})
		return zero, err
	}

	if err := publishJSON(ctx, bus.publisher, bus.logger, query.QueryName(), query.Payload()); err != nil {
		return zero, err
	}

	select {
	case msg, open := <-responses:
		if !open {
			return zero, errors.New("query response channel closed")
		}
		var result R
		if err := json.Unmarshal(msg.Payload, &result); err != nil {
			application.LogError(ctx, bus.logger, "error unmarshalling query response", err, map[string]interface{}{
				"query_name": query.QueryName(),
			})
			return zero, err
		}
		msg.Ack()
		return result, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

type MessageEventBus[E domain.Event[D], D any] struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     application.AppLogger
}

func NewMessageEventBus[E domain.Event[D], D any](publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) *MessageEventBus[E, D] {
	return &MessageEventBus[E, D]{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
	}
}

// RegisterHandler starts a consumer on the event's topic. Every
// registered handler holds its own subscription, so all of them see
// every published event.
func (bus *MessageEventBus[E, D]) RegisterHandler(eventName string, handler application.EventHandler[E, D]) {
	go bus.consume(eventName, handler)
}

func (bus *MessageEventBus[E, D]) consume(eventName string, handler application.EventHandler[E, D]) {
	ctx := context.Background()
	messages, err := bus.subscriber.Subscribe(ctx, eventName)
	if err != nil {
		application.LogError(ctx, bus.logger, "error subscribing to event", err, map[string]interface{}{
			"event_name": eventName,
		})
		return
	}

	for msg := range messages {
		go bus.handleMessage(ctx, eventName, handler, msg)
	}
}

func (bus *MessageEventBus[E, D]) handleMessage(ctx context.Context, eventName string, handler application.EventHandler[E, D], msg *message.Message) {
	var payload D
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		application.LogError(ctx, bus.logger, "error unmarshalling event payload", err, map[string]interface{}{
			"event_name": eventName,
		})
		msg.Nack()
		return
	}

	event, ok := any(&dynamicEvent[D]{name: eventName, payload: payload}).(E)
	if !ok {
		bus.logger.Error(ctx, "event type mismatch", map[string]interface{}{
			"event_name": eventName,
		})
		msg.Nack()
		return
	}

	if err := handler.Handle(ctx, event); err != nil {
		application.LogError(ctx, bus.logger, "error handling event", err, map[string]interface{}{
			"event_name": eventName,
		})
		msg.Nack()
		return
	}

	bus.logger.Debug(ctx, "event handled", map[string]interface{}{
		"event_name": eventName,
	})
	msg.Ack()
}

func (bus *MessageEventBus[E, D]) Publish(ctx context.Context, event E) error {
	return publishJSON(ctx, bus.publisher, bus.logger, event.EventName(), event.Payload())
}

func publishJSON[T any](ctx context.Context, publisher message.Publisher, logger application.AppLogger, topic string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		application.LogError(ctx, logger, "error marshalling payload", err, map[string]interface{}{
			"topic": topic,
		})
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := publisher.Publish(topic, msg); err != nil {
		application.LogError(ctx, logger, "error publishing message", err, map[string]interface{}{
			"topic": topic,
		})
		return err
	}
	return nil
}

// The dynamic types rebuild a typed command, query or event around a
// decoded payload on the consuming side of the wire.

type dynamicCommand[T any] struct {
	name    string
	payload T
}

func (c *dynamicCommand[T]) CommandName() string { return c.name }

func (c *dynamicCommand[T]) Payload() T { return c.payload }

type dynamicQuery[D any] struct {
	name    string
	payload D
}

func (q *dynamicQuery[D]) QueryName() string { return q.name }

func (q *dynamicQuery[D]) Payload() D { return q.payload }

type dynamicEvent[D any] struct {
	name    string
	payload D
}

func (e *dynamicEvent[D]) EventName() string { return e.name }

func (e *dynamicEvent[D]) Payload() D { return e.payload }
