package adapter

import (
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"

	"github.com/railbook/railbook/pkg/application"
	"github.com/railbook/railbook/pkg/domain"
	watermillAdapter "github.com/railbook/railbook/pkg/infrastructure/watermill/adapter"
)

// Redis stream wiring: typed constructors over the shared watermill
// message buses.

func NewRedisCommandBus[C domain.Command[T], T any](publisher *redisstream.Publisher, subscriber *redisstream.Subscriber, logger application.AppLogger) application.CommandBus[C, T] {
	return watermillAdapter.NewMessageCommandBus[C, T](publisher, subscriber, logger)
}

func NewRedisQueryBus[Q domain.Query[D], D any, R any](publisher *redisstream.Publisher, subscriber *redisstream.Subscriber, logger application.AppLogger) application.QueryBus[Q, D, R] {
	return watermillAdapter.NewMessageQueryBus[Q, D, R](publisher, subscriber, logger)
}

func NewRedisEventBus[E domain.Event[D], D any](publisher *redisstream.Publisher, subscriber *redisstream.Subscriber, logger application.AppLogger) application.EventBus[E, D] {
	return watermillAdapter.NewMessageEventBus[E, D](publisher, subscriber, logger)
}
