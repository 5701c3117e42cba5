package adapter

import (
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/railbook/railbook/pkg/application"
	"github.com/railbook/railbook/pkg/domain"
	watermillAdapter "github.com/railbook/railbook/pkg/infrastructure/watermill/adapter"
)

// In-process GoChannel wiring. The gochannel pub/sub implements both
// watermill interfaces, so one value is usually passed as publisher and
// subscriber at once.

func NewWatermillCommandBus[C domain.Command[T], T any](publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) application.CommandBus[C, T] {
	return watermillAdapter.NewMessageCommandBus[C, T](publisher, subscriber, logger)
}

func NewWatermillQueryBus[Q domain.Query[D], D any, R any](publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) application.QueryBus[Q, D, R] {
	return watermillAdapter.NewMessageQueryBus[Q, D, R](publisher, subscriber, logger)
}

func NewWatermillEventBus[E domain.Event[D], D any](publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) application.EventBus[E, D] {
	return watermillAdapter.NewMessageEventBus[E, D](publisher, subscriber, logger)
}
