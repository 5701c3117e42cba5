package adapter

import (
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"

	"github.com/railbook/railbook/pkg/application"
	"github.com/railbook/railbook/pkg/domain"
	watermillAdapter "github.com/railbook/railbook/pkg/infrastructure/watermill/adapter"
)

// Kafka wiring: typed constructors over the shared watermill message
// buses. One topic per command, query or event name; query replies
// travel on the "_response" topic.

func NewKafkaCommandBus[C domain.Command[T], T any](publisher *kafka.Publisher, subscriber *kafka.Subscriber, logger application.AppLogger) application.CommandBus[C, T] {
	return watermillAdapter.NewMessageCommandBus[C, T](publisher, subscriber, logger)
}

func NewKafkaQueryBus[Q domain.Query[D], D any, R any](publisher *kafka.Publisher, subscriber *kafka.Subscriber, logger application.AppLogger) application.QueryBus[Q, D, R] {
	return watermillAdapter.NewMessageQueryBus[Q, D, R](publisher, subscriber, logger)
}

func NewKafkaEventBus[E domain.Event[D], D any](publisher *kafka.Publisher, subscriber *kafka.Subscriber, logger application.AppLogger) application.EventBus[E, D] {
	return watermillAdapter.NewMessageEventBus[E, D](publisher, subscriber, logger)
}
