package main

import (
	"context"
	"log"
	"time"

	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/google/uuid"

	"github.com/railbook/railbook/internal/railway/application"
	"github.com/railbook/railbook/internal/railway/domain"
	"github.com/railbook/railbook/internal/railway/infrastructure"
	pkgDomain "github.com/railbook/railbook/pkg/domain"
	"github.com/railbook/railbook/pkg/infrastructure/kafka/adapter"
	zapAdapter "github.com/railbook/railbook/pkg/infrastructure/zaplogger/adapter"
)

// Demo wiring: the booking slice over Kafka topics, one topic per
// command or query name.
func main() {
	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	logger := watermill.NewStdLogger(false, false)
	marshaler := kafka.DefaultMarshaler{}

	publisherConfig := kafka.PublisherConfig{
		Brokers:   []string{"localhost:9092"},
		Marshaler: marshaler,
	}

	publisher, err := kafka.NewPublisher(publisherConfig, logger)
	if err != nil {
		log.Fatalf("failed to create Kafka publisher: %v", err)
	}
	defer publisher.Close()

	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V1_0_0_0
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.ClientID = "railbook"

	subscriberConfig := kafka.SubscriberConfig{
		Brokers:               []string{"localhost:9092"},
		Unmarshaler:           marshaler,
		ConsumerGroup:         "railbook_consumer_group",
		OverwriteSaramaConfig: saramaConfig,
		InitializeTopicDetails: &sarama.TopicDetail{
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}

	subscriber, err := kafka.NewSubscriber(subscriberConfig, logger)
	if err != nil {
		log.Fatalf("failed to create Kafka subscriber: %v", err)
	}
	defer subscriber.Close()

	for _, topic := range []string{"PurchaseTicket", "SearchFares"} {
		if err := subscriber.SubscribeInitialize(topic); err != nil {
			log.Fatalf("failed to initialize Kafka topic %q: %v", topic, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	store := infrastructure.NewInMemoryInventoryStore(appLogger)
	inventory := domain.NewInventory(store)

	if err := inventory.AddTrain(ctx, sampleTrain()); err != nil {
		log.Fatalf("failed to seed train: %v", err)
	}
	if err := inventory.RegisterUser(ctx, "13800138000", "Secret123", "Alice Zhang", "110101199003071234"); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	idGenerator := func() string {
		return uuid.New().String()
	}

	commandBus := adapter.NewKafkaCommandBus[pkgDomain.Command[application.PurchaseTicketData], application.PurchaseTicketData](publisher, subscriber, appLogger)
	queryBus := adapter.NewKafkaQueryBus[pkgDomain.Query[application.SearchFaresData], application.SearchFaresData, []domain.FareResult](publisher, subscriber, appLogger)
	eventBus := adapter.NewKafkaEventBus[pkgDomain.Event[string], string](publisher, subscriber, appLogger)

	commandBus.RegisterHandler("PurchaseTicket", application.NewPurchaseTicketHandler(eventBus, inventory, idGenerator, appLogger))
	queryBus.RegisterHandler("SearchFares", application.NewSearchFaresHandler(inventory, appLogger))
	eventBus.RegisterHandler("TicketPurchased", application.NewBookingActivityEventHandler(appLogger))

	command := application.NewPurchaseTicketCommand(application.PurchaseTicketData{
		Phone:        "13800138000",
		TrainNumber:  "G101",
		StartStation: "Central",
		EndStation:   "Harbor",
	})
	if err := commandBus.Dispatch(ctx, command); err != nil {
		log.Fatalf("failed to dispatch purchase: %v", err)
	}

	// Kafka consumer groups can take a while on first run.
	time.Sleep(15 * time.Second)

	query := application.NewSearchFaresQuery(application.SearchFaresData{
		StartStation: "Central",
		EndStation:   "Harbor",
	})
	fares, err := queryBus.Dispatch(ctx, query)
	if err != nil {
		log.Printf("failed to dispatch fare search: %v", err)
		return
	}

	appLogger.Info(ctx, "fares after purchase", map[string]interface{}{
		"fares": fares,
	})
}

func sampleTrain() *domain.Train {
	return domain.NewTrain(
		"G101",
		[]string{"Central", "Riverside", "Harbor"},
		[]string{"08:30", "09:15", "10:05", "18:00", "18:50", "19:40"},
		[][]int{
			{0, 5, 3},
			{0, 0, 2},
			{0, 0, 0},
		},
		[][]int{
			{0, 100, 250},
			{0, 0, 150},
			{0, 0, 0},
		},
	)
}
