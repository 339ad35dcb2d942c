package bootstrap

import (
	"context"
	"log"

	"contractor-estimate-be/internal/config"
	"contractor-estimate-be/internal/controller"
	"contractor-estimate-be/internal/handler"
	"contractor-estimate-be/internal/pkg/logger"
	"contractor-estimate-be/internal/repository/memory"
	"contractor-estimate-be/internal/repository/unitofwork"
	"contractor-estimate-be/internal/service"
	"contractor-estimate-be/internal/websocket"
	"contractor-estimate-be/pkg/agent"
	"contractor-estimate-be/pkg/estimator"
	"contractor-estimate-be/pkg/llm/factory"

	pkgNats "contractor-estimate-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ProjectController  controller.IProjectController
	FileController     controller.IFileController
	EstimateController controller.IEstimateController
	ChatController     controller.IChatController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	EventsHandler *handler.EventsHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// NATS. The event bus is auxiliary, so a missing broker only degrades.
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(pubSub, cfg.Keys.ProcessFileTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.ProcessFileTopic,
		uowFactory,
		natsPub,
		sysLogger,
	)

	estimateCache := memory.NewEstimateCache()
	generator := estimator.NewLLMGenerator(llmProvider)
	planner := agent.NewAgent(llmProvider)

	projectService := service.NewProjectService(uowFactory)
	fileService := service.NewFileService(uowFactory, publisherService, sysLogger)
	estimateService := service.NewEstimateService(
		uowFactory,
		generator,
		estimateCache,
		rdb,
		natsPub,
		wsHub,
		sysLogger,
	)
	chatService := service.NewChatService(
		uowFactory,
		planner,
		estimateService,
		llmProvider,
		sysLogger,
	)

	if natsSub != nil {
		relay := service.NewEventRelayService(natsSub, wsHub, sysLogger)
		if err := relay.Start(); err != nil {
			log.Printf("[WARN] Failed to start event relay: %v", err)
		}
	}

	return &Container{
		ProjectController:  controller.NewProjectController(projectService),
		FileController:     controller.NewFileController(fileService),
		EstimateController: controller.NewEstimateController(estimateService),
		ChatController:     controller.NewChatController(chatService),

		ConsumerService: consumerService,

		EventsHandler: handler.NewEventsHandler(wsHub, wsLogger),
		WebSocketHub:  wsHub,
	}
}
