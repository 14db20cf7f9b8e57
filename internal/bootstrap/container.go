package bootstrap

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"dr-vain-be/internal/config"
	"dr-vain-be/internal/constant"
	"dr-vain-be/internal/controller"
	"dr-vain-be/internal/pkg/logger"
	"dr-vain-be/internal/repository/implementation"
	"dr-vain-be/internal/service"
	"dr-vain-be/pkg/embedding"
	"dr-vain-be/pkg/embedding/jina"
	"dr-vain-be/pkg/events"
	"dr-vain-be/pkg/llm/factory"
	"dr-vain-be/pkg/rag/conversation"
	"dr-vain-be/pkg/rag/retrieval"
	"dr-vain-be/pkg/rag/session"

	pktNats "dr-vain-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	ReportController controller.IReportController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Core Facades
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Capabilities
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.CompletionTimeout,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Retriever over the pgvector passage store
	passageRepo := implementation.NewPassageRepository(db)
	retrieverCfg := retrieval.DefaultConfig()
	retrieverCfg.Timeout = cfg.Ai.RetrievalTimeout
	retriever := retrieval.NewOrchestrator(embeddingProvider, passageRepo, retrieverCfg, sysLogger)

	// 4. Session Core
	persona := constant.SelectPersona(cfg.Session.Persona)
	engineFactory := func(id string) (*conversation.Engine, error) {
		return conversation.NewEngine(id, persona, retriever, llmProvider)
	}
	sessionManager := session.NewManager(engineFactory, cfg.Session.ArchiveCapacity, sysLogger)

	// 5. Infrastructure
	// NATS mirror for lifecycle events; the app runs fine without it
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	sessionManager.OnArchive(func(record session.Record) {
		evt := events.NewSessionArchived(record.Id, len(record.History))

		payload, err := json.Marshal(evt.Payload())
		if err != nil {
			sysLogger.Error("bootstrap", "Failed to marshal archive event", map[string]interface{}{"error": err.Error()})
			return
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		if err := pubSub.Publish(constant.SessionArchivedTopic, msg); err != nil {
			sysLogger.Warn("bootstrap", "Failed to publish archive event", map[string]interface{}{"error": err.Error()})
		}

		if natsPub != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := natsPub.Publish(ctx, evt); err != nil {
				sysLogger.Warn("bootstrap", "Failed to mirror archive event to NATS", map[string]interface{}{"error": err.Error()})
			}
		}
	})

	// 6. Services
	chatService := service.NewChatService(sessionManager, sysLogger)
	reportService := service.NewReportService(sessionManager, llmProvider, sysLogger)
	consumerService := service.NewConsumerService(pubSub, constant.SessionArchivedTopic, reportService, sysLogger)

	// 7. Controllers
	chatController := controller.NewChatController(chatService)
	reportController := controller.NewReportController(reportService)

	return &Container{
		ChatController:   chatController,
		ReportController: reportController,
		ConsumerService:  consumerService,
		Logger:           sysLogger,
	}
}
