package bootstrap

import (
	"log"
	"time"

	"ai-dashboard-be/internal/config"
	"ai-dashboard-be/internal/handler"
	"ai-dashboard-be/internal/pkg/logger"
	"ai-dashboard-be/internal/repository/memory"
	"ai-dashboard-be/internal/service"
	"ai-dashboard-be/internal/websocket"
	"ai-dashboard-be/pkg/cache"
	"ai-dashboard-be/pkg/llm/factory"
	"ai-dashboard-be/pkg/modegen"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// WebSocket endpoints
	ChatHandler  *handler.ChatHandler
	VoiceHandler *handler.VoiceHandler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	WebSocketHub *websocket.Hub
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM Provider
	baseURL := cfg.Ai.BaseURL
	if cfg.Ai.Provider == "ollama" {
		baseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		baseURL,
		cfg.Ai.APIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// 4. Mode registry, generation, detection
	modeStore := memory.NewModeStore(cfg.App.SnapshotPath, sysLogger)
	modeGenerator := modegen.NewGenerator(llmProvider, sysLogger)
	detector := service.NewModeSwitchDetector(llmProvider, modeStore, modeGenerator, sysLogger)

	responseCache := cache.NewResponseCache(
		cfg.Cache.ResponseCapacity,
		time.Duration(cfg.Cache.ResponseTTLSeconds)*time.Second,
	)

	// 5. Hub with its own isolated log file to keep main logs clean
	hubLogger := logger.NewIsolatedLogger("logs/websocket.log")
	hub := websocket.NewHub(hubLogger)
	go hub.Run()

	// 6. Mode event fan-out
	publisher := service.NewModeEventPublisher(pubSub, cfg.App.ModeEventsTopic, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.App.ModeEventsTopic, hub, sysLogger)

	// 7. Endpoint handlers
	chatHandler := handler.NewChatHandler(hub, llmProvider, detector, modeStore, responseCache, publisher, sysLogger)
	voiceHandler := handler.NewVoiceHandler(cfg.Ai, llmProvider, detector, modeStore, publisher, sysLogger)

	return &Container{
		ChatHandler:     chatHandler,
		VoiceHandler:    voiceHandler,
		ConsumerService: consumerService,
		WebSocketHub:    hub,
	}
}
