package handler

import (
	"context"
	"fmt"
	"sync"

	"ai-dashboard-be/internal/config"
	"ai-dashboard-be/internal/dto"
	"ai-dashboard-be/internal/pkg/logger"
	"ai-dashboard-be/internal/repository/memory"
	"ai-dashboard-be/internal/service"
	"ai-dashboard-be/pkg/llm"
	"ai-dashboard-be/pkg/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// VoiceHandler owns the voice websocket endpoint. Each connection becomes
// a VoiceSession relaying between the browser and the realtime model.
type VoiceHandler struct {
	cfg       config.AIConfig
	provider  llm.LLMProvider
	detector  *service.ModeSwitchDetector
	store     *memory.ModeStore
	publisher service.IModeEventPublisher
	logger    logger.ILogger
}

func NewVoiceHandler(cfg config.AIConfig, provider llm.LLMProvider, detector *service.ModeSwitchDetector, store *memory.ModeStore, publisher service.IModeEventPublisher, log logger.ILogger) *VoiceHandler {
	return &VoiceHandler{
		cfg:       cfg,
		provider:  provider,
		detector:  detector,
		store:     store,
		publisher: publisher,
		logger:    log,
	}
}

// voiceConn adapts a fiber websocket connection for a VoiceSession. Reads
// stay single-consumer; writes are serialized because the model loop,
// background tasks and the notifier all send frames.
type voiceConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *voiceConn) ReadJSON(v interface{}) error {
	return c.conn.ReadJSON(v)
}

func (c *voiceConn) SendJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *voiceConn) Close() error {
	return c.conn.Close()
}

// ServeWs upgrades the connection and runs the session to completion.
func (h *VoiceHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		sessionId := uuid.New()
		dial := func(ctx context.Context) (service.RealtimeConn, error) {
			url := fmt.Sprintf("%s?model=%s", h.cfg.RealtimeURL, h.cfg.RealtimeModel)
			return realtime.Dial(ctx, url, h.cfg.APIKey)
		}

		session := service.NewVoiceSession(&voiceConn{conn: conn}, dial, h.provider, h.detector, h.store, seedFromId(sessionId), h.cfg.RealtimeVoice, h.logger)
		session.SetModeSwitchListener(func(payload dto.ModeSwitchPayload) {
			h.publisher.PublishModeSwitch(sessionId.String(), payload)
		})

		h.logger.Info("VoiceHandler", "Voice session started", map[string]interface{}{"session_id": sessionId})
		if err := session.Run(context.Background()); err != nil {
			h.logger.Error("VoiceHandler", "Voice session ended with error", map[string]interface{}{
				"session_id": sessionId, "error": err.Error(),
			})
			return
		}
		h.logger.Info("VoiceHandler", "Voice session ended", map[string]interface{}{"session_id": sessionId})
	})(c)
}

// RegisterRoutes mounts the voice channel.
func (h *VoiceHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/voice", h.ServeWs)
}
