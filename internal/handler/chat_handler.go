package handler

import (
	"context"
	"encoding/binary"
	"encoding/json"

	"ai-dashboard-be/internal/dto"
	"ai-dashboard-be/internal/pkg/logger"
	"ai-dashboard-be/internal/repository/memory"
	"ai-dashboard-be/internal/service"
	internalWS "ai-dashboard-be/internal/websocket"
	"ai-dashboard-be/pkg/cache"
	"ai-dashboard-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ChatHandler owns the text websocket endpoint. Every connection gets its
// own ChatSession; the hub fans mode switches out to the other dashboards.
type ChatHandler struct {
	hub       *internalWS.Hub
	provider  llm.LLMProvider
	detector  *service.ModeSwitchDetector
	store     *memory.ModeStore
	responses *cache.ResponseCache
	publisher service.IModeEventPublisher
	logger    logger.ILogger
}

func NewChatHandler(hub *internalWS.Hub, provider llm.LLMProvider, detector *service.ModeSwitchDetector, store *memory.ModeStore, responses *cache.ResponseCache, publisher service.IModeEventPublisher, log logger.ILogger) *ChatHandler {
	return &ChatHandler{
		hub:       hub,
		provider:  provider,
		detector:  detector,
		store:     store,
		responses: responses,
		publisher: publisher,
		logger:    log,
	}
}

// ServeWs upgrades the connection and relays frames into a ChatSession.
func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		internalWS.ServeWs(h.hub, conn, func(client *internalWS.Client) func(data []byte) {
			session := service.NewChatSession(client, h.provider, h.detector, h.store, h.responses, seedFromId(client.Id), h.logger)
			session.SetModeSwitchListener(func(payload dto.ModeSwitchPayload) {
				h.publisher.PublishModeSwitch(client.Id.String(), payload)
			})
			h.logger.Info("ChatHandler", "Chat session started", map[string]interface{}{"client_id": client.Id})

			return func(data []byte) {
				h.dispatch(session, client, data)
			}
		})
		h.logger.Info("ChatHandler", "Chat session ended", nil)
	})(c)
}

func (h *ChatHandler) dispatch(session *service.ChatSession, client *internalWS.Client, data []byte) {
	var envelope dto.Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		h.sendError(client, "invalid message framing")
		return
	}

	switch envelope.Type {
	case dto.EnvelopeChat:
		var req dto.ChatRequest
		if err := json.Unmarshal(envelope.Payload, &req); err != nil || req.Text == "" {
			h.sendError(client, "chat payload requires a text field")
			return
		}
		session.HandleMessage(context.Background(), req.Text)
	default:
		h.logger.Debug("ChatHandler", "Ignoring unknown envelope", map[string]interface{}{"type": envelope.Type})
	}
}

func (h *ChatHandler) sendError(client *internalWS.Client, msg string) {
	if err := client.SendJSON(dto.NewEnvelope(dto.EnvelopeError, dto.ChatErrorPayload{Error: msg})); err != nil {
		h.logger.Debug("ChatHandler", "Error send failed", map[string]interface{}{"error": err.Error()})
	}
}

// RegisterRoutes mounts the text channel.
func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}

// seedFromId derives the persona seed from the connection id, so a
// reconnecting browser gets a fresh persona while one session sees a
// stable persona across mode switches back and forth.
func seedFromId(id uuid.UUID) int64 {
	return int64(binary.BigEndian.Uint64(id[:8]))
}
