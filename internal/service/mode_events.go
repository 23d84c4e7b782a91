package service

import (
	"encoding/json"

	"ai-dashboard-be/internal/dto"
	"ai-dashboard-be/internal/pkg/logger"
	"ai-dashboard-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IModeEventPublisher fans a mode switch out to the in-process bus so
// every other connected dashboard re-themes.
type IModeEventPublisher interface {
	PublishModeSwitch(origin string, payload dto.ModeSwitchPayload)
}

type modeEventPublisher struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewModeEventPublisher(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IModeEventPublisher {
	return &modeEventPublisher{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
	}
}

func (p *modeEventPublisher) PublishModeSwitch(origin string, payload dto.ModeSwitchPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("ModeEvents", "Failed to marshal mode switch payload", map[string]interface{}{"error": err.Error()})
		return
	}
	body, err := json.Marshal(events.ModeSwitched{Origin: origin, Payload: raw})
	if err != nil {
		p.logger.Error("ModeEvents", "Failed to marshal mode switch event", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := p.pubSub.Publish(p.topicName, message.NewMessage(uuid.New().String(), body)); err != nil {
		p.logger.Error("ModeEvents", "Failed to publish mode switch", map[string]interface{}{"error": err.Error()})
	}
}
