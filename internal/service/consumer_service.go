package service

import (
	"context"
	"encoding/json"

	"ai-dashboard-be/internal/dto"
	"ai-dashboard-be/internal/pkg/logger"
	"ai-dashboard-be/internal/websocket"
	"ai-dashboard-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the mode-event topic and rebroadcasts each switch
// to every connected client except the one that triggered it.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *websocket.Hub
	logger    logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, hub *websocket.Hub, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var event events.ModeSwitched
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal mode event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid messages are never retriable
		return
	}

	cs.hub.BroadcastExcept(event.Origin, dto.Envelope{
		Type:    dto.EnvelopeModeSwitch,
		Payload: event.Payload,
	})
	cs.logger.Info("ConsumerService", "Mode switch rebroadcast", map[string]interface{}{
		"origin": event.Origin, "clients": cs.hub.ClientCount(),
	})
	msg.Ack()
}
