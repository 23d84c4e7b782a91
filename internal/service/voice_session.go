package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"ai-dashboard-be/internal/constant"
	"ai-dashboard-be/internal/dto"
	"ai-dashboard-be/internal/entity"
	"ai-dashboard-be/internal/pkg/logger"
	"ai-dashboard-be/internal/repository/memory"
	"ai-dashboard-be/pkg/llm"
	"ai-dashboard-be/pkg/realtime"
	"ai-dashboard-be/pkg/tools"
)

// VoiceSession relays a full-duplex audio conversation between the browser
// socket and the realtime model socket. Two loops run for the session's
// lifetime: client→model (audio frames) and model→client (events); either
// one exiting tears the whole session down.

type VoiceState int32

const (
	StateIdle VoiceState = iota
	StateConnecting
	StateActive
	StateClosing
	StateClosed
)

// errStopRequested is the clean-shutdown sentinel raised by a client
// "stop" frame; Run converts it to a nil return.
var errStopRequested = errors.New("stop requested by client")

// VoiceClientConn is the browser side of the relay.
type VoiceClientConn interface {
	ClientSender
	ReadJSON(v interface{}) error
	Close() error
}

// RealtimeConn is the model side of the relay, satisfied by
// realtime.Client and by fakes in tests.
type RealtimeConn interface {
	ReadEvent() (realtime.Event, error)
	UpdateSession(cfg realtime.SessionConfig) error
	AppendAudio(base64Audio string) error
	CancelResponse() error
	CreateResponse() error
	CreateUserMessage(text string) error
	SendFunctionOutput(callId string, output map[string]interface{}) error
	Close() error
}

// RealtimeDialer opens the upstream socket; injected so tests can supply
// a fake transport.
type RealtimeDialer func(ctx context.Context) (RealtimeConn, error)

type VoiceSession struct {
	client   VoiceClientConn
	dial     RealtimeDialer
	provider llm.LLMProvider
	detector *ModeSwitchDetector
	store    *memory.ModeStore
	mode     *entity.Mode
	seed     int64
	voice    string
	history  *History
	viz      *vizPool
	logger   logger.ILogger

	// muted is written by the client loop and read before every audio
	// forward; atomic so a toggle is visible to the very next frame.
	muted atomic.Bool
	state atomic.Int32

	upstream RealtimeConn
	notifier *deferredNotifier

	onModeSwitch func(payload dto.ModeSwitchPayload)
}

// SetModeSwitchListener registers a callback fired after this session
// activates a new mode, so the switch can be fanned out to other
// connections.
func (s *VoiceSession) SetModeSwitchListener(fn func(payload dto.ModeSwitchPayload)) {
	s.onModeSwitch = fn
}

func NewVoiceSession(client VoiceClientConn, dial RealtimeDialer, provider llm.LLMProvider, detector *ModeSwitchDetector, store *memory.ModeStore, seed int64, voice string, log logger.ILogger) *VoiceSession {
	return &VoiceSession{
		client:   client,
		dial:     dial,
		provider: provider,
		detector: detector,
		store:    store,
		mode:     store.CurrentMode(),
		seed:     seed,
		voice:    voice,
		history:  NewHistory(),
		viz:      newVizPool(),
		logger:   log,
	}
}

func (s *VoiceSession) State() VoiceState {
	return VoiceState(s.state.Load())
}

func (s *VoiceSession) setState(st VoiceState) {
	s.state.Store(int32(st))
}

// Run drives the session until the client stops, either transport fails,
// or ctx is cancelled. A clean client stop returns nil.
func (s *VoiceSession) Run(ctx context.Context) error {
	s.setState(StateConnecting)

	upstream, err := s.dial(ctx)
	if err != nil {
		s.setState(StateClosed)
		s.sendClient(dto.VoiceError{Type: dto.VoiceTypeError, Error: "voice backend unavailable"})
		return fmt.Errorf("realtime dial: %w", err)
	}
	s.upstream = upstream

	// Deferred summaries are injected as authored turns followed by a
	// response request, once the model is idle.
	s.notifier = newDeferredNotifier(func(v interface{}) {
		summary, ok := v.(string)
		if !ok {
			return
		}
		if err := upstream.CreateUserMessage(summary); err != nil {
			s.logger.Warn("VoiceSession", "Failed to inject deferred notification", map[string]interface{}{"error": err.Error()})
			return
		}
		if err := upstream.CreateResponse(); err != nil {
			s.logger.Warn("VoiceSession", "Failed to request turn after notification", map[string]interface{}{"error": err.Error()})
		}
	})

	if err := s.configureSession(); err != nil {
		upstream.Close()
		s.setState(StateClosed)
		return fmt.Errorf("session configure: %w", err)
	}
	s.sendClient(dto.VoiceStatus{Type: dto.VoiceTypeStatus, Status: dto.VoiceStatusConnected})
	s.setState(StateActive)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.clientLoop)
	g.Go(func() error { return s.modelLoop(gctx) })
	g.Go(func() error {
		// Both loops block in socket reads; closing the sockets on
		// cancellation is what actually unblocks them.
		<-gctx.Done()
		upstream.Close()
		s.client.Close()
		return nil
	})
	err = g.Wait()

	s.setState(StateClosing)
	s.viz.CancelAll()
	upstream.Close()
	s.sendClient(dto.VoiceStatus{Type: dto.VoiceTypeStatus, Status: dto.VoiceStatusDisconnected})
	s.setState(StateClosed)

	if errors.Is(err, errStopRequested) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *VoiceSession) configureSession() error {
	persona := s.store.GeneratePersona(s.mode.Id, s.seed)
	return s.upstream.UpdateSession(realtime.SessionConfig{
		Modalities:              []string{"text", "audio"},
		Voice:                   s.voice,
		InputAudioFormat:        "pcm16",
		OutputAudioFormat:       "pcm16",
		InputAudioTranscription: &realtime.TranscriptionConf{Model: "whisper-1"},
		TurnDetection: &realtime.TurnDetectionConf{
			Type:              "server_vad",
			Threshold:         0.5,
			PrefixPaddingMs:   300,
			SilenceDurationMs: 500,
		},
		Tools:        realtimeTools(),
		Instructions: BuildVoicePrompt(BuildSystemPrompt(s.mode, persona)),
	})
}

func (s *VoiceSession) clientLoop() error {
	for {
		var in dto.VoiceInbound
		if err := s.client.ReadJSON(&in); err != nil {
			return err
		}
		switch in.Type {
		case dto.VoiceInboundAudio:
			if s.muted.Load() {
				continue
			}
			if err := s.upstream.AppendAudio(in.Data); err != nil {
				return err
			}
		case dto.VoiceInboundMute:
			s.muted.Store(in.Muted)
		case dto.VoiceInboundStop:
			return errStopRequested
		default:
			s.logger.Debug("VoiceSession", "Ignoring unknown client frame", map[string]interface{}{"type": in.Type})
		}
	}
}

func (s *VoiceSession) modelLoop(ctx context.Context) error {
	for {
		event, err := s.upstream.ReadEvent()
		if err != nil {
			return err
		}
		s.handleModelEvent(ctx, event)
	}
}

func (s *VoiceSession) handleModelEvent(ctx context.Context, event realtime.Event) {
	switch e := event.(type) {
	case realtime.ResponseCreated:
		s.notifier.SetResponding(true)

	case realtime.ResponseDone:
		s.notifier.SetResponding(false)

	case realtime.SpeechStarted:
		// Barge-in: cancel before anything else so the model stops
		// talking with minimal latency.
		if err := s.upstream.CancelResponse(); err != nil {
			s.logger.Warn("VoiceSession", "Barge-in cancel failed", map[string]interface{}{"error": err.Error()})
		}
		s.sendClient(dto.VoiceSpeechEvent{Type: dto.VoiceTypeSpeechStarted})

	case realtime.SpeechStopped:
		s.sendClient(dto.VoiceSpeechEvent{Type: dto.VoiceTypeSpeechStopped})

	case realtime.InputTranscriptionCompleted:
		s.handleTranscript(ctx, e.Transcript)

	case realtime.AudioDelta:
		s.sendClient(dto.VoiceAudio{Type: dto.VoiceTypeAudio, Data: e.Delta})

	case realtime.AudioTranscriptDelta:
		s.history.AppendAssistantDelta(e.Delta)
		s.sendClient(dto.VoiceTranscript{Type: dto.VoiceTypeTranscript, Role: constant.ChatMessageRoleAssistant, Text: e.Delta})

	case realtime.FunctionCallArgumentsDone:
		s.handleFunctionCall(ctx, e)

	case realtime.ErrorEvent:
		s.logger.Error("VoiceSession", "Upstream error event", map[string]interface{}{"message": e.Message})
		s.sendClient(dto.VoiceError{Type: dto.VoiceTypeError, Error: e.Message})

	case realtime.Unknown:
		s.logger.Debug("VoiceSession", "Ignoring upstream event", map[string]interface{}{"type": e.Type})
	}
}

// handleTranscript records the user's utterance and, when it carries the
// wake word, runs mode-switch detection. The in-flight response and all
// pending visualizations are cancelled before the (slower) semantic check
// so barge-in latency stays hidden.
func (s *VoiceSession) handleTranscript(ctx context.Context, transcript string) {
	if transcript == "" {
		return
	}
	s.history.Append(constant.ChatMessageRoleUser, transcript)
	s.sendClient(dto.VoiceTranscript{Type: dto.VoiceTypeTranscript, Role: constant.ChatMessageRoleUser, Text: transcript})

	wake := ContainsWakeWord(transcript)
	if !wake {
		return
	}
	if err := s.upstream.CancelResponse(); err != nil {
		s.logger.Warn("VoiceSession", "Pre-switch cancel failed", map[string]interface{}{"error": err.Error()})
	}
	s.viz.CancelAll()
	s.sendClient(dto.VoiceModeEvent{Type: dto.EnvelopeModeGenerating, Payload: dto.ModeGeneratingPayload{}})

	mode, switched := s.detector.Detect(ctx, transcript,
		func(industry string) {
			s.sendClient(dto.VoiceModeEvent{Type: dto.EnvelopeModeGenerating, Payload: dto.ModeGeneratingPayload{Industry: industry}})
		},
		nil)
	if !switched {
		s.sendClient(dto.VoiceModeEvent{Type: dto.EnvelopeModeGeneratingCancel, Payload: struct{}{}})
		return
	}

	s.mode = mode
	s.viz.CancelAll()
	s.history.Clear()
	persona := s.store.GeneratePersona(mode.Id, s.seed)

	payload := dto.ModeSwitchPayload{
		Mode:    dto.NewModePayload(mode),
		Persona: persona,
	}
	s.sendClient(dto.VoiceModeEvent{Type: dto.EnvelopeModeSwitch, Payload: payload})
	if s.onModeSwitch != nil {
		s.onModeSwitch(payload)
	}

	if err := s.upstream.UpdateSession(realtime.SessionConfig{
		Tools:        realtimeTools(),
		Instructions: BuildVoicePrompt(BuildSystemPrompt(mode, persona)),
	}); err != nil {
		s.logger.Error("VoiceSession", "Session update after mode switch failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.upstream.CreateUserMessage(fmt.Sprintf(constant.VoiceGreetingFormat, mode.Name, mode.Name)); err != nil {
		s.logger.Warn("VoiceSession", "Greeting injection failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.upstream.CreateResponse(); err != nil {
		s.logger.Warn("VoiceSession", "Greeting response request failed", map[string]interface{}{"error": err.Error()})
	}
}

// handleFunctionCall processes a completed tool call from the realtime
// model. The lightweight visualization request is acked immediately and
// fulfilled in the background; any other tool runs synchronously as a
// defensive fallback.
func (s *VoiceSession) handleFunctionCall(ctx context.Context, e realtime.FunctionCallArgumentsDone) {
	args, err := tools.ParseArguments(e.Arguments)
	if err != nil {
		s.logger.Error("VoiceSession", "Unparseable tool arguments", map[string]interface{}{
			"tool": e.Name, "error": err.Error(),
		})
		return
	}

	if e.Name != tools.ToolRequestVisualization {
		result := tools.Execute(e.Name, args)
		s.sendClient(dto.VoiceToolResult{Type: dto.VoiceTypeToolResult, Tool: e.Name, Result: result})
		if err := s.upstream.SendFunctionOutput(e.CallId, result); err != nil {
			s.logger.Warn("VoiceSession", "Function output send failed", map[string]interface{}{"error": err.Error()})
			return
		}
		if err := s.upstream.CreateResponse(); err != nil {
			s.logger.Warn("VoiceSession", "Response request after tool failed", map[string]interface{}{"error": err.Error()})
		}
		return
	}

	visType, _ := args["vis_type"].(string)
	description, _ := args["description"].(string)

	// Ack first so the model keeps talking instead of waiting for the
	// (slow) generation.
	if err := s.upstream.SendFunctionOutput(e.CallId, map[string]interface{}{"status": "generating"}); err != nil {
		s.logger.Warn("VoiceSession", "Visualization ack failed", map[string]interface{}{"error": err.Error()})
	}
	if err := s.upstream.CreateResponse(); err != nil {
		s.logger.Warn("VoiceSession", "Response request after ack failed", map[string]interface{}{"error": err.Error()})
	}
	s.sendClient(dto.VoiceVisualizationGenerating{
		Type:        dto.VoiceTypeVisualizationGenerating,
		VisType:     visType,
		Description: description,
	})

	persona := s.store.GeneratePersona(s.mode.Id, s.seed)
	systemPrompt := BuildSystemPrompt(s.mode, persona)
	history := s.history.Messages()
	s.viz.Start(ctx, visType, func(taskCtx context.Context) {
		runVisualizationTask(taskCtx, s.provider, s.logger, systemPrompt, history, visType, description, vizSinks{
			SendToolResult: func(tool string, result map[string]interface{}) {
				s.sendClient(dto.VoiceToolResult{Type: dto.VoiceTypeToolResult, Tool: tool, Result: result})
			},
			Announce: func(summary string) {
				s.notifier.Notify(summary)
			},
		})
	})
}

func (s *VoiceSession) sendClient(v interface{}) {
	if err := s.client.SendJSON(v); err != nil {
		s.logger.Debug("VoiceSession", "Client send failed", map[string]interface{}{"error": err.Error()})
	}
}

// realtimeTools flattens the lightweight schema into the realtime wire
// form.
func realtimeTools() []realtime.Tool {
	defs := tools.RealtimeDefinitions()
	out := make([]realtime.Tool, 0, len(defs))
	for _, d := range defs {
		out = append(out, realtime.Tool{
			Type:        "function",
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	return out
}
