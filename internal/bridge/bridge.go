package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-hotline/internal/session"
	"github.com/spec-kit/complaint-hotline/internal/tools"
)

// Conn is the subset of websocket behaviour the bridge needs. Both legs'
// connection types satisfy it, and tests substitute in-memory fakes.
type Conn interface {
	ReadMessage() (messageType int, data []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type outboundMessage struct {
	messageType int
	data        []byte
}

// Bridge relays one call between the telephony leg and the engine leg:
// inbound audio is re-framed and forwarded, engine audio is wrapped in media
// frames, barge-in triggers a clear, and tool requests are intercepted and
// dispatched locally.
type Bridge struct {
	telephony Conn
	engine    Conn
	tools     *tools.Dispatcher
	sess      *session.Session
	chunker   *Chunker
	logger    *zap.Logger

	streamSIDCh chan string

	mu        sync.Mutex
	streamSID string
}

// New builds a bridge over an accepted telephony connection and a dialed
// engine connection.
func New(telephony, engine Conn, dispatcher *tools.Dispatcher, sess *session.Session, bytesPerChunk int, logger *zap.Logger) *Bridge {
	return &Bridge{
		telephony:   telephony,
		engine:      engine,
		tools:       dispatcher,
		sess:        sess,
		chunker:     NewChunker(bytesPerChunk),
		logger:      logger,
		streamSIDCh: make(chan string, 1),
	}
}

// Run relays until the caller hangs up, either leg fails, or the context is
// cancelled. It always leaves the session closed and both connections shut.
func (b *Bridge) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engineOut := make(chan outboundMessage, 64)
	telephonyOut := make(chan outboundMessage, 64)
	errCh := make(chan error, 4)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); errCh <- b.telephonyReader(ctx, engineOut) }()
	go func() { defer wg.Done(); errCh <- b.engineReader(ctx, engineOut, telephonyOut) }()
	go func() { defer wg.Done(); errCh <- b.writer(ctx, b.engine, engineOut) }()
	go func() { defer wg.Done(); errCh <- b.writer(ctx, b.telephony, telephonyOut) }()

	err := <-errCh
	cancel()
	b.telephony.Close()
	b.engine.Close()
	wg.Wait()

	b.sess.Hangup()
	if category := b.sess.PendingEmergency(); category != "" {
		b.logger.Warn("call ended before the emergency assurance was read",
			zap.String("session_id", b.sess.ID), zap.String("category", string(category)))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// telephonyReader consumes frames from the telephony leg, re-frames inbound
// audio to fixed-size chunks, and records hangup on the stop frame.
func (b *Bridge) telephonyReader(ctx context.Context, engineOut chan<- outboundMessage) error {
	for {
		_, data, err := b.telephony.ReadMessage()
		if err != nil {
			b.sess.Hangup()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Info("telephony leg closed", zap.Error(err))
			return nil
		}

		frame, err := DecodeFrame(data)
		if err != nil {
			b.logger.Warn("unreadable telephony frame", zap.Error(err))
			continue
		}

		switch frame.Event {
		case FrameConnected:
			// handshake noise, nothing to do

		case FrameStart:
			sid := frame.StreamSID
			if frame.Start != nil && frame.Start.StreamSID != "" {
				sid = frame.Start.StreamSID
			}
			b.setStreamSID(sid)
			b.logger.Info("call stream started", zap.String("stream_sid", sid), zap.String("session_id", b.sess.ID))

		case FrameMedia:
			if frame.Media != nil && frame.Media.Track != "" && frame.Media.Track != "inbound" {
				continue
			}
			audio, err := frame.AudioBytes()
			if err != nil {
				b.logger.Warn("undecodable media payload", zap.Error(err))
				continue
			}
			for _, chunk := range b.chunker.Push(audio) {
				select {
				case engineOut <- outboundMessage{messageType: websocket.BinaryMessage, data: chunk}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}

		case FrameStop:
			b.logger.Info("caller hung up", zap.String("session_id", b.sess.ID))
			b.sess.Hangup()
			return nil

		default:
			b.logger.Debug("ignoring telephony frame", zap.String("event", frame.Event))
		}
	}
}

// engineReader consumes the engine leg: binary frames become outbound media,
// control events drive barge-in and tool dispatch.
func (b *Bridge) engineReader(ctx context.Context, engineOut, telephonyOut chan<- outboundMessage) error {
	// audio cannot be relayed until the stream id is known
	var streamSID string
	select {
	case streamSID = <-b.streamSIDCh:
	case <-ctx.Done():
		return ctx.Err()
	}

	for {
		messageType, data, err := b.engine.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Info("engine leg closed", zap.Error(err))
			return nil
		}

		if messageType == websocket.BinaryMessage {
			frame, err := EncodeMedia(streamSID, data)
			if err != nil {
				return err
			}
			select {
			case telephonyOut <- outboundMessage{messageType: websocket.TextMessage, data: frame}:
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		event, err := DecodeEngineEvent(data)
		if err != nil {
			b.logger.Warn("unreadable engine event", zap.Error(err))
			continue
		}

		switch event.Type {
		case EngineEventConversationText:
			b.logger.Info("conversation", zap.String("role", event.Role), zap.String("content", event.Content))

		case EngineEventUserStartedSpeaking:
			frame, err := EncodeClear(streamSID)
			if err != nil {
				return err
			}
			select {
			case telephonyOut <- outboundMessage{messageType: websocket.TextMessage, data: frame}:
			case <-ctx.Done():
				return ctx.Err()
			}

		case EngineEventFunctionCallRequest:
			if err := b.sess.BeginInvocation(event.ID); err != nil {
				b.logger.Error("tool invocation rejected", zap.String("invocation_id", event.ID), zap.Error(err))
				return err
			}
			go b.handleFunctionCall(ctx, event, engineOut)

		case EngineEventAgentAudioDone:
			// the utterance that finishes in the assurance phase is the
			// assurance script itself
			if b.sess.Phase() == session.PhaseAssurance {
				b.sess.AssuranceDelivered()
			}
			b.logger.Debug("engine event", zap.String("type", event.Type))

		case EngineEventWelcome, EngineEventSettingsApplied, EngineEventAgentThinking:
			b.logger.Debug("engine event", zap.String("type", event.Type))

		case EngineEventAgentError, EngineEventAgentWarning:
			b.logger.Warn("engine reported a problem", zap.String("type", event.Type), zap.ByteString("event", data))

		default:
			b.logger.Debug("ignoring engine event", zap.String("type", event.Type))
		}
	}
}

// handleFunctionCall runs one tool request off the read loop so audio keeps
// flowing. If the caller hangs up while the call is in flight, the result is
// discarded rather than sent.
func (b *Bridge) handleFunctionCall(ctx context.Context, event *EngineEvent, engineOut chan<- outboundMessage) {
	defer func() {
		if err := b.sess.EndInvocation(event.ID); err != nil {
			b.logger.Error("invocation bookkeeping failed", zap.Error(err))
		}
	}()

	if event.ClientSide != nil && !*event.ClientSide {
		b.logger.Info("server-side tool call, skipping", zap.String("name", event.Name))
		return
	}

	args := event.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	result, err := b.tools.Dispatch(ctx, b.sess, event.ID, event.Name, args)
	if err != nil {
		b.logger.Error("tool dispatch failed", zap.String("name", event.Name), zap.Error(err))
		return
	}

	if b.sess.HungUp() {
		b.logger.Info("discarding tool result after hangup",
			zap.String("name", event.Name), zap.String("invocation_id", event.ID))
		return
	}

	response, err := EncodeFunctionCallResponse(event.ID, event.Name, result)
	if err != nil {
		b.logger.Error("tool response encoding failed", zap.Error(err))
		return
	}
	select {
	case engineOut <- outboundMessage{messageType: websocket.TextMessage, data: response}:
	case <-ctx.Done():
	}
}

// writer is the sole sender on one connection, draining its channel until
// cancellation.
func (b *Bridge) writer(ctx context.Context, conn Conn, messages <-chan outboundMessage) error {
	for {
		select {
		case msg := <-messages:
			if err := conn.WriteMessage(msg.messageType, msg.data); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Bridge) setStreamSID(sid string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamSID != "" {
		return
	}
	b.streamSID = sid
	b.streamSIDCh <- sid
}

// StreamSID returns the telephony stream id once the start frame has been
// seen, or "" before that.
func (b *Bridge) StreamSID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.streamSID
}
