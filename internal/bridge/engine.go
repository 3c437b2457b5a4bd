package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/spec-kit/complaint-hotline/internal/config"
	"github.com/spec-kit/complaint-hotline/internal/tools"
)

// Engine event types on the reasoning leg.
const (
	EngineEventWelcome             = "Welcome"
	EngineEventSettingsApplied     = "SettingsApplied"
	EngineEventConversationText    = "ConversationText"
	EngineEventUserStartedSpeaking = "UserStartedSpeaking"
	EngineEventFunctionCallRequest = "FunctionCallRequest"
	EngineEventAgentThinking       = "AgentThinking"
	EngineEventAgentAudioDone      = "AgentAudioDone"
	EngineEventAgentError          = "AgentError"
	EngineEventAgentWarning        = "AgentWarning"
)

// EngineEvent is one JSON control message from the engine. Binary frames on
// the same socket carry synthesized audio and bypass this type.
type EngineEvent struct {
	Type       string          `json:"type"`
	Role       string          `json:"role,omitempty"`
	Content    string          `json:"content,omitempty"`
	ID         string          `json:"id,omitempty"`
	Name       string          `json:"name,omitempty"`
	Arguments  json.RawMessage `json:"arguments,omitempty"`
	ClientSide *bool           `json:"client_side,omitempty"`
}

// DecodeEngineEvent parses a text message from the engine.
func DecodeEngineEvent(data []byte) (*EngineEvent, error) {
	var event EngineEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decode engine event: %w", err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("engine event missing type")
	}
	return &event, nil
}

// FunctionCallResponse is the tool result message sent back to the engine.
type FunctionCallResponse struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// EncodeFunctionCallResponse builds the wire form of a tool result.
func EncodeFunctionCallResponse(id, name string, content []byte) ([]byte, error) {
	return json.Marshal(FunctionCallResponse{
		Type:    "FunctionCallResponse",
		ID:      id,
		Name:    name,
		Content: string(content),
	})
}

// Settings is the configuration message sent to the engine immediately after
// connecting, before any audio.
type Settings struct {
	Type  string        `json:"type"`
	Audio AudioSettings `json:"audio"`
	Agent AgentSettings `json:"agent"`
}

// AudioSettings fixes both legs to 8 kHz mu-law.
type AudioSettings struct {
	Input  AudioFormat `json:"input"`
	Output AudioFormat `json:"output"`
}

// AudioFormat names one direction's encoding.
type AudioFormat struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
}

// AgentSettings carries the prompt and the tool table.
type AgentSettings struct {
	Think ThinkSettings `json:"think"`
}

// ThinkSettings is the reasoning half of the agent settings.
type ThinkSettings struct {
	Prompt    string             `json:"prompt"`
	Functions []tools.Definition `json:"functions"`
}

// BuildSettings assembles the settings message from the agent prompt, the
// policy documents and the declared tool table.
func BuildSettings(prompt string, policies []string, sampleRate int) Settings {
	for _, doc := range policies {
		prompt += "\n\n" + doc
	}
	return Settings{
		Type: "Settings",
		Audio: AudioSettings{
			Input:  AudioFormat{Encoding: "mulaw", SampleRate: sampleRate},
			Output: AudioFormat{Encoding: "mulaw", SampleRate: sampleRate},
		},
		Agent: AgentSettings{
			Think: ThinkSettings{
				Prompt:    prompt,
				Functions: tools.Definitions(),
			},
		},
	}
}

// DialEngine connects the engine leg, authenticating with the configured key
// and sending the settings message before returning.
func DialEngine(ctx context.Context, cfg config.EngineConfig, settings Settings) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: cfg.ConnectTimeout}
	header := http.Header{}
	if cfg.APIKey != "" {
		header.Set("Authorization", "Token "+cfg.APIKey)
	}

	conn, resp, err := dialer.DialContext(ctx, cfg.URL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial engine: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial engine: %w", err)
	}

	payload, err := json.Marshal(settings)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("marshal engine settings: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send engine settings: %w", err)
	}
	return conn, nil
}
