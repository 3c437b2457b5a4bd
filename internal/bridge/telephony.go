package bridge

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Telephony frame event names.
const (
	FrameConnected = "connected"
	FrameStart     = "start"
	FrameMedia     = "media"
	FrameStop      = "stop"
	FrameClear     = "clear"
)

// TelephonyFrame is one JSON frame on the telephony leg. Audio payloads are
// base64-encoded mu-law.
type TelephonyFrame struct {
	Event     string        `json:"event"`
	StreamSID string        `json:"streamSid,omitempty"`
	Start     *StartPayload `json:"start,omitempty"`
	Media     *MediaPayload `json:"media,omitempty"`
}

// StartPayload accompanies the start frame.
type StartPayload struct {
	StreamSID string `json:"streamSid"`
	CallSID   string `json:"callSid,omitempty"`
}

// MediaPayload carries one encoded audio chunk.
type MediaPayload struct {
	Track   string `json:"track,omitempty"`
	Payload string `json:"payload"`
}

// DecodeFrame parses an inbound telephony frame.
func DecodeFrame(data []byte) (*TelephonyFrame, error) {
	var frame TelephonyFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("decode telephony frame: %w", err)
	}
	if frame.Event == "" {
		return nil, fmt.Errorf("telephony frame missing event")
	}
	return &frame, nil
}

// AudioBytes decodes the media payload of a media frame.
func (f *TelephonyFrame) AudioBytes() ([]byte, error) {
	if f.Media == nil {
		return nil, fmt.Errorf("frame %q has no media payload", f.Event)
	}
	audio, err := base64.StdEncoding.DecodeString(f.Media.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode media payload: %w", err)
	}
	return audio, nil
}

// EncodeMedia builds an outbound media frame around raw engine audio.
func EncodeMedia(streamSID string, audio []byte) ([]byte, error) {
	return json.Marshal(TelephonyFrame{
		Event:     FrameMedia,
		StreamSID: streamSID,
		Media:     &MediaPayload{Payload: base64.StdEncoding.EncodeToString(audio)},
	})
}

// EncodeClear builds the clear frame that flushes queued playback after
// barge-in.
func EncodeClear(streamSID string) ([]byte, error) {
	return json.Marshal(TelephonyFrame{Event: FrameClear, StreamSID: streamSID})
}

// Chunker re-frames an arbitrary inbound byte stream into fixed-size audio
// chunks. Bytes short of a full chunk stay buffered until more arrive.
type Chunker struct {
	size int
	buf  []byte
}

// NewChunker creates a chunker emitting chunks of the given byte size.
func NewChunker(size int) *Chunker {
	if size <= 0 {
		size = 160
	}
	return &Chunker{size: size}
}

// Push appends bytes and returns every complete chunk now available.
func (c *Chunker) Push(data []byte) [][]byte {
	c.buf = append(c.buf, data...)
	var chunks [][]byte
	for len(c.buf) >= c.size {
		chunk := make([]byte, c.size)
		copy(chunk, c.buf[:c.size])
		chunks = append(chunks, chunk)
		c.buf = c.buf[c.size:]
	}
	return chunks
}

// Buffered returns the number of bytes still waiting for a full chunk.
func (c *Chunker) Buffered() int {
	return len(c.buf)
}
