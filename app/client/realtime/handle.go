package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"umate/app/service/history"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Handle is one live generator connection. Safe for one writer and one
// reader goroutine; the orchestrator runs exactly that pair.
type Handle struct {
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
}

func (h *Handle) UpdateSession(cfg SessionConfig) error {
	return h.send(map[string]any{
		"type":    "session.update",
		"session": cfg,
	})
}

// UpdateSessionRaw forwards a client-authored session payload untouched.
func (h *Handle) UpdateSessionRaw(session json.RawMessage) error {
	return h.send(map[string]any{
		"type":    "session.update",
		"session": session,
	})
}

// CreateConversationItem enqueues one turn into the generator conversation.
// User turns use input content types, assistant turns the output ones.
func (h *Handle) CreateConversationItem(role history.Role, text string, audio []byte) error {
	textType, audioType := "input_text", "input_audio"
	if role == history.RoleAssistant {
		textType, audioType = "text", "audio"
	}

	content := make([]map[string]any, 0, 2)
	if text != "" {
		content = append(content, map[string]any{
			"type": textType,
			"text": text,
		})
	}
	if len(audio) > 0 {
		content = append(content, map[string]any{
			"type":  audioType,
			"audio": audio,
		})
	}

	if len(content) == 0 {
		return nil
	}

	return h.send(map[string]any{
		"type": "conversation.item.create",
		"item": map[string]any{
			"type":    "message",
			"role":    string(role),
			"content": content,
		},
	})
}

func (h *Handle) RequestResponse(modalities []string, instructions string) error {
	return h.send(map[string]any{
		"type": "response.create",
		"response": map[string]any{
			"modalities":   modalities,
			"instructions": instructions,
		},
	})
}

func (h *Handle) AppendAudio(audio string) error {
	return h.send(map[string]any{
		"type":  "input_audio_buffer.append",
		"audio": audio,
	})
}

func (h *Handle) CommitAudio() error {
	return h.send(map[string]any{
		"type": "input_audio_buffer.commit",
	})
}

func (h *Handle) send(payload any) error {
	if err := wsjson.Write(h.ctx, h.conn, payload); err != nil {
		return fmt.Errorf("failed to send realtime message: %w", err)
	}

	return nil
}

// Recv blocks for the next generator event and flattens it. A transport
// error ends the stream; in-band generator errors come back as EventError.
func (h *Handle) Recv() (Event, error) {
	var raw rawEvent
	if err := wsjson.Read(h.ctx, h.conn, &raw); err != nil {
		return Event{}, fmt.Errorf("failed to receive realtime event: %w", err)
	}

	event := Event{
		Delta:      raw.Delta,
		Text:       raw.Text,
		Transcript: raw.Transcript,
		ItemID:     raw.ItemID,
		ResponseID: raw.ResponseID,
		Raw:        raw.Response,
	}

	switch raw.Type {
	case "session.created":
		event.Type = EventSessionCreated
	case "session.updated":
		event.Type = EventSessionUpdated
	case "input_audio_buffer.speech_started":
		event.Type = EventSpeechStarted
	case "input_audio_buffer.speech_stopped":
		event.Type = EventSpeechStopped
	case "conversation.item.input_audio_transcription.completed":
		event.Type = EventTranscriptionCompleted
	case "response.created":
		event.Type = EventResponseCreated
		var response struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw.Response, &response); err == nil {
			event.ResponseID = response.ID
		}
	case "response.text.delta":
		event.Type = EventTextDelta
	case "response.text.done":
		event.Type = EventTextDone
	case "response.audio.delta":
		event.Type = EventAudioDelta
	case "response.audio.done":
		event.Type = EventAudioDone
	case "response.audio_transcript.delta":
		event.Type = EventAudioTranscriptDelta
	case "response.audio_transcript.done":
		event.Type = EventAudioTranscriptDone
	case "response.done":
		event.Type = EventResponseDone
	case "error":
		event.Type = EventError
		if raw.Error != nil {
			event.ErrMessage = raw.Error.Message
		}
	default:
		event.Type = EventUnknown
	}

	return event, nil
}

func (h *Handle) Close() error {
	h.cancel()
	return h.conn.Close(websocket.StatusNormalClosure, "session ended")
}
