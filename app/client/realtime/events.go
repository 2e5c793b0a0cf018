package realtime

import "encoding/json"

type EventType string

const (
	EventSessionCreated         EventType = "session_created"
	EventSessionUpdated         EventType = "session_updated"
	EventSpeechStarted          EventType = "speech_started"
	EventSpeechStopped          EventType = "speech_stopped"
	EventTranscriptionCompleted EventType = "transcription_completed"
	EventResponseCreated        EventType = "response_created"
	EventTextDelta              EventType = "text_delta"
	EventTextDone               EventType = "text_done"
	EventAudioDelta             EventType = "audio_delta"
	EventAudioDone              EventType = "audio_done"
	EventAudioTranscriptDelta   EventType = "audio_transcript_delta"
	EventAudioTranscriptDone    EventType = "audio_transcript_done"
	EventResponseDone           EventType = "response_done"
	EventError                  EventType = "error"
	EventUnknown                EventType = "unknown"
)

// Event is one message from the generator stream, flattened to the fields
// the orchestrator consumes. Raw carries the untouched payload for
// pass-through of unknown event kinds.
type Event struct {
	Type       EventType
	Delta      string
	Text       string
	Transcript string
	ItemID     string
	ResponseID string
	ErrMessage string
	Raw        json.RawMessage
}

// SessionConfig mirrors the upstream session.update payload.
type SessionConfig struct {
	Modalities              []string            `json:"modalities,omitempty"`
	Instructions            string              `json:"instructions,omitempty"`
	Voice                   string              `json:"voice,omitempty"`
	InputAudioFormat        string              `json:"input_audio_format,omitempty"`
	OutputAudioFormat       string              `json:"output_audio_format,omitempty"`
	InputAudioTranscription *TranscriptionModel `json:"input_audio_transcription,omitempty"`
	TurnDetection           *TurnDetection      `json:"turn_detection,omitempty"`
	Temperature             float64             `json:"temperature,omitempty"`
	MaxResponseOutputTokens int                 `json:"max_response_output_tokens,omitempty"`
}

type TranscriptionModel struct {
	Model    string `json:"model"`
	Language string `json:"language,omitempty"`
}

type TurnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold,omitempty"`
	PrefixPaddingMs   int     `json:"prefix_padding_ms,omitempty"`
	SilenceDurationMs int     `json:"silence_duration_ms,omitempty"`
}

type rawEvent struct {
	Type       string          `json:"type"`
	Delta      string          `json:"delta"`
	Text       string          `json:"text"`
	Transcript string          `json:"transcript"`
	ItemID     string          `json:"item_id"`
	ResponseID string          `json:"response_id"`
	Error      *rawError       `json:"error"`
	Response   json.RawMessage `json:"response"`
}

type rawError struct {
	Message string `json:"message"`
}
