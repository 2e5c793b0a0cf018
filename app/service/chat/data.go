package chat

import (
	"encoding/json"
	"time"

	"umate/app/service/history"
)

// clientEnvelope is the single inbound frame shape. Type selects which of
// the remaining fields are meaningful.
type clientEnvelope struct {
	Type    string          `json:"type"`
	Message string          `json:"message,omitempty"`
	Audio   string          `json:"audio,omitempty"`
	Voice   string          `json:"voice,omitempty"`
	Session json.RawMessage `json:"session,omitempty"`
}

const (
	clientUserMessage   = "user_message"
	clientAudioData     = "audio_data"
	clientAudioCommit   = "audio_commit"
	clientVoiceChange   = "voice_change"
	clientSessionUpdate = "session_update"
	clientDebugRequest  = "debug_request"
)

type capabilities struct {
	Text         bool   `json:"text"`
	Audio        bool   `json:"audio"`
	Voice        string `json:"voice"`
	Database     bool   `json:"database"`
	Personalized bool   `json:"personalized"`
	History      bool   `json:"history"`
	Optimization string `json:"optimization"`
}

type historyEntry struct {
	Role      history.Role `json:"role"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"created_at"`
}

type connectionEnvelope struct {
	Type         string         `json:"type"`
	Status       string         `json:"status"`
	Message      string         `json:"message"`
	SessionID    string         `json:"sessionId,omitempty"`
	Capabilities *capabilities  `json:"capabilities,omitempty"`
	ChatHistory  []historyEntry `json:"chatHistory,omitempty"`
}

type filteredEnvelope struct {
	Type        string `json:"type"`
	Reason      string `json:"reason"`
	MessageType string `json:"messageType"`
	Response    string `json:"response"`
	IsAudio     bool   `json:"isAudio,omitempty"`
}

type textDoneEnvelope struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	ResponseID string `json:"response_id"`
	ItemID     string `json:"item_id"`
	Filtered   bool   `json:"filtered,omitempty"`
	IsAudio    bool   `json:"isAudio,omitempty"`
}

type deltaEnvelope struct {
	Type       string `json:"type"`
	Delta      string `json:"delta,omitempty"`
	Audio      string `json:"audio,omitempty"`
	ResponseID string `json:"response_id"`
	ItemID     string `json:"item_id"`
}

type transcriptionEnvelope struct {
	Type          string `json:"type"`
	Transcription string `json:"transcription"`
	ItemID        string `json:"item_id"`
	Filtered      bool   `json:"filtered"`
}

type transcriptDoneEnvelope struct {
	Type       string `json:"type"`
	Transcript string `json:"transcript"`
	ResponseID string `json:"response_id"`
	ItemID     string `json:"item_id"`
}

type noticeEnvelope struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	ResponseID string `json:"response_id,omitempty"`
}

type responseCompleteEnvelope struct {
	Type     string          `json:"type"`
	Response json.RawMessage `json:"response,omitempty"`
}

type errorEnvelope struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type debugEnvelope struct {
	Type         string    `json:"type"`
	SessionID    string    `json:"sessionId"`
	Email        string    `json:"email,omitempty"`
	Connections  int       `json:"totalConnections"`
	UpstreamOpen bool      `json:"upstreamConnected"`
	Timestamp    time.Time `json:"timestamp"`
}

// ConnectionInfo is the diagnostic view of one live session.
type ConnectionInfo struct {
	SessionID    string    `json:"sessionId"`
	Email        string    `json:"email,omitempty"`
	RemoteIP     string    `json:"remoteIP"`
	State        string    `json:"state"`
	Primed       bool      `json:"primed"`
	LastActivity time.Time `json:"lastActivity"`
}
