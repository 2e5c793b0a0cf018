package chat

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"umate/app/client/realtime"
	"umate/app/config"
	"umate/app/service/filter"
	"umate/app/service/history"
	"umate/app/service/knowledge"

	"github.com/google/uuid"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

//go:embed system_prompt.txt
var systemPrompt string

const (
	textInstruction  = `UMate 통신 서비스 관련 질문에만 답변하세요. 무관한 주제(양자역학, 요리, 영화 등)는 "죄송합니다. UMate 서비스 관련 질문만 답변드립니다"라고 응답하세요.`
	audioInstruction = `UMate 통신 서비스 관련 질문에만 답변하세요. 무관한 주제는 "죄송합니다. UMate 서비스 관련 질문만 답변드립니다"라고 음성과 텍스트로 응답하세요.`

	persistTimeout = 5 * time.Second
)

// ClientConn is the browser side of a session. Implementations must allow
// one concurrent reader and serialize writes themselves.
type ClientConn interface {
	ReadMessage() ([]byte, error)
	WriteJSON(v any) error
	Close() error
}

// Upstream is the generator side of a session.
type Upstream interface {
	UpdateSession(cfg realtime.SessionConfig) error
	UpdateSessionRaw(session json.RawMessage) error
	CreateConversationItem(role history.Role, text string, audio []byte) error
	RequestResponse(modalities []string, instructions string) error
	AppendAudio(audio string) error
	CommitAudio() error
	Recv() (realtime.Event, error)
	Close() error
}

type Service struct {
	cfg          *config.Config
	filterSvc    *filter.Service
	historySvc   *history.Service
	knowledgeSvc *knowledge.Service
	registry     *registry

	dial func(ctx context.Context) (Upstream, error)
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)
	client := do.MustInvoke[*realtime.Client](di)

	return &Service{
		cfg:          cfg,
		filterSvc:    do.MustInvoke[*filter.Service](di),
		historySvc:   do.MustInvoke[*history.Service](di),
		knowledgeSvc: do.MustInvoke[*knowledge.Service](di),
		registry:     newRegistry(cfg.Server.MaxConnectionsPerIP),
		dial: func(ctx context.Context) (Upstream, error) {
			return client.Dial(ctx)
		},
	}, nil
}

func (s *Service) ConnectionCount() int {
	return s.registry.len()
}

func (s *Service) Connections() []ConnectionInfo {
	return s.registry.snapshotInfo()
}

// HandleSession runs one client connection to completion: dial the
// generator, prime it with profile + knowledge + history, then relay
// frames both ways until either side disconnects.
func (s *Service) HandleSession(ctx context.Context, conn ClientConn, email, remoteIP string, guestHistory []history.Turn) error {
	sessionID := uuid.NewString()

	sess, err := s.registry.create(sessionID, email, remoteIP)
	if err != nil {
		_ = conn.WriteJSON(errorEnvelope{
			Type:  "error",
			Error: "동시 연결 한도를 초과했습니다. 잠시 후 다시 시도해주세요.",
		})

		return fmt.Errorf("failed to register session: %w", err)
	}
	defer s.registry.remove(sess)

	slog.Info("Chat session starting",
		"sessionId", sessionID,
		"email", email,
		"ip", remoteIP,
	)

	_ = conn.WriteJSON(connectionEnvelope{
		Type:      "connection",
		Status:    "connecting",
		Message:   "유식이를 연결하고 있습니다...",
		SessionID: sessionID,
	})

	upstream, err := s.dial(ctx)
	if err != nil {
		_ = conn.WriteJSON(errorEnvelope{
			Type:  "error",
			Error: "답변 서버 연결이 준비되지 않았습니다. 잠시 후 다시 시도해주세요.",
		})

		return fmt.Errorf("failed to dial generator: %w", err)
	}

	if err := s.prime(ctx, sess, upstream, guestHistory); err != nil {
		_ = upstream.Close()

		return fmt.Errorf("failed to prime session: %w", err)
	}

	_ = conn.WriteJSON(s.connectedEnvelope(ctx, sess))
	sess.setState(stateOpen)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.clientLoop(gctx, sess, conn, upstream)
	})

	g.Go(func() error {
		return s.upstreamLoop(gctx, sess, conn, upstream)
	})

	// Either loop ending tears down both transports so the other unblocks.
	g.Go(func() error {
		<-gctx.Done()
		sess.setState(stateClosing)
		_ = upstream.Close()
		_ = conn.Close()

		return nil
	})

	err = g.Wait()
	sess.setState(stateClosed)

	slog.Info("Chat session ended",
		"sessionId", sessionID,
		"email", email,
		"error", err,
	)

	return err
}

// prime configures the generator and replays the one-time context bundle.
// It runs at most once per session.
func (s *Service) prime(ctx context.Context, sess *session, upstream Upstream, guestHistory []history.Turn) error {
	if !sess.markPrimed() {
		return nil
	}

	err := upstream.UpdateSession(realtime.SessionConfig{
		Modalities:        []string{"text", "audio"},
		Instructions:      systemPrompt,
		Voice:             s.cfg.Realtime.Voice,
		InputAudioFormat:  "pcm16",
		OutputAudioFormat: "pcm16",
		InputAudioTranscription: &realtime.TranscriptionModel{
			Model:    "whisper-1",
			Language: "ko",
		},
		TurnDetection: &realtime.TurnDetection{
			Type:              "server_vad",
			Threshold:         0.5,
			PrefixPaddingMs:   300,
			SilenceDurationMs: 500,
		},
		Temperature:             0.8,
		MaxResponseOutputTokens: 4096,
	})
	if err != nil {
		return fmt.Errorf("failed to configure session: %w", err)
	}

	payload := s.knowledgeSvc.BuildInitialContext(ctx, sess.email, guestHistory)

	for _, item := range payload.Items {
		if err := upstream.CreateConversationItem(item.Role, item.Text, item.Audio); err != nil {
			return fmt.Errorf("failed to replay context item: %w", err)
		}
	}

	return nil
}

func (s *Service) connectedEnvelope(ctx context.Context, sess *session) connectionEnvelope {
	var entries []historyEntry

	if sess.email != "" {
		turns, err := s.historySvc.LoadRecent(ctx, sess.email, s.cfg.Chat.HistoryLimit)
		if err == nil {
			for _, turn := range turns {
				entries = append(entries, historyEntry{
					Role:      turn.Role,
					Text:      turn.Text,
					CreatedAt: turn.CreatedAt,
				})
			}
		}
	}

	optimization := "first_session"
	if len(entries) > 0 {
		optimization = "enabled"
	}

	return connectionEnvelope{
		Type:      "connection",
		Status:    "connected",
		Message:   "유식이와 연결이 되었습니다.",
		SessionID: sess.id,
		Capabilities: &capabilities{
			Text:         true,
			Audio:        true,
			Voice:        s.cfg.Realtime.Voice,
			Database:     true,
			Personalized: sess.email != "",
			History:      sess.email != "",
			Optimization: optimization,
		},
		ChatHistory: entries,
	}
}

func (s *Service) clientLoop(ctx context.Context, sess *session, conn ClientConn, upstream Upstream) error {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("client read: %w", err)
		}

		var msg clientEnvelope
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = conn.WriteJSON(errorEnvelope{
				Type:  "error",
				Error: "메시지 형식이 올바르지 않습니다.",
			})

			continue
		}

		sess.touch()

		switch msg.Type {
		case clientUserMessage:
			if err := s.handleUserMessage(ctx, sess, conn, upstream, msg.Message); err != nil {
				return err
			}

		case clientAudioData:
			if err := upstream.AppendAudio(msg.Audio); err != nil {
				return fmt.Errorf("failed to append audio: %w", err)
			}

		case clientAudioCommit:
			if err := upstream.CommitAudio(); err != nil {
				return fmt.Errorf("failed to commit audio: %w", err)
			}
			if err := upstream.RequestResponse([]string{"audio", "text"}, audioInstruction); err != nil {
				return fmt.Errorf("failed to request audio response: %w", err)
			}

		case clientVoiceChange:
			if err := upstream.UpdateSession(realtime.SessionConfig{Voice: msg.Voice}); err != nil {
				return fmt.Errorf("failed to change voice: %w", err)
			}

		case clientSessionUpdate:
			if err := upstream.UpdateSessionRaw(msg.Session); err != nil {
				return fmt.Errorf("failed to update session: %w", err)
			}

		case clientDebugRequest:
			_ = conn.WriteJSON(debugEnvelope{
				Type:         "debug_response",
				SessionID:    sess.id,
				Email:        sess.email,
				Connections:  s.registry.len(),
				UpstreamOpen: true,
				Timestamp:    time.Now(),
			})

		default:
			slog.Debug("Unknown client message type", "sessionId", sess.id, "type", msg.Type)
		}
	}
}

func (s *Service) handleUserMessage(ctx context.Context, sess *session, conn ClientConn, upstream Upstream, message string) error {
	if !sess.allowMessage(s.cfg.Chat.MessagesPerMinute) {
		_ = conn.WriteJSON(errorEnvelope{
			Type:  "error",
			Error: "메시지 전송 한도를 초과했습니다. 잠시 후 다시 시도해주세요.",
		})

		return nil
	}

	outcome := s.filterSvc.FilterMessage(message, false)
	if !outcome.Allowed {
		_ = conn.WriteJSON(filteredEnvelope{
			Type:        "filtered_message",
			Reason:      outcome.Reason,
			MessageType: string(outcome.Type),
			Response:    outcome.Response,
		})
		// Deliver the canned refusal as if the assistant answered.
		_ = conn.WriteJSON(textDoneEnvelope{
			Type:       "text_done",
			Text:       outcome.Response,
			ResponseID: "filter_response",
			ItemID:     "filter_item",
			Filtered:   true,
		})

		return nil
	}

	s.persist(sess.email, history.RoleUser, message, "")

	if extra := s.knowledgeSvc.BuildIncrementalContext(ctx, message); extra != "" {
		if err := upstream.CreateConversationItem(history.RoleUser, extra, nil); err != nil {
			return fmt.Errorf("failed to send dynamic context: %w", err)
		}
	}

	if err := upstream.CreateConversationItem(history.RoleUser, message, nil); err != nil {
		return fmt.Errorf("failed to send user message: %w", err)
	}

	if err := upstream.RequestResponse([]string{"text"}, textInstruction); err != nil {
		return fmt.Errorf("failed to request response: %w", err)
	}

	return nil
}

func (s *Service) upstreamLoop(_ context.Context, sess *session, conn ClientConn, upstream Upstream) error {
	for {
		event, err := upstream.Recv()
		if err != nil {
			return fmt.Errorf("upstream read: %w", err)
		}

		switch event.Type {
		case realtime.EventSessionCreated, realtime.EventSessionUpdated:
			// nothing to relay

		case realtime.EventSpeechStarted:
			_ = conn.WriteJSON(noticeEnvelope{
				Type:    "speech_started",
				Message: "🎤 음성을 듣고 있습니다...",
			})

		case realtime.EventSpeechStopped:
			_ = conn.WriteJSON(noticeEnvelope{
				Type:    "speech_stopped",
				Message: "🔄 음성을 처리하고 있습니다...",
			})

		case realtime.EventTranscriptionCompleted:
			s.handleTranscription(sess, conn, event)

		case realtime.EventResponseCreated:
			_ = conn.WriteJSON(noticeEnvelope{
				Type:       "assistant_message_start",
				Message:    "🤖 AI가 답변을 생성하고 있습니다...",
				ResponseID: event.ResponseID,
			})

		case realtime.EventTextDelta:
			_ = conn.WriteJSON(deltaEnvelope{
				Type:       "text_delta",
				Delta:      event.Delta,
				ResponseID: event.ResponseID,
				ItemID:     event.ItemID,
			})

		case realtime.EventTextDone:
			s.persist(sess.email, history.RoleAssistant, event.Text, "")

			_ = conn.WriteJSON(textDoneEnvelope{
				Type:       "text_done",
				Text:       event.Text,
				ResponseID: event.ResponseID,
				ItemID:     event.ItemID,
			})

		case realtime.EventAudioDelta:
			_ = conn.WriteJSON(deltaEnvelope{
				Type:       "audio_delta",
				Audio:      event.Delta,
				ResponseID: event.ResponseID,
				ItemID:     event.ItemID,
			})

		case realtime.EventAudioDone:
			_ = conn.WriteJSON(deltaEnvelope{
				Type:       "audio_done",
				ResponseID: event.ResponseID,
				ItemID:     event.ItemID,
			})

		case realtime.EventAudioTranscriptDelta:
			_ = conn.WriteJSON(deltaEnvelope{
				Type:       "audio_transcript_delta",
				Delta:      event.Delta,
				ResponseID: event.ResponseID,
				ItemID:     event.ItemID,
			})

		case realtime.EventAudioTranscriptDone:
			s.persist(sess.email, history.RoleAssistant, event.Transcript, "")

			_ = conn.WriteJSON(transcriptDoneEnvelope{
				Type:       "audio_transcript_done",
				Transcript: event.Transcript,
				ResponseID: event.ResponseID,
				ItemID:     event.ItemID,
			})

		case realtime.EventResponseDone:
			_ = conn.WriteJSON(responseCompleteEnvelope{
				Type:     "response_complete",
				Response: event.Raw,
			})

		case realtime.EventError:
			message := event.ErrMessage
			if message == "" {
				message = "알 수 없는 오류가 발생했습니다."
			}

			slog.Error("Generator error", "sessionId", sess.id, "error", message)

			_ = conn.WriteJSON(errorEnvelope{
				Type:  "error",
				Error: message,
			})

		default:
			slog.Debug("Unhandled generator event", "sessionId", sess.id, "type", event.Type)
		}
	}
}

// handleTranscription filters an ASR transcript before relaying it. Voice
// input only enforces the profanity gate; off-topic speech still flows.
func (s *Service) handleTranscription(sess *session, conn ClientConn, event realtime.Event) {
	transcript := event.Transcript
	if transcript == "" {
		return
	}

	outcome := s.filterSvc.FilterMessage(transcript, true)
	if !outcome.Allowed && outcome.Type == filter.BlockInappropriate {
		_ = conn.WriteJSON(filteredEnvelope{
			Type:        "filtered_message",
			Reason:      outcome.Reason,
			MessageType: string(outcome.Type),
			Response:    outcome.Response,
			IsAudio:     true,
		})
		_ = conn.WriteJSON(textDoneEnvelope{
			Type:       "text_done",
			Text:       outcome.Response,
			ResponseID: "audio_filter_response",
			ItemID:     "audio_filter_item",
			Filtered:   true,
			IsAudio:    true,
		})
		_ = conn.WriteJSON(transcriptionEnvelope{
			Type:          "transcription_complete",
			Transcription: "[부적절한 내용 필터링됨] " + transcript,
			ItemID:        event.ItemID,
			Filtered:      true,
		})

		return
	}

	s.persist(sess.email, history.RoleUser, transcript, "")

	_ = conn.WriteJSON(transcriptionEnvelope{
		Type:          "transcription_complete",
		Transcription: transcript,
		ItemID:        event.ItemID,
		Filtered:      false,
	})
}

// persist writes a turn in the background. Storage failures are logged by
// the history service and never block the relay.
func (s *Service) persist(owner string, role history.Role, text, contextInfo string) {
	if owner == "" || text == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		_ = s.historySvc.Append(ctx, owner, role, text, nil, contextInfo)
	}()
}
