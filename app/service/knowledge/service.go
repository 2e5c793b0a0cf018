package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"umate/app/config"
	"umate/app/service/catalog"
	"umate/app/service/history"

	"github.com/samber/do"
)

type Service struct {
	cfg        *config.Config
	catalogSvc *catalog.Service
	historySvc *history.Service

	mu       sync.RWMutex
	snapshot string
	builtAt  time.Time
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:        do.MustInvoke[*config.Config](di),
		catalogSvc: do.MustInvoke[*catalog.Service](di),
		historySvc: do.MustInvoke[*history.Service](di),
	}, nil
}

// Snapshot returns the current knowledge blob and when it was built. The
// blob is immutable between rebuilds.
func (s *Service) Snapshot() (string, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot, s.builtAt
}

// Refresh rebuilds the knowledge snapshot. On failure the stored snapshot
// degrades to a placeholder so sessions keep working.
func (s *Service) Refresh(ctx context.Context) error {
	text, err := s.buildKnowledge(ctx)
	if err != nil {
		text = knowledgePlaceholder
	}

	s.mu.Lock()
	s.snapshot = text
	s.builtAt = time.Now()
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to build knowledge snapshot: %w", err)
	}

	slog.Info("Knowledge snapshot rebuilt", "size", len(text))

	return nil
}

// RunRefreshLoop rebuilds the snapshot on a fixed interval until ctx ends.
// A single loop serves all sessions; sessions only ever read.
func (s *Service) RunRefreshLoop(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		slog.Error("Initial knowledge refresh failed", "error", err)
	}

	ticker := time.NewTicker(s.cfg.Chat.KnowledgeRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				slog.Error("Knowledge refresh failed", "error", err)
			}
		}
	}
}

func (s *Service) buildKnowledge(ctx context.Context) (string, error) {
	plans, err := s.catalogSvc.ListPlans(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load plans: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("\n\n=== UMate 서비스 정보 ===\n\n")

	formatPlans(&sb, plans)

	events, err := s.catalogSvc.ActiveEvents(ctx)
	if err != nil {
		slog.Error("Failed to load events for snapshot", "error", err)
	} else {
		formatEvents(&sb, events)
	}

	services, err := s.catalogSvc.StaticServices(ctx)
	if err != nil {
		slog.Error("Failed to load static services for snapshot", "error", err)
	} else {
		formatStaticServices(&sb, services)
	}

	faqs, err := s.catalogSvc.StaticFAQ(ctx)
	if err != nil {
		slog.Error("Failed to load static FAQ for snapshot", "error", err)
	} else {
		formatStaticFAQ(&sb, faqs)
	}

	sb.WriteString("=== 서비스 정보 끝 ===\n\n")

	return sb.String(), nil
}

// BuildInitialContext assembles the one-time priming payload for a new
// session: profile facts (or a guest marker), the knowledge snapshot, then
// the prior turns oldest-first. Lookup failures degrade to placeholders;
// the payload is always usable.
func (s *Service) BuildInitialContext(ctx context.Context, owner string, guestHistory []history.Turn) PrimingPayload {
	snapshot, _ := s.Snapshot()
	if snapshot == "" {
		snapshot = knowledgePlaceholder
	}

	intro := s.introText(ctx, owner, snapshot)

	payload := PrimingPayload{
		Items: []PrimingItem{{Role: history.RoleUser, Text: intro}},
	}

	turns := guestHistory
	if owner != "" {
		loaded, err := s.historySvc.LoadRecent(ctx, owner, s.cfg.Chat.HistoryLimit)
		if err != nil {
			slog.Error("Failed to load history for priming", "owner", owner, "error", err)
			loaded = nil
		}
		turns = loaded
	} else if len(turns) > s.cfg.Chat.HistoryLimit {
		turns = turns[len(turns)-s.cfg.Chat.HistoryLimit:]
	}

	for _, turn := range turns {
		if turn.Text == "" && len(turn.Audio) == 0 {
			continue
		}

		payload.Items = append(payload.Items, PrimingItem{
			Role:  turn.Role,
			Text:  turn.Text,
			Audio: turn.Audio,
		})
	}

	return payload
}

func (s *Service) introText(ctx context.Context, owner, snapshot string) string {
	if owner == "" {
		return fmt.Sprintf("%s\n\n%s\n\n%s", guestMarker, snapshot, guestInstruction)
	}

	profile, err := s.catalogSvc.GetProfile(ctx, owner)
	if err != nil {
		slog.Error("Failed to load profile for priming", "owner", owner, "error", err)
		return fmt.Sprintf("%s\n\n%s\n\n%s", profilePlaceholder, snapshot, guestInstruction)
	}

	if profile == nil {
		return fmt.Sprintf("%s\n\n%s\n\n%s", guestMarker, snapshot, guestInstruction)
	}

	userInfo := fmt.Sprintf(
		"사용자 정보: 이름 - %s, 이메일 - %s, 성별 - %s, 생년월일 - %s, 지금 사용 중인 요금제 - %s",
		profile.Name, profile.Email, profile.Gender, profile.Birthday, profile.PlanName)

	return fmt.Sprintf("%s\n\n%s\n\n%s", userInfo, snapshot, memberInstruction)
}

// BuildIncrementalContext returns message-specific dynamic facts to forward
// alongside a user message. It never re-includes the snapshot or history;
// returns empty when nothing volatile matches.
func (s *Service) BuildIncrementalContext(ctx context.Context, message string) string {
	var contexts []string

	services, err := s.catalogSvc.SearchServices(ctx, message)
	if err != nil {
		slog.Error("Dynamic service search failed", "error", err)
	} else {
		formatDynamicServices(&contexts, services)
	}

	faqs, err := s.catalogSvc.SearchFAQ(ctx, message)
	if err != nil {
		slog.Error("Dynamic FAQ search failed", "error", err)
	} else {
		formatDynamicFAQ(&contexts, faqs)
	}

	if len(contexts) == 0 {
		return ""
	}

	return strings.Join(contexts, "\n")
}
