package lexicon

import (
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

// Snapshot is an immutable view of the three term sets. Readers hold on to
// one snapshot for the duration of a classification call and never observe
// a set mid-mutation.
type Snapshot struct {
	Version          uint64
	BlockedTerms     []string
	DisallowedTopics []string
	AllowedTerms     []string
}

type Stats struct {
	Version          uint64    `json:"version"`
	BlockedTerms     int       `json:"blocked_terms"`
	DisallowedTopics int       `json:"disallowed_topics"`
	AllowedTerms     int       `json:"allowed_terms"`
	LastUpdated      time.Time `json:"last_updated"`
}

type Service struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	updated atomic.Pointer[time.Time]
}

func New(_ *do.Injector) (*Service, error) {
	s := &Service{}

	now := time.Now()
	s.updated.Store(&now)
	s.current.Store(&Snapshot{
		Version:          1,
		BlockedTerms:     fold(defaultBlockedTerms),
		DisallowedTopics: fold(defaultDisallowedTopics),
		AllowedTerms:     fold(defaultAllowedTerms),
	})

	return s, nil
}

func (s *Service) Snapshot() *Snapshot {
	return s.current.Load()
}

func (s *Service) Stats() Stats {
	snap := s.current.Load()

	return Stats{
		Version:          snap.Version,
		BlockedTerms:     len(snap.BlockedTerms),
		DisallowedTopics: len(snap.DisallowedTopics),
		AllowedTerms:     len(snap.AllowedTerms),
		LastUpdated:      *s.updated.Load(),
	}
}

func (s *Service) AddBlockedTerm(term string) bool {
	return s.mutate(term, "blocked term added", func(snap *Snapshot, t string) bool {
		if pie.Contains(snap.BlockedTerms, t) {
			return false
		}
		snap.BlockedTerms = append(snap.BlockedTerms, t)
		return true
	})
}

func (s *Service) RemoveBlockedTerm(term string) bool {
	return s.mutate(term, "blocked term removed", func(snap *Snapshot, t string) bool {
		return removeTerm(&snap.BlockedTerms, t)
	})
}

func (s *Service) AddDisallowedTopic(term string) bool {
	return s.mutate(term, "disallowed topic added", func(snap *Snapshot, t string) bool {
		if pie.Contains(snap.DisallowedTopics, t) {
			return false
		}
		snap.DisallowedTopics = append(snap.DisallowedTopics, t)
		return true
	})
}

func (s *Service) RemoveDisallowedTopic(term string) bool {
	return s.mutate(term, "disallowed topic removed", func(snap *Snapshot, t string) bool {
		return removeTerm(&snap.DisallowedTopics, t)
	})
}

func (s *Service) AddAllowedTerm(term string) bool {
	return s.mutate(term, "allowed term added", func(snap *Snapshot, t string) bool {
		if pie.Contains(snap.AllowedTerms, t) {
			return false
		}
		snap.AllowedTerms = append(snap.AllowedTerms, t)
		return true
	})
}

func (s *Service) RemoveAllowedTerm(term string) bool {
	return s.mutate(term, "allowed term removed", func(snap *Snapshot, t string) bool {
		return removeTerm(&snap.AllowedTerms, t)
	})
}

// mutate clones the current snapshot, applies fn to the clone and publishes
// it with a bumped version. The write lock serializes writers only; readers
// keep loading the previous snapshot until the swap.
func (s *Service) mutate(term, event string, fn func(snap *Snapshot, term string) bool) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Load().clone()
	if !fn(next, term) {
		return false
	}

	next.Version++
	now := time.Now()
	s.updated.Store(&now)
	s.current.Store(next)

	slog.Info("Lexicon updated", "event", event, "term", term, "version", next.Version)

	return true
}

func (s *Snapshot) clone() *Snapshot {
	return &Snapshot{
		Version:          s.Version,
		BlockedTerms:     append([]string(nil), s.BlockedTerms...),
		DisallowedTopics: append([]string(nil), s.DisallowedTopics...),
		AllowedTerms:     append([]string(nil), s.AllowedTerms...),
	}
}

func removeTerm(set *[]string, term string) bool {
	idx := pie.FindFirstUsing(*set, func(t string) bool { return t == term })
	if idx < 0 {
		return false
	}

	*set = append((*set)[:idx], (*set)[idx+1:]...)

	return true
}

func fold(terms []string) []string {
	folded := make([]string, 0, len(terms))

	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || pie.Contains(folded, term) {
			continue
		}
		folded = append(folded, term)
	}

	return folded
}
