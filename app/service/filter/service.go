package filter

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"umate/app/service/lexicon"

	"github.com/samber/do"
)

// The threshold tables are empirically tuned; the sub-threshold branches
// stay separate per channel even where they currently agree, so each remains
// individually tunable.
const (
	textShortLen  = 5
	textMediumLen = 15

	audioShortLen  = 10
	audioMediumLen = 20

	shortThreshold  = 1
	mediumThreshold = 1
	longThreshold   = 2
)

type Service struct {
	lexiconSvc *lexicon.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		lexiconSvc: do.MustInvoke[*lexicon.Service](di),
	}, nil
}

// ClassifyContent runs the hard safety gate over a single message. The first
// case-insensitive substring match in lexicon order wins; terms embedded in
// longer benign words match too, which is an accepted tradeoff.
func (s *Service) ClassifyContent(message string) ContentResult {
	lowerMessage := strings.ToLower(message)

	for _, term := range s.lexiconSvc.Snapshot().BlockedTerms {
		if strings.Contains(lowerMessage, term) {
			return ContentResult{
				Blocked:     true,
				MatchedTerm: term,
			}
		}
	}

	return ContentResult{}
}

// ScoreRelevance decides topical relevance. Blacklisted topics take absolute
// precedence over keyword hits; otherwise each distinct allowed term adds one
// to the score, compared against a length- and channel-adaptive threshold.
func (s *Service) ScoreRelevance(message string, channel Channel) RelevanceResult {
	lowerMessage := strings.ToLower(message)
	snap := s.lexiconSvc.Snapshot()

	var matchedBlacklist []string
	for _, term := range snap.DisallowedTopics {
		if strings.Contains(lowerMessage, term) {
			matchedBlacklist = append(matchedBlacklist, term)
		}
	}

	threshold := relevanceThreshold(utf8.RuneCountInString(message), channel)

	if len(matchedBlacklist) > 0 {
		return RelevanceResult{
			Reason:           ReasonBlacklisted,
			Threshold:        threshold,
			MatchedBlacklist: matchedBlacklist,
		}
	}

	var matchedKeywords []string
	for _, term := range snap.AllowedTerms {
		if strings.Contains(lowerMessage, term) {
			matchedKeywords = append(matchedKeywords, term)
		}
	}

	score := len(matchedKeywords)

	result := RelevanceResult{
		Relevant:        score >= threshold,
		Score:           score,
		Threshold:       threshold,
		MatchedKeywords: matchedKeywords,
	}

	if result.Relevant {
		result.Reason = ReasonPassed
	} else {
		result.Reason = ReasonInsufficient
	}

	return result
}

// FilterMessage applies both gates in fixed order: safety first, topic
// second. A message blocked for profanity is never relevance-scored. For
// audio input only profanity blocks are enforced; ASR transcripts are too
// noisy for the topic gate to reject reliably.
func (s *Service) FilterMessage(message string, isAudio bool) Outcome {
	contentResult := s.ClassifyContent(message)
	if contentResult.Blocked {
		slog.Info("Message blocked",
			"type", BlockInappropriate,
			"term", contentResult.MatchedTerm,
			"audio", isAudio)

		return Outcome{
			Reason:   "부적절한 언어 사용",
			Type:     BlockInappropriate,
			Response: responseInappropriate,
		}
	}

	channel := ChannelText
	if isAudio {
		channel = ChannelAudio
	}

	relevanceResult := s.ScoreRelevance(message, channel)

	if !relevanceResult.Relevant && isAudio {
		slog.Debug("Relevance block suppressed for audio",
			"reason", relevanceResult.Reason,
			"score", relevanceResult.Score,
			"threshold", relevanceResult.Threshold)

		return Outcome{
			Allowed:         true,
			Score:           relevanceResult.Score,
			MatchedKeywords: relevanceResult.MatchedKeywords,
		}
	}

	switch relevanceResult.Reason {
	case ReasonBlacklisted:
		slog.Info("Message blocked",
			"type", BlockBlacklisted,
			"terms", relevanceResult.MatchedBlacklist)

		return Outcome{
			Reason:   "서비스와 무관한 주제",
			Type:     BlockBlacklisted,
			Response: responseBlacklisted,
		}

	case ReasonInsufficient:
		slog.Info("Message blocked",
			"type", BlockInsufficient,
			"score", relevanceResult.Score,
			"threshold", relevanceResult.Threshold)

		return Outcome{
			Reason:   "서비스와 무관한 내용",
			Type:     BlockInsufficient,
			Response: responseInsufficient,
		}
	}

	return Outcome{
		Allowed:         true,
		Score:           relevanceResult.Score,
		MatchedKeywords: relevanceResult.MatchedKeywords,
	}
}

func relevanceThreshold(length int, channel Channel) int {
	if channel == ChannelAudio {
		switch {
		case length < audioShortLen:
			return shortThreshold
		case length < audioMediumLen:
			return mediumThreshold
		default:
			return longThreshold
		}
	}

	switch {
	case length < textShortLen:
		return shortThreshold
	case length < textMediumLen:
		return mediumThreshold
	default:
		return longThreshold
	}
}
