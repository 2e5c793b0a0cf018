package filter

import (
	"testing"

	"umate/app/service/lexicon"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *lexicon.Service) {
	t.Helper()

	di := do.New()
	t.Cleanup(func() {
		_ = di.Shutdown()
	})

	do.Provide(di, lexicon.New)
	do.Provide(di, New)

	return do.MustInvoke[*Service](di), do.MustInvoke[*lexicon.Service](di)
}

func TestClassifyContent(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name    string
		message string
		blocked bool
		term    string
	}{
		{name: "korean profanity", message: "씨발 뭐야", blocked: true, term: "씨발"},
		{name: "embedded profanity", message: "이 멍청이야", blocked: true, term: "멍청이"},
		{name: "uppercase english", message: "FUCK you", blocked: true, term: "fuck"},
		// substring matching inside benign words is an accepted tradeoff
		{name: "benign word containing term", message: "mishit the ball", blocked: true, term: "shit"},
		{name: "empty message", message: "", blocked: false},
		{name: "clean question", message: "요금제 추천해주세요", blocked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.ClassifyContent(tt.message)

			assert.Equal(t, tt.blocked, result.Blocked)
			assert.Equal(t, tt.term, result.MatchedTerm)
		})
	}
}

func TestScoreRelevanceBlacklistPrecedence(t *testing.T) {
	svc, _ := newTestService(t)

	// keyword hits are present but the blacklisted topic wins
	result := svc.ScoreRelevance("요금제랑 비트코인 알려줘", ChannelText)

	assert.False(t, result.Relevant)
	assert.Equal(t, ReasonBlacklisted, result.Reason)
	assert.Contains(t, result.MatchedBlacklist, "비트코인")
}

func TestScoreRelevanceThresholds(t *testing.T) {
	svc, _ := newTestService(t)

	t.Run("short greeting passes with one keyword", func(t *testing.T) {
		result := svc.ScoreRelevance("안녕", ChannelText)

		assert.True(t, result.Relevant)
		assert.Equal(t, ReasonPassed, result.Reason)
		assert.Equal(t, 1, result.Threshold)
	})

	t.Run("long message needs two keywords", func(t *testing.T) {
		result := svc.ScoreRelevance("내일 날씨가 어떤지 정말 궁금합니다 제발요", ChannelText)

		assert.False(t, result.Relevant)
		assert.Equal(t, ReasonInsufficient, result.Reason)
		assert.Equal(t, 2, result.Threshold)
		assert.Equal(t, 1, result.Score)
	})

	t.Run("long message with enough keywords passes", func(t *testing.T) {
		result := svc.ScoreRelevance("안녕하세요, 요금제 추천해주세요", ChannelText)

		assert.True(t, result.Relevant)
		assert.GreaterOrEqual(t, result.Score, 2)
	})
}

func TestRelevanceThreshold(t *testing.T) {
	tests := []struct {
		length  int
		channel Channel
		want    int
	}{
		{length: 4, channel: ChannelText, want: 1},
		{length: 5, channel: ChannelText, want: 1},
		{length: 14, channel: ChannelText, want: 1},
		{length: 15, channel: ChannelText, want: 2},
		{length: 9, channel: ChannelAudio, want: 1},
		{length: 19, channel: ChannelAudio, want: 1},
		{length: 20, channel: ChannelAudio, want: 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, relevanceThreshold(tt.length, tt.channel),
			"length=%d channel=%s", tt.length, tt.channel)
	}
}

func TestFilterMessage(t *testing.T) {
	svc, _ := newTestService(t)

	t.Run("profanity blocked", func(t *testing.T) {
		outcome := svc.FilterMessage("씨발 뭐야", false)

		require.False(t, outcome.Allowed)
		assert.Equal(t, BlockInappropriate, outcome.Type)
		assert.NotEmpty(t, outcome.Response)
	})

	t.Run("blacklisted topic blocked", func(t *testing.T) {
		outcome := svc.FilterMessage("주식 시세 알려줘", false)

		require.False(t, outcome.Allowed)
		assert.Equal(t, BlockBlacklisted, outcome.Type)
	})

	t.Run("insufficient keywords blocked", func(t *testing.T) {
		outcome := svc.FilterMessage("내일 날씨 알려줄래?", false)

		require.False(t, outcome.Allowed)
		assert.Equal(t, BlockInsufficient, outcome.Type)
	})

	t.Run("relevant message passes", func(t *testing.T) {
		outcome := svc.FilterMessage("안녕하세요, 요금제 추천해주세요", false)

		require.True(t, outcome.Allowed)
		assert.NotEmpty(t, outcome.MatchedKeywords)
	})

	t.Run("audio profanity still blocked", func(t *testing.T) {
		outcome := svc.FilterMessage("씨발 뭐야", true)

		require.False(t, outcome.Allowed)
		assert.Equal(t, BlockInappropriate, outcome.Type)
	})

	t.Run("audio off-topic allowed", func(t *testing.T) {
		outcome := svc.FilterMessage("주식 시세 알려줘", true)

		assert.True(t, outcome.Allowed)
	})

	t.Run("audio low score allowed", func(t *testing.T) {
		outcome := svc.FilterMessage("내일 날씨 알려줄래?", true)

		assert.True(t, outcome.Allowed)
	})

	t.Run("block responses differ per type", func(t *testing.T) {
		inappropriate := svc.FilterMessage("씨발", false)
		blacklisted := svc.FilterMessage("주식 시세 알려줘", false)
		insufficient := svc.FilterMessage("내일 날씨 알려줄래?", false)

		assert.NotEqual(t, inappropriate.Response, blacklisted.Response)
		assert.NotEqual(t, blacklisted.Response, insufficient.Response)
	})
}

func TestClassificationIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)

	messages := []string{"", "안녕", "씨발", "주식 시세 알려줘", "안녕하세요, 요금제 추천해주세요"}

	for _, message := range messages {
		assert.Equal(t, svc.ClassifyContent(message), svc.ClassifyContent(message))
		assert.Equal(t, svc.ScoreRelevance(message, ChannelText), svc.ScoreRelevance(message, ChannelText))
		assert.Equal(t, svc.ScoreRelevance(message, ChannelAudio), svc.ScoreRelevance(message, ChannelAudio))
	}
}

func TestFilterRespectsLexiconUpdates(t *testing.T) {
	svc, lexiconSvc := newTestService(t)

	message := "늑대인간 요금제 문의"

	require.True(t, svc.FilterMessage(message, false).Allowed)

	require.True(t, lexiconSvc.AddBlockedTerm("늑대인간"))

	outcome := svc.FilterMessage(message, false)
	require.False(t, outcome.Allowed)
	assert.Equal(t, BlockInappropriate, outcome.Type)
}
