package filter

// Channel distinguishes typed text from ASR transcripts. Transcripts are
// shorter and noisier, so the relevance thresholds differ per channel.
type Channel string

const (
	ChannelText  Channel = "text"
	ChannelAudio Channel = "audio"
)

type RelevanceReason string

const (
	ReasonBlacklisted  RelevanceReason = "blacklisted"
	ReasonInsufficient RelevanceReason = "insufficient"
	ReasonPassed       RelevanceReason = "passed"
)

// BlockType is the machine-readable block category surfaced to the client.
type BlockType string

const (
	BlockInappropriate BlockType = "inappropriate"
	BlockBlacklisted   BlockType = "blacklisted"
	BlockInsufficient  BlockType = "insufficient_keywords"
)

// ContentResult is the outcome of the profanity gate for one message.
type ContentResult struct {
	Blocked     bool
	MatchedTerm string
}

// RelevanceResult is the outcome of the topical gate for one message.
type RelevanceResult struct {
	Relevant         bool
	Reason           RelevanceReason
	Score            int
	Threshold        int
	MatchedKeywords  []string
	MatchedBlacklist []string
}

// Outcome is what the orchestrator acts on: either a block with a canned
// refusal, or a pass with the scoring details attached.
type Outcome struct {
	Allowed         bool
	Reason          string
	Type            BlockType
	Response        string
	Score           int
	MatchedKeywords []string
}

const (
	responseInappropriate = "부적절한 표현이 감지되어 답변을 드릴 수 없습니다.\n\n바른 표현으로 다시 질문해 주시면 성심껏 도와드리겠습니다."

	responseBlacklisted = "죄송합니다. 저는 UMate 통신 서비스 전문 AI입니다.\n\nUMate 요금제나 통신 서비스 관련 질문을 해주세요!"

	responseInsufficient = "죄송합니다. 질문을 정확히 이해하지 못했습니다. 😅\n\n통신 서비스와 관련된 질문을 다시 말씀해 주시면 더 정확한 답변을 드릴 수 있어요!\n\n예: \"요금제 추천해주세요\", \"데이터 사용량 확인하고 싶어요\" 등"
)
