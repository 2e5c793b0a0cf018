package lexicon

// Seed terms for the three sets. All entries are stored lower-cased and
// matched as case-insensitive substrings.

var defaultBlockedTerms = []string{
	// profanity
	"씨발", "시발", "개새끼", "새끼", "병신", "지랄", "꺼져", "죽어",
	"바보", "멍청이", "똥", "개똥", "미친", "또라이", "정신병",
	// english profanity
	"fuck", "shit", "damn", "bitch", "asshole", "stupid", "idiot",
	// self-harm / violence
	"죽고싶", "자살", "폭력", "때리", "죽이",
}

var defaultDisallowedTopics = []string{
	// off-domain subjects the assistant must not engage with
	"양자역학", "주식", "비트코인", "코인 시세", "도박", "로또", "정치", "종교",
	"요리법", "레시피", "영화 추천", "드라마 추천", "게임 공략", "스포츠 경기",
	"숙제", "과제 대신",
	"gambling", "lottery", "stock market", "recipe", "homework",
}

var defaultAllowedTerms = []string{
	// telecom services
	"요금제", "통신", "전화", "문자", "데이터", "인터넷", "와이파이", "wifi",
	"통화", "sms", "mms", "로밍", "충전", "결제", "청구", "요금",
	"할인", "혜택", "포인트", "쿠폰", "이벤트", "프로모션",
	// customer service
	"문의", "상담", "신청", "가입", "해지", "변경", "이용", "사용",
	"서비스", "고객", "지원", "도움", "안내", "정보", "확인",
	// greetings and generic question fillers
	"안녕", "감사", "고마", "죄송", "미안", "실례",
	"궁금", "알고싶", "어떻게", "언제", "어디서", "무엇", "왜",
}
