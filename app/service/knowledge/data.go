package knowledge

import "umate/app/service/history"

// PrimingItem is one synthetic turn replayed to the generator at session
// start. The first item carries the profile + knowledge bundle; the rest
// re-emit prior turns with their original roles.
type PrimingItem struct {
	Role  history.Role
	Text  string
	Audio []byte
}

// PrimingPayload is the one-time context bundle for a new session.
type PrimingPayload struct {
	Items []PrimingItem
}

const (
	knowledgePlaceholder = "\n\n※ 현재 서비스 정보를 불러올 수 없습니다.\n\n"
	profilePlaceholder   = "※ 사용자 정보를 확인할 수 없습니다."
	guestMarker          = "게스트 사용자입니다."

	memberInstruction = "위 사용자 정보와 서비스 정보를 참고하여 사용자에게 맞춤형 답변을 제공해주세요."
	guestInstruction  = "위 서비스 정보를 참고하여 답변을 제공해주세요."
)
