package knowledge

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"umate/app/service/catalog"

	"github.com/stretchr/testify/assert"
)

func TestAverageRating(t *testing.T) {
	assert.Equal(t, "평점 없음", averageRating(catalog.Plan{}))
	assert.Equal(t, "3.5", averageRating(catalog.Plan{ReviewCount: 4, StarTotal: 14}))
	assert.Equal(t, "5.0", averageRating(catalog.Plan{ReviewCount: 1, StarTotal: 5}))
}

func TestAgeGroup(t *testing.T) {
	assert.Equal(t, "알 수 없음", ageGroup(""))
	assert.Equal(t, "알 수 없음", ageGroup("not-a-date"))

	birthday := fmt.Sprintf("%d-01-01", time.Now().Year()-25)
	assert.Equal(t, "20대", ageGroup(birthday))
}

func TestFormatPlansGroupsBenefitsByType(t *testing.T) {
	plan := catalog.Plan{
		Name:       "5G 라이트",
		MonthlyFee: 55000,
		CallInfo:   "무제한",
		SMSInfo:    "기본제공",
		DataInfo:   "12GB",
		AgeGroup:   "전연령",
		Benefits: []catalog.Benefit{
			{Name: "넷플릭스", Type: "OTT"},
			{Name: "디즈니플러스", Type: "OTT"},
			{Name: "지니뮤직", Type: "음악"},
		},
	}

	var sb strings.Builder
	formatPlans(&sb, []catalog.Plan{plan})
	out := sb.String()

	assert.Contains(t, out, "• 요금제 정보: 5G 라이트")
	assert.Contains(t, out, "- 가격: 55000원")
	assert.Contains(t, out, "- 리뷰 평점: 평점 없음")

	// each benefit type appears once as a group header
	assert.Equal(t, 1, strings.Count(out, "• OTT"))
	assert.Equal(t, 1, strings.Count(out, "• 음악"))
	assert.Contains(t, out, "- 넷플릭스")
	assert.Contains(t, out, "- 디즈니플러스")
}

func TestFormatDynamicSectionsSkipEmpty(t *testing.T) {
	var contexts []string

	formatDynamicServices(&contexts, nil)
	formatDynamicFAQ(&contexts, nil)

	assert.Empty(t, contexts)
}

func TestFormatDynamicServices(t *testing.T) {
	var contexts []string

	formatDynamicServices(&contexts, []catalog.ServiceEntry{{
		Name:        "로밍 특가 프로모션",
		Description: "유럽 로밍 50% 할인",
		Features:    "기간 한정",
		UpdatedAt:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}})

	joined := strings.Join(contexts, "\n")
	assert.Contains(t, joined, "📅 최신 서비스 정보:")
	assert.Contains(t, joined, "로밍 특가 프로모션: 유럽 로밍 50% 할인")
	assert.Contains(t, joined, "(2026-09-01 업데이트)")
}
