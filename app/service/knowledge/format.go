package knowledge

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"umate/app/service/catalog"
)

func formatPlans(sb *strings.Builder, plans []catalog.Plan) {
	sb.WriteString("📋 제공 서비스 목록:\n")

	for _, plan := range plans {
		fmt.Fprintf(sb, "• 요금제 정보: %s\n", plan.Name)
		fmt.Fprintf(sb, "  - 가격: %d원\n", plan.MonthlyFee)
		fmt.Fprintf(sb, "  - 음성통화: %s %s\n", plan.CallInfo, plan.CallInfoDetail)
		fmt.Fprintf(sb, "  - 문자메시지: %s\n", plan.SMSInfo)
		fmt.Fprintf(sb, "  - 데이터: %s %s\n", plan.DataInfo, plan.DataInfoDetail)
		if plan.ShareData != "" {
			fmt.Fprintf(sb, "  - 공유 데이터: %s\n", plan.ShareData)
		}
		fmt.Fprintf(sb, "  - 이용 가능 연령: %s\n", plan.AgeGroup)
		fmt.Fprintf(sb, "  - 사용자 수: %d명\n", plan.UserCount)
		fmt.Fprintf(sb, "  - 리뷰 평점: %s\n", averageRating(plan))

		sb.WriteString("  - 리뷰: \n")
		for _, review := range plan.Reviews {
			fmt.Fprintf(sb, "    • %d점\n", review.StarRating)
			fmt.Fprintf(sb, "      - 연령 : %s\n", ageGroup(review.ReviewerBirthday))
			fmt.Fprintf(sb, "      - 내용 : %s\n", review.Content)
			fmt.Fprintf(sb, "      - 최종 수정일 : %s\n", review.UpdatedAt.Format("2006-01-02"))
		}

		sb.WriteString("  - 혜택: \n")
		currentType := ""
		for _, benefit := range plan.Benefits {
			if benefit.Type != currentType {
				currentType = benefit.Type
				fmt.Fprintf(sb, "    • %s\n", currentType)
			}
			fmt.Fprintf(sb, "      - %s\n", benefit.Name)
		}

		sb.WriteString("\n")
	}
}

func formatEvents(sb *strings.Builder, events []catalog.Event) {
	for _, event := range events {
		fmt.Fprintf(sb, "• 이벤트 이름: %s\n", event.Title)
		fmt.Fprintf(sb, "  - 이벤트 내용: %s\n", event.Content)
		fmt.Fprintf(sb, "  - 이벤트 특징: %s\n", event.Feature)
		fmt.Fprintf(sb, "  - 이벤트 혜택: %s\n", event.Benefit)
	}
}

func formatStaticServices(sb *strings.Builder, entries []catalog.ServiceEntry) {
	if len(entries) == 0 {
		return
	}

	sb.WriteString("\n📋 부가 서비스 목록:\n")

	currentCategory := ""
	for _, entry := range entries {
		if entry.Category != currentCategory {
			currentCategory = entry.Category
			fmt.Fprintf(sb, "\n[%s]\n", currentCategory)
		}
		fmt.Fprintf(sb, "• %s: %s\n", entry.Name, entry.Description)
		if entry.Features != "" {
			fmt.Fprintf(sb, "  - 주요 기능: %s\n", entry.Features)
		}
		if entry.UsageGuide != "" {
			fmt.Fprintf(sb, "  - 이용 방법: %s\n", entry.UsageGuide)
		}
		if entry.ContactInfo != "" {
			fmt.Fprintf(sb, "  - 문의처: %s\n", entry.ContactInfo)
		}
	}
}

func formatStaticFAQ(sb *strings.Builder, entries []catalog.FAQEntry) {
	if len(entries) == 0 {
		return
	}

	sb.WriteString("\n❓ 기본 FAQ:\n")

	currentCategory := ""
	for _, entry := range entries {
		if entry.Category != currentCategory {
			currentCategory = entry.Category
			fmt.Fprintf(sb, "\n[%s]\n", currentCategory)
		}
		fmt.Fprintf(sb, "Q: %s\n", entry.Question)
		fmt.Fprintf(sb, "A: %s\n\n", entry.Answer)
	}
}

func formatDynamicServices(contexts *[]string, entries []catalog.ServiceEntry) {
	if len(entries) == 0 {
		return
	}

	*contexts = append(*contexts, "📅 최신 서비스 정보:")
	for _, entry := range entries {
		*contexts = append(*contexts, fmt.Sprintf("- %s: %s", entry.Name, entry.Description))
		if entry.Features != "" {
			*contexts = append(*contexts, fmt.Sprintf("  주요 기능: %s", entry.Features))
		}
		if entry.UsageGuide != "" {
			*contexts = append(*contexts, fmt.Sprintf("  이용 방법: %s", entry.UsageGuide))
		}
		*contexts = append(*contexts, fmt.Sprintf("  (%s 업데이트)", entry.UpdatedAt.Format("2006-01-02")))
	}
}

func formatDynamicFAQ(contexts *[]string, entries []catalog.FAQEntry) {
	if len(entries) == 0 {
		return
	}

	*contexts = append(*contexts, "\n📢 최신 공지/변경사항:")
	for _, entry := range entries {
		*contexts = append(*contexts, fmt.Sprintf("Q: %s", entry.Question))
		*contexts = append(*contexts, fmt.Sprintf("A: %s", entry.Answer))
		*contexts = append(*contexts, fmt.Sprintf("(%s 업데이트)\n", entry.UpdatedAt.Format("2006-01-02")))
	}
}

func averageRating(plan catalog.Plan) string {
	if plan.ReviewCount <= 0 {
		return "평점 없음"
	}

	return strconv.FormatFloat(float64(plan.StarTotal)/float64(plan.ReviewCount), 'f', 1, 64)
}

// ageGroup reduces a birthday like "1999-03-02" to a decade label.
func ageGroup(birthday string) string {
	parsed, err := time.Parse("2006-01-02", birthday)
	if err != nil {
		return "알 수 없음"
	}

	age := time.Now().Year() - parsed.Year()
	decade := age / 10 * 10

	return fmt.Sprintf("%d대", decade)
}
