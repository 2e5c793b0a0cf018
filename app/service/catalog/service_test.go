package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"umate/app/service/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	storeSvc, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = storeSvc.Shutdown()
	})

	return &Service{db: storeSvc.DB}
}

func seedCatalog(t *testing.T, svc *Service) {
	t.Helper()

	now := time.Now().Unix()

	statements := []struct {
		query string
		args  []any
	}{
		{
			query: `INSERT INTO plan_info (name, monthly_fee, call_info, call_info_detail, sms_info,
				data_info, data_info_detail, share_data, age_group, user_count, review_user_count, received_star_count)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			args: []any{"5G 라이트", 55000, "무제한", "(부가통화 300분)", "기본제공", "12GB", "+1Mbps", "10GB", "전연령", 1200, 4, 14},
		},
		{
			query: "INSERT INTO benefit_info (name, type) VALUES (?, ?)",
			args:  []any{"넷플릭스", "OTT"},
		},
		{
			query: "INSERT INTO benefit_info (name, type) VALUES (?, ?)",
			args:  []any{"지니뮤직", "음악"},
		},
		{
			query: "INSERT INTO plan_benefit (plan_id, benefit_id) VALUES (1, 1), (1, 2)",
		},
		{
			query: "INSERT INTO users (email, name, gender, birthday, phone_plan) VALUES (?, ?, ?, ?, 1)",
			args:  []any{"kim@umate.co.kr", "김유식", "M", "1999-03-02"},
		},
		{
			query: "INSERT INTO plan_review (plan_id, user_id, star_rating, review_content, updated_at) VALUES (1, 1, 5, ?, ?)",
			args:  []any{"데이터가 넉넉해서 만족해요", now},
		},
		{
			query: "INSERT INTO event (title, content, feature, benefit, yn) VALUES (?, ?, ?, ?, 1)",
			args:  []any{"가을맞이 데이터 2배", "9월 한 달간 데이터 2배 제공", "자동 적용", "추가 요금 없음"},
		},
		{
			query: "INSERT INTO event (title, content, feature, benefit, yn) VALUES (?, ?, ?, ?, 0)",
			args:  []any{"종료된 이벤트", "지난 이벤트", "", ""},
		},
		{
			query: `INSERT INTO services (service_name, description, features, usage_guide, category, contact_info, status, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, 'active', ?)`,
			args: []any{"실버지킴이", "고령자 안심 케어 서비스", "위치 알림", "앱에서 신청", "부가서비스", "1544-0010", now},
		},
		{
			query: `INSERT INTO services (service_name, description, features, usage_guide, category, contact_info, status, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, 'active', ?)`,
			args: []any{"로밍 특가 프로모션", "유럽 로밍 50% 할인", "기간 한정", "자동 적용", "이벤트", "", now},
		},
		{
			query: `INSERT INTO faq (question, answer, category, keywords, status, frequency, updated_at)
				VALUES (?, ?, ?, ?, 'active', ?, ?)`,
			args: []any{"요금제 변경은 어떻게 하나요?", "앱 또는 고객센터에서 가능합니다.", "이용방법", "요금제,변경", 10, now},
		},
		{
			query: `INSERT INTO faq (question, answer, category, keywords, status, frequency, updated_at)
				VALUES (?, ?, ?, ?, 'active', ?, ?)`,
			args: []any{"해지 위약금은 얼마인가요?", "약정에 따라 다릅니다.", "기본정보", "해지,위약금", 3, now},
		},
		{
			query: `INSERT INTO faq (question, answer, category, keywords, status, frequency, updated_at)
				VALUES (?, ?, ?, ?, 'active', ?, ?)`,
			args: []any{"로밍 요금이 인하되었나요?", "9월부터 유럽 로밍 요금이 인하되었습니다.", "최신공지", "로밍,요금", 1, now},
		},
	}

	for _, stmt := range statements {
		_, err := svc.db.Exec(stmt.query, stmt.args...)
		require.NoError(t, err)
	}
}

func TestGetProfile(t *testing.T) {
	svc := newTestService(t)
	seedCatalog(t, svc)
	ctx := context.Background()

	profile, err := svc.GetProfile(ctx, "kim@umate.co.kr")
	require.NoError(t, err)
	require.NotNil(t, profile)

	assert.Equal(t, "김유식", profile.Name)
	assert.Equal(t, "kim@umate.co.kr", profile.Email)
	assert.Equal(t, "1999-03-02", profile.Birthday)
	assert.Equal(t, "5G 라이트", profile.PlanName)

	missing, err := svc.GetProfile(ctx, "nobody@umate.co.kr")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListPlans(t *testing.T) {
	svc := newTestService(t)
	seedCatalog(t, svc)

	plans, err := svc.ListPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)

	plan := plans[0]
	assert.Equal(t, "5G 라이트", plan.Name)
	assert.Equal(t, 55000, plan.MonthlyFee)
	assert.Equal(t, 4, plan.ReviewCount)
	assert.Equal(t, 14, plan.StarTotal)

	require.Len(t, plan.Benefits, 2)
	require.Len(t, plan.Reviews, 1)
	assert.Equal(t, 5, plan.Reviews[0].StarRating)
	assert.Equal(t, "데이터가 넉넉해서 만족해요", plan.Reviews[0].Content)
	assert.Equal(t, "1999-03-02", plan.Reviews[0].ReviewerBirthday)
}

func TestListPlansEmpty(t *testing.T) {
	svc := newTestService(t)

	plans, err := svc.ListPlans(context.Background())
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestActiveEvents(t *testing.T) {
	svc := newTestService(t)
	seedCatalog(t, svc)

	events, err := svc.ActiveEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "가을맞이 데이터 2배", events[0].Title)
}

func TestStaticServices(t *testing.T) {
	svc := newTestService(t)
	seedCatalog(t, svc)

	entries, err := svc.StaticServices(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// only stable categories belong to the snapshot
	assert.Equal(t, "실버지킴이", entries[0].Name)
	assert.Equal(t, "부가서비스", entries[0].Category)
}

func TestSearchServices(t *testing.T) {
	svc := newTestService(t)
	seedCatalog(t, svc)
	ctx := context.Background()

	entries, err := svc.SearchServices(ctx, "로밍")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "로밍 특가 프로모션", entries[0].Name)

	// static entries never surface through dynamic search
	entries, err = svc.SearchServices(ctx, "실버지킴이")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = svc.SearchServices(ctx, "존재하지않는서비스")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStaticFAQOrderedByFrequency(t *testing.T) {
	svc := newTestService(t)
	seedCatalog(t, svc)

	entries, err := svc.StaticFAQ(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "요금제 변경은 어떻게 하나요?", entries[0].Question)
	assert.Equal(t, "해지 위약금은 얼마인가요?", entries[1].Question)
}

func TestSearchFAQ(t *testing.T) {
	svc := newTestService(t)
	seedCatalog(t, svc)
	ctx := context.Background()

	entries, err := svc.SearchFAQ(ctx, "로밍")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "최신공지", entries[0].Category)

	entries, err = svc.SearchFAQ(ctx, "존재하지않는질문")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
