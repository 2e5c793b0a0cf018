package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"umate/app/service/store"

	"github.com/samber/do"
)

// Stable entries feed the periodic knowledge snapshot; volatile ones are
// searched per message for delta context.
var (
	staticServiceCategories  = []string{"부가서비스", "멤버십", "고객지원"}
	dynamicServiceCategories = []string{"이벤트", "공지사항", "임시서비스"}

	staticFAQCategories  = []string{"기본정보", "이용방법", "문의처"}
	dynamicFAQCategories = []string{"최신공지", "변경사항", "임시안내"}
)

const (
	dynamicServiceLimit = 5
	dynamicFAQLimit     = 3
)

type Service struct {
	db *sql.DB
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		db: do.MustInvoke[*store.Service](di).DB,
	}, nil
}

// GetProfile resolves an account by email. Returns nil without error when
// the account does not exist.
func (s *Service) GetProfile(ctx context.Context, email string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT u.name, u.email, u.gender, u.birthday, COALESCE(p.name, '')
		FROM users u
		LEFT JOIN plan_info p ON u.phone_plan = p.id
		WHERE u.email = ?
	`, email)

	var (
		profile  Profile
		gender   sql.NullString
		birthday sql.NullString
	)

	err := row.Scan(&profile.Name, &profile.Email, &gender, &birthday, &profile.PlanName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}

	profile.Gender = gender.String
	profile.Birthday = birthday.String

	return &profile, nil
}

// ListPlans returns the full catalog with benefits and reviews attached.
func (s *Service) ListPlans(ctx context.Context) ([]Plan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, monthly_fee, call_info, call_info_detail, sms_info,
		       data_info, data_info_detail, share_data, age_group,
		       user_count, review_user_count, received_star_count
		FROM plan_info
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := make([]Plan, 0)

	for rows.Next() {
		var (
			plan                                                       Plan
			callInfo, callDetail, smsInfo, dataInfo, dataDetail, share sql.NullString
			ageGroup                                                   sql.NullString
		)

		if err = rows.Scan(&plan.ID, &plan.Name, &plan.MonthlyFee,
			&callInfo, &callDetail, &smsInfo, &dataInfo, &dataDetail, &share,
			&ageGroup, &plan.UserCount, &plan.ReviewCount, &plan.StarTotal); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}

		plan.CallInfo = callInfo.String
		plan.CallInfoDetail = callDetail.String
		plan.SMSInfo = smsInfo.String
		plan.DataInfo = dataInfo.String
		plan.DataInfoDetail = dataDetail.String
		plan.ShareData = share.String
		plan.AgeGroup = ageGroup.String

		plans = append(plans, plan)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read plan rows: %w", err)
	}

	for i := range plans {
		if plans[i].Benefits, err = s.planBenefits(ctx, plans[i].ID); err != nil {
			return nil, err
		}
		if plans[i].Reviews, err = s.planReviews(ctx, plans[i].ID); err != nil {
			return nil, err
		}
	}

	return plans, nil
}

func (s *Service) planBenefits(ctx context.Context, planID int64) ([]Benefit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.name, b.type
		FROM plan_benefit pb
		JOIN benefit_info b ON pb.benefit_id = b.benefit_id
		WHERE pb.plan_id = ?
		ORDER BY b.type, b.name
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan benefits: %w", err)
	}
	defer rows.Close()

	benefits := make([]Benefit, 0)

	for rows.Next() {
		var benefit Benefit
		if err = rows.Scan(&benefit.Name, &benefit.Type); err != nil {
			return nil, fmt.Errorf("failed to scan benefit row: %w", err)
		}
		benefits = append(benefits, benefit)
	}

	return benefits, rows.Err()
}

func (s *Service) planReviews(ctx context.Context, planID int64) ([]Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.star_rating, COALESCE(r.review_content, ''), COALESCE(u.birthday, ''), r.updated_at
		FROM plan_review r
		JOIN users u ON r.user_id = u.id
		WHERE r.plan_id = ?
		ORDER BY r.updated_at DESC
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]Review, 0)

	for rows.Next() {
		var (
			review    Review
			updatedAt int64
		)

		if err = rows.Scan(&review.StarRating, &review.Content, &review.ReviewerBirthday, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}

		review.UpdatedAt = time.Unix(updatedAt, 0)
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

// ActiveEvents returns currently running promotions.
func (s *Service) ActiveEvents(ctx context.Context) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, COALESCE(content, ''), COALESCE(feature, ''), COALESCE(benefit, '')
		FROM event
		WHERE yn = 1
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)

	for rows.Next() {
		var event Event
		if err = rows.Scan(&event.Title, &event.Content, &event.Feature, &event.Benefit); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// StaticServices returns the slow-changing service entries for the snapshot.
func (s *Service) StaticServices(ctx context.Context) ([]ServiceEntry, error) {
	query := `
		SELECT service_name, COALESCE(description, ''), COALESCE(features, ''),
		       COALESCE(usage_guide, ''), category, COALESCE(contact_info, ''), updated_at
		FROM services
		WHERE category IN (?, ?, ?) AND status = 'active'
		ORDER BY category, service_name
	`

	return s.queryServices(ctx, query, toAny(staticServiceCategories)...)
}

// SearchServices matches volatile service entries against a free-form query.
// No match yields an empty slice, never an error.
func (s *Service) SearchServices(ctx context.Context, query string) ([]ServiceEntry, error) {
	like := "%" + query + "%"

	sqlQuery := `
		SELECT service_name, COALESCE(description, ''), COALESCE(features, ''),
		       COALESCE(usage_guide, ''), category, COALESCE(contact_info, ''), updated_at
		FROM services
		WHERE category IN (?, ?, ?) AND status = 'active'
		  AND (service_name LIKE ? OR description LIKE ? OR features LIKE ?)
		ORDER BY updated_at DESC
		LIMIT ?
	`

	args := append(toAny(dynamicServiceCategories), like, like, like, dynamicServiceLimit)

	return s.queryServices(ctx, sqlQuery, args...)
}

func (s *Service) queryServices(ctx context.Context, query string, args ...any) ([]ServiceEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	entries := make([]ServiceEntry, 0)

	for rows.Next() {
		var (
			entry     ServiceEntry
			updatedAt int64
		)

		if err = rows.Scan(&entry.Name, &entry.Description, &entry.Features,
			&entry.UsageGuide, &entry.Category, &entry.ContactInfo, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan service row: %w", err)
		}

		entry.UpdatedAt = time.Unix(updatedAt, 0)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// StaticFAQ returns the slow-changing FAQ entries for the snapshot, most
// frequently asked first.
func (s *Service) StaticFAQ(ctx context.Context) ([]FAQEntry, error) {
	query := `
		SELECT question, answer, category, updated_at
		FROM faq
		WHERE category IN (?, ?, ?) AND status = 'active'
		ORDER BY frequency DESC
	`

	return s.queryFAQ(ctx, query, toAny(staticFAQCategories)...)
}

// SearchFAQ matches volatile FAQ entries (notices, recent changes) against a
// free-form query.
func (s *Service) SearchFAQ(ctx context.Context, query string) ([]FAQEntry, error) {
	like := "%" + query + "%"

	sqlQuery := `
		SELECT question, answer, category, updated_at
		FROM faq
		WHERE category IN (?, ?, ?) AND status = 'active'
		  AND (question LIKE ? OR answer LIKE ? OR keywords LIKE ?)
		ORDER BY updated_at DESC, frequency DESC
		LIMIT ?
	`

	args := append(toAny(dynamicFAQCategories), like, like, like, dynamicFAQLimit)

	return s.queryFAQ(ctx, sqlQuery, args...)
}

func (s *Service) queryFAQ(ctx context.Context, query string, args ...any) ([]FAQEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query faq: %w", err)
	}
	defer rows.Close()

	entries := make([]FAQEntry, 0)

	for rows.Next() {
		var (
			entry     FAQEntry
			updatedAt int64
		)

		if err = rows.Scan(&entry.Question, &entry.Answer, &entry.Category, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan faq row: %w", err)
		}

		entry.UpdatedAt = time.Unix(updatedAt, 0)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func toAny(values []string) []any {
	result := make([]any, len(values))
	for i, v := range values {
		result[i] = v
	}

	return result
}
