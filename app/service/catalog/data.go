package catalog

import "time"

// Profile is the account shape surfaced to the context assembler.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Gender   string `json:"gender,omitempty"`
	Birthday string `json:"birthday,omitempty"`
	PlanName string `json:"plan_name,omitempty"`
}

type Plan struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	MonthlyFee     int    `json:"monthly_fee"`
	CallInfo       string `json:"call_info"`
	CallInfoDetail string `json:"call_info_detail,omitempty"`
	SMSInfo        string `json:"sms_info"`
	DataInfo       string `json:"data_info"`
	DataInfoDetail string `json:"data_info_detail,omitempty"`
	ShareData      string `json:"share_data,omitempty"`
	AgeGroup       string `json:"age_group"`
	UserCount      int    `json:"user_count"`
	ReviewCount    int    `json:"review_count"`
	StarTotal      int    `json:"star_total"`

	Benefits []Benefit `json:"benefits"`
	Reviews  []Review  `json:"reviews"`
}

type Benefit struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Review struct {
	StarRating       int       `json:"star_rating"`
	Content          string    `json:"content"`
	ReviewerBirthday string    `json:"reviewer_birthday,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Event struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Feature string `json:"feature,omitempty"`
	Benefit string `json:"benefit,omitempty"`
}

type ServiceEntry struct {
	Name        string    `json:"service_name"`
	Description string    `json:"description"`
	Features    string    `json:"features,omitempty"`
	UsageGuide  string    `json:"usage_guide,omitempty"`
	Category    string    `json:"category"`
	ContactInfo string    `json:"contact_info,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type FAQEntry struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category"`
	UpdatedAt time.Time `json:"updated_at"`
}
