package domain

import "time"

// FirmFacts carries the caller-supplied business facts bound into every
// document. The pipeline never invents values for these: an absent field
// stays blank in the output rather than receiving a plausible default.
type FirmFacts struct {
	FirmName       string `json:"firm_name"`
	WorkEmail      string `json:"work_email"`
	PhoneNumber    string `json:"phone_number"`
	Website        string `json:"firm_website"`
	Tagline        string `json:"tagline"`
	PrimaryColor   string `json:"primary_brand_color"`
	SecondaryColor string `json:"secondary_brand_color"`
	AccentColor    string `json:"accent_brand_color"`
	LogoURL        string `json:"logo_url"`
}

// FirmProfile is the stored firm record a user maintains once and reuses
// across generations.
type FirmProfile struct {
	UserID    string
	Facts     FirmFacts
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GenerationRequest holds the user's answers describing the desired content.
// Transient input; not persisted beyond the job payload.
type GenerationRequest struct {
	LeadMagnetType  string   `json:"lead_magnet_type"`
	MainTopic       string   `json:"main_topic"`
	TargetAudience  []string `json:"target_audience"`
	PainPoints      []string `json:"audience_pain_points"`
	DesiredOutcome  string   `json:"desired_outcome"`
	CallToAction    string   `json:"call_to_action"`
	SpecialRequests string   `json:"special_requests"`
	Industry        string   `json:"industry"`
}
