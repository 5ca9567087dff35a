package domain

// ScreenKind selects the template a public display renders.
type ScreenKind string

const (
	ScreenAnnouncement ScreenKind = "ANNOUNCEMENT"
	ScreenPrayerTimes  ScreenKind = "PRAYER_TIMES"
	ScreenFeeReminder  ScreenKind = "FEE_REMINDER"
)

// IsValid reports whether k is a known screen kind.
func (k ScreenKind) IsValid() bool {
	switch k {
	case ScreenAnnouncement, ScreenPrayerTimes, ScreenFeeReminder:
		return true
	}
	return false
}

// PublicScreen is content shown on a public-facing display.
type PublicScreen struct {
	ScreenID       string     `json:"screenID"`
	Slug           string     `json:"slug"`
	Name           string     `json:"name"`
	Kind           ScreenKind `json:"kind"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	IsActive       bool       `json:"isActive"`
	RefreshSeconds int        `json:"refreshSeconds"`
	SortOrder      int        `json:"sortOrder"`
	AuditFields
}
