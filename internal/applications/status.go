package applications

import "hearthub/internal/models"

// BadgeVariant is the visual style of a status badge.
type BadgeVariant string

const (
	BadgeSecondary       BadgeVariant = "secondary"
	BadgeDefault         BadgeVariant = "default"
	BadgeDestructive     BadgeVariant = "destructive"
	BadgeDefaultUnstyled BadgeVariant = "default-unstyled"
)

type Badge struct {
	Label   string       `json:"label"`
	Variant BadgeVariant `json:"variant"`
	Icon    string       `json:"icon,omitempty"`
}

// StatusBadge maps an application status to its badge. Unknown statuses show
// the raw value unstyled.
func StatusBadge(status string) Badge {
	switch status {
	case models.ApplicationStatusPending:
		return Badge{Label: "Pending", Variant: BadgeSecondary, Icon: "clock"}
	case models.ApplicationStatusApproved:
		return Badge{Label: "Approved", Variant: BadgeDefault, Icon: "check"}
	case models.ApplicationStatusRejected:
		return Badge{Label: "Rejected", Variant: BadgeDestructive, Icon: "x"}
	default:
		return Badge{Label: status, Variant: BadgeDefaultUnstyled}
	}
}

// StatusMessage is the applicant-facing sentence for a status, empty when unknown.
func StatusMessage(status string) string {
	switch status {
	case models.ApplicationStatusPending:
		return "Under review by property owner"
	case models.ApplicationStatusApproved:
		return "Congratulations! Your application has been approved."
	case models.ApplicationStatusRejected:
		return "Application was not approved at this time"
	default:
		return ""
	}
}

// StatusHolder is anything with an application status.
type StatusHolder interface {
	GetStatus() string
}

type ApplicationStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// CalculateApplicationStats counts items per status. Total includes items
// whose status is not one of the three known values.
func CalculateApplicationStats[T StatusHolder](items []T) ApplicationStats {
	stats := ApplicationStats{Total: len(items)}
	for _, item := range items {
		switch item.GetStatus() {
		case models.ApplicationStatusPending:
			stats.Pending++
		case models.ApplicationStatusApproved:
			stats.Approved++
		case models.ApplicationStatusRejected:
			stats.Rejected++
		}
	}
	return stats
}
