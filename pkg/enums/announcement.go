package enums

import "fmt"

// AnnouncementType distinguishes plain announcements from dated events.
type AnnouncementType string

const (
	AnnouncementTypeAnnouncement AnnouncementType = "announcement"
	AnnouncementTypeEvent        AnnouncementType = "event"
)

var validAnnouncementTypes = []AnnouncementType{
	AnnouncementTypeAnnouncement,
	AnnouncementTypeEvent,
}

// String implements fmt.Stringer.
func (a AnnouncementType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AnnouncementType.
func (a AnnouncementType) IsValid() bool {
	for _, candidate := range validAnnouncementTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnnouncementType converts raw input into an AnnouncementType.
func ParseAnnouncementType(value string) (AnnouncementType, error) {
	for _, candidate := range validAnnouncementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid announcement type %q", value)
}
