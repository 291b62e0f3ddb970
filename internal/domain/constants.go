package domain

// AllowedDurations is the fixed set of slot lengths in minutes offered by the coach
var AllowedDurations = []int{25, 30, 45, 60, 90, 120}

// IsAllowedDuration returns true if minutes is one of AllowedDurations
func IsAllowedDuration(minutes int) bool {
	for _, d := range AllowedDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// Business validation constants
const (
	MaxNameLength              = 120
	MaxEmailLength             = 254
	MaxPhoneLength             = 40
	MaxMessageLength           = 2000
	MaxContactPreferenceLength = 40
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// SchemaVersion is stamped on every record this service writes.
// Records without it were written by the previous site backend.
const SchemaVersion = 1
