package schedule

import (
	"fmt"
	"time"
)

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

// ClockTime formats t as a zero-padded 24h "HH:MM" string in local time.
// Slot windows are compared lexically on these strings, which is only
// correct because both sides are zero-padded.
func ClockTime(t time.Time) string {
	return t.Format(clockLayout)
}

// DateOf formats t as "YYYY-MM-DD" in local time.
func DateOf(t time.Time) string {
	return t.Format(dateLayout)
}

// ValidClockTime reports whether s parses as a zero-padded "HH:MM".
func ValidClockTime(s string) bool {
	parsed, err := time.Parse(clockLayout, s)
	return err == nil && parsed.Format(clockLayout) == s
}

// ValidateWindow checks the invariants a slot window must satisfy before it
// is persisted: well-formed times, start <= end (midnight-spanning windows
// are unsupported), at least one weekday, and ordered calendar bounds when
// both are present. The resolver itself never validates; it silently skips
// slots that would fail here.
func ValidateWindow(startTime, endTime string, days []int, startDate, endDate *time.Time) error {
	if !ValidClockTime(startTime) {
		return fmt.Errorf("invalid start_time %q, want HH:MM", startTime)
	}
	if !ValidClockTime(endTime) {
		return fmt.Errorf("invalid end_time %q, want HH:MM", endTime)
	}
	if startTime > endTime {
		return fmt.Errorf("start_time %s is after end_time %s: windows cannot span midnight", startTime, endTime)
	}
	if len(days) == 0 {
		return fmt.Errorf("days must name at least one weekday")
	}
	for _, d := range days {
		if d < 0 || d > 6 {
			return fmt.Errorf("invalid weekday %d, want 0 (Sunday) through 6 (Saturday)", d)
		}
	}
	if startDate != nil && endDate != nil && DateOf(*startDate) > DateOf(*endDate) {
		return fmt.Errorf("start_date is after end_date")
	}
	return nil
}
