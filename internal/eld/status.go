package eld

import "fmt"

// DutyStatus is one of the four duty-status categories an ELD log records.
type DutyStatus int

const (
	// StatusOffDuty is also the fallback for activity types the classifier
	// does not recognize, and the sink for summary reconciliation.
	StatusOffDuty DutyStatus = iota
	StatusSleeperBerth
	StatusDriving
	// StatusOnDuty covers on-duty time that is not driving (pickup,
	// drop-off, refueling).
	StatusOnDuty
)

// AllStatuses lists every duty status in grid order (top row first).
var AllStatuses = [4]DutyStatus{StatusOffDuty, StatusSleeperBerth, StatusDriving, StatusOnDuty}

func (s DutyStatus) String() string {
	switch s {
	case StatusOffDuty:
		return "off_duty"
	case StatusSleeperBerth:
		return "sleeper_berth"
	case StatusDriving:
		return "driving"
	case StatusOnDuty:
		return "on_duty"
	default:
		return fmt.Sprintf("duty_status(%d)", int(s))
	}
}

// MarshalText lets DutyStatus serve as a JSON object key and field value.
func (s DutyStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the wire names produced by MarshalText.
func (s *DutyStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "off_duty":
		*s = StatusOffDuty
	case "sleeper_berth":
		*s = StatusSleeperBerth
	case "driving":
		*s = StatusDriving
	case "on_duty":
		*s = StatusOnDuty
	default:
		return fmt.Errorf("unknown duty status %q", string(text))
	}
	return nil
}
