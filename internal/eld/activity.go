package eld

// Activity is one planned trip stop: a driving stretch, a rest, or an
// on-duty stop. Fields beyond Type and DurationHours are carried through
// untouched for display; the log pipeline never reads them.
type Activity struct {
	Day           int       `json:"day,omitempty"`
	Type          string    `json:"type"`
	DurationHours float64   `json:"duration_hours"`
	DistanceMiles float64   `json:"distance_miles,omitempty"`
	Description   string    `json:"description,omitempty"`
	Coordinates   []float64 `json:"coordinates,omitempty"`
}

// Activity type labels emitted by the trip planner. The classifier table
// below is keyed on these; anything else falls back to off duty.
const (
	ActivityDriveToOrigin      = "Driving (to Origin)"
	ActivityDriveToDestination = "Driving (to Destination)"
	ActivityDailyRest          = "Daily Rest"
	ActivityPickup             = "Pickup Stop"
	ActivityDropoff            = "Drop-off Stop"
	ActivityRefuel             = "Refueling Stop"
)

var statusByActivity = map[string]DutyStatus{
	ActivityDriveToOrigin:      StatusDriving,
	ActivityDriveToDestination: StatusDriving,
	ActivityDailyRest:          StatusOffDuty,
	ActivityPickup:             StatusOnDuty,
	ActivityDropoff:            StatusOnDuty,
	ActivityRefuel:             StatusOnDuty,
}

// Classify maps an activity type label to its duty status. Unrecognized
// labels map to StatusOffDuty; that default is deliberate policy, not an
// error. Use ClassifyKnown when the caller wants to notice unknown labels.
func Classify(label string) DutyStatus {
	status, _ := ClassifyKnown(label)
	return status
}

// ClassifyKnown reports the duty status for a label and whether the label
// was found in the classification table.
func ClassifyKnown(label string) (DutyStatus, bool) {
	if status, ok := statusByActivity[label]; ok {
		return status, true
	}
	return StatusOffDuty, false
}
