package activity

// Record is one 5-minute step-count observation. Steps is nil when the
// tracker did not record a value for the slot.
type Record struct {
	Date     Date       `json:"date"`
	Interval IntervalID `json:"interval"`
	Steps    *int       `json:"steps"`
}

// TimeOfDay returns the decoded interval.
func (r Record) TimeOfDay() TimeOfDay {
	return r.Interval.TimeOfDay()
}

// StepsValue returns the step count as a float and whether it is present.
func (r Record) StepsValue() (float64, bool) {
	if r.Steps == nil {
		return 0, false
	}
	return float64(*r.Steps), true
}

// ImputedRecord carries the original record alongside a fully populated step
// value. Imputed is true when ImputedSteps came from the interval profile.
type ImputedRecord struct {
	Record
	ImputedSteps float64 `json:"imputed_steps"`
	Imputed      bool    `json:"imputed"`
}

func intPtr(v int) *int {
	out := v
	return &out
}

func floatPtr(v float64) *float64 {
	out := v
	return &out
}
