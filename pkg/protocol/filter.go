package protocol

// Filters narrow subscription notifications. All fields are optional; an
// absent filter means every change is delivered.
type Filters struct {
	// Interval is the minimum period between notifications in milliseconds.
	Interval int64 `json:"interval,omitempty"`
	// Range limits notifications to values inside the bounds.
	Range *RangeFilter `json:"range,omitempty"`
	// MinChange suppresses notifications whose value moved less than this
	// amount since the last delivered one.
	MinChange *float64 `json:"minChange,omitempty"`
}

// RangeFilter bounds the delivered values. Either bound may be absent.
type RangeFilter struct {
	Above *float64 `json:"above,omitempty"`
	Below *float64 `json:"below,omitempty"`
}

// Empty reports whether no filtering was requested.
func (f *Filters) Empty() bool {
	return f == nil || (f.Interval == 0 && f.Range == nil && f.MinChange == nil)
}
