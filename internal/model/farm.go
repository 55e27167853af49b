package model

// FarmProfile is the environmental profile of a single farm plot. Features
// maps column names (e.g. "rainfall_mm", "soil_texture", "coastal") to
// numeric, boolean or categorical values. Missing values are dropped at
// ingestion, so a feature lookup returning nil means "no data".
//
// A FarmProfile is immutable for the duration of an evaluation.
type FarmProfile struct {
	ID       int            `json:"id"`
	Features map[string]any `json:"features"`
}

// Feature returns the raw value of the named feature, or nil when the farm
// has no data for it.
func (f FarmProfile) Feature(name string) any {
	return f.Features[name]
}
