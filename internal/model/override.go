package model

// Override is a sparse per-(species, feature) scoring parameter record. Nil
// fields were absent or classified missing at ingestion and fall back to the
// feature defaults; a non-nil pointer always wins, including an explicit
// weight of 0 which removes the feature from aggregation for that species.
type Override struct {
	SpeciesID    int
	Feature      string
	ScoreMethod  *string
	Weight       *float64
	TrapLeftTol  *float64
	TrapRightTol *float64
}

// DependencyRule requires that at least one of a focal species' partner
// species also be a viable candidate on the same farm.
type DependencyRule struct {
	Focal    string
	Partners []string
	Reason   string
}
