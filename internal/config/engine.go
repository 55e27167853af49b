package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Feature types.
const (
	TypeNumeric     = "numeric"
	TypeCategorical = "categorical"
)

// Scoring methods.
const (
	MethodNumRange  = "num_range"
	MethodTrapezoid = "trapezoid"
	MethodCatExact  = "cat_exact"
)

// Exclusion operators accepted in rule specs.
var knownOps = map[string]struct{}{
	">=": {}, "<=": {}, ">": {}, "<": {}, "=": {}, "==": {},
	"in_set": {}, "requires_true": {},
}

// ToleranceSpec holds the default trapezoid shoulder widths for a feature.
type ToleranceSpec struct {
	Left  float64 `yaml:"left"`
	Right float64 `yaml:"right"`
}

// FeatureSpec declares one scored feature: its type, presentation short
// code, default scoring method and weight, and where the species-side
// preference data lives. Declaration order is the trace and key-reason
// order.
type FeatureSpec struct {
	Name          string        `yaml:"name"`
	Type          string        `yaml:"type"`
	Short         string        `yaml:"short"`
	ScoreMethod   string        `yaml:"score_method"`
	DefaultWeight float64       `yaml:"default_weight"`
	Tolerance     ToleranceSpec `yaml:"tolerance"`
	ExactMatch    *float64      `yaml:"exact_match"`

	// Species-side column overrides; when empty the conventional names
	// derived from the feature name are used.
	MinCol  string `yaml:"species_min_col"`
	MaxCol  string `yaml:"species_max_col"`
	PrefCol string `yaml:"species_pref_col"`
}

// MinColumn returns the species column holding the feature's preferred
// minimum, defaulting to "<name>_min".
func (f FeatureSpec) MinColumn() string {
	if f.MinCol != "" {
		return f.MinCol
	}
	return f.Name + "_min"
}

// MaxColumn returns the species column holding the feature's preferred
// maximum, defaulting to "<name>_max".
func (f FeatureSpec) MaxColumn() string {
	if f.MaxCol != "" {
		return f.MaxCol
	}
	return f.Name + "_max"
}

// PreferredColumn returns the species column holding the categorical
// preference set, defaulting to "<name>s".
func (f FeatureSpec) PreferredColumn() string {
	if f.PrefCol != "" {
		return f.PrefCol
	}
	return f.Name + "s"
}

// ExactMatchScore returns the score awarded on a categorical exact match,
// defaulting to 1.0.
func (f FeatureSpec) ExactMatchScore() float64 {
	if f.ExactMatch != nil {
		return *f.ExactMatch
	}
	return 1.0
}

// RuleSpec declares one hard exclusion rule. Farm/Species are symbolic keys
// resolved through the column tables; FarmCol/SpeciesCol name columns
// directly and take precedence when set.
type RuleSpec struct {
	ID             string `yaml:"id"`
	Farm           string `yaml:"farm"`
	FarmCol        string `yaml:"farm_col"`
	Op             string `yaml:"op"`
	Species        string `yaml:"species"`
	SpeciesCol     string `yaml:"species_col"`
	Reason         string `yaml:"reason"`
	ReasonTemplate string `yaml:"reason_template"`
}

// DependencySpec toggles the companion-species filter.
type DependencySpec struct {
	Enabled bool   `yaml:"enabled"`
	Reason  string `yaml:"reason"`
}

// AnnotationSpec controls exclusion reason formatting.
type AnnotationSpec struct {
	IncludeValues bool `yaml:"include_values"`
}

// IDColumns names the id columns in the farm and species datasets.
type IDColumns struct {
	Farm    string `yaml:"farm"`
	Species string `yaml:"species"`
}

// NameColumns names the species display columns.
type NameColumns struct {
	SpeciesName       string `yaml:"species_name"`
	SpeciesCommonName string `yaml:"species_common_name"`
}

// EngineConfig is the full rule document driving exclusion and scoring. It
// is loaded once, validated eagerly and shared read-only across a batch.
type EngineConfig struct {
	IDs              IDColumns         `yaml:"ids"`
	Names            NameColumns       `yaml:"names"`
	EnableExclusions bool              `yaml:"enable_exclusions"`
	Annotation       AnnotationSpec    `yaml:"annotation"`
	Dependency       DependencySpec    `yaml:"dependency"`
	Features         []FeatureSpec     `yaml:"features"`
	Rules            []RuleSpec        `yaml:"rules"`
	FarmColumns      map[string]string `yaml:"farm_columns"`
	SpeciesColumns   map[string]string `yaml:"species_columns"`
}

// Feature returns the spec for the named feature.
func (c *EngineConfig) Feature(name string) (FeatureSpec, bool) {
	for _, f := range c.Features {
		if f.Name == name {
			return f, true
		}
	}
	return FeatureSpec{}, false
}

// LoadEngine reads and validates an engine rule document.
func LoadEngine(path string) (*EngineConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read engine file %s", path)
	}

	var cfg EngineConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, eris.Wrapf(err, "config: parse engine file %s", path)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *EngineConfig) applyDefaults() {
	if c.IDs.Farm == "" {
		c.IDs.Farm = "id"
	}
	if c.IDs.Species == "" {
		c.IDs.Species = "id"
	}
	if c.Names.SpeciesName == "" {
		c.Names.SpeciesName = "name"
	}
	if c.Names.SpeciesCommonName == "" {
		c.Names.SpeciesCommonName = "common_name"
	}
}

// Validate checks the document for deployment bugs: unknown feature types,
// unknown scoring methods, unknown operators, unresolvable rule columns and
// negative weights or tolerances. Any failure is a configuration error and
// aborts the batch.
func (c *EngineConfig) Validate() error {
	var errs []string

	if len(c.Features) == 0 {
		errs = append(errs, "no features declared")
	}

	seen := make(map[string]struct{}, len(c.Features))
	for _, f := range c.Features {
		if f.Name == "" {
			errs = append(errs, "feature with empty name")
			continue
		}
		if _, dup := seen[f.Name]; dup {
			errs = append(errs, fmt.Sprintf("duplicate feature %q", f.Name))
		}
		seen[f.Name] = struct{}{}

		switch f.Type {
		case TypeNumeric:
			if f.ScoreMethod != MethodNumRange && f.ScoreMethod != MethodTrapezoid {
				errs = append(errs, fmt.Sprintf("feature %q: unknown numeric score method %q", f.Name, f.ScoreMethod))
			}
		case TypeCategorical:
			if f.ScoreMethod != MethodCatExact {
				errs = append(errs, fmt.Sprintf("feature %q: unknown categorical score method %q", f.Name, f.ScoreMethod))
			}
		default:
			errs = append(errs, fmt.Sprintf("feature %q: unknown type %q", f.Name, f.Type))
		}

		if f.DefaultWeight < 0 {
			errs = append(errs, fmt.Sprintf("feature %q: default_weight must be >= 0", f.Name))
		}
		if f.Tolerance.Left < 0 || f.Tolerance.Right < 0 {
			errs = append(errs, fmt.Sprintf("feature %q: tolerances must be >= 0", f.Name))
		}
	}

	for _, r := range c.Rules {
		if _, ok := knownOps[r.Op]; !ok {
			errs = append(errs, fmt.Sprintf("rule %q: unknown operator %q", r.ID, r.Op))
		}
		if r.FarmCol == "" && c.FarmColumns[r.Farm] == "" {
			errs = append(errs, fmt.Sprintf("rule %q: farm column not resolvable", r.ID))
		}
		if r.SpeciesCol == "" && c.SpeciesColumns[r.Species] == "" {
			errs = append(errs, fmt.Sprintf("rule %q: species column not resolvable", r.ID))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: engine validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
