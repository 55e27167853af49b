package config

// DefaultEngine returns the stock rule document for the standard farm and
// species datasets: trapezoid-scored climate features, exact-match soil
// texture, the min/max environmental exclusion rules and the two habitat
// gates. Deployments override it with an engine.yaml file.
func DefaultEngine() *EngineConfig {
	cfg := &EngineConfig{
		EnableExclusions: true,
		Dependency:       DependencySpec{Enabled: false},
		Features: []FeatureSpec{
			{
				Name: "rainfall_mm", Type: TypeNumeric, Short: "rain",
				ScoreMethod: MethodTrapezoid, DefaultWeight: 0.25,
				Tolerance: ToleranceSpec{Left: 50, Right: 50},
			},
			{
				Name: "temperature_celsius", Type: TypeNumeric, Short: "temp",
				ScoreMethod: MethodTrapezoid, DefaultWeight: 0.25,
				Tolerance: ToleranceSpec{Left: 1, Right: 1},
			},
			{
				Name: "elevation_m", Type: TypeNumeric, Short: "elev",
				ScoreMethod: MethodNumRange, DefaultWeight: 0.15,
			},
			{
				Name: "ph", Type: TypeNumeric, Short: "ph",
				ScoreMethod: MethodTrapezoid, DefaultWeight: 0.2,
				Tolerance: ToleranceSpec{Left: 0.25, Right: 0.25},
			},
			{
				Name: "soil_texture", Type: TypeCategorical, Short: "soil",
				ScoreMethod: MethodCatExact, DefaultWeight: 0.15,
			},
		},
		Rules: []RuleSpec{
			{ID: "rain_min", Farm: "rainfall", Op: ">=", Species: "rain_min", Reason: "excluded: rainfall below minimum"},
			{ID: "rain_max", Farm: "rainfall", Op: "<=", Species: "rain_max", Reason: "excluded: rainfall above maximum"},
			{ID: "temp_min", Farm: "temperature", Op: ">=", Species: "temp_min", Reason: "excluded: temperature below minimum"},
			{ID: "temp_max", Farm: "temperature", Op: "<=", Species: "temp_max", Reason: "excluded: temperature above maximum"},
			{ID: "elev_min", Farm: "elevation", Op: ">=", Species: "elev_min", Reason: "excluded: elevation below minimum"},
			{ID: "elev_max", Farm: "elevation", Op: "<=", Species: "elev_max", Reason: "excluded: elevation above maximum"},
			{ID: "ph_min", Farm: "ph", Op: ">=", Species: "ph_min", Reason: "excluded: pH below minimum"},
			{ID: "ph_max", Farm: "ph", Op: "<=", Species: "ph_max", Reason: "excluded: pH above maximum"},
			{ID: "soil_texture", Farm: "soil", Op: "in_set", Species: "soil_pref", Reason: "excluded: soil texture not supported"},
			{ID: "coastal_habitat", Farm: "coastal_flag", Op: "requires_true", Species: "coastal_ok", Reason: "excluded: not suitable for coastal habitat"},
			{ID: "riparian_habitat", Farm: "riparian_flag", Op: "requires_true", Species: "riparian_ok", Reason: "excluded: not suitable for riparian habitat"},
		},
		FarmColumns: map[string]string{
			"rainfall":      "rainfall_mm",
			"temperature":   "temperature_celsius",
			"elevation":     "elevation_m",
			"ph":            "ph",
			"soil":          "soil_texture",
			"coastal_flag":  "coastal",
			"riparian_flag": "riparian",
		},
		SpeciesColumns: map[string]string{
			"rain_min":    "rainfall_mm_min",
			"rain_max":    "rainfall_mm_max",
			"temp_min":    "temperature_celsius_min",
			"temp_max":    "temperature_celsius_max",
			"elev_min":    "elevation_m_min",
			"elev_max":    "elevation_m_max",
			"ph_min":      "ph_min",
			"ph_max":      "ph_max",
			"soil_pref":   "soil_textures",
			"coastal_ok":  "coastal",
			"riparian_ok": "riparian",
		},
	}
	cfg.applyDefaults()
	return cfg
}
