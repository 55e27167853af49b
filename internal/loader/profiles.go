package loader

import (
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/diversiplant/recommender/internal/config"
	"github.com/diversiplant/recommender/internal/model"
)

// LoadFarms reads farm profiles from CSV. Every non-id column becomes a
// feature; missing cells are dropped and numeric cells are parsed so the
// engine sees typed values.
func LoadFarms(path string, cfg *config.EngineConfig) ([]model.FarmProfile, error) {
	rows, err := readCSVRecords(path)
	if err != nil {
		return nil, err
	}

	farms := make([]model.FarmProfile, 0, len(rows))
	for _, row := range rows {
		id, ok := parseID(row[cfg.IDs.Farm])
		if !ok {
			zap.L().Warn("loader: skipping farm row without usable id", zap.String("raw", row[cfg.IDs.Farm]))
			continue
		}

		features := make(map[string]any, len(row))
		for col, raw := range row {
			if col == cfg.IDs.Farm {
				continue
			}
			if v, usable := normalizeCell(raw); usable {
				features[col] = v
			}
		}
		farms = append(farms, model.FarmProfile{ID: id, Features: features})
	}

	if len(farms) == 0 {
		return nil, eris.Errorf("loader: no usable farm rows in %s", path)
	}
	return farms, nil
}

// LoadSpecies reads the species catalog from CSV. Id, name and common name
// are lifted into the profile; everything else lands in Attrs with missing
// cells dropped.
func LoadSpecies(path string, cfg *config.EngineConfig) ([]model.SpeciesProfile, error) {
	rows, err := readCSVRecords(path)
	if err != nil {
		return nil, err
	}

	species := make([]model.SpeciesProfile, 0, len(rows))
	for _, row := range rows {
		id, ok := parseID(row[cfg.IDs.Species])
		if !ok {
			zap.L().Warn("loader: skipping species row without usable id", zap.String("raw", row[cfg.IDs.Species]))
			continue
		}

		sp := model.SpeciesProfile{
			ID:    id,
			Attrs: make(map[string]any, len(row)),
		}
		if name, nameOK := model.Str(row[cfg.Names.SpeciesName]); nameOK {
			sp.Name = name
		}
		if cname, cnameOK := model.Str(row[cfg.Names.SpeciesCommonName]); cnameOK {
			sp.CommonName = cname
		}

		for col, raw := range row {
			switch col {
			case cfg.IDs.Species, cfg.Names.SpeciesName, cfg.Names.SpeciesCommonName:
				continue
			}
			if v, usable := normalizeCell(raw); usable {
				sp.Attrs[col] = v
			}
		}
		species = append(species, sp)
	}

	if len(species) == 0 {
		return nil, eris.Errorf("loader: no usable species rows in %s", path)
	}
	return species, nil
}

// normalizeCell applies the canonical missing classification and parses
// numerics. Non-numeric values stay trimmed strings; boolean and set parsing
// happen lazily at rule evaluation.
func normalizeCell(raw string) (any, bool) {
	s, ok := model.Str(raw)
	if !ok {
		return nil, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return s, true
}

func parseID(raw string) (int, bool) {
	s, ok := model.Str(raw)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return id, true
}
