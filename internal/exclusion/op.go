// Package exclusion applies hard environmental and habitat gates to the
// species catalog, then an optional single-pass companion-species filter.
// Rules never exclude on missing data: a rule that cannot be evaluated is
// skipped.
package exclusion

import (
	"github.com/rotisserie/eris"

	"github.com/diversiplant/recommender/internal/model"
)

// Op is an exclusion rule operator.
type Op uint8

const (
	OpGe Op = iota
	OpLe
	OpGt
	OpLt
	OpEq
	OpInSet
	OpRequiresTrue
)

// ParseOp maps a config operator string to its Op. Unknown strings are a
// configuration error.
func ParseOp(s string) (Op, error) {
	switch s {
	case ">=":
		return OpGe, nil
	case "<=":
		return OpLe, nil
	case ">":
		return OpGt, nil
	case "<":
		return OpLt, nil
	case "=", "==":
		return OpEq, nil
	case "in_set":
		return OpInSet, nil
	case "requires_true":
		return OpRequiresTrue, nil
	default:
		return 0, eris.Errorf("exclusion: unknown operator %q", s)
	}
}

// String returns the config spelling of the operator.
func (op Op) String() string {
	switch op {
	case OpGe:
		return ">="
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	case OpEq:
		return "=="
	case OpInSet:
		return "in_set"
	case OpRequiresTrue:
		return "requires_true"
	default:
		return "unknown"
	}
}

// Numeric reports whether the operator compares parsed floats.
func (op Op) Numeric() bool {
	switch op {
	case OpGe, OpLe, OpGt, OpLt, OpEq:
		return true
	default:
		return false
	}
}

// Evaluate applies the operator to the farm-side and species-side values.
// pass=false means the rule fired and the species is excluded; ok=false
// means the rule could not be evaluated and must be skipped.
func (op Op) Evaluate(farmVal, speciesVal any) (pass, ok bool) {
	switch op {
	case OpGe, OpLe, OpGt, OpLt, OpEq:
		fv, fok := model.Float(farmVal)
		sv, sok := model.Float(speciesVal)
		if !fok || !sok {
			return false, false
		}
		switch op {
		case OpGe:
			return fv >= sv, true
		case OpLe:
			return fv <= sv, true
		case OpGt:
			return fv > sv, true
		case OpLt:
			return fv < sv, true
		default:
			return fv == sv, true
		}

	case OpInSet:
		fv, fok := model.Str(farmVal)
		allowed := model.Set(speciesVal)
		if !fok || len(allowed) == 0 {
			return false, false
		}
		return model.SetContains(allowed, fv), true

	case OpRequiresTrue:
		farmFlag, fok := model.Bool(farmVal)
		if !fok {
			return false, false
		}
		// Habitat constraint only applies when the farm has the habitat.
		if !farmFlag {
			return true, true
		}
		speciesFlag, sok := model.Bool(speciesVal)
		if !sok {
			return false, false
		}
		return speciesFlag, true

	default:
		return false, false
	}
}
