package exclusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOp(t *testing.T) {
	for _, s := range []string{">=", "<=", ">", "<", "=", "==", "in_set", "requires_true"} {
		_, err := ParseOp(s)
		assert.NoError(t, err, s)
	}

	_, err := ParseOp("between")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operator")
}

func TestNumericOperators(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		farm     any
		species  any
		wantPass bool
		wantOK   bool
	}{
		{"ge pass", ">=", 900, 800, true, true},
		{"ge fail", ">=", 700, 800, false, true},
		{"ge equal", ">=", 800, 800, true, true},
		{"le pass", "<=", 700, 800, true, true},
		{"le fail", "<=", 900, 800, false, true},
		{"gt pass", ">", 16, 15, true, true},
		{"gt fail at equal", ">", 15, 15, false, true},
		{"lt pass", "<", 14, 15, true, true},
		{"eq pass", "==", 5, 5.0, true, true},
		{"eq fail", "==", 5, 6, false, true},
		{"numeric strings parse", ">=", "900", "800", true, true},
		{"zero is a value", ">=", 0, 10, false, true},
		{"missing farm skips", ">=", nil, 800, false, false},
		{"missing species skips", ">=", 900, "n/a", false, false},
		{"unparsable farm skips", ">=", "wet", 800, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := ParseOp(tt.op)
			require.NoError(t, err)
			pass, ok := op.Evaluate(tt.farm, tt.species)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantPass, pass)
			}
		})
	}
}

func TestInSetOperator(t *testing.T) {
	tests := []struct {
		name     string
		farm     any
		species  any
		wantPass bool
		wantOK   bool
	}{
		{"member", "Loam", "Loam, Clay", true, true},
		{"member case-insensitive", "loam", "Loam;Clay", true, true},
		{"member with padding", " Loam ", []string{"Loam"}, true, true},
		{"not a member", "Silt", "Loam, Clay", false, true},
		{"missing farm skips", nil, "Loam", false, false},
		{"empty preference skips", "Loam", "", false, false},
		{"na preference skips", "Loam", "nan", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass, ok := OpInSet.Evaluate(tt.farm, tt.species)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantPass, pass)
			}
		})
	}
}

func TestRequiresTrueOperator(t *testing.T) {
	tests := []struct {
		name     string
		farm     any
		species  any
		wantPass bool
		wantOK   bool
	}{
		{"farm false passes trivially", false, false, true, true},
		{"farm false passes regardless of species", false, true, true, true},
		{"farm no passes trivially", "no", false, true, true},
		{"farm true species true", true, true, true, true},
		{"farm true species yes", true, "yes", true, true},
		{"farm true species false fails", true, false, false, true},
		{"farm true species 0 fails", true, 0, false, true},
		{"farm missing skips", nil, true, false, false},
		{"farm unparsable skips", "perhaps", true, false, false},
		{"farm true species missing skips", true, nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass, ok := OpRequiresTrue.Evaluate(tt.farm, tt.species)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantPass, pass)
			}
		})
	}
}
