package scoring

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
)

// Corners are the four x-positions of a trapezoidal membership function:
// zero outside [A, D], full score on the plateau [B, C], linear shoulders
// between. Invariant: A <= B <= C <= D.
type Corners struct {
	A, B, C, D float64
}

// DeriveCorners builds trapezoid corners from a species preference range and
// asymmetric shoulder tolerances: A=min, D=max, B=A+leftTol, C=D-rightTol.
// When the tolerances overlap (B > C) the plateau collapses to the midpoint
// of [min, max], preserving the corner ordering.
func DeriveCorners(min, max, leftTol, rightTol float64) (Corners, error) {
	if max < min {
		return Corners{}, eris.Errorf("scoring: trapezoid bounds inverted: max (%v) < min (%v)", max, min)
	}

	c := Corners{A: min, B: min + leftTol, C: max - rightTol, D: max}
	if c.B > c.C {
		mid := (c.A + c.D) / 2
		c.B, c.C = mid, mid
	}
	return c, nil
}

// Score evaluates the membership of x. The branch order makes zero-width
// shoulders safe: the ramp divisions only run when the shoulder has positive
// width.
func (c Corners) Score(x float64) (float64, string) {
	switch {
	case x < c.A:
		return 0, "below minimum"
	case x > c.D:
		return 0, "above maximum"
	case x < c.B:
		return (x - c.A) / (c.B - c.A), fmt.Sprintf("within left shoulder [%s, %s]", fnum(c.A), fnum(c.B))
	case x <= c.C:
		return 1, fmt.Sprintf("within plateau [%s, %s]", fnum(c.B), fnum(c.C))
	default:
		return (c.D - x) / (c.D - c.C), fmt.Sprintf("within right shoulder [%s, %s]", fnum(c.C), fnum(c.D))
	}
}

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
