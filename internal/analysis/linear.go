package analysis

import (
	"errors"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/invpend/internal/control"
	"github.com/san-kum/invpend/internal/dynamo"
)

// Linearize returns the Jacobians of sys.Derive with respect to the state
// (A) and the control (B) at (x0, u0), using central differences of width eps.
func Linearize(sys dynamo.System, x0 dynamo.State, u0 dynamo.Control, eps float64) (*mat.Dense, *mat.Dense) {
	n, m := sys.StateDim(), sys.ControlDim()
	a := mat.NewDense(n, n, nil)
	b := mat.NewDense(n, m, nil)

	for j := 0; j < n; j++ {
		xp, xm := x0.Clone(), x0.Clone()
		xp[j] += eps
		xm[j] -= eps
		fp := sys.Derive(xp, u0, 0)
		fm := sys.Derive(xm, u0, 0)
		for i := 0; i < n; i++ {
			a.Set(i, j, (fp[i]-fm[i])/(2*eps))
		}
	}

	for j := 0; j < m; j++ {
		up := append(dynamo.Control(nil), u0...)
		um := append(dynamo.Control(nil), u0...)
		up[j] += eps
		um[j] -= eps
		fp := sys.Derive(x0, up, 0)
		fm := sys.Derive(x0, um, 0)
		for i := 0; i < n; i++ {
			b.Set(i, j, (fp[i]-fm[i])/(2*eps))
		}
	}

	return a, b
}

// EffectiveGain is the force feedback row u = -K x seen by the plant while
// the raw control stays below the clamp.
func EffectiveGain(gains [4]float64) *mat.Dense {
	k := mat.NewDense(1, 4, nil)
	for j, g := range gains {
		k.Set(0, j, control.ForceScale*g)
	}
	return k
}

// ClosedLoop returns A - B*K.
func ClosedLoop(a, b, k mat.Matrix) *mat.Dense {
	var bk mat.Dense
	bk.Mul(b, k)

	var acl mat.Dense
	acl.Sub(a, &bk)
	return &acl
}

var ErrNoEigen = errors.New("analysis: eigenvalue decomposition failed")

// Poles returns the eigenvalues of a, ordered by real part then imaginary part.
func Poles(a mat.Matrix) ([]complex128, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenNone); !ok {
		return nil, ErrNoEigen
	}
	poles := eig.Values(nil)
	sort.Slice(poles, func(i, j int) bool {
		if real(poles[i]) != real(poles[j]) {
			return real(poles[i]) < real(poles[j])
		}
		return imag(poles[i]) < imag(poles[j])
	})
	return poles, nil
}

// Stable reports whether every pole lies strictly in the left half plane.
func Stable(poles []complex128) bool {
	for _, p := range poles {
		if real(p) >= 0 {
			return false
		}
	}
	return len(poles) > 0
}

// Damping returns the damping ratio of a pole.
func Damping(p complex128) float64 {
	mag := cmplx.Abs(p)
	if mag == 0 {
		return 0
	}
	return -real(p) / mag
}
