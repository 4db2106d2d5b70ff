package analysis

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/invpend/internal/control"
	"github.com/san-kum/invpend/internal/dynamo"
	"github.com/san-kum/invpend/internal/physics"
)

func uprightModel(t *testing.T) (*mat.Dense, *mat.Dense) {
	t.Helper()
	plant, err := physics.NewCartPendulum(physics.DefaultParams(), [4]float64{}, physics.DefaultLimits())
	if err != nil {
		t.Fatal(err)
	}
	return Linearize(plant, dynamo.State{0, 0, 0, 0}, dynamo.Control{0}, 1e-6)
}

func TestLinearizeUpright(t *testing.T) {
	a, b := uprightModel(t)

	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"dpos/dvel", a.At(0, 1), 1},
		{"dtheta/domega", a.At(2, 3), 1},
		{"dalpha/dtheta", a.At(3, 2), 25.9231},
		{"daccel/dvel", a.At(1, 1), -1.5647},
		{"daccel/du", b.At(1, 0), 1.7386},
		{"dalpha/du", b.At(3, 0), -3.8918},
		{"dpos/du", b.At(0, 0), 0},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.expected) > 1e-3 {
			t.Errorf("%s: expected %.4f, got %.6f", tt.name, tt.expected, tt.got)
		}
	}
}

func TestOpenLoopUnstable(t *testing.T) {
	a, _ := uprightModel(t)

	poles, err := Poles(a)
	if err != nil {
		t.Fatal(err)
	}
	if Stable(poles) {
		t.Errorf("upright equilibrium should be unstable, poles %v", poles)
	}
	if real(poles[len(poles)-1]) <= 0 {
		t.Errorf("expected a right half plane pole, got %v", poles)
	}
}

func TestDefaultGainsStabilize(t *testing.T) {
	a, b := uprightModel(t)

	poles, err := Poles(ClosedLoop(a, b, EffectiveGain(control.DefaultGains)))
	if err != nil {
		t.Fatal(err)
	}
	if !Stable(poles) {
		t.Fatalf("closed loop not stable, poles %v", poles)
	}

	slowest := poles[len(poles)-1]
	if math.Abs(real(slowest)+1.215) > 0.01 || math.Abs(math.Abs(imag(slowest))-1.024) > 0.01 {
		t.Errorf("unexpected dominant pole %v", slowest)
	}
	if d := Damping(slowest); d < 0.7 || d > 0.8 {
		t.Errorf("unexpected damping %.3f", d)
	}
}

func TestEffectiveGain(t *testing.T) {
	k := EffectiveGain([4]float64{1, -2, 3, -4})
	r, c := k.Dims()
	if r != 1 || c != 4 {
		t.Fatalf("expected 1x4, got %dx%d", r, c)
	}
	if k.At(0, 3) != -40 {
		t.Errorf("expected scaled gain -40, got %v", k.At(0, 3))
	}
}

func TestStable(t *testing.T) {
	if Stable(nil) {
		t.Error("no poles should not count as stable")
	}
	if Stable([]complex128{-1, 0}) {
		t.Error("a pole at the origin is not strictly stable")
	}
	if !Stable([]complex128{-1 + 2i, -1 - 2i}) {
		t.Error("left half plane poles should be stable")
	}
}

func TestPhasePortrait(t *testing.T) {
	states := [][4]float64{{0, 0, 0.1, 0}, {0, 0, 0, -0.5}, {0, 0, -0.1, 0}}

	p := NewPhasePortrait(states, 2, 3)
	if p == nil || len(p.Points) != 3 {
		t.Fatalf("unexpected portrait %+v", p)
	}
	if p.Points[1].Y != -0.5 {
		t.Errorf("expected omega -0.5, got %v", p.Points[1].Y)
	}

	if NewPhasePortrait(states, 2, 4) != nil {
		t.Error("expected nil for out of range index")
	}

	art := p.ASCII(20, 10)
	if n := strings.Count(art, "\n"); n != 10 {
		t.Errorf("expected 10 rows, got %d", n)
	}
	if !strings.Contains(art, "o") || !strings.Contains(art, "@") {
		t.Errorf("start and end markers missing:\n%s", art)
	}
	if strings.Contains(art, ":") {
		t.Errorf("balance edges are out of view here:\n%s", art)
	}
	if (*PhasePortrait)(nil).ASCII(20, 10) != "" {
		t.Error("nil portrait should render empty")
	}
}

func TestPhasePortraitBalanceEdges(t *testing.T) {
	states := [][4]float64{{0, 0, -0.7, 1}, {0, 0, 0, 0}, {0, 0, 0.7, -1}}
	art := NewPhasePortrait(states, 2, 3).ASCII(40, 9)
	for i, line := range strings.Split(strings.TrimSuffix(art, "\n"), "\n") {
		if n := strings.Count(line, ":"); n != 2 {
			t.Errorf("row %d: expected 2 balance edges, got %d in %q", i, n, line)
		}
	}

	minX, maxX, _, _ := NewPhasePortrait(states, 2, 3).Bounds()
	if math.Abs(minX+0.84) > 1e-12 || math.Abs(maxX-0.84) > 1e-12 {
		t.Errorf("unexpected padded bounds [%v, %v]", minX, maxX)
	}
}

func TestSpectrumFindsSine(t *testing.T) {
	const dt = 0.01
	xs := make([]float64, 1000)
	for i := range xs {
		xs[i] = 0.3 + 0.2*math.Sin(2*math.Pi*2*float64(i)*dt)
	}

	s, err := NewSpectrum(xs, dt)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Freqs) != 501 || s.Freqs[1] != 0.1 {
		t.Fatalf("unexpected bins: n=%d df=%v", len(s.Freqs), s.Freqs[1])
	}
	f, amp := s.Dominant()
	if math.Abs(f-2) > 1e-9 {
		t.Errorf("expected 2 Hz, got %v", f)
	}
	if math.Abs(amp-0.2) > 1e-6 {
		t.Errorf("expected amplitude 0.2, got %v", amp)
	}
	if s.Amplitudes[0] > 1e-9 {
		t.Errorf("mean should be removed, DC=%v", s.Amplitudes[0])
	}
}

func TestSpectrumRejectsBadInput(t *testing.T) {
	if _, err := NewSpectrum([]float64{1}, 0.01); err == nil {
		t.Error("expected error for a single sample")
	}
	if _, err := NewSpectrum([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero dt")
	}
}
