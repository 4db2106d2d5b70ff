package control

import (
	"math"
	"testing"

	"github.com/san-kum/invpend/internal/dynamo"
	"github.com/san-kum/invpend/internal/physics"
)

func TestSign(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{2.5, 1},
		{-0.001, -1},
		{0, 0},
	}
	for _, tt := range tests {
		if got := sign(tt.in); got != tt.expected {
			t.Errorf("sign(%v) = %v, want %v", tt.in, got, tt.expected)
		}
	}
}

func TestLQ(t *testing.T) {
	ctrl := NewLQ(DefaultGains)

	if u := ctrl.Raw(dynamo.State{0, 0, 0, 0}); u != 0 {
		t.Errorf("expected zero control at target, got %f", u)
	}

	x := dynamo.State{0.1, -0.2, 0.05, 0.3}
	expected := 0.0
	for i, g := range DefaultGains {
		expected -= x[i] * g
	}
	if u := ctrl.Raw(x); math.Abs(u-expected) > 1e-15 {
		t.Errorf("expected %v, got %v", expected, u)
	}
}

func TestSwingUp(t *testing.T) {
	p := physics.DefaultParams()
	law := &SwingUp{Mass: p.PendMass, A1: p.A1, Gravity: p.Gravity}

	tests := []struct {
		name     string
		x        dynamo.State
		expected float64
	}{
		{"hanging at rest kicks", dynamo.State{0, 0, math.Pi, 0}, -0.2},
		{"negative side kicks back", dynamo.State{0, 0, -2.5, 0.4}, 0.2},
		{"slow at kick offset", dynamo.State{0, 0, 0.01, 0.1}, 0},
		{"fast with energy coasts", dynamo.State{0, 0, 1.0, 4.9}, 0},
		{"low energy rising pumps", dynamo.State{0, 0, 2.5, 1.0}, 0.2},
		{"low energy below horizontal", dynamo.State{0, 0, 2.5, -1.0}, -0.2},
		{"low energy above horizontal", dynamo.State{0, 0, 1.2, 1.0}, -0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := law.Raw(tt.x); got != tt.expected {
				t.Errorf("Raw(%v) = %v, want %v", tt.x, got, tt.expected)
			}
		})
	}
}

func TestSwingUpEnergy(t *testing.T) {
	p := physics.DefaultParams()
	law := &SwingUp{Mass: p.PendMass, A1: p.A1, Gravity: p.Gravity}
	plant, err := physics.NewCartPendulum(p, [4]float64{}, physics.DefaultLimits())
	if err != nil {
		t.Fatal(err)
	}

	for _, x := range []dynamo.State{{0, 0, 0.3, 2}, {0, 0, 2.9, -1.5}, {0, 0, -1, 0}} {
		if a, b := law.Energy(x[2], x[3]), plant.Energy(x); math.Abs(a-b) > 1e-15 {
			t.Errorf("energy mismatch at %v: law=%v plant=%v", x, a, b)
		}
	}
}

func TestSafetyAndOff(t *testing.T) {
	if u := (Safety{}).Raw(dynamo.State{2.0, 0, 0, 0}); u != -1 {
		t.Errorf("expected -1, got %v", u)
	}
	if u := (Safety{}).Raw(dynamo.State{-1.7, 0, 0, 0}); u != 1 {
		t.Errorf("expected 1, got %v", u)
	}
	if u := (Off{}).Raw(dynamo.State{1, 1, 1, 1}); u != 0 {
		t.Errorf("expected 0, got %v", u)
	}
}

func TestShape(t *testing.T) {
	tests := []struct {
		raw, expected float64
	}{
		{1.2, 5.0},
		{-3, -5.0},
		{0.5, 5.0},
		{0.3, 3.0},
		{-0.2, -2.0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Shape(tt.raw); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Shape(%v) = %v, want %v", tt.raw, got, tt.expected)
		}
	}
}

func TestModeString(t *testing.T) {
	names := map[Mode]string{
		ModeSafety:   "safety",
		ModeDisabled: "disabled",
		ModeBalance:  "balance",
		ModeSwingUp:  "swing-up",
		Mode(42):     "unknown",
	}
	for m, expected := range names {
		if m.String() != expected {
			t.Errorf("expected %q, got %q", expected, m.String())
		}
	}
}
