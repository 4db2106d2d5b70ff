package control_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/invpend/internal/control"
	"github.com/san-kum/invpend/internal/dynamo"
	"github.com/san-kum/invpend/internal/physics"
)

var _ = Describe("Policy", func() {
	var policy *control.Policy

	BeforeEach(func() {
		plant, err := physics.NewCartPendulum(physics.DefaultParams(), [4]float64{}, physics.DefaultLimits())
		Expect(err).NotTo(HaveOccurred())
		policy = control.NewDefaultPolicy(plant)
	})

	Describe("safety override", func() {
		It("pushes the cart back when it is past the track end", func() {
			mode, raw := policy.Decide(dynamo.State{2.0, 0, 0, 0})
			Expect(mode).To(Equal(control.ModeSafety))
			Expect(raw).To(Equal(-1.0))
		})

		It("dominates regardless of pendulum angle or regulator flag", func() {
			for _, theta := range []float64{0, 0.3, math.Pi / 2, 3} {
				mode, raw := policy.Decide(dynamo.State{2.0, 0, theta, 1})
				Expect(mode).To(Equal(control.ModeSafety))
				Expect(raw).To(Equal(-1.0))
			}

			policy.Enabled = false
			mode, raw := policy.Decide(dynamo.State{-1.6, 0, 0, 0})
			Expect(mode).To(Equal(control.ModeSafety))
			Expect(raw).To(Equal(1.0))
		})

		It("scales to the clamped force", func() {
			u := policy.Compute(dynamo.State{2.0, 0, 0, 0}, 0)
			Expect(u).To(HaveLen(1))
			Expect(u[0]).To(BeNumerically("~", -5.0, 1e-12))
			Expect(policy.LastMode()).To(Equal(control.ModeSafety))
		})

		It("treats the track end itself as in bounds", func() {
			mode, _ := policy.Decide(dynamo.State{1.5, 0, 0, 0})
			Expect(mode).To(Equal(control.ModeBalance))
		})
	})

	Describe("disabled regulator", func() {
		It("applies no force inside the track", func() {
			policy.Enabled = false
			mode, raw := policy.Decide(dynamo.State{0.2, 0, 2.0, 0})
			Expect(mode).To(Equal(control.ModeDisabled))
			Expect(raw).To(BeZero())
			Expect(policy.Compute(dynamo.State{0.2, 0, 0.1, 0}, 0)[0]).To(BeZero())
		})
	})

	Describe("balancing", func() {
		It("uses the linear law up to pi/5", func() {
			mode, _ := policy.Decide(dynamo.State{0, 0, math.Pi / 5, 0})
			Expect(mode).To(Equal(control.ModeBalance))

			mode, _ = policy.Decide(dynamo.State{0, 0, -math.Pi / 5, 0})
			Expect(mode).To(Equal(control.ModeBalance))
		})

		It("clamps before scaling", func() {
			x := dynamo.State{0.12, 0, 0, 0}
			_, raw := policy.Decide(x)
			Expect(raw).To(BeNumerically("~", 1.2, 1e-12))

			u := policy.Compute(x, 0)
			Expect(u[0]).To(BeNumerically("~", 5.0, 1e-12))
		})

		It("passes small raw controls through the scale only", func() {
			x := dynamo.State{0.01, 0, 0, 0}
			Expect(policy.Compute(x, 0)[0]).To(BeNumerically("~", 1.0, 1e-12))
		})
	})

	Describe("swing-up", func() {
		It("kicks a pendulum hanging at rest", func() {
			mode, raw := policy.Decide(dynamo.State{0, 0, math.Pi, 0})
			Expect(mode).To(Equal(control.ModeSwingUp))
			Expect(raw).To(BeNumerically("~", -0.2, 1e-15))
			Expect(policy.Compute(dynamo.State{0, 0, math.Pi, 0}, 0)[0]).To(BeNumerically("~", -2.0, 1e-12))
		})

		It("switches just past pi/5", func() {
			mode, _ := policy.Decide(dynamo.State{0, 0, math.Pi/5 + 1e-9, 0})
			Expect(mode).To(Equal(control.ModeSwingUp))
		})
	})

	Describe("memorylessness", func() {
		It("returns the same decision for the same state regardless of history", func() {
			x := dynamo.State{0.3, 0.1, 2.0, 1.0}
			firstMode, first := policy.Decide(x)

			policy.Compute(dynamo.State{2.0, 0, 0, 0}, 0)
			policy.Compute(dynamo.State{0, 0, 0.1, 0}, 0.01)

			mode, raw := policy.Decide(x)
			Expect(mode).To(Equal(firstMode))
			Expect(raw).To(Equal(first))
		})
	})
})
