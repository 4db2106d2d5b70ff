package dynamo_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/invpend/internal/control"
	"github.com/san-kum/invpend/internal/dynamo"
	"github.com/san-kum/invpend/internal/integrators"
	"github.com/san-kum/invpend/internal/physics"
)

type modeRecorder struct {
	policy *control.Policy
	modes  []control.Mode
}

func (m *modeRecorder) Compute(x dynamo.State, t float64) dynamo.Control {
	u := m.policy.Compute(x, t)
	m.modes = append(m.modes, m.policy.LastMode())
	return u
}

var _ = Describe("Closed loop", func() {
	var (
		plant  *physics.CartPendulum
		policy *control.Policy
		sim    *dynamo.Simulator
		rec    *modeRecorder
	)

	newLoop := func(init [4]float64) {
		var err error
		plant, err = physics.NewCartPendulum(physics.DefaultParams(), init, physics.DefaultLimits())
		Expect(err).NotTo(HaveOccurred())

		policy = control.NewDefaultPolicy(plant)
		rec = &modeRecorder{policy: policy}

		integ, err := integrators.Get("rk4")
		Expect(err).NotTo(HaveOccurred())
		sim = dynamo.New(integ, rec)
	}

	Context("starting near upright with the regulator on", func() {
		BeforeEach(func() {
			newLoop([4]float64{0, 0, 0.1, 0})
		})

		It("balances for 1000 steps without leaving the linear region", func() {
			result, err := sim.Run(context.Background(), plant, dynamo.Config{Dt: 0.01, Steps: 1000, ValidateState: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(1000))

			Expect(rec.modes).To(HaveLen(1000))
			for _, m := range rec.modes {
				Expect(m).To(Equal(control.ModeBalance))
			}

			for _, x := range result.States {
				Expect(math.Abs(x[2])).To(BeNumerically("<=", control.BalanceAngle))
			}

			final := plant.State()
			Expect(math.Abs(final[2])).To(BeNumerically("<", 0.05))
			Expect(math.Abs(final[2])).To(BeNumerically("<", math.Abs(result.States[0][2])))
			Expect(plant.Time()).To(BeNumerically("~", 10.0, 1e-9))
		})

		It("records each state with the force that was held before it", func() {
			result, err := sim.Run(context.Background(), plant, dynamo.Config{Dt: 0.01, Steps: 5})
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Times[0]).To(Equal(0.0))
			Expect(result.States[0]).To(Equal(dynamo.State{0, 0, 0.1, 0}))
			Expect(result.Controls[0].Scalar()).To(Equal(0.0))

			// raw control at theta 0.1 is well past the clamp
			Expect(result.Controls[1].Scalar()).To(Equal(control.MaxRaw * control.ForceScale))
			Expect(plant.Force()).To(BeNumerically("<=", control.MaxRaw*control.ForceScale))
		})
	})

	Context("with the regulator off", func() {
		BeforeEach(func() {
			newLoop([4]float64{0, 0, 0.1, 0})
			policy.Enabled = false
		})

		It("lets the pendulum fall", func() {
			result, err := sim.Run(context.Background(), plant, dynamo.Config{Dt: 0.01, Steps: 100})
			Expect(err).NotTo(HaveOccurred())

			for i, u := range result.Controls {
				Expect(u.Scalar()).To(Equal(0.0), "sample %d", i)
			}
			Expect(math.Abs(plant.State()[2])).To(BeNumerically(">", 0.1))
		})
	})

	Context("with the cart past the track end", func() {
		BeforeEach(func() {
			newLoop([4]float64{0, 0, 0, 0})
			plant.SetState(dynamo.State{1.6, 0, 0, 0})
		})

		It("applies the safety force on the first step", func() {
			sim.Step(plant, 0.01)
			Expect(rec.modes).To(Equal([]control.Mode{control.ModeSafety}))
			Expect(plant.Force()).To(Equal(-control.ForceScale * control.MaxRaw))
			Expect(plant.State()[1]).To(BeNumerically("<", 0))
		})
	})
})
