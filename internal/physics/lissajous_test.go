package physics_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sandpend/internal/dynamo"
	"github.com/san-kum/sandpend/internal/physics"
)

var _ = Describe("SolveCoefficients", func() {
	It("derives omega from length alone", func() {
		for _, l := range []float64{0.01, 0.25, 0.64, 1, 2.5, 40} {
			c, err := physics.SolveAxis(physics.AxisState{Position: 0.1, Velocity: -0.4, Length: l})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Omega).To(BeNumerically(">", 0))
			Expect(c.Omega * c.Omega * l).To(BeNumerically("~", physics.Gravity, 1e-9))
		}
	})

	It("gives zero amplitude and phase at rest", func() {
		for _, l := range []float64{0.1, 1, 7} {
			c, err := physics.SolveAxis(physics.AxisState{Length: l})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Amplitude).To(Equal(0.0))
			Expect(c.Phase).To(Equal(0.0))
			Expect(math.Signbit(c.Phase)).To(BeFalse())
		}
	})

	DescribeTable("reproduces the initial angle and angular velocity",
		func(pos, vel, length float64) {
			c, err := physics.SolveAxis(physics.AxisState{Position: pos, Velocity: vel, Length: length})
			Expect(err).NotTo(HaveOccurred())

			theta0 := c.Amplitude * math.Cos(c.Phase)
			thetaDot0 := -c.Amplitude * c.Omega * math.Sin(c.Phase)
			Expect(theta0).To(BeNumerically("~", pos/length, 1e-9))
			Expect(thetaDot0).To(BeNumerically("~", vel/length, 1e-9))
			Expect(c.Amplitude).To(BeNumerically(">=", 0))
		},
		Entry("first quadrant", 0.2, 0.5, 1.0),
		Entry("second quadrant", -0.2, 0.5, 1.0),
		Entry("third quadrant", -0.2, -0.5, 0.64),
		Entry("fourth quadrant", 0.2, -0.5, 0.64),
		Entry("position only, negative", -0.3, 0.0, 1.0),
		Entry("velocity only, negative", 0.0, -1.2, 0.25),
		Entry("large throw", 0.9, 4.0, 1.3),
	)

	It("matches the resting x-throw scenario", func() {
		cx, cy, err := physics.SolveCoefficients(0.3, 0, 0, 0, 1, 0.64)
		Expect(err).NotTo(HaveOccurred())

		Expect(cx.Omega).To(BeNumerically("~", 3.1321, 1e-4))
		Expect(cx.Omega).To(BeNumerically("~", math.Sqrt(9.81), 1e-12))
		Expect(cx.Amplitude).To(BeNumerically("~", 0.3, 1e-12))
		Expect(cx.Phase).To(Equal(0.0))

		Expect(cy.Amplitude).To(Equal(0.0))
		Expect(cy.Phase).To(Equal(0.0))
		Expect(cy.Omega).To(BeNumerically("~", math.Sqrt(9.81/0.64), 1e-12))
	})

	It("matches the pure velocity scenario", func() {
		c, err := physics.SolveAxis(physics.AxisState{Position: 0, Velocity: 1, Length: 1})
		Expect(err).NotTo(HaveOccurred())

		Expect(c.Omega).To(BeNumerically("~", 3.1321, 1e-4))
		Expect(c.Amplitude).To(BeNumerically("~", 0.3193, 1e-4))
		Expect(c.Amplitude).To(BeNumerically("~", 1/math.Sqrt(9.81), 1e-12))
		Expect(c.Phase).To(BeNumerically("~", -math.Pi/2, 1e-12))
	})

	DescribeTable("rejects invalid input with a DomainError",
		func(x, y physics.AxisState, field string) {
			_, err := physics.Solve(x, y)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, dynamo.ErrDomain)).To(BeTrue())

			var de *dynamo.DomainError
			Expect(errors.As(err, &de)).To(BeTrue())
			Expect(de.Field).To(Equal(field))
		},
		Entry("zero length_x", physics.AxisState{Length: 0}, physics.AxisState{Length: 1}, "length_x"),
		Entry("negative length_y", physics.AxisState{Length: 1}, physics.AxisState{Length: -0.5}, "length_y"),
		Entry("NaN length", physics.AxisState{Length: math.NaN()}, physics.AxisState{Length: 1}, "length_x"),
		Entry("infinite length", physics.AxisState{Length: 1}, physics.AxisState{Length: math.Inf(1)}, "length_y"),
		Entry("NaN position", physics.AxisState{Position: math.NaN(), Length: 1}, physics.AxisState{Length: 1}, "position_x"),
		Entry("infinite velocity", physics.AxisState{Length: 1}, physics.AxisState{Velocity: math.Inf(-1), Length: 1}, "velocity_y"),
	)

	It("fails the flat contract for non-positive lengths", func() {
		_, _, err := physics.SolveCoefficients(0.1, 0, 0.1, 0, 0, 1)
		Expect(err).To(MatchError(dynamo.ErrDomain))

		_, _, err = physics.SolveCoefficients(0.1, 0, 0.1, 0, 1, -1)
		Expect(err).To(MatchError(dynamo.ErrDomain))
	})

	It("reports period and omega for a length", func() {
		w, err := physics.Omega(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(BeNumerically("~", math.Sqrt(9.81), 1e-12))

		T, err := physics.Period(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(T).To(BeNumerically("~", 2*math.Pi/math.Sqrt(9.81), 1e-12))

		_, err = physics.Period(0)
		Expect(err).To(MatchError(dynamo.ErrDomain))
	})
})

var _ = Describe("Advisories", func() {
	It("raises nothing for small throws", func() {
		sol, err := physics.Solve(
			physics.AxisState{Position: 0.05, Length: 1},
			physics.AxisState{Position: -0.02, Length: 0.64},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Advisories).To(BeEmpty())
	})

	It("flags the isochronism limit without touching coefficients", func() {
		x := physics.AxisState{Position: 0.2, Length: 1}
		y := physics.AxisState{Length: 0.64}

		sol, err := physics.Solve(x, y)
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Advisories).To(HaveLen(1))

		a := sol.Advisories[0]
		Expect(a.Axis).To(Equal("A_x"))
		Expect(a.Level).To(Equal(physics.AdvisoryIsochronism))
		Expect(a.Limit).To(Equal(physics.IsochronismLimit))
		Expect(a.String()).To(ContainSubstring("isochronism limit"))

		cx, err := physics.SolveAxis(x)
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.X).To(Equal(cx))
	})

	It("flags both limits past twenty degrees, isochronism first", func() {
		sol, err := physics.Solve(
			physics.AxisState{Position: 0.5, Length: 1},
			physics.AxisState{Position: 0.4, Length: 0.64},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Advisories).To(HaveLen(4))

		levels := []physics.AdvisoryLevel{}
		for _, a := range sol.Advisories {
			levels = append(levels, a.Level)
		}
		Expect(levels).To(Equal([]physics.AdvisoryLevel{
			physics.AdvisoryIsochronism, physics.AdvisoryIsochronism,
			physics.AdvisoryUnpredictable, physics.AdvisoryUnpredictable,
		}))
		Expect(physics.HasLevel(sol.Advisories, physics.AdvisoryUnpredictable)).To(BeTrue())
		Expect(sol.Advisories[2].String()).To(ContainSubstring("predictable pendulum behaviour"))
		Expect(sol.Advisories[2].Degrees()).To(BeNumerically("~", 0.5*180/math.Pi, 1e-9))
	})

	It("uses twenty degrees as the upper limit", func() {
		Expect(physics.UpperLimit).To(BeNumerically("~", 20*math.Pi/180, 1e-15))
		Expect(physics.CheckAmplitudes(0.34, 0)).To(HaveLen(1))
		Expect(physics.CheckAmplitudes(0.35, 0)).To(HaveLen(2))
	})
})
