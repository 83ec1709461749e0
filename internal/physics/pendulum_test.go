package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sandpend/internal/dynamo"
	"github.com/san-kum/sandpend/internal/physics"
)

var _ = Describe("SandPendulum", func() {
	var p *physics.SandPendulum

	BeforeEach(func() {
		p = physics.NewSandPendulum(1, 0.64)
	})

	It("has a four dimensional state", func() {
		Expect(p.StateDim()).To(Equal(4))
	})

	It("rests at equilibrium", func() {
		dx := p.Derive(dynamo.State{0, 0, 0, 0}, 0)
		for _, v := range dx {
			Expect(v).To(BeNumerically("~", 0, 1e-12))
		}
	})

	It("accelerates back towards the centre at -g/L", func() {
		dx := p.Derive(dynamo.State{0.1, -0.2, 0, 0}, 0)
		Expect(dx[2]).To(BeNumerically("~", -9.81*0.1, 1e-12))
		Expect(dx[3]).To(BeNumerically("~", 9.81/0.64*0.2, 1e-12))
	})

	It("builds the initial state in angles", func() {
		x0, err := p.InitialState(
			physics.AxisState{Position: 0.3, Velocity: 1, Length: 1},
			physics.AxisState{Position: 0.32, Velocity: -0.64, Length: 0.64},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(x0[0]).To(BeNumerically("~", 0.3, 1e-12))
		Expect(x0[1]).To(BeNumerically("~", 0.5, 1e-12))
		Expect(x0[2]).To(BeNumerically("~", 1, 1e-12))
		Expect(x0[3]).To(BeNumerically("~", -1, 1e-12))

		pos := p.Position(x0)
		Expect(pos.X).To(BeNumerically("~", 0.3, 1e-12))
		Expect(pos.Y).To(BeNumerically("~", 0.32, 1e-12))
	})

	It("conserves energy along the closed-form solution", func() {
		sol, err := physics.Solve(
			physics.AxisState{Position: 0.1, Velocity: 0.3, Length: 1},
			physics.AxisState{Position: -0.05, Velocity: 0.1, Length: 0.64},
		)
		Expect(err).NotTo(HaveOccurred())
		tr := sol.Trajectory()

		energyAt := func(t float64) float64 {
			ax, ay, err := tr.Angles(t)
			Expect(err).NotTo(HaveOccurred())
			wx, wy, err := tr.AngularVelocities(t)
			Expect(err).NotTo(HaveOccurred())
			return p.Energy(dynamo.State{ax, ay, wx, wy})
		}

		e0 := energyAt(0)
		for _, t := range []float64{0.3, 1.7, 4.2} {
			Expect(math.Abs(energyAt(t)-e0) / e0).To(BeNumerically("<", 1e-12))
		}
	})

	It("exposes its lengths as parameters", func() {
		Expect(p.GetParams()).To(HaveKeyWithValue("length_y", 0.64))
		Expect(p.SetParam("length_x", 2)).To(Succeed())
		Expect(p.LengthX).To(Equal(2.0))
		Expect(p.SetParam("length_x", 0)).To(MatchError(dynamo.ErrDomain))
		Expect(p.SetParam("gravity", -1)).To(MatchError(dynamo.ErrParameterBounds))
		Expect(p.SetParam("mass", 1)).NotTo(Succeed())
	})
})

var _ = Describe("FrequencyRatio", func() {
	It("returns the exact decimal fraction of sqrt(ly/lx)", func() {
		r, err := physics.FrequencyRatio(1, 0.64)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Num).To(Equal(int64(4)))
		Expect(r.Den).To(Equal(int64(5)))
		Expect(r.Value).To(BeNumerically("~", 0.8, 1e-15))
		Expect(r.String()).To(Equal("4/5"))
	})

	It("handles unison and octaves", func() {
		r, err := physics.FrequencyRatio(1, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.String()).To(Equal("1/1"))

		r, err = physics.FrequencyRatio(1, 0.25)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.String()).To(Equal("1/2"))
	})

	It("approximates irrational ratios with small denominators", func() {
		r, err := physics.FrequencyRatio(1, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Den).To(BeNumerically(">", 1000))

		a := r.Approximate(10)
		Expect(a.String()).To(Equal("7/10"))
		Expect(r.Approximate(100).Den).To(BeNumerically("<=", 100))
		Expect(float64(r.Approximate(100).Num) / float64(r.Approximate(100).Den)).To(BeNumerically("~", r.Value, 1e-3))
	})

	It("rejects invalid lengths", func() {
		_, err := physics.FrequencyRatio(0, 1)
		Expect(err).To(MatchError(dynamo.ErrDomain))
	})
})
