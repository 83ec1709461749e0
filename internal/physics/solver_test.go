package physics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/sandpend/internal/physics"
)

var _ = Describe("Solver", func() {
	var (
		logs   *observer.ObservedLogs
		solver *physics.Solver
	)

	BeforeEach(func() {
		core, observed := observer.New(zapcore.DebugLevel)
		logs = observed
		solver = physics.NewSolver(zap.New(core))
	})

	It("logs one warning per advisory", func() {
		sol, err := solver.Solve(
			physics.AxisState{Position: 0.5, Length: 1},
			physics.AxisState{Length: 0.64},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Advisories).To(HaveLen(2))

		warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
		Expect(warnings).To(HaveLen(2))
		Expect(warnings[0].ContextMap()).To(HaveKeyWithValue("axis", "A_x"))
		Expect(warnings[1].ContextMap()).To(HaveKeyWithValue("level", "unpredictable"))
	})

	It("dumps coefficients for both axes at debug level", func() {
		_, err := solver.Solve(
			physics.AxisState{Position: 0.01, Length: 1},
			physics.AxisState{Velocity: 0.02, Length: 0.64},
		)
		Expect(err).NotTo(HaveOccurred())

		debug := logs.FilterMessage("solved coefficients").All()
		Expect(debug).To(HaveLen(2))
		Expect(debug[0].ContextMap()).To(HaveKey("period_s"))
		Expect(logs.FilterLevelExact(zapcore.WarnLevel).Len()).To(Equal(0))
	})

	It("returns the same coefficients as the pure solver", func() {
		x := physics.AxisState{Position: 0.4, Velocity: -1, Length: 1.2}
		y := physics.AxisState{Position: 0.1, Velocity: 2, Length: 0.3}

		logged, err := solver.Solve(x, y)
		Expect(err).NotTo(HaveOccurred())
		pure, err := physics.Solve(x, y)
		Expect(err).NotTo(HaveOccurred())
		Expect(logged).To(Equal(pure))
	})

	It("passes domain errors through", func() {
		_, err := solver.Solve(physics.AxisState{Length: 0}, physics.AxisState{Length: 1})
		Expect(err).To(HaveOccurred())
	})

	It("works without a logger", func() {
		_, err := physics.NewSolver(nil).Solve(physics.AxisState{Position: 1, Length: 1}, physics.AxisState{Length: 1})
		Expect(err).NotTo(HaveOccurred())
	})
})
