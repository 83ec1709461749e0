package physics_test

import (
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sandpend/internal/dynamo"
	"github.com/san-kum/sandpend/internal/physics"
)

var _ = Describe("Trajectory", func() {
	var tr physics.Trajectory

	BeforeEach(func() {
		sol, err := physics.Solve(
			physics.AxisState{Position: 0.3, Velocity: 0.2, Length: 1},
			physics.AxisState{Position: -0.1, Velocity: 0.5, Length: 0.64},
		)
		Expect(err).NotTo(HaveOccurred())
		tr = sol.Trajectory()
	})

	Describe("instant mode", func() {
		It("starts at the initial position", func() {
			p, err := tr.At(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.X).To(BeNumerically("~", 0.3, 1e-9))
			Expect(p.Y).To(BeNumerically("~", -0.1, 1e-9))
		})

		It("starts with the initial velocity", func() {
			v, err := tr.Velocity(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.X).To(BeNumerically("~", 0.2, 1e-9))
			Expect(v.Y).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("repeats after one period on each axis", func() {
			Tx := tr.X.Period()
			a, _, err := tr.Angles(0.7)
			Expect(err).NotTo(HaveOccurred())
			b, _, err := tr.Angles(0.7 + Tx)
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(BeNumerically("~", a, 1e-9))
		})

		It("accepts negative and large times", func() {
			_, err := tr.At(-12.5)
			Expect(err).NotTo(HaveOccurred())
			_, err = tr.At(1e6)
			Expect(err).NotTo(HaveOccurred())
		})

		DescribeTable("rejects non-finite time",
			func(t float64) {
				_, err := tr.At(t)
				Expect(err).To(MatchError(dynamo.ErrDomain))
				_, err = tr.Velocity(t)
				Expect(err).To(MatchError(dynamo.ErrDomain))
			},
			Entry("NaN", math.NaN()),
			Entry("+Inf", math.Inf(1)),
			Entry("-Inf", math.Inf(-1)),
		)

		It("matches the flat contract", func() {
			p, err := physics.EvaluateInstant(tr.X, tr.Y, tr.LengthX, tr.LengthY, 1.25)
			Expect(err).NotTo(HaveOccurred())
			q, err := tr.At(1.25)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(q))
		})
	})

	Describe("arm lengths", func() {
		DescribeTable("are checked in instant and range mode",
			func(lengthX, lengthY float64, field string) {
				_, err := physics.NewTrajectory(tr.X, tr.Y, lengthX, lengthY)
				Expect(err).To(MatchError(dynamo.ErrDomain))

				_, err = physics.EvaluateInstant(tr.X, tr.Y, lengthX, lengthY, 0)
				Expect(err).To(MatchError(dynamo.ErrDomain))
				Expect(err.Error()).To(ContainSubstring(field))

				path, err := physics.EvaluateRange(tr.X, tr.Y, lengthX, lengthY, 1, 0.1)
				Expect(err).To(MatchError(dynamo.ErrDomain))
				Expect(path).To(BeNil())
			},
			Entry("zero x", 0.0, 0.64, "length_x"),
			Entry("negative y", 1.0, -1.0, "length_y"),
			Entry("NaN x", math.NaN(), -1.0, "length_x"),
			Entry("infinite y", 1.0, math.Inf(1), "length_y"),
		)

		It("are checked on a hand-built trajectory", func() {
			bad := physics.Trajectory{X: tr.X, Y: tr.Y, LengthX: 1}
			_, err := bad.At(0)
			Expect(err).To(MatchError(dynamo.ErrDomain))
			_, err = bad.Velocity(0)
			Expect(err).To(MatchError(dynamo.ErrDomain))
			_, err = bad.Range(1, 0.1)
			Expect(err).To(MatchError(dynamo.ErrDomain))
		})

		It("accepts the solved lengths", func() {
			built, err := physics.NewTrajectory(tr.X, tr.Y, tr.LengthX, tr.LengthY)
			Expect(err).NotTo(HaveOccurred())
			Expect(built).To(Equal(tr))
		})
	})

	Describe("range mode", func() {
		DescribeTable("has ceil(duration/step) samples, all before duration",
			func(duration, step float64) {
				path, err := tr.Range(duration, step)
				Expect(err).NotTo(HaveOccurred())
				Expect(path.Len()).To(Equal(int(math.Ceil(duration / step))))
				Expect(path.Time(path.Len() - 1)).To(BeNumerically("<", duration))
			},
			Entry("default session", 5.0, 0.03),
			Entry("even split", 1.0, 0.25),
			Entry("tenths", 1.0, 0.1),
			Entry("step larger than duration", 0.5, 2.0),
			Entry("fine", 3.0, 0.001),
		)

		DescribeTable("keeps samples strictly before duration when the quotient rounds up",
			func(duration, step float64, want int) {
				path, err := tr.Range(duration, step)
				Expect(err).NotTo(HaveOccurred())
				Expect(path.Len()).To(Equal(want))
				Expect(path.Time(path.Len() - 1)).To(BeNumerically("<", duration))
				Expect(path.Time(path.Len())).To(BeNumerically(">=", duration))
			},
			Entry("4.98 s in hundredths", 4.98, 0.01, 498),
			Entry("default session", 5.0, 0.03, 167),
		)

		It("is empty for a non-positive duration", func() {
			for _, d := range []float64{0, -1} {
				path, err := tr.Range(d, 0.1)
				Expect(err).NotTo(HaveOccurred())
				Expect(path.Len()).To(Equal(0))
				Expect(path.Points()).To(BeEmpty())
			}
		})

		DescribeTable("rejects invalid steps and durations",
			func(duration, step float64) {
				_, err := tr.Range(duration, step)
				Expect(err).To(MatchError(dynamo.ErrDomain))
			},
			Entry("zero step", 1.0, 0.0),
			Entry("negative step", 1.0, -0.1),
			Entry("NaN step", 1.0, math.NaN()),
			Entry("NaN duration", math.NaN(), 0.1),
			Entry("infinite duration", math.Inf(1), 0.1),
			Entry("too many samples", 1e9, 1e-9),
		)

		It("starts where instant mode starts", func() {
			path, err := physics.EvaluateRange(tr.X, tr.Y, tr.LengthX, tr.LengthY, 2, 0.05)
			Expect(err).NotTo(HaveOccurred())
			p0, err := tr.At(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(path.Point(0)).To(Equal(p0))
		})

		It("agrees with instant mode at every sample", func() {
			path, err := tr.Range(2, 0.05)
			Expect(err).NotTo(HaveOccurred())
			i := 0
			for t, p := range path.All() {
				Expect(t).To(BeNumerically("~", float64(i)*0.05, 1e-12))
				q, err := tr.At(t)
				Expect(err).NotTo(HaveOccurred())
				Expect(p).To(Equal(q))
				i++
			}
			Expect(i).To(Equal(path.Len()))
		})

		It("can be iterated again and stopped early", func() {
			path, err := tr.Range(1, 0.1)
			Expect(err).NotTo(HaveOccurred())

			first := path.Points()
			second := path.Points()
			Expect(second).To(Equal(first))

			n := 0
			for range path.All() {
				n++
				if n == 3 {
					break
				}
			}
			Expect(n).To(Equal(3))
		})

		It("materializes large paths identically in parallel", func() {
			path, err := tr.Range(100, 0.001)
			Expect(err).NotTo(HaveOccurred())
			pts := path.Points()
			xs, ys := path.XY()
			Expect(pts).To(HaveLen(path.Len()))
			for _, i := range []int{0, 1, 17000, 50000, path.Len() - 1} {
				Expect(pts[i]).To(Equal(path.Point(i)))
				Expect(xs[i]).To(Equal(pts[i].X))
				Expect(ys[i]).To(Equal(pts[i].Y))
			}
		})

		It("takes prefixes for animation frames", func() {
			path, err := tr.Range(1, 0.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(path.Take(3).Len()).To(Equal(3))
			Expect(path.Take(3).Points()).To(Equal(path.Points()[:3]))
			Expect(path.Take(-1).Len()).To(Equal(0))
			Expect(path.Take(1000).Len()).To(Equal(path.Len()))
		})

		It("bounds the samples within the reachable extent", func() {
			path, err := tr.Range(10, 0.01)
			Expect(err).NotTo(HaveOccurred())
			lo, hi := path.Bounds()
			ext := tr.Extent()
			Expect(hi.X).To(BeNumerically("<=", ext.X+1e-12))
			Expect(lo.X).To(BeNumerically(">=", -ext.X-1e-12))
			Expect(hi.Y).To(BeNumerically("<=", ext.Y+1e-12))
			Expect(lo.Y).To(BeNumerically(">=", -ext.Y-1e-12))
		})

		It("is safe to evaluate concurrently", func() {
			path, err := tr.Range(5, 0.03)
			Expect(err).NotTo(HaveOccurred())
			want := path.Points()

			var wg sync.WaitGroup
			results := make([][]physics.Point, 8)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = path.Points()
				}(i)
			}
			wg.Wait()
			for _, r := range results {
				Expect(r).To(Equal(want))
			}
		})
	})
})
