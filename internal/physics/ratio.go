package physics

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Ratio is sqrt(length_y/length_x), the x:y angular frequency ratio that
// decides the shape of the figure.
type Ratio struct {
	Num   int64
	Den   int64
	Value float64
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// FrequencyRatio returns sqrt(lengthY/lengthX) as the exact fraction of
// its shortest decimal representation, so 0.8 becomes 4/5.
func FrequencyRatio(lengthX, lengthY float64) (Ratio, error) {
	if err := checkLength("length_x", lengthX); err != nil {
		return Ratio{}, err
	}
	if err := checkLength("length_y", lengthY); err != nil {
		return Ratio{}, err
	}

	v := math.Sqrt(lengthY / lengthX)
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(v, 'g', -1, 64))
	if !ok || !r.Num().IsInt64() || !r.Denom().IsInt64() {
		return Ratio{}, fmt.Errorf("ratio %g not representable", v)
	}

	return Ratio{Num: r.Num().Int64(), Den: r.Denom().Int64(), Value: v}, nil
}

// Approximate returns the closest fraction with a denominator of at most
// maxDen, using continued fractions.
func (r Ratio) Approximate(maxDen int64) Ratio {
	if maxDen < 1 || r.Den <= maxDen {
		return r
	}

	// convergents h/k of the continued fraction of Num/Den
	h0, h1 := int64(0), int64(1)
	k0, k1 := int64(1), int64(0)
	n, d := r.Num, r.Den
	for d != 0 {
		a := n / d
		k2 := k0 + a*k1
		if k2 > maxDen {
			// best semiconvergent below the bound
			m := (maxDen - k0) / k1
			hs, ks := h0+m*h1, k0+m*k1
			if math.Abs(float64(hs)/float64(ks)-r.Value) < math.Abs(float64(h1)/float64(k1)-r.Value) {
				h1, k1 = hs, ks
			}
			break
		}
		h0, h1 = h1, h0+a*h1
		k0, k1 = k1, k2
		n, d = d, n-a*d
	}

	return Ratio{Num: h1, Den: k1, Value: r.Value}
}
