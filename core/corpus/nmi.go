package corpus

import (
	"fmt"
	"math"
)

// NMI computes the normalized mutual information between two
// labelings of the same documents, I(A;B)/sqrt(H(A)*H(B)).  It is
// the score used to compare inferred document topics against a
// reference clustering.  A labeling with zero entropy scores 0.
func NMI(a, b []int) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("corpus: labelings differ in length: %d vs %d", len(a), len(b)))
	}
	n := len(a)
	if n == 0 {
		return 0
	}

	ca := make(map[int]int)
	cb := make(map[int]int)
	joint := make(map[[2]int]int)
	for i := range a {
		ca[a[i]]++
		cb[b[i]]++
		joint[[2]int{a[i], b[i]}]++
	}

	ha := entropy(ca, n)
	hb := entropy(cb, n)
	if ha == 0 || hb == 0 {
		return 0
	}

	var mi float64
	for k, c := range joint {
		pxy := float64(c) / float64(n)
		px := float64(ca[k[0]]) / float64(n)
		py := float64(cb[k[1]]) / float64(n)
		mi += pxy * math.Log(pxy/(px*py))
	}
	return mi / math.Sqrt(ha*hb)
}

func entropy(counts map[int]int, n int) float64 {
	var h float64
	for _, c := range counts {
		p := float64(c) / float64(n)
		h -= p * math.Log(p)
	}
	return h
}
