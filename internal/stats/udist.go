package stats

import "math"

// uDist is the exact distribution of the Mann-Whitney U statistic for two
// samples of sizes M and N without ties (Mann & Whitney 1947). The PMF
// follows the recurrence
//
//	p_{n,m}(U) = (n*p_{n-1,m}(U-m) + m*p_{n,m-1}(U)) / (n+m)
//
// with p_{n,0} and p_{0,m} concentrated at U = 0, evaluated iteratively row
// by row so no factorials ever materialize.
type uDist struct {
	M, N int
}

func (d uDist) pmf() []float64 {
	size := d.M*d.N + 1

	// row[m] holds the PMF vector of p_{n,m} for the current n; updating m
	// ascending lets row[m-1] already carry n while row[m] still carries n-1
	row := make([][]float64, d.M+1)
	for m := range row {
		row[m] = make([]float64, size)
		row[m][0] = 1
	}

	for n := 1; n <= d.N; n++ {
		for m := 1; m <= d.M; m++ {
			prev := row[m]    // p_{n-1,m}
			left := row[m-1]  // p_{n,m-1}
			cur := make([]float64, size)
			hi := n * m
			for u := 0; u <= hi; u++ {
				var a float64
				if u-m >= 0 {
					a = prev[u-m]
				}
				cur[u] = (float64(n)*a + float64(m)*left[u]) / float64(n+m)
			}
			row[m] = cur
		}
	}
	return row[d.M]
}

// CDF returns P(U <= u). The distribution is symmetric around M*N/2; the
// smaller tail is summed for accuracy.
func (d uDist) CDF(u float64) float64 {
	ui := int(math.Floor(u))
	if ui < 0 {
		return 0
	}
	if ui >= d.M*d.N {
		return 1
	}

	pmf := d.pmf()
	flip := ui >= (d.M*d.N+1)/2
	if flip {
		ui = d.M*d.N - ui - 1
	}
	p := 0.0
	for i := 0; i <= ui; i++ {
		p += pmf[i]
	}
	if flip {
		p = 1 - p
	}
	return p
}
