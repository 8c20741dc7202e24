package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		margins []int
		mean    float64
		stdev   float64
		min     float64
		max     float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638, 10, 23},
		{[]int{-14, 35, -6, 64, 0, 2}, 13.5, 29.878085614710994, -14, 64},
		{[]int{1}, 1, 0, 1, 1},
		{[]int{}, 0, 0, 0, 0},
		{[]int{-3, -3}, -3, 0, -3, -3},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, m := range c.margins {
			s.Push(float64(m))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
		is.Equal(s.Min(), c.min)
		is.Equal(s.Max(), c.max)
		is.Equal(s.Iterations(), len(c.margins))
	}
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540054))
	is.True(FuzzyEqual(ZVal(99), 2.5758293035489))
	is.True(FuzzyEqual(ZVal(0), 0))
}

func TestWinRateInterval(t *testing.T) {
	is := is.New(t)
	p, hw := WinRateInterval(60, 0, 100, 95)
	is.True(FuzzyEqual(p, 0.6))
	is.True(FuzzyEqual(hw, 1.959963984540054*0.04898979485566356))

	p, hw = WinRateInterval(3, 2, 8, 95)
	is.True(FuzzyEqual(p, 0.5))
	is.True(hw > 0)

	p, hw = WinRateInterval(0, 0, 0, 95)
	is.Equal(p, 0.0)
	is.Equal(hw, 0.0)
}
