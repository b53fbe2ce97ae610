package bot

import (
	"math"
	"time"

	"golang.org/x/time/rate"
)

// Admission decides how many bots a scheduler starts per tick.
//
// A fractional budget of perTick accumulates every tick and each admitted
// bot consumes one unit of it, so an average of 2.5 joins per tick admits
// 2 and 3 bots in alternating ticks.
type Admission struct {
	perTick  float64
	budget   float64
	total    int
	admitted int

	limiter *rate.Limiter // optional connection attempt ceiling
}

// NewAdmission returns an Admission for total bots at perTick bots per tick.
// A maxPerSecond > 0 additionally limits admissions per second.
func NewAdmission(total int, perTick, maxPerSecond float64) *Admission {
	a := &Admission{perTick: perTick, total: total}
	if maxPerSecond > 0 {
		burst := int(math.Ceil(maxPerSecond))
		a.limiter = rate.NewLimiter(rate.Limit(maxPerSecond), burst)
	}
	return a
}

// Tick accumulates the budget of one tick and returns the number of bots to admit now.
func (a *Admission) Tick(now time.Time) int {
	if a.Done() {
		return 0
	}
	a.budget += a.perTick
	n := int(math.Floor(a.budget))
	if rest := a.total - a.admitted; n > rest {
		n = rest
	}
	if a.limiter != nil {
		for n > 0 && !a.limiter.AllowN(now, n) {
			n-- // defer the rest to later ticks
		}
	}
	if n <= 0 {
		return 0
	}
	a.budget -= float64(n)
	a.admitted += n
	return n
}

// Admitted returns the number of bots admitted so far.
func (a *Admission) Admitted() int { return a.admitted }

// Done reports whether all bots have been admitted.
func (a *Admission) Done() bool { return a.admitted >= a.total }
