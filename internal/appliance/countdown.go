package appliance

import "time"

// countdown is the accumulator timer behind chopping and washing.
//
// started means a countdown exists for the current item; active means it is
// being advanced. Halting clears active only, so elapsed survives an
// interruption and a resume finishes after the remaining time.
type countdown struct {
	required time.Duration
	elapsed  time.Duration
	started  bool
	active   bool
	actor    string
}

func (c *countdown) start(required time.Duration, actor string) {
	*c = countdown{required: required, started: true, active: true, actor: actor}
}

func (c *countdown) resume(actor string) {
	c.active = true
	c.actor = actor
}

// halt stops advancing. Returns true when the countdown was running.
func (c *countdown) halt() bool {
	if !c.active {
		return false
	}
	c.active = false
	return true
}

// haltFor halts only on behalf of the actor advancing the countdown.
func (c *countdown) haltFor(actor string) bool {
	if actor != c.actor {
		return false
	}
	return c.halt()
}

// advance adds dt and reports whether the required time has been reached.
func (c *countdown) advance(dt time.Duration) bool {
	c.elapsed += dt
	return c.elapsed >= c.required
}

func (c *countdown) reset() {
	*c = countdown{}
}

func (c *countdown) progress() float64 {
	if !c.started {
		return 0
	}
	if c.required <= 0 {
		return 1
	}
	p := float64(c.elapsed) / float64(c.required)
	return min(max(p, 0), 1)
}
