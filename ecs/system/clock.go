package system

// stepClock turns variable frame time into a bounded number of fixed
// sub-steps. Leftover time carries to the next frame; when the clamp kicks
// in the surplus is dropped so a slow frame cannot snowball.
type stepClock struct {
	step        float64
	maxSubSteps int
	accum       float64
}

func newStepClock(step float64, maxSubSteps int) stepClock {
	if step <= 0 {
		step = 1.0 / 60.0
	}
	if maxSubSteps <= 0 {
		maxSubSteps = 4
	}
	return stepClock{step: step, maxSubSteps: maxSubSteps}
}

// advance adds dt and returns how many fixed steps to run now.
func (c *stepClock) advance(dt float64) int {
	if dt < 0 {
		dt = 0
	}
	c.accum += dt
	n := int(c.accum / c.step)
	if n > c.maxSubSteps {
		n = c.maxSubSteps
		c.accum = 0
		return n
	}
	c.accum -= float64(n) * c.step
	return n
}
