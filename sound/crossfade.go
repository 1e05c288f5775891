package sound

import "github.com/milk9111/planetbowl/common"

// FadeMode selects which channels a transition touches.
type FadeMode int

const (
	// FadeInOnly ramps the incoming channel and leaves the outgoing one alone.
	FadeInOnly FadeMode = iota
	// Crossfade ramps the incoming channel up and the outgoing one down, then
	// stops the outgoing channel.
	Crossfade
)

func (m FadeMode) String() string {
	if m == FadeInOnly {
		return "fade-in"
	}
	return "crossfade"
}

// FadeState is the result of one Advance step.
type FadeState int

const (
	FadeDone FadeState = iota
	FadeInProgress
)

// fadeOp lives for exactly one transition.
type fadeOp struct {
	to, from  Channel
	toIndex   int
	target    float64
	fromStart float64
	elapsed   float64
	duration  float64
	mode      FadeMode
}

// Crossfader owns two interchangeable channels. Exactly one of them is active
// whenever no transition is in flight.
type Crossfader struct {
	channels [2]Channel
	active   int
	duration float64
	op       *fadeOp
}

func NewCrossfader(a, b Channel, duration float64) *Crossfader {
	a.SetVolume(0)
	b.SetVolume(0)
	return &Crossfader{channels: [2]Channel{a, b}, duration: duration}
}

func (c *Crossfader) SetDuration(seconds float64) {
	c.duration = seconds
}

func (c *Crossfader) Duration() float64 {
	return c.duration
}

// Active returns the channel designated audible. During a transition this is
// still the outgoing channel; the designation swaps when the fade completes.
func (c *Crossfader) Active() Channel {
	return c.channels[c.active]
}

// Incoming returns the channel a running transition fades in, or nil.
func (c *Crossfader) Incoming() Channel {
	if c.op == nil {
		return nil
	}
	return c.op.to
}

func (c *Crossfader) Fading() bool {
	return c.op != nil
}

// TransitionTo assigns clip to the idle channel, starts it at zero gain and
// begins ramping it to targetGain. A transition already in flight is completed
// instantly first so at most one fade exists at a time.
func (c *Crossfader) TransitionTo(clip *Clip, targetGain float64, fadeInOnly bool) {
	if c.op != nil {
		c.finish()
	}

	if targetGain < 0 {
		targetGain = 0
	}
	toIndex := 1 - c.active
	to := c.channels[toIndex]
	from := c.channels[c.active]

	mode := Crossfade
	if fadeInOnly {
		mode = FadeInOnly
	}

	to.SetClip(clip)
	to.SetVolume(0)
	to.Play()

	c.op = &fadeOp{
		to:        to,
		from:      from,
		toIndex:   toIndex,
		target:    targetGain,
		fromStart: from.Volume(),
		duration:  c.duration,
		mode:      mode,
	}
	if c.duration <= 0 {
		c.finish()
	}
}

// Advance moves the running transition forward by dt seconds of unscaled time.
func (c *Crossfader) Advance(dt float64) FadeState {
	op := c.op
	if op == nil {
		return FadeDone
	}
	if dt > 0 {
		op.elapsed += dt
	}
	if op.elapsed >= op.duration {
		c.finish()
		return FadeDone
	}

	progress := common.Clamp01(op.elapsed / op.duration)
	op.to.SetVolume(common.Lerp(0, op.target, progress))
	if op.mode == Crossfade {
		op.from.SetVolume(op.fromStart * (1 - progress))
	}
	return FadeInProgress
}

func (c *Crossfader) finish() {
	op := c.op
	if op == nil {
		return
	}
	op.to.SetVolume(op.target)
	if op.mode == Crossfade {
		op.from.SetVolume(0)
		op.from.Stop()
	}
	c.active = op.toIndex
	c.op = nil
}
