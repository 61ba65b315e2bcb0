package mastery

import "time"

const (
	DefaultFrames        = 10
	DefaultAnimationTime = 500 * time.Millisecond
)

// Animator moves a displayed progress value toward a target in a fixed
// number of frames.
type Animator struct {
	frames   int
	duration time.Duration

	from, to float64
	frame    int
}

// NewAnimator creates an animator. Non-positive arguments select the defaults.
func NewAnimator(frames int, duration time.Duration) *Animator {
	if frames <= 0 {
		frames = DefaultFrames
	}
	if duration <= 0 {
		duration = DefaultAnimationTime
	}
	return &Animator{frames: frames, duration: duration, frame: frames}
}

// Start begins a transition from the value currently displayed to target.
func (a *Animator) Start(target float64) {
	a.from = a.Value()
	a.to = clamp01(target)
	a.frame = 0
	if a.from == a.to {
		a.frame = a.frames
	}
}

// Set jumps to v without animating.
func (a *Animator) Set(v float64) {
	a.from = clamp01(v)
	a.to = a.from
	a.frame = a.frames
}

// Step advances one frame and returns the new value.
func (a *Animator) Step() float64 {
	if a.frame < a.frames {
		a.frame++
	}
	return a.Value()
}

// Value is the value to display for the current frame. It stays between the
// start and target values.
func (a *Animator) Value() float64 {
	if a.frame >= a.frames {
		return a.to
	}
	v := a.from + (a.to-a.from)*float64(a.frame)/float64(a.frames)
	lo, hi := min(a.from, a.to), max(a.from, a.to)
	return min(max(v, lo), hi)
}

// Target is the value the animation ends on.
func (a *Animator) Target() float64 { return a.to }

// Done reports whether the transition has finished.
func (a *Animator) Done() bool { return a.frame >= a.frames }

// Interval is the delay between frames.
func (a *Animator) Interval() time.Duration {
	return a.duration / time.Duration(a.frames)
}
