// Package anim advances the animation clock and writes sampled channel
// transforms into the scene graph.
package anim

import (
	"errors"
	"fmt"

	"rig-renderer/internal/mathutil"
)

var (
	ErrKeyCount = errors.New("channel key count does not match clip duration")
	ErrNoClip   = errors.New("no animation clip")
)

// VectorKey is a translation keyframe.
type VectorKey struct {
	Tick  float64
	Value mathutil.Vec3
}

// QuatKey is a rotation keyframe holding a unit quaternion.
type QuatKey struct {
	Tick  float64
	Value mathutil.Quat
}

// Channel animates a single node, named by Node.
type Channel struct {
	Node      string
	Positions []VectorKey
	Rotations []QuatKey
}

// Clip is one animation: a duration in ticks and one channel per animated node.
type Clip struct {
	Name     string
	Duration int
	Channels []Channel
}

// Validate checks that every channel can be sampled at every tick in
// [0, Duration): each key list holds either a single key or one key per tick.
func (c *Clip) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("anim: clip %q: negative duration %d", c.Name, c.Duration)
	}
	for _, ch := range c.Channels {
		if !keysCover(len(ch.Positions), c.Duration) {
			return fmt.Errorf("anim: clip %q channel %q: %d translation keys for duration %d: %w",
				c.Name, ch.Node, len(ch.Positions), c.Duration, ErrKeyCount)
		}
		if !keysCover(len(ch.Rotations), c.Duration) {
			return fmt.Errorf("anim: clip %q channel %q: %d rotation keys for duration %d: %w",
				c.Name, ch.Node, len(ch.Rotations), c.Duration, ErrKeyCount)
		}
	}
	return nil
}

func keysCover(n, duration int) bool {
	return n == 1 || (n > 1 && n >= duration)
}

// Sample picks the translation and rotation for tick. A key list with more
// than one key is indexed directly by tick; a single key is used for every
// tick. No interpolation takes place.
func Sample(ch *Channel, tick int) (mathutil.Vec3, mathutil.Quat) {
	pi := 0
	if len(ch.Positions) > 1 {
		pi = tick
	}
	ri := 0
	if len(ch.Rotations) > 1 {
		ri = tick
	}
	return ch.Positions[pi].Value, ch.Rotations[ri].Value
}

// LocalTransform builds T(translation) × R(rotation): rotation first, then translation.
func LocalTransform(t mathutil.Vec3, q mathutil.Quat) mathutil.Mat4 {
	return mathutil.Mat4Mul(mathutil.Translation(t), mathutil.Rotation(q))
}
