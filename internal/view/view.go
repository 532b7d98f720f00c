// Package view holds the pan/zoom transform applied to the map layers.
package view

import (
	"math"
	"time"

	"github.com/compmap/eventmap/internal/scene"
	"github.com/compmap/eventmap/pkg/core"
)

// Scale extent.
const (
	MinScale = 1.0
	MaxScale = 20.0
)

// DefaultResetDuration is the reset animation length.
const DefaultResetDuration = 750 * time.Millisecond

// Rescaler counter-scales marker geometry for a zoom factor.
type Rescaler interface {
	Rescale(k float64)
}

// Clamp limits k to [MinScale, MaxScale].
func Clamp(k float64) float64 {
	if math.IsNaN(k) || k < MinScale {
		return MinScale
	}
	if k > MaxScale {
		return MaxScale
	}
	return k
}

type animation struct {
	from, to core.ViewTransform
	duration time.Duration
	elapsed  time.Duration
}

// Controller owns the current view transform. Every change is applied to the
// base map and marker layers and marker sizes are compensated by 1/k.
type Controller struct {
	scene   *scene.Scene
	markers Rescaler
	current core.ViewTransform
	anim    *animation
}

// New creates a controller at the identity transform.
func New(s *scene.Scene, markers Rescaler) *Controller {
	c := &Controller{scene: s, markers: markers, current: core.Identity}
	c.apply()
	return c
}

// Transform returns the current transform.
func (c *Controller) Transform() core.ViewTransform {
	return c.current
}

// Set replaces the transform, clamping its scale. It cancels a running reset.
func (c *Controller) Set(t core.ViewTransform) core.ViewTransform {
	c.anim = nil
	t.K = Clamp(t.K)
	c.current = t
	c.apply()
	return c.current
}

// ZoomTo sets the scale, keeping the viewport centre fixed.
func (c *Controller) ZoomTo(k float64) core.ViewTransform {
	w, h := c.scene.Size()
	return c.zoomAround(w/2, h/2, Clamp(k))
}

// ZoomAt multiplies the scale by factor, keeping the screen point (px, py)
// fixed.
func (c *Controller) ZoomAt(px, py, factor float64) core.ViewTransform {
	return c.zoomAround(px, py, Clamp(c.current.K*factor))
}

func (c *Controller) zoomAround(px, py, k float64) core.ViewTransform {
	ratio := k / c.current.K
	return c.Set(core.ViewTransform{
		X: px - (px-c.current.X)*ratio,
		Y: py - (py-c.current.Y)*ratio,
		K: k,
	})
}

// Pan translates the view by (dx, dy) screen pixels.
func (c *Controller) Pan(dx, dy float64) core.ViewTransform {
	return c.Set(core.ViewTransform{X: c.current.X + dx, Y: c.current.Y + dy, K: c.current.K})
}

// Reset animates back to the identity transform over duration. A
// non-positive duration resets at once.
func (c *Controller) Reset(duration time.Duration) {
	if duration <= 0 || c.current == core.Identity {
		c.ResetNow()
		return
	}
	c.anim = &animation{from: c.current, to: core.Identity, duration: duration}
}

// ResetNow jumps to the identity transform.
func (c *Controller) ResetNow() {
	c.Set(core.Identity)
}

// Animating reports whether a reset is in progress.
func (c *Controller) Animating() bool {
	return c.anim != nil
}

// Advance steps a running reset by dt. It reports whether the animation is
// still running afterwards.
func (c *Controller) Advance(dt time.Duration) bool {
	a := c.anim
	if a == nil {
		return false
	}
	a.elapsed += dt
	if a.elapsed >= a.duration {
		c.anim = nil
		c.current = a.to
		c.apply()
		return false
	}
	f := float64(a.elapsed) / float64(a.duration)
	c.current = core.ViewTransform{
		X: lerp(a.from.X, a.to.X, f),
		Y: lerp(a.from.Y, a.to.Y, f),
		K: Clamp(lerp(a.from.K, a.to.K, f)),
	}
	c.apply()
	return true
}

func (c *Controller) apply() {
	c.scene.SetLayerTransform(scene.LayerBaseMap, c.current)
	c.scene.SetLayerTransform(scene.LayerMarkers, c.current)
	if c.markers != nil {
		c.markers.Rescale(c.current.K)
	}
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}
