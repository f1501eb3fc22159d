// Package pipeline drives one animated scene frame by frame:
// advance the clock, sample channels, skin meshes, then traverse for drawing.
package pipeline

import (
	"fmt"
	"sync"

	"rig-renderer/internal/anim"
	"rig-renderer/internal/render"
	"rig-renderer/internal/scene"
	"rig-renderer/internal/skeleton"
)

// Pipeline owns the per-frame state of a scene bound to one clip.
// Step and Render are serialized, so a traversal never observes a
// half-skinned mesh even if they are called from different goroutines.
type Pipeline struct {
	mu       sync.Mutex
	scene    *scene.Scene
	bind     []scene.BindPose
	clock    *anim.Clock
	sampler  *anim.Sampler
	skinner  *skeleton.Skinner
	textures render.TextureSet
	cfg      render.Config
}

// New validates the scene, binds clip (nil for a static scene) and poses
// the scene at tick 0. Any mismatch between clip, bones and graph is
// returned here, before the first frame.
func New(s *scene.Scene, clip *anim.Clip, textures render.TextureSet) (*Pipeline, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := skeleton.CheckBones(s.Graph, s.Meshes); err != nil {
		return nil, err
	}

	p := &Pipeline{
		scene:    s,
		bind:     scene.Snapshot(s.Meshes),
		skinner:  skeleton.NewSkinner(skeleton.NewResolver(s.Graph)),
		textures: textures,
		cfg:      render.DefaultConfig(),
	}
	duration := 0
	if clip != nil {
		sampler, err := anim.NewSampler(s.Graph, clip)
		if err != nil {
			return nil, err
		}
		p.sampler = sampler
		duration = clip.Duration
	}
	p.clock = anim.NewClock(duration)

	if err := p.pose(); err != nil {
		return nil, err
	}
	return p, nil
}

// Step advances the clock by one tick and re-skins every mesh for the new pose.
func (p *Pipeline) Step() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock.Advance()
	return p.pose()
}

func (p *Pipeline) pose() error {
	if p.sampler != nil {
		p.sampler.Apply(p.clock.Tick())
	}
	for i, m := range p.scene.Meshes {
		if err := p.skinner.Skin(m, p.bind[i]); err != nil {
			return fmt.Errorf("pipeline: tick %d: %w", p.clock.Tick(), err)
		}
	}
	return nil
}

// Render traverses the scene into b with the current configuration.
func (p *Pipeline) Render(b render.Backend) {
	p.mu.Lock()
	defer p.mu.Unlock()
	render.Traverse(p.scene, p.textures, p.cfg, b)
}

// SetOverrideColor sets the colour used while replace-colour is on.
func (p *Pipeline) SetOverrideColor(c scene.Color) {
	p.mu.Lock()
	p.cfg.OverrideColor = c
	p.mu.Unlock()
}

// SetReplaceColor switches the override colour on or off.
func (p *Pipeline) SetReplaceColor(on bool) {
	p.mu.Lock()
	p.cfg.ReplaceColor = on
	p.mu.Unlock()
}

// SetConfig replaces the whole render configuration.
func (p *Pipeline) SetConfig(cfg render.Config) {
	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()
}

func (p *Pipeline) Config() render.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

func (p *Pipeline) Tick() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clock.Tick()
}

// Duration is the clip length in ticks, 0 for a static scene.
func (p *Pipeline) Duration() int {
	return p.clock.Duration()
}

func (p *Pipeline) Scene() *scene.Scene { return p.scene }

// BindPose returns the reference pose of mesh i.
func (p *Pipeline) BindPose(i int) scene.BindPose { return p.bind[i] }
