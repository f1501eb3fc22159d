package anim

import (
	"fmt"

	"rig-renderer/internal/scene"
)

// Sampler binds a clip to a graph. Node names are resolved once, so a clip
// that does not match the rig fails here rather than mid-animation.
type Sampler struct {
	graph   *scene.Graph
	clip    *Clip
	targets []scene.NodeID
}

// NewSampler validates clip against graph.
func NewSampler(g *scene.Graph, clip *Clip) (*Sampler, error) {
	if clip == nil {
		return nil, ErrNoClip
	}
	if err := clip.Validate(); err != nil {
		return nil, err
	}
	targets := make([]scene.NodeID, len(clip.Channels))
	for i, ch := range clip.Channels {
		id, ok := g.Find(ch.Node)
		if !ok {
			return nil, fmt.Errorf("anim: clip %q channel %q: %w", clip.Name, ch.Node, scene.ErrUnknownNode)
		}
		targets[i] = id
	}
	return &Sampler{graph: g, clip: clip, targets: targets}, nil
}

func (s *Sampler) Clip() *Clip { return s.clip }

// Apply overwrites the local transform of every animated node with its sample for tick.
func (s *Sampler) Apply(tick int) {
	for i := range s.clip.Channels {
		t, q := Sample(&s.clip.Channels[i], tick)
		s.graph.SetTransform(s.targets[i], LocalTransform(t, q))
	}
}
