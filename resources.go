package ripple

import "sync/atomic"

// ResourceKind classifies the GPU-side handles a render context owns.
type ResourceKind uint8

const (
	ResourceSurface  ResourceKind = iota // offscreen drawing surface
	ResourceTexture                      // uploaded source image
	ResourceProgram                      // compiled distortion program
	ResourceGeometry                     // the textured quad
	resourceKindCount
)

// ResourceCounts is a snapshot of live handles per kind.
type ResourceCounts struct {
	Surfaces int64
	Textures int64
	Programs int64
	Geometry int64
}

// Total returns the sum of all live handles.
func (c ResourceCounts) Total() int64 {
	return c.Surfaces + c.Textures + c.Programs + c.Geometry
}

var liveResources [resourceKindCount]atomic.Int64

// LiveResources returns how many handles of each kind are allocated and not
// yet released, across every render context in the process.
func LiveResources() ResourceCounts {
	return ResourceCounts{
		Surfaces: liveResources[ResourceSurface].Load(),
		Textures: liveResources[ResourceTexture].Load(),
		Programs: liveResources[ResourceProgram].Load(),
		Geometry: liveResources[ResourceGeometry].Load(),
	}
}

// resource is the ledger entry embedded in every owned handle. release is
// one-shot: a second call reports false and leaves the ledger untouched.
type resource struct {
	kind ResourceKind
	live bool
}

func acquireResource(kind ResourceKind) resource {
	liveResources[kind].Add(1)
	return resource{kind: kind, live: true}
}

func (r *resource) release() bool {
	if !r.live {
		return false
	}
	r.live = false
	liveResources[r.kind].Add(-1)
	return true
}
