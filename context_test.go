package ripple

import (
	"errors"
	"testing"
)

func testConfig(w, h int) Config {
	cfg := DefaultConfig()
	cfg.Name = "test"
	cfg.Image = "test://pattern"
	cfg.Width, cfg.Height = w, h
	cfg.Renderer = RenderSoftware
	cfg.LoadRetries = 0
	return cfg
}

// --- Construction ---

func TestNewRenderContextErrors(t *testing.T) {
	if _, err := NewRenderContext(nil, testConfig(4, 4)); !errors.Is(err, ErrNoContainer) {
		t.Errorf("nil container: err = %v", err)
	}
	c := &fakeContainer{}
	if _, err := NewRenderContext(c, testConfig(0, 4)); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero width: err = %v", err)
	}
	if len(c.attached) != 0 {
		t.Error("failed construction attached a surface")
	}
}

func TestNewRenderContextAttaches(t *testing.T) {
	before := LiveResources()
	c := &fakeContainer{rect: Rect{Width: 16, Height: 8}}
	rc, err := NewRenderContext(c, testConfig(16, 8), WithFetcher(staticFetcher(patternImage(16, 8))))
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Teardown()

	if len(c.attached) != 1 || c.attached[0] != rc.Surface() {
		t.Fatalf("attached = %v, want the context surface", c.attached)
	}
	if w, h := rc.Surface().Size(); w != 16 || h != 8 {
		t.Errorf("surface = %dx%d, want 16x8", w, h)
	}
	got := LiveResources()
	want := ResourceCounts{
		Surfaces: before.Surfaces + 1,
		Textures: before.Textures,
		Programs: before.Programs + 1,
		Geometry: before.Geometry + 1,
	}
	if got != want {
		t.Errorf("resources = %+v, want %+v", got, want)
	}
	if rc.TextureState() != TexturePending {
		t.Errorf("state = %v, want pending", rc.TextureState())
	}
}

// --- Teardown ---

func TestTeardownIdempotent(t *testing.T) {
	before := LiveResources()
	c := &fakeContainer{rect: Rect{Width: 8, Height: 8}}
	rc, err := NewRenderContext(c, testConfig(8, 8), WithFetcher(staticFetcher(patternImage(8, 8))))
	if err != nil {
		t.Fatal(err)
	}
	waitLoad(t, rc)
	rc.pollTexture()
	if rc.TextureState() != TextureReady {
		t.Fatalf("state = %v, want ready", rc.TextureState())
	}

	rc.Teardown()
	rc.Teardown()

	if got := LiveResources(); got != before {
		t.Errorf("resources = %+v, want %+v", got, before)
	}
	if c.detached != 1 || len(c.attached) != 0 {
		t.Errorf("detached = %d attached = %d, want 1 and 0", c.detached, len(c.attached))
	}
	if !rc.Disposed() {
		t.Error("Disposed() = false")
	}
}

func TestTeardownBeforeLoad(t *testing.T) {
	before := LiveResources()
	block := make(chan struct{})
	defer close(block)
	c := &fakeContainer{rect: Rect{Width: 8, Height: 8}}
	rc, err := NewRenderContext(c, testConfig(8, 8), WithFetcher(blockingFetcher(block, patternImage(8, 8))))
	if err != nil {
		t.Fatal(err)
	}
	rc.Teardown()
	rc.Teardown()
	if got := LiveResources(); got != before {
		t.Errorf("resources = %+v, want %+v", got, before)
	}
	// A disposed context ignores any late result.
	rc.pollTexture()
	rc.draw()
	if rc.TextureState() != TexturePending || rc.DrawCalls() != 0 || rc.BlankFrames() != 0 {
		t.Error("disposed context changed state")
	}
}

func TestTeardownNilContext(t *testing.T) {
	var rc *RenderContext
	rc.Teardown()
}

// --- Resize ---

func TestRequestResizeDeferred(t *testing.T) {
	c := &fakeContainer{rect: Rect{Width: 8, Height: 8}}
	rc, err := NewRenderContext(c, testConfig(8, 8), WithFetcher(staticFetcher(patternImage(8, 8))))
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Teardown()
	waitLoad(t, rc)
	rc.pollTexture()

	rc.RequestResize(0, 10)
	rc.RequestResize(-1, -1)
	rc.applyPendingResize()
	if w, h := rc.Size(); w != 8 || h != 8 {
		t.Fatalf("invalid resize applied: %dx%d", w, h)
	}

	rc.RequestResize(20, 12)
	if w, h := rc.Size(); w != 8 || h != 8 {
		t.Fatalf("resize applied before the tick: %dx%d", w, h)
	}
	rc.applyPendingResize()
	if w, h := rc.Size(); w != 20 || h != 12 {
		t.Errorf("Size() = %dx%d, want 20x12", w, h)
	}
	if w, h := rc.Surface().Size(); w != 20 || h != 12 {
		t.Errorf("surface = %dx%d, want 20x12", w, h)
	}
	if w, h := rc.quad.Size(); w != 20 || h != 12 {
		t.Errorf("quad = %dx%d, want 20x12", w, h)
	}
	if b := rc.texture.RGBA().Bounds(); b.Dx() != 20 || b.Dy() != 12 {
		t.Errorf("texture = %v, want 20x12", b)
	}
}

// --- Drawing ---

func TestDrawBlankUntilReady(t *testing.T) {
	block := make(chan struct{})
	c := &fakeContainer{rect: Rect{Width: 8, Height: 8}}
	rc, err := NewRenderContext(c, testConfig(8, 8), WithFetcher(blockingFetcher(block, patternImage(8, 8))))
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Teardown()

	rc.pollTexture()
	rc.draw()
	rc.draw()
	if rc.BlankFrames() != 2 || rc.DrawCalls() != 0 {
		t.Fatalf("blank=%d draws=%d, want 2 and 0", rc.BlankFrames(), rc.DrawCalls())
	}
	if rc.Snapshot() != nil {
		t.Error("Snapshot before load should be nil")
	}

	close(block)
	waitLoad(t, rc)
	rc.pollTexture()
	rc.draw()
	if rc.DrawCalls() != 1 {
		t.Errorf("draws = %d, want 1", rc.DrawCalls())
	}
}

func TestLoadFailureState(t *testing.T) {
	boom := errors.New("boom")
	var gotErr error
	calls := 0
	var events []Event

	cfg := testConfig(8, 8)
	cfg.LoadRetries = 1
	cfg.RetryDelayMs = 1
	c := &fakeContainer{rect: Rect{Width: 8, Height: 8}}
	rc, err := NewRenderContext(c, cfg,
		WithFetcher(failingFetcher(boom)),
		OnError(func(err error) { calls++; gotErr = err }),
		WithEventSink(EventSinkFunc(func(e Event) { events = append(events, e) })),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Teardown()

	waitLoad(t, rc)
	rc.pollTexture()
	rc.pollTexture()
	rc.draw()

	if rc.TextureState() != TextureFailed {
		t.Fatalf("state = %v, want failed", rc.TextureState())
	}
	if calls != 1 || !errors.Is(gotErr, boom) || !errors.Is(rc.LoadError(), boom) {
		t.Errorf("OnError calls=%d err=%v", calls, gotErr)
	}
	if len(events) != 1 || events[0].Type != EventTextureFailed {
		t.Errorf("events = %+v", events)
	}
	if rc.BlankFrames() != 1 {
		t.Errorf("blank frames = %d, want 1", rc.BlankFrames())
	}
}
