package vango

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	verrors "github.com/vango-dev/vango-store/internal/errors"
)

// Root drives the render and commit cycle of a component tree.
//
// Components are mounted with Mount and re-render only when marked dirty.
// Flush renders every dirty component, parents before children, verifies
// that every external store snapshot read by the tree is still current,
// and then commits: pending effects run children first, followed by the
// callbacks queued with DeferUntilCommit.
type Root struct {
	owner     *Owner
	logger    *slog.Logger
	tracer    trace.Tracer
	maxPasses int
	yield     func()

	mu          sync.Mutex
	components  map[uint64]*Component
	dirty       map[uint64]*Component
	afterCommit []func()

	flushing atomic.Bool
	passes   atomic.Uint64
	commits  atomic.Uint64
}

// NewRoot creates an empty component tree.
func NewRoot(opts ...RootOption) *Root {
	cfg := defaultRootConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default().With("component", "vango")
	}
	if cfg.MaxPasses <= 0 {
		cfg.MaxPasses = DefaultMaxPasses
	}

	return &Root{
		owner:      NewOwner(nil),
		logger:     cfg.Logger,
		tracer:     cfg.Tracer,
		maxPasses:  cfg.MaxPasses,
		yield:      cfg.Yield,
		components: make(map[uint64]*Component),
		dirty:      make(map[uint64]*Component),
	}
}

// Owner returns the scope all top-level components descend from.
func (r *Root) Owner() *Owner {
	return r.owner
}

// Passes returns the number of render passes performed so far.
func (r *Root) Passes() uint64 {
	return r.passes.Load()
}

// Commits returns the number of commits performed so far. Inside a commit
// effect it is the number of the commit running the effect.
func (r *Root) Commits() uint64 {
	return r.commits.Load()
}

// Mount attaches a component under parent (nil for a top-level component)
// and schedules its first render. It must not be called while a render
// pass is running on the calling goroutine.
func (r *Root) Mount(parent *Component, name string, render func()) *Component {
	ownerParent := r.owner
	depth := 0
	if parent != nil {
		ownerParent = parent.owner
		depth = parent.depth + 1
	}

	c := &Component{
		id:     nextID(),
		name:   name,
		root:   r,
		parent: parent,
		owner:  NewOwner(ownerParent),
		depth:  depth,
		render: render,
	}
	if parent != nil {
		parent.addChild(c)
	}

	r.mu.Lock()
	r.components[c.id] = c
	r.mu.Unlock()

	c.MarkDirty()
	return c
}

// Close unmounts every component and disposes the root scope.
func (r *Root) Close() {
	r.mu.Lock()
	var top []*Component
	for _, c := range r.components {
		if c.parent == nil {
			top = append(top, c)
		}
	}
	r.mu.Unlock()

	sortComponents(top)
	for i := len(top) - 1; i >= 0; i-- {
		top[i].Unmount()
	}
	r.owner.Dispose()
}

// Flush renders and commits until no component is dirty.
//
// A panic raised while rendering aborts the pass: nothing the pass
// scheduled runs, the components of the pass stay dirty, and the panic
// value is returned as an error. Error values are returned unchanged.
// Flush returns an error wrapping ErrRenderLoop when the tree is still
// dirty after the configured number of passes.
//
// Calling Flush while a flush is already running is a no-op.
func (r *Root) Flush() (err error) {
	if !r.flushing.CompareAndSwap(false, true) {
		return nil
	}
	defer r.flushing.Store(false)

	ctx, span := r.tracer.Start(context.Background(), "vango.flush")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	for pass := 0; ; pass++ {
		batch := r.takeDirty()
		if len(batch) == 0 {
			return nil
		}
		if pass >= r.maxPasses {
			r.requeue(batch)
			return r.renderLoop(pass)
		}

		if err := r.renderPass(ctx, pass, batch); err != nil {
			r.abort(batch)
			return err
		}
		if err := r.commit(ctx); err != nil {
			return err
		}
	}
}

// renderPass renders batch and then re-renders, without yielding, every
// component whose external snapshot changed while the pass ran.
func (r *Root) renderPass(ctx context.Context, pass int, batch []*Component) (err error) {
	r.passes.Add(1)
	_, span := r.tracer.Start(ctx, "vango.render_pass",
		trace.WithAttributes(
			attribute.Int("vango.pass", pass),
			attribute.Int("vango.components", len(batch)),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	r.logger.Debug("render pass", "pass", pass, "components", len(batch))

	for i, c := range batch {
		if i > 0 && r.yield != nil {
			r.yield()
		}
		if err := c.renderOnce(); err != nil {
			span.SetAttributes(attribute.String("vango.component", c.name))
			return err
		}
	}

	for round := 0; ; round++ {
		stale := r.staleSnapshots()
		if len(stale) == 0 {
			return nil
		}
		if round >= r.maxPasses {
			return r.renderLoop(round)
		}
		r.logger.Debug("snapshot changed during render", "pass", pass, "components", len(stale))
		span.AddEvent("vango.resync", trace.WithAttributes(attribute.Int("vango.components", len(stale))))
		for _, c := range stale {
			if err := c.renderOnce(); err != nil {
				span.SetAttributes(attribute.String("vango.component", c.name))
				return err
			}
		}
	}
}

// staleSnapshots returns the mounted components that rendered an external
// snapshot which is no longer current.
func (r *Root) staleSnapshots() []*Component {
	r.mu.Lock()
	candidates := make([]*Component, 0, len(r.components))
	for _, c := range r.components {
		candidates = append(candidates, c)
	}
	r.mu.Unlock()

	var stale []*Component
	for _, c := range candidates {
		if !c.snapshotsCurrent() {
			stale = append(stale, c)
		}
	}
	sortComponents(stale)
	return stale
}

// commit runs the effects scheduled by the pass, then the deferred callbacks.
func (r *Root) commit(ctx context.Context) (err error) {
	n := r.commits.Add(1)
	_, span := r.tracer.Start(ctx, "vango.commit",
		trace.WithAttributes(attribute.Int64("vango.commit", int64(n))),
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = verrors.FromPanic(rec)
			r.discardQueued()
			r.logger.Warn("commit failed", "commit", n, "error", err)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	r.owner.RunPendingEffects()

	for {
		r.mu.Lock()
		queued := r.afterCommit
		r.afterCommit = nil
		r.mu.Unlock()

		if len(queued) == 0 {
			return nil
		}
		for _, fn := range queued {
			fn()
		}
	}
}

// abort drops everything the failed pass queued and marks its components
// dirty again so a later Flush retries them.
func (r *Root) abort(batch []*Component) {
	r.discardQueued()
	r.requeue(batch)
	r.logger.Warn("render pass aborted", "components", len(batch))
}

func (r *Root) discardQueued() {
	r.owner.discardPendingEffects()

	r.mu.Lock()
	r.afterCommit = nil
	r.mu.Unlock()
}

func (r *Root) requeue(batch []*Component) {
	for _, c := range batch {
		c.MarkDirty()
	}
}

func (r *Root) renderLoop(n int) error {
	r.logger.Warn("render loop limit exceeded", "passes", n, "max_passes", r.maxPasses)
	return verrors.New("E004").
		WithDetailf("still dirty after %d passes", n).
		Wrap(ErrRenderLoop)
}

func (r *Root) markDirty(c *Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, mounted := r.components[c.id]; mounted {
		r.dirty[c.id] = c
	}
}

// takeDirty removes and returns the dirty set, parents first.
func (r *Root) takeDirty() []*Component {
	r.mu.Lock()
	batch := make([]*Component, 0, len(r.dirty))
	for id, c := range r.dirty {
		batch = append(batch, c)
		delete(r.dirty, id)
	}
	r.mu.Unlock()

	sortComponents(batch)
	return batch
}

func (r *Root) forget(c *Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.components, c.id)
	delete(r.dirty, c.id)
}

func (r *Root) enqueueAfterCommit(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterCommit = append(r.afterCommit, fn)
}

// DeferUntilCommit queues fn to run after the commit of the render pass
// the calling goroutine is rendering, and reports whether it did. When no
// component is rendering it returns false and fn is not queued.
func DeferUntilCommit(fn func()) bool {
	if !isInRender() {
		return false
	}
	c := getCurrentComponent()
	if c == nil {
		return false
	}
	c.root.enqueueAfterCommit(fn)
	return true
}

// sortComponents orders components parents first, then by mount order.
func sortComponents(cs []*Component) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].depth != cs[j].depth {
			return cs[i].depth < cs[j].depth
		}
		return cs[i].id < cs[j].id
	})
}

// Component is a mounted unit of the tree. Its render function runs with
// the component's Owner as the current scope, so hooks called from it
// attach to the component.
type Component struct {
	id     uint64
	name   string
	root   *Root
	parent *Component
	owner  *Owner
	depth  int
	render func()

	childrenMu sync.Mutex
	children   []*Component

	renders   atomic.Int64
	unmounted atomic.Bool

	checksMu sync.Mutex
	checks   []func() bool
}

// Current returns the component rendering on the calling goroutine, or nil.
func Current() *Component {
	if !isInRender() {
		return nil
	}
	return getCurrentComponent()
}

// ID implements Listener.
func (c *Component) ID() uint64 {
	return c.id
}

// Name returns the name given at mount.
func (c *Component) Name() string {
	return c.name
}

// Owner returns the component's scope.
func (c *Component) Owner() *Owner {
	return c.owner
}

// Root returns the tree the component is mounted in.
func (c *Component) Root() *Root {
	return c.root
}

// Renders returns how many times the component rendered to completion.
func (c *Component) Renders() int {
	return int(c.renders.Load())
}

// Mounted reports whether the component has not been unmounted.
func (c *Component) Mounted() bool {
	return !c.unmounted.Load()
}

// MarkDirty implements Listener: the component re-renders on the next Flush.
func (c *Component) MarkDirty() {
	if c.unmounted.Load() {
		return
	}
	c.root.markDirty(c)
}

// Unmount removes the component and its descendants, children first.
// Every cleanup of the component runs before Unmount returns, so no store
// or signal the component subscribed to can reach it afterwards.
// Calling Unmount more than once is a no-op.
func (c *Component) Unmount() {
	if c.unmounted.Swap(true) {
		return
	}

	c.childrenMu.Lock()
	children := c.children
	c.children = nil
	c.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Unmount()
	}

	c.root.forget(c)
	c.owner.Dispose()

	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.setChecks(nil)
}

func (c *Component) addChild(child *Component) {
	c.childrenMu.Lock()
	defer c.childrenMu.Unlock()
	c.children = append(c.children, child)
}

func (c *Component) removeChild(child *Component) {
	c.childrenMu.Lock()
	defer c.childrenMu.Unlock()
	for i, existing := range c.children {
		if existing == child {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}

// renderOnce runs the render function. A panic is recovered and returned;
// the snapshot checks of the previous render are kept in that case.
func (c *Component) renderOnce() (err error) {
	if c.unmounted.Load() {
		return nil
	}

	first := c.renders.Load() == 0

	c.checksMu.Lock()
	prev := c.checks
	c.checks = nil
	c.checksMu.Unlock()

	c.owner.StartRender()
	defer func() {
		if rec := recover(); rec != nil {
			c.owner.abortRender(first)
			c.setChecks(prev)
			err = verrors.FromPanic(rec)
			c.root.logger.Debug("render panicked", "name", c.name, "error", err)
		}
	}()

	withComponent(c, c.render)
	c.owner.EndRender()

	c.renders.Add(1)
	return nil
}

// addSnapshotCheck registers a check for the render in progress. The check
// reports whether the snapshot the render read is still current.
func (c *Component) addSnapshotCheck(check func() bool) {
	c.checksMu.Lock()
	defer c.checksMu.Unlock()
	c.checks = append(c.checks, check)
}

func (c *Component) setChecks(checks []func() bool) {
	c.checksMu.Lock()
	defer c.checksMu.Unlock()
	c.checks = checks
}

// snapshotsCurrent runs the checks of the last completed render.
func (c *Component) snapshotsCurrent() bool {
	if c.unmounted.Load() {
		return true
	}

	c.checksMu.Lock()
	checks := make([]func() bool, len(c.checks))
	copy(checks, c.checks)
	c.checksMu.Unlock()

	for _, check := range checks {
		if !check() {
			return false
		}
	}
	return true
}
