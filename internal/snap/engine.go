package snap

import (
	"github.com/rs/zerolog"

	"github.com/goflowspace/linksnap/internal/layout"
)

// Engine owns the drag gesture lifecycle and wires the pipeline together.
// All methods run synchronously inside the caller's pointer handlers; the
// engine itself is single-threaded by contract.
type Engine struct {
	cfg    Config
	store  Store
	oracle layout.Oracle
	log    zerolog.Logger

	resolver  *Resolver
	preview   *PreviewController
	committer *Committer

	sess *DragSession
}

// Deps are the collaborators an Engine needs. Store, Settings and Connector
// must be non-nil; Pins and Oracle may be nil on a canvas without layers.
type Deps struct {
	Store     Store
	Settings  SettingsSource
	Pins      PinSource
	Oracle    layout.Oracle
	Connector Connector
	Logger    zerolog.Logger
}

// NewEngine builds the full pipeline from one config and one set of
// collaborators.
func NewEngine(cfg Config, deps Deps) *Engine {
	cfg = cfg.normalized()
	resolver := NewResolver(cfg, deps.Pins)
	preview := NewPreviewController(cfg, deps.Store, deps.Settings, resolver, deps.Logger)
	committer := NewCommitter(deps.Store, deps.Settings, deps.Connector, preview, deps.Logger)
	return &Engine{
		cfg:       cfg,
		store:     deps.Store,
		oracle:    deps.Oracle,
		log:       deps.Logger,
		resolver:  resolver,
		preview:   preview,
		committer: committer,
	}
}

// OnDragMove handles one pointer-move event for the dragged node, whose
// position has already been updated in the store. The first move of a
// gesture builds the session; a different dragged node starts a fresh
// gesture, overwriting any abandoned session. Panning disables everything.
func (e *Engine) OnDragMove(nodeID string) {
	snap := e.store.Snapshot()
	if snap.Panning {
		return
	}
	if e.sess == nil || e.sess.DraggedID != nodeID {
		e.sess = newSession(nodeID, snap, e.oracle, e.cfg)
		e.log.Debug().
			Str("session", e.sess.ID).
			Str("node", nodeID).
			Int("indexed", e.sess.index.Len()).
			Msg("drag session started")
	}
	e.preview.OnDragTick(e.sess)
}

// OnDragStop finalizes the current gesture, if any, and discards the
// session. Panning suppresses the commit entirely.
func (e *Engine) OnDragStop() {
	if e.store.Snapshot().Panning {
		e.sess = nil
		return
	}
	sess := e.sess
	e.sess = nil
	e.committer.OnDragStop(sess)
}

// Session returns the live drag session, nil between gestures. Exposed for
// observability; callers must not mutate it.
func (e *Engine) Session() *DragSession {
	return e.sess
}

// Config returns the normalized engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}
