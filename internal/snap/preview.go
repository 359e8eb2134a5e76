package snap

import (
	"github.com/rs/zerolog"

	"github.com/goflowspace/linksnap/internal/domain"
)

// PreviewController keeps the single preview edge in the store in sync with
// the resolver's winner, throttled by tick count.
type PreviewController struct {
	cfg      Config
	store    Store
	settings SettingsSource
	resolver *Resolver
	log      zerolog.Logger
}

// NewPreviewController wires the controller to its collaborators.
func NewPreviewController(cfg Config, store Store, settings SettingsSource, resolver *Resolver, log zerolog.Logger) *PreviewController {
	return &PreviewController{
		cfg:      cfg.normalized(),
		store:    store,
		settings: settings,
		resolver: resolver,
		log:      log,
	}
}

// OnDragTick runs once per move event. It is idempotent: repeated calls
// with an unchanged winner leave the store untouched.
func (p *PreviewController) OnDragTick(sess *DragSession) {
	if sess == nil {
		return
	}
	if !p.settings.Current().LinkSnappingEnabled {
		sess.lastDraft = nil
		p.ClearPreview()
		return
	}
	if !sess.nextTick(p.cfg.ThrottleFactor) {
		return
	}

	snap := p.store.Snapshot()
	draft := p.resolver.Resolve(sess.DraggedID, snap, sess)
	switch {
	case draft == nil:
		sess.lastDraft = nil
		p.ClearPreview()
	case sess.lastDraft != nil && draft.Equal(*sess.lastDraft):
		// unchanged winner, leave the store alone
	default:
		sess.lastDraft = draft
		p.install(snap, *draft)
		p.log.Debug().
			Str("source", draft.Source).
			Str("target", draft.Target).
			Msg("preview updated")
	}
}

// install replaces whatever preview exists with a freshly styled one in a
// single edge-slice rewrite.
func (p *PreviewController) install(snap domain.Snapshot, draft domain.EdgeDraft) {
	st := p.settings.Current()
	style := domain.DeriveEdgeStyle(st.LinkThickness, st.LinkStyle, st.CanvasColorScheme, true)

	next := make([]domain.Edge, 0, len(snap.Edges)+1)
	for _, e := range snap.Edges {
		if e.IsPreview() {
			continue
		}
		next = append(next, e)
	}
	next = append(next, *domain.NewPreviewEdge(draft, style))
	p.store.SetEdges(next)
}

// ClearPreview strips every preview-tagged edge from the store. The write
// is skipped when there is nothing to strip.
func (p *PreviewController) ClearPreview() {
	snap := p.store.Snapshot()
	next := make([]domain.Edge, 0, len(snap.Edges))
	stripped := false
	for _, e := range snap.Edges {
		if e.IsPreview() {
			stripped = true
			continue
		}
		next = append(next, e)
	}
	if stripped {
		p.store.SetEdges(next)
	}
}
