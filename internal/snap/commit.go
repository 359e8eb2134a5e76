package snap

import (
	"github.com/rs/zerolog"

	"github.com/goflowspace/linksnap/internal/domain"
)

// Committer finalizes a gesture: it either issues a connect command for the
// last previewed draft or discards it.
type Committer struct {
	store     Store
	settings  SettingsSource
	connector Connector
	preview   *PreviewController
	log       zerolog.Logger
}

// NewCommitter wires the committer to its collaborators.
func NewCommitter(store Store, settings SettingsSource, connector Connector, preview *PreviewController, log zerolog.Logger) *Committer {
	return &Committer{
		store:     store,
		settings:  settings,
		connector: connector,
		preview:   preview,
		log:       log,
	}
}

// OnDragStop consumes the session's tracked preview. Preview-tagged edges
// are always cleared, whatever the command outcome; command errors are the
// collaborator's to surface and are never retried here.
func (c *Committer) OnDragStop(sess *DragSession) {
	defer c.preview.ClearPreview()

	if sess == nil {
		return
	}
	if !c.settings.Current().LinkSnappingEnabled {
		return
	}
	draft := sess.LastDraft()
	if draft == nil {
		return
	}

	snap := c.store.Snapshot()
	if snap.HasPermanentEdge(*draft) {
		// lost a race with a concurrent edit; nothing to commit
		c.log.Debug().
			Str("source", draft.Source).
			Str("target", draft.Target).
			Msg("edge already exists, preview discarded")
		return
	}

	var err error
	if src, ok := snap.Node(draft.Source); ok && src.Type == domain.NodeTypeChoice {
		err = c.connector.ConnectAsChoiceOrigin(*draft)
	} else {
		err = c.connector.ConnectAsNarrativeOrigin(*draft)
	}
	if err != nil {
		c.log.Warn().
			Err(err).
			Str("source", draft.Source).
			Str("target", draft.Target).
			Msg("connect command failed")
	}
}
