// Package snap implements the drag-to-connect engine: while a node is being
// dragged it suggests the nearest eligible connection, shows it as an
// ephemeral preview edge, and commits exactly one permanent edge when the
// drag ends.
//
// # Pipeline
//
// Engine owns the gesture lifecycle. The first move event of a gesture
// builds a DragSession: a quadtree over the node snapshot plus a cache of
// layer pin-panel geometry. Every subsequent move runs through
// PreviewController, which throttles full resolution by tick count and keeps
// the single preview edge in the store in sync with the Resolver's result.
// Drag-stop runs through Committer, which either issues a connect command
// for the last previewed draft or discards it, and always clears the
// preview.
//
// # Resolution rules
//
// Resolver finds the globally closest connection among two topologies:
// direct node-to-node links, measured between the left node's output pin and
// the right node's input pin, and node-to-layer links measured to the
// nearest unconnected mini-pin. Annotation nodes never participate,
// choice-choice pairs are rejected, overlapping pin spans form a dead zone
// with no meaningful direction, and candidates duplicating an existing edge
// or crowding a node that already has a direct edge are suppressed.
//
// # Collaborators
//
// The engine only sees narrow interfaces: Store (canvas snapshot + edge
// writes), SettingsSource (link snapping preferences), PinSource (layer
// mini-pins), layout.Oracle (rendered pin-panel geometry) and Connector
// (connect commands). All of them are injected; nothing here touches
// globals, so every component is testable with hand-rolled fakes.
package snap
