// Package service coordinates the canvas between the HTTP handlers, the
// snap engine and the storage layers.
//
// # CanvasService
//
// CanvasService wraps the in-memory store with the undo history, the event
// bus and the sqlite write-through. It implements both store-side and
// connector-side contracts of the snap engine, so a single wiring gives the
// engine a canvas to watch and a commit path, and gives every other client
// a live event feed.
//
// # Event System
//
// Every canvas mutation publishes an Event on the EventBus: previews
// installed and cleared, edges committed and removed, nodes moved, undo and
// redo, and wholesale canvas replacement. Subscribers that fall behind miss
// events rather than blocking the editing path.
//
// # Persistence
//
// The in-memory canvas is the source of truth. sqlite is a mirror updated
// write-through on commits, disconnects, pin changes and node CRUD; a
// persistence failure is logged and the mutation stands.
package service
