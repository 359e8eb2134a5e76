// Package domain defines the core domain types for the linksnap canvas
// engine.
//
// This package contains the entities and value objects shared by every other
// package: nodes, edges, mini-pins, edge drafts, canvas snapshots, and the
// geometric primitives they are measured with.
//
// # Core Types
//
// Node represents one element on the story canvas (narrative, choice, layer,
// note, comment) with a top-left position and a rendered size.
//
// Edge represents a directed connection between two nodes, optionally
// attached to a layer mini-pin through its source/target handles. Edges are
// either permanent (committed) or preview (ephemeral, shown during a drag).
//
// MiniPin represents an aggregated connection point on a layer node, split
// into starting (inbound) and ending (outbound) panels.
//
// EdgeDraft is the endpoint tuple a commit would create: the output of
// candidate resolution and the input of the connect commands.
//
// Snapshot is a read-only view of the canvas at one instant; the engine only
// ever reads snapshots and never reaches into store internals.
//
// # Geometry
//
// Point, Size and Rect are the world-coordinate primitives used by the
// spatial index, the resolver and the layout oracle. Rect is anchored at its
// top-left corner, matching node positions.
//
// # Design Principles
//
// - Immutable value objects where possible
// - No database or external dependencies
// - Pure domain logic without infrastructure concerns
// - Rich type system with meaningful constants and enumerations
package domain
