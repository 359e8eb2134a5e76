// Package handler implements the HTTP layer of the linksnap server.
//
// # Handlers
//
// CanvasHandler serves the REST API: the canvas document, node and edge
// mutations, mini-pin panels, undo/redo, editor settings, and import/export
// in YAML and JSON.
//
// DragHandler runs the drag gesture protocol over a websocket. Clients
// stream pointer moves, pan state and rendered layer geometry; the server
// pushes preview, commit and removal events back as the snap pipeline
// reacts.
//
// Middleware provides panic recovery, request logging and CORS support;
// Chain composes them around a mux.
//
// # Response Format
//
// Success responses return JSON with conventional status codes (200, 201,
// 204). Error responses return JSON with an {error, details} structure:
// 400 for bad input, 404 for unknown ids, 409 for refused connections.
package handler
