// Package store holds the live canvas shared by the snap engine, the
// service layer and the HTTP handlers.
//
// # Memory
//
// Memory is the single mutable node/edge collection of the concurrency
// model: all writes are synchronous and last-writer-wins. Every accessor
// copies on the way in and out, so a Snapshot taken by the engine never
// aliases live slices.
//
// # Persistence
//
// The sqlite subpackage persists canvas documents; Memory itself never
// touches disk. The service layer loads a document into Memory at startup
// and writes commits through.
package store
