// Package app provides the server-side use cases.
//
// StatsService reads and writes the shared engagement record and announces every write on the change bus.
// CommentService validates and stores visitor comments. ChangeRelay feeds bus events to the websocket broadcaster.
// Depends on domain interfaces, not concrete implementations.
package app
