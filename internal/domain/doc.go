// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (engagement.go, comment.go, content.go, pubsub.go, errors.go) hold
// shared types and the contracts between the state machine, the server use cases and the
// adapters. No implementation code, just contracts.
package domain
