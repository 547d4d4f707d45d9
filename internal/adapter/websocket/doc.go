// Package websocket fans engagement snapshots out to live listeners.
//
// The Broadcaster is an actor: one goroutine owns the client set and receives commands on a channel.
// Each connection gets its own writer goroutine with a bounded queue, so a slow client is evicted instead of
// stalling the others.
package websocket
