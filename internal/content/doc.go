// Package content serves the event program and speaker directory.
//
// The catalog is embedded at build time. Blur placeholders come from the image pipeline's placeholders.json
// manifest, loaded lazily by PlaceholderCache and refreshed after its TTL.
package content
