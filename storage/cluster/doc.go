// Package cluster implements storage.ConfigRepository on top of the search
// cluster the proxy fronts. The configuration is kept as a single document
// in the customer payload format, so it can be inspected with ordinary
// cluster tooling.
package cluster
