// Package backend relays requests to the search cluster.
//
// Request and Response are the shapes exchanged with the edge transport; the
// proxy forwards them unchanged for passthrough traffic and with a rewritten
// body for enriched writes. HTTPClient implements Client over net/http with
// optional basic auth.
package backend
