// Package service implements an optional HTTP server to inspect a running
// node.
//
//  /stats    the node's counters and the actor's own stats, as a JSON object
//  /metrics  the node's prometheus metrics
package service
