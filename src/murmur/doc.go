// Package murmur assembles a complete node: the actor of a workload, the
// runtime that drives it over stdin and stdout, and the optional HTTP
// service.
//
// A process runs exactly one workload:
//
//  echo        echoes every echo request
//  unique-ids  generates globally unique ids
//  broadcast   replicates values to every node with gossip
//  g-counter   a grow-only counter replicated with gossip
//
// Usage:
//
//  m := murmur.NewMurmur(config.NewDefaultConfig(), murmur.Broadcast)
//  if err := m.Init(); err != nil {
//      // the handshake failed, the node cannot run
//  }
//  m.Run()
package murmur
