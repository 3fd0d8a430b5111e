// Package workload groups the actors murmur can run. Each subpackage
// implements actor.Actor for one workload of the test harness:
//
//  echo       replies to echo with the same text
//  uniqueid   generates globally unique ids
//  broadcast  replicates arbitrary values with the gossip engine
//  gcounter   a grow-only counter on top of the gossip engine
package workload
