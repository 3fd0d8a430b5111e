// Package peers maintains the ordered set of nodes a node gossips with.
//
// A node learns every id of the network from the init message, itself
// included. Until a topology message says otherwise, it gossips with all of
// them but itself. A topology message maps each node to its neighbours, and
// replaces the set with the neighbours listed for this node.
package peers
