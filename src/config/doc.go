// Package config defines the configuration for a murmur node.
//
// Regardless of how murmur is started, directly from Go code or as a
// standalone process from the command line, it uses the Config object defined
// in this package to store and forward configuration options. The data
// directory, defined by Config.DataDir, may contain an optional configuration
// file read by the command line:
//
//  murmur.toml // (or .yaml, .json) values for any of the Config keys.
//
// When Store is set, the gossiped values of each workload are kept in a badger
// database under Config.DatabaseDir, and survive a restart.
package config
