// Package message defines the envelope exchanged between nodes and clients,
// and the codec that turns envelopes into single lines of JSON and back.
//
// Every message body is a variant of a closed sum type. Variants embed Tag,
// whose "type" field discriminates them on the wire, and each actor publishes
// the variants it understands in a Registry. Decoding is done in two passes:
// the body is first captured as raw bytes, its tag is peeked, and only then is
// it decoded into the registered variant. Two variants that share the same
// shape are therefore never confused.
//
//  {"src":"c1","dest":"n1","body":{"type":"broadcast","msg_id":1,"message":5}}
package message
