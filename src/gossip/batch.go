package gossip

import (
	multierror "github.com/hashicorp/go-multierror"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

// Batch is the payload of a gossip message. On the wire it is a plain list of
// deltas, but it is decoded one item at a time: an item that cannot be decoded
// is left out and recorded, and the other items are kept.
type Batch[T any] struct {
	Deltas []Delta[T]

	invalid *multierror.Error
}

// NewBatch returns a Batch carrying deltas.
func NewBatch[T any](deltas []Delta[T]) Batch[T] {
	return Batch[T]{Deltas: deltas}
}

// Err returns the aggregated errors of the items that were left out while
// decoding, or nil.
func (b *Batch[T]) Err() error {
	return b.invalid.ErrorOrNil()
}

// CodecEncodeSelf implements codec.Selfer.
func (b *Batch[T]) CodecEncodeSelf(e *codec.Encoder) {
	deltas := b.Deltas
	if deltas == nil {
		deltas = []Delta[T]{}
	}
	e.MustEncode(deltas)
}

// CodecDecodeSelf implements codec.Selfer.
func (b *Batch[T]) CodecDecodeSelf(d *codec.Decoder) {
	var raws []codec.Raw
	d.MustDecode(&raws)

	b.Deltas = make([]Delta[T], 0, len(raws))
	b.invalid = nil

	for i, raw := range raws {
		var delta Delta[T]
		if err := message.Unmarshal(raw, &delta); err != nil {
			b.invalid = multierror.Append(b.invalid, errors.Wrapf(err, "payload item %d", i))
			continue
		}
		if delta.ID.Origin == "" {
			b.invalid = multierror.Append(b.invalid, errors.Errorf("payload item %d: missing origin", i))
			continue
		}
		b.Deltas = append(b.Deltas, delta)
	}
}
