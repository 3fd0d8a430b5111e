package message

// Tags of the bodies shared by every workload.
const (
	TypeInit   = "init"
	TypeInitOK = "init_ok"
)

// Init is the first message a node receives. It assigns the node its identity
// and lists every node of the network, itself included.
type Init struct {
	Tag
	MsgID   uint64   `codec:"msg_id"`
	NodeID  string   `codec:"node_id"`
	NodeIDs []string `codec:"node_ids"`
}

// Request is the shape of every request that carries nothing but its id,
// such as "read" or "generate".
type Request struct {
	Tag
	MsgID uint64 `codec:"msg_id"`
}

// Ack is the shape of every reply that carries nothing but the id of the
// request it answers, such as "init_ok" or "broadcast_ok".
type Ack struct {
	Tag
	InReplyTo uint64 `codec:"in_reply_to"`
}

// NewAck returns an Ack of the given kind.
func NewAck(kind string, inReplyTo uint64) Ack {
	return Ack{
		Tag:       Tag{Type: kind},
		InReplyTo: inReplyTo,
	}
}

// NewRequest returns a Request of the given kind.
func NewRequest(kind string, msgID uint64) Request {
	return Request{
		Tag:   Tag{Type: kind},
		MsgID: msgID,
	}
}

// InitRegistry is the vocabulary of the initialisation handshake.
func InitRegistry() Registry {
	return NewRegistry().
		Register(TypeInit, Init{}).
		Register(TypeInitOK, Ack{})
}
