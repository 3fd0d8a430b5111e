// Package echo implements the simplest actor: every echo request is answered
// with the same text.
package echo

import (
	"github.com/mosaicnetworks/murmur/src/actor"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/sirupsen/logrus"
)

// Tags of the echo workload.
const (
	TypeEcho   = "echo"
	TypeEchoOK = "echo_ok"
)

// Echo asks for Echo to be sent back.
type Echo struct {
	message.Tag
	MsgID uint64 `codec:"msg_id"`
	Echo  string `codec:"echo"`
}

// EchoOK answers an Echo.
type EchoOK struct {
	message.Tag
	InReplyTo uint64 `codec:"in_reply_to"`
	Echo      string `codec:"echo"`
}

// Actor is the echo actor.
type Actor struct {
	self   string
	logger *logrus.Entry
}

// New returns an echo Actor.
func New(logger *logrus.Entry) *Actor {
	return &Actor{logger: logger}
}

// Vocabulary implements actor.Actor.
func (a *Actor) Vocabulary() message.Registry {
	return message.NewRegistry().
		Register(TypeEcho, Echo{}).
		Register(TypeEchoOK, EchoOK{})
}

// Init implements actor.Actor.
func (a *Actor) Init(inbox actor.Inbox, self string, peers []string) error {
	a.self = self
	a.logger.WithField("this_id", self).Debug("Init")
	return nil
}

// Receive implements actor.Actor.
func (a *Actor) Receive(env message.Envelope) ([]message.Envelope, error) {
	switch body := env.Body.(type) {
	case Echo:
		return []message.Envelope{message.Reply(env, EchoOK{
			Tag:       message.Tag{Type: TypeEchoOK},
			InReplyTo: body.MsgID,
			Echo:      body.Echo,
		})}, nil
	case EchoOK:
		return nil, nil
	}
	return nil, actor.Unsupported(env.Kind(), env.Src)
}
