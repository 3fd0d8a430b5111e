// Package uniqueid implements an actor generating globally unique ids
// without any coordination, using random (version 4) UUIDs.
package uniqueid

import (
	"github.com/google/uuid"
	"github.com/mosaicnetworks/murmur/src/actor"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/sirupsen/logrus"
)

// Tags of the unique-ids workload.
const (
	TypeGenerate   = "generate"
	TypeGenerateOK = "generate_ok"
)

// GenerateOK carries a new id.
type GenerateOK struct {
	message.Tag
	InReplyTo uint64 `codec:"in_reply_to"`
	ID        string `codec:"id"`
}

// Actor is the unique-ids actor.
type Actor struct {
	self   string
	newID  func() string
	logger *logrus.Entry
}

// New returns a unique-ids Actor.
func New(logger *logrus.Entry) *Actor {
	return &Actor{
		newID:  uuid.NewString,
		logger: logger,
	}
}

// Vocabulary implements actor.Actor.
func (a *Actor) Vocabulary() message.Registry {
	return message.NewRegistry().
		Register(TypeGenerate, message.Request{}).
		Register(TypeGenerateOK, GenerateOK{})
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
	case message.Request:
		return []message.Envelope{message.Reply(env, GenerateOK{
			Tag:       message.Tag{Type: TypeGenerateOK},
			InReplyTo: body.MsgID,
			ID:        a.newID(),
		})}, nil
	case GenerateOK:
		return nil, nil
	}
	return nil, actor.Unsupported(env.Kind(), env.Src)
}
