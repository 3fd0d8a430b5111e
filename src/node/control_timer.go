package node

import (
	"sync"
	"time"

	"github.com/mosaicnetworks/murmur/src/actor"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/sirupsen/logrus"
)

type timerFactory func(time.Duration) <-chan time.Time

// Ticker pushes an envelope into an Inbox at a fixed interval. Its only way
// to stop on its own is a failed push, once nothing consumes the Inbox
// anymore.
type Ticker struct {
	timerFactory timerFactory
	interval     time.Duration
	inbox        actor.Inbox
	tick         func() message.Envelope

	shutdownCh   chan struct{} //receives instruction to exit Run loop
	shutdownOnce sync.Once
	doneCh       chan struct{} //closed when Run returns

	logger *logrus.Entry
}

// NewTicker returns a Ticker pushing tick() into inbox every interval.
func NewTicker(interval time.Duration,
	inbox actor.Inbox,
	tick func() message.Envelope,
	logger *logrus.Entry) *Ticker {

	return newTicker(time.After, interval, inbox, tick, logger)
}

func newTicker(factory timerFactory,
	interval time.Duration,
	inbox actor.Inbox,
	tick func() message.Envelope,
	logger *logrus.Entry) *Ticker {

	if logger == nil {
		logger = logrus.New().WithField("prefix", "ticker")
	}

	return &Ticker{
		timerFactory: factory,
		interval:     interval,
		inbox:        inbox,
		tick:         tick,
		shutdownCh:   make(chan struct{}),
		doneCh:       make(chan struct{}),
		logger:       logger,
	}
}

// Run blocks until the Inbox refuses a tick or Shutdown is called.
func (c *Ticker) Run() {
	defer close(c.doneCh)

	for {
		select {
		case <-c.timerFactory(c.interval):
			if err := c.inbox.Push(c.tick()); err != nil {
				c.logger.WithError(err).Debug("Ticker stopped")
				return
			}
		case <-c.shutdownCh:
			return
		}
	}
}

// Shutdown makes Run return. It is safe to call more than once.
func (c *Ticker) Shutdown() {
	c.shutdownOnce.Do(func() {
		close(c.shutdownCh)
	})
}

// Done is closed once Run has returned.
func (c *Ticker) Done() <-chan struct{} {
	return c.doneCh
}
