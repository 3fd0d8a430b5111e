package node

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/mosaicnetworks/murmur/src/actor"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//Node drives an Actor with the messages read from a line-oriented transport,
//and writes the actor's replies back to it.
type Node struct {
	state

	conf   *Config
	logger *logrus.Entry

	actor    actor.Actor
	registry message.Registry

	in  *lineReader
	out *bufio.Writer

	queue   *Queue
	metrics *Metrics

	id    string
	peers []string

	actorStats atomic.Value
	doneCh     chan struct{}
	start      time.Time
}

//NewNode is a factory method that returns a Node instance reading from in and
//writing to out.
func NewNode(conf *Config, a actor.Actor, in io.Reader, out io.Writer) *Node {
	maxLineSize := conf.MaxLineSize
	if maxLineSize <= 0 {
		maxLineSize = DefaultMaxLineSize
	}

	queue := NewQueue()

	node := Node{
		conf:     conf,
		logger:   conf.Logger.WithField("prefix", "node"),
		actor:    a,
		registry: a.Vocabulary(),
		in:       newLineReader(in, maxLineSize),
		out:      bufio.NewWriter(out),
		queue:    queue,
		metrics:  newMetrics(queue),
		doneCh:   make(chan struct{}),
	}

	return &node
}

//Init performs the initialisation handshake. It reads exactly one line, which
//must be an init message, initialises the actor and acknowledges. Any error
//is an *actor.InitError and leaves the node unusable.
func (n *Node) Init() error {
	if s := n.getState(); s != Uninitialized {
		return &actor.InitError{Err: errors.Errorf("node is %s", s)}
	}

	line, err := n.in.next()
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return &actor.InitError{Err: errors.Wrap(err, "reading init message")}
	}

	env, err := message.Decode(line, message.InitRegistry())
	if err != nil {
		return &actor.InitError{Err: err}
	}

	ini, ok := env.Body.(message.Init)
	if !ok {
		return &actor.InitError{Err: errors.Errorf("expected %s message, got %s", message.TypeInit, env.Kind())}
	}

	if ini.NodeID == "" {
		return &actor.InitError{Err: errors.New("init message without node_id")}
	}

	if err := n.actor.Init(n.queue, ini.NodeID, ini.NodeIDs); err != nil {
		return &actor.InitError{Err: err}
	}

	n.id = ini.NodeID
	n.peers = ini.NodeIDs
	n.logger = n.logger.WithField("this_id", n.id)

	if err := n.send(message.Reply(env, message.NewAck(message.TypeInitOK, ini.MsgID))); err != nil {
		return &actor.InitError{Err: err}
	}

	n.start = time.Now()
	n.setState(Running)

	n.logger.WithFields(logrus.Fields{
		"node_ids": ini.NodeIDs,
		"kinds":    n.registry.Kinds(),
	}).Info("Initialized node")

	return nil
}

//RunAsync calls Run in a separate goroutine. Done is closed when it returns.
func (n *Node) RunAsync() {
	go n.Run()
}

//Run starts the transport reader and consumes envelopes one at a time until
//the transport is closed and every queued envelope has been handled.
func (n *Node) Run() {
	defer close(n.doneCh)

	if s := n.getState(); s != Running {
		n.logger.WithField("state", s.String()).Error("Run called on a node that is not running")
		return
	}

	go n.read()

	for {
		env, ok := n.queue.Pop()
		if !ok {
			break
		}
		n.process(env)
	}

	n.setState(Shutdown)

	n.logger.Debug("Shutdown")
}

//Done is closed when Run returns.
func (n *Node) Done() <-chan struct{} {
	return n.doneCh
}

//read pushes every decodable line into the queue, and closes the queue once
//the transport is exhausted. Lines that are too long or undecodable are
//counted and discarded.
func (n *Node) read() {
	defer n.queue.Close()

	for {
		line, err := n.in.next()
		if err == io.EOF {
			n.logger.Debug("Transport closed")
			return
		}

		if tooLong, ok := err.(*LineTooLongError); ok {
			n.metrics.decodeErrors.Inc()
			n.logger.WithFields(logrus.Fields{
				"size": tooLong.Size,
				"max":  tooLong.Max,
			}).Warn("Discarding line")
			continue
		}

		if err != nil {
			n.logger.WithError(err).Error("Reading transport")
			return
		}

		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		env, err := message.Decode(line, n.registry)
		if err != nil {
			n.metrics.decodeErrors.Inc()
			n.logger.WithError(err).Warn("Discarding line")
			continue
		}

		if err := n.queue.Push(env); err != nil {
			n.logger.WithError(err).Error("Pushing to queue")
			return
		}
	}
}

func (n *Node) process(env message.Envelope) {
	n.metrics.received.Inc()

	out, err := n.actor.Receive(env)
	if err != nil {
		n.metrics.receiveErrors.Inc()

		entry := n.logger.WithError(err).WithFields(logrus.Fields{
			"src":  env.Src,
			"type": env.Kind(),
		})

		if actor.IsUnsupported(err) {
			entry.Warn("Dropping message")
		} else {
			entry.Error("Processing message")
		}
	}

	for _, o := range out {
		if err := n.send(o); err != nil {
			n.logger.WithError(err).WithField("dest", o.Dest).Error("Sending message")
		}
	}

	if s, ok := n.actor.(actor.Stater); ok {
		n.actorStats.Store(s.Stats())
	}
}

func (n *Node) send(env message.Envelope) error {
	line, err := message.Encode(env)
	if err != nil {
		return err
	}

	if _, err := n.out.Write(line); err != nil {
		return err
	}

	if err := n.out.WriteByte('\n'); err != nil {
		return err
	}

	if err := n.out.Flush(); err != nil {
		return err
	}

	n.metrics.sent.Inc()

	return nil
}

//ID returns the node id assigned by the init message.
func (n *Node) ID() string {
	return n.id
}

//GetState returns the state of the node.
func (n *Node) GetState() State {
	return n.getState()
}

//Metrics returns the prometheus collectors of the node.
func (n *Node) Metrics() *Metrics {
	return n.metrics
}

//GetStats returns a snapshot of the node's counters and of the actor's own
//stats, if it publishes any. It is safe to call from any goroutine.
func (n *Node) GetStats() map[string]string {
	s := map[string]string{
		"id":    n.id,
		"state": n.getState().String(),
		"peers": strconv.Itoa(len(n.peers)),
	}

	if !n.start.IsZero() && n.getState() == Running {
		s["uptime"] = time.Since(n.start).Round(time.Millisecond).String()
	}

	values, err := n.metrics.values()
	if err != nil {
		n.logger.WithError(err).Error("Gathering metrics")
	}
	for k, v := range values {
		s[k] = strconv.FormatFloat(v, 'f', -1, 64)
	}

	if as, ok := n.actorStats.Load().(map[string]string); ok {
		for k, v := range as {
			s[fmt.Sprintf("actor.%s", k)] = v
		}
	}

	return s
}
