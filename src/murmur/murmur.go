package murmur

import (
	"io"
	"os"

	"github.com/mosaicnetworks/murmur/src/actor"
	"github.com/mosaicnetworks/murmur/src/config"
	"github.com/mosaicnetworks/murmur/src/gossip"
	"github.com/mosaicnetworks/murmur/src/node"
	"github.com/mosaicnetworks/murmur/src/service"
	"github.com/mosaicnetworks/murmur/src/workload/broadcast"
	"github.com/mosaicnetworks/murmur/src/workload/echo"
	"github.com/mosaicnetworks/murmur/src/workload/gcounter"
	"github.com/mosaicnetworks/murmur/src/workload/uniqueid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Names of the workloads murmur can run.
const (
	Echo      = "echo"
	UniqueIDs = "unique-ids"
	Broadcast = "broadcast"
	GCounter  = "g-counter"
)

// Workloads lists every workload name.
func Workloads() []string {
	return []string{Echo, UniqueIDs, Broadcast, GCounter}
}

// Murmur is the top-level object of a murmur process. It wires the actor of a
// workload to the node runtime and, optionally, to the HTTP service.
type Murmur struct {
	Config   *config.Config
	Workload string
	Actor    actor.Actor
	Node     *node.Node
	Service  *service.Service

	in  io.Reader
	out io.Writer
}

// NewMurmur returns a Murmur running workload over stdin and stdout.
func NewMurmur(conf *config.Config, workload string) *Murmur {
	return NewMurmurWithTransport(conf, workload, os.Stdin, os.Stdout)
}

// NewMurmurWithTransport returns a Murmur reading messages from in and writing
// them to out.
func NewMurmurWithTransport(conf *config.Config, workload string, in io.Reader, out io.Writer) *Murmur {
	return &Murmur{
		Config:   conf,
		Workload: workload,
		in:       in,
		out:      out,
	}
}

func (m *Murmur) initActor() error {
	logger := m.Config.Logger().WithField("prefix", m.Workload)

	switch m.Workload {
	case Echo:
		m.Actor = echo.New(logger)
	case UniqueIDs:
		m.Actor = uniqueid.New(logger)
	case Broadcast:
		store, err := OpenStore[interface{}](m.Config, m.Workload)
		if err != nil {
			return err
		}
		m.Actor = broadcast.New(store, m.Config.GossipInterval, logger)
	case GCounter:
		store, err := OpenStore[int64](m.Config, m.Workload)
		if err != nil {
			return err
		}
		m.Actor = gcounter.New(store, m.Config.GossipInterval, logger)
	default:
		return errors.Errorf("unknown workload %q", m.Workload)
	}

	return nil
}

func (m *Murmur) initNode() error {
	m.Node = node.NewNode(m.Config.NodeConfig(), m.Actor, m.in, m.out)

	return m.Node.Init()
}

func (m *Murmur) initService() error {
	if m.Config.ServiceAddr != "" {
		m.Service = service.NewService(m.Config.ServiceAddr, m.Node, m.Config.Logger().WithField("prefix", "service"))
	}
	return nil
}

// Init creates the actor, performs the initialisation handshake and creates
// the service. A failed handshake is returned as an *actor.InitError.
func (m *Murmur) Init() error {
	if err := m.initActor(); err != nil {
		return err
	}

	if err := m.initNode(); err != nil {
		m.closeActor()
		return err
	}

	if err := m.initService(); err != nil {
		return err
	}

	return nil
}

// Run serves messages until stdin is closed, then releases every resource.
func (m *Murmur) Run() {
	if m.Service != nil {
		go m.Service.Serve()
	}

	m.Node.Run()

	if m.Service != nil {
		if err := m.Service.Close(); err != nil {
			m.Config.Logger().WithError(err).Error("Closing service")
		}
	}

	m.closeActor()
}

func (m *Murmur) closeActor() {
	c, ok := m.Actor.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		m.Config.Logger().WithError(err).Error("Closing actor")
	}
}

// OpenStore returns the store of the values gossiped by workload: in memory,
// or in a badger database under the configured database directory if
// persistence is enabled. An existing database is loaded.
func OpenStore[T any](conf *config.Config, workload string) (gossip.Store[T], error) {
	logger := conf.Logger()

	if !conf.Store {
		logger.Debug("created new in-mem store")
		return gossip.NewInmemStore[T](), nil
	}

	path := conf.BadgerDir(workload)

	logger.WithField("path", path).Debug("Attempting to load or create database")

	store, err := gossip.LoadOrCreateBadgerStore[T](path, logger.WithField("prefix", "badger"))
	if err != nil {
		return nil, err
	}

	if store.NeedBootstrap() {
		logger.WithFields(logrus.Fields{
			"path":   path,
			"deltas": store.Len(),
		}).Debug("loaded badger store from existing database")
	} else {
		logger.Debug("created new badger store from fresh database")
	}

	return store, nil
}
