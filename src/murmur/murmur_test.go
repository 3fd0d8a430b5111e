package murmur

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mosaicnetworks/murmur/src/actor"
	"github.com/mosaicnetworks/murmur/src/config"
	"github.com/mosaicnetworks/murmur/src/gossip"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const initLine = `{"src":"c0","dest":"n1","body":{"type":"init","msg_id":1,"node_id":"n1","node_ids":["n1"]}}`

func run(t *testing.T, conf *config.Config, workload string, lines ...string) []string {
	out := &bytes.Buffer{}
	in := strings.NewReader(strings.Join(append([]string{initLine}, lines...), "\n") + "\n")

	m := NewMurmurWithTransport(conf, workload, in, out)
	require.NoError(t, m.Init())
	m.Run()

	return strings.Split(strings.TrimSpace(out.String()), "\n")
}

func TestEchoWorkload(t *testing.T) {
	out := run(t, config.NewTestConfig(t, logrus.DebugLevel), Echo,
		`{"src":"c1","dest":"n1","body":{"type":"echo","msg_id":2,"echo":"Please echo 35"}}`,
	)

	require.Len(t, out, 2)
	assert.Contains(t, out[0], `"type":"init_ok"`)
	assert.Contains(t, out[0], `"in_reply_to":1`)
	assert.Contains(t, out[1], `"echo":"Please echo 35"`)
	assert.Contains(t, out[1], `"type":"echo_ok"`)
	assert.Contains(t, out[1], `"dest":"c1"`)
}

func TestUniqueIDsWorkload(t *testing.T) {
	out := run(t, config.NewTestConfig(t, logrus.DebugLevel), UniqueIDs,
		`{"src":"c1","dest":"n1","body":{"type":"generate","msg_id":2}}`,
		`{"src":"c1","dest":"n1","body":{"type":"generate","msg_id":3}}`,
	)

	require.Len(t, out, 3)
	assert.Contains(t, out[1], `"type":"generate_ok"`)
	assert.NotEqual(t, out[1], out[2])
}

func TestBroadcastWorkload(t *testing.T) {
	conf := config.NewTestConfig(t, logrus.DebugLevel)
	conf.GossipInterval = 0

	out := run(t, conf, Broadcast,
		`{"src":"c1","dest":"n1","body":{"type":"topology","msg_id":2,"topology":{"n1":[]}}}`,
		`{"src":"c1","dest":"n1","body":{"type":"broadcast","msg_id":3,"message":5}}`,
		`{"src":"c1","dest":"n1","body":{"type":"broadcast","msg_id":4,"message":5}}`,
		`{"src":"c1","dest":"n1","body":{"type":"read","msg_id":5}}`,
	)

	require.Len(t, out, 5)
	assert.Contains(t, out[1], `"type":"topology_ok"`)
	assert.Contains(t, out[2], `"type":"broadcast_ok"`)
	assert.Contains(t, out[4], `"messages":[5]`)
}

func TestGCounterSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	newConf := func() *config.Config {
		conf := config.NewTestConfig(t, logrus.DebugLevel)
		conf.SetDataDir(dir)
		conf.Store = true
		return conf
	}

	run(t, newConf(), GCounter,
		`{"src":"c1","dest":"n1","body":{"type":"add","msg_id":2,"delta":3}}`,
		`{"src":"c1","dest":"n1","body":{"type":"add","msg_id":3,"delta":4}}`,
	)

	out := run(t, newConf(), GCounter,
		`{"src":"c1","dest":"n1","body":{"type":"read","msg_id":4}}`,
	)

	require.Len(t, out, 2)
	assert.Contains(t, out[1], `"value":7`)
}

func TestGossipTimer(t *testing.T) {
	conf := config.NewTestConfig(t, logrus.DebugLevel)
	conf.GossipInterval = time.Millisecond

	// stdin is exhausted right away and the ticker stops with the node
	out := run(t, conf, GCounter)
	require.Len(t, out, 1)
}

func TestInitFailures(t *testing.T) {
	conf := config.NewTestConfig(t, logrus.DebugLevel)

	m := NewMurmurWithTransport(conf, "paxos", strings.NewReader(initLine), &bytes.Buffer{})
	assert.Error(t, m.Init())

	m = NewMurmurWithTransport(conf, Echo, strings.NewReader(`{"src":"c0","dest":"n1","body":{"type":"echo"}}`), &bytes.Buffer{})
	err := m.Init()
	require.Error(t, err)
	assert.IsType(t, &actor.InitError{}, err)

	m = NewMurmurWithTransport(conf, Echo, strings.NewReader(""), &bytes.Buffer{})
	assert.IsType(t, &actor.InitError{}, m.Init())
}

func TestOpenStore(t *testing.T) {
	conf := config.NewTestConfig(t, logrus.DebugLevel)

	store, err := OpenStore[int64](conf, GCounter)
	require.NoError(t, err)
	assert.IsType(t, &gossip.InmemStore[int64]{}, store)

	conf.SetDataDir(t.TempDir())
	conf.Store = true

	store, err = OpenStore[int64](conf, GCounter)
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &gossip.BadgerStore[int64]{}, store)
}
