package broadcast

import (
	"sort"
	"testing"

	"github.com/mosaicnetworks/murmur/src/actor"
	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/gossip"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cluster routes the envelopes of a set of broadcast actors through the wire
// codec. Envelopes addressed to clients are kept apart.
type cluster struct {
	t       *testing.T
	ids     []string
	actors  map[string]*Actor
	pending []message.Envelope
	clients []message.Envelope
}

func newCluster(t *testing.T, ids ...string) *cluster {
	c := &cluster{
		t:      t,
		ids:    ids,
		actors: make(map[string]*Actor),
	}
	for _, id := range ids {
		a := New(gossip.NewInmemStore[interface{}](), 0, common.NewTestEntry(t, id))
		require.NoError(t, a.Init(nil, id, ids))
		c.actors[id] = a
	}
	return c
}

func (c *cluster) route(envs ...message.Envelope) {
	for _, env := range envs {
		line, err := message.Encode(env)
		require.NoError(c.t, err)
		decoded, err := message.Decode(line, Vocabulary())
		require.NoError(c.t, err)

		if _, ok := c.actors[decoded.Dest]; ok {
			c.pending = append(c.pending, decoded)
		} else {
			c.clients = append(c.clients, decoded)
		}
	}
}

// request delivers env to its destination and returns the reply.
func (c *cluster) request(env message.Envelope) message.Envelope {
	c.clients = nil
	c.route(env)
	c.run()
	require.Len(c.t, c.clients, 1)
	return c.clients[0]
}

func (c *cluster) run() {
	for len(c.pending) > 0 {
		env := c.pending[0]
		c.pending = c.pending[1:]
		out, err := c.actors[env.Dest].Receive(env)
		require.NoError(c.t, err)
		c.route(out...)
	}
}

func (c *cluster) tick() {
	for _, id := range c.ids {
		c.route(message.Envelope{Src: id, Dest: id, Body: gossip.NewTick()})
	}
	c.run()
}

func read(c *cluster, id string) []interface{} {
	reply := c.request(message.Envelope{Src: "c1", Dest: id, Body: message.NewRequest(TypeRead, 1)})
	return reply.Body.(ReadOK).Messages
}

func TestBroadcastAndRead(t *testing.T) {
	c := newCluster(t, "n1", "n2", "n3")

	reply := c.request(message.Envelope{
		Src:  "c1",
		Dest: "n1",
		Body: Broadcast{Tag: message.Tag{Type: TypeBroadcast}, MsgID: 1, Message: int64(5)},
	})
	assert.Equal(t, "n1", reply.Src)
	assert.Equal(t, message.NewAck(TypeBroadcastOK, 1), reply.Body)

	assert.Equal(t, []interface{}{int64(5)}, read(c, "n1"))
	assert.Empty(t, read(c, "n2"))

	c.tick()

	for _, id := range c.ids {
		assert.Equal(t, []interface{}{int64(5)}, read(c, id), id)
	}
}

func TestTopology(t *testing.T) {
	c := newCluster(t, "n1", "n2", "n3", "n4")

	line := `{"src":"c0","dest":"n2","body":{"type":"topology","msg_id":2,"topology":` +
		`{"n1":["n2"],"n2":["n1","n3"],"n3":["n2","n4"],"n4":["n3"]}}}`

	for _, id := range c.ids {
		env, err := message.Decode([]byte(line), Vocabulary())
		require.NoError(t, err)
		env.Dest = id

		reply := c.request(env)
		assert.Equal(t, message.NewAck(TypeTopologyOK, 2), reply.Body)
	}

	assert.Equal(t, []string{"n1", "n3"}, c.actors["n2"].Peers())
	assert.Equal(t, []string{"n3"}, c.actors["n4"].Peers())

	for i, id := range c.ids {
		c.request(message.Envelope{
			Src:  "c1",
			Dest: id,
			Body: Broadcast{Tag: message.Tag{Type: TypeBroadcast}, MsgID: uint64(i), Message: id},
		})
	}

	for i := 0; i < len(c.ids); i++ {
		c.tick()
	}

	for _, id := range c.ids {
		got := []string{}
		for _, v := range read(c, id) {
			got = append(got, v.(string))
		}
		sort.Strings(got)
		assert.Equal(t, c.ids, got, id)
	}
}

func TestTopologyWithoutSelf(t *testing.T) {
	c := newCluster(t, "n1", "n2")

	env := message.Envelope{
		Src:  "c0",
		Dest: "n1",
		Body: Topology{Tag: message.Tag{Type: TypeTopology}, MsgID: 1, Topology: map[string][]string{"n9": {"n8"}}},
	}
	reply := c.request(env)
	assert.Equal(t, TypeTopologyOK, reply.Kind())
	assert.Equal(t, []string{"n2"}, c.actors["n1"].Peers())
}

func TestDuplicateValues(t *testing.T) {
	c := newCluster(t, "n1", "n2")

	for i, id := range []string{"n1", "n2", "n1"} {
		c.request(message.Envelope{
			Src:  "c1",
			Dest: id,
			Body: Broadcast{Tag: message.Tag{Type: TypeBroadcast}, MsgID: uint64(i), Message: map[string]interface{}{"k": "v"}},
		})
	}
	c.tick()

	for _, id := range c.ids {
		assert.Equal(t, []interface{}{map[string]interface{}{"k": "v"}}, read(c, id), id)
		assert.Equal(t, "3", c.actors[id].Stats()["deltas"], id)
	}
}

func TestIgnoredAndUnsupported(t *testing.T) {
	c := newCluster(t, "n1")
	a := c.actors["n1"]

	out, err := a.Receive(message.Envelope{Src: "c1", Dest: "n1", Body: message.NewAck(TypeBroadcastOK, 3)})
	assert.NoError(t, err)
	assert.Empty(t, out)

	out, err = a.Receive(message.Envelope{Src: "c1", Dest: "n1", Body: message.Init{Tag: message.Tag{Type: message.TypeInit}, NodeID: "n1"}})
	assert.True(t, actor.IsUnsupported(err))
	assert.Empty(t, out)
}

func TestReadOKEmptyList(t *testing.T) {
	c := newCluster(t, "n1")
	reply := c.request(message.Envelope{Src: "c1", Dest: "n1", Body: message.NewRequest(TypeRead, 4)})

	line, err := message.Encode(reply)
	require.NoError(t, err)
	assert.Contains(t, string(line), `"messages":[]`)
	assert.Contains(t, string(line), `"in_reply_to":4`)
}
