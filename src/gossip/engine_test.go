package gossip

import (
	"fmt"
	"sort"
	"testing"

	"github.com/mosaicnetworks/murmur/src/actor"
	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine[T any](t *testing.T, self string, ids []string) *Engine[T] {
	e := NewEngine[T](NewInmemStore[T](), common.NewTestEntry(t, "gossip"))
	require.NoError(t, e.Init(self, ids))
	return e
}

// network delivers the envelopes exchanged by a set of engines. Every
// envelope goes through the wire codec.
type network[T any] struct {
	t       *testing.T
	engines map[string]*Engine[T]
	reg     message.Registry
	pending []message.Envelope
}

func newNetwork[T any](t *testing.T, ids ...string) *network[T] {
	n := &network[T]{
		t:       t,
		engines: make(map[string]*Engine[T]),
		reg:     Vocabulary[T](),
	}
	for _, id := range ids {
		n.engines[id] = newTestEngine[T](t, id, ids)
	}
	return n
}

func (n *network[T]) send(envs ...message.Envelope) {
	for _, env := range envs {
		line, err := message.Encode(env)
		require.NoError(n.t, err)
		decoded, err := message.Decode(line, n.reg)
		require.NoError(n.t, err)
		n.pending = append(n.pending, decoded)
	}
}

func (n *network[T]) tickAll() {
	ids := make([]string, 0, len(n.engines))
	for id := range n.engines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		n.send(n.engines[id].Tick()...)
	}
}

// deliverAll delivers pending envelopes, and those they trigger, until there
// are none left. It returns the number of envelopes delivered.
func (n *network[T]) deliverAll() int {
	count := 0
	for len(n.pending) > 0 {
		env := n.pending[0]
		n.pending = n.pending[1:]
		count++

		out, ok, err := n.engines[env.Dest].Handle(env)
		require.True(n.t, ok, "not a gossip message: %v", env)
		require.NoError(n.t, err)
		n.send(out...)
	}
	return count
}

func values[T any](e *Engine[T]) []T {
	return Read(e, Collect[T])
}

func TestEngineAdd(t *testing.T) {
	e := newTestEngine[int64](t, "n1", []string{"n1", "n2", "n3"})

	assert.Equal(t, []string{"n2", "n3"}, e.Peers())

	id, err := e.Add(5)
	require.NoError(t, err)
	assert.Equal(t, ID{Origin: "n1", Seq: 1}, id)

	id, err = e.Add(5)
	require.NoError(t, err)
	assert.Equal(t, ID{Origin: "n1", Seq: 2}, id)

	assert.Equal(t, []ID{{Origin: "n1", Seq: 1}, {Origin: "n1", Seq: 2}}, e.KnownIDs("n1"))
	assert.Equal(t, "2", e.Stats()["seq"])
	assert.Equal(t, "0", e.Stats()["known.n2"])
}

func TestEngineAddBeforeInit(t *testing.T) {
	e := NewEngine[int64](NewInmemStore[int64](), common.NewTestEntry(t, "gossip"))
	_, err := e.Add(1)
	assert.Error(t, err)
	assert.Error(t, e.Init("", nil))
}

func TestEngineInitResumesFromStore(t *testing.T) {
	store := NewInmemStore[int64]()
	for _, d := range []Delta[int64]{
		{ID: ID{Origin: "n1", Seq: 1}, Value: 1},
		{ID: ID{Origin: "n2", Seq: 6}, Value: 1},
		{ID: ID{Origin: "n1", Seq: 3}, Value: 1},
	} {
		require.NoError(t, store.Append(d))
	}

	e := NewEngine[int64](store, common.NewTestEntry(t, "gossip"))
	require.NoError(t, e.Init("n1", []string{"n1", "n2"}))

	id, err := e.Add(1)
	require.NoError(t, err)
	assert.Equal(t, ID{Origin: "n1", Seq: 4}, id)
	assert.Len(t, e.KnownIDs("n1"), 4)
}

func TestTickSkipsWhatPeersKnow(t *testing.T) {
	e := newTestEngine[int64](t, "n1", []string{"n1", "n2", "n3"})

	assert.Empty(t, e.Tick())

	e.Add(1)
	e.Add(2)
	e.Acknowledge("n2", []ID{{Origin: "n1", Seq: 1}, {Origin: "n1", Seq: 2}})
	e.Acknowledge("n3", []ID{{Origin: "n1", Seq: 1}})

	out := e.Tick()
	require.Len(t, out, 1)
	assert.Equal(t, "n1", out[0].Src)
	assert.Equal(t, "n3", out[0].Dest)

	body := out[0].Body.(Gossip[int64])
	assert.Equal(t, []Delta[int64]{{ID: ID{Origin: "n1", Seq: 2}, Value: 2}}, body.Payload.Deltas)
}

func TestMergeIsIdempotent(t *testing.T) {
	e := newTestEngine[int64](t, "n2", []string{"n1", "n2"})

	batch := NewBatch([]Delta[int64]{
		{ID: ID{Origin: "n1", Seq: 1}, Value: 5},
		{ID: ID{Origin: "n1", Seq: 2}, Value: 5},
	})

	ok1, added, err := e.Merge("n1", batch)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	ok2, added, err := e.Merge("n1", batch)
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	assert.Equal(t, ok1, ok2)
	assert.Equal(t, []ID{{Origin: "n1", Seq: 1}, {Origin: "n1", Seq: 2}}, ok2.Seen)
	assert.Len(t, e.Deltas(), 2)

	// the sender has what it sent
	assert.Equal(t, []ID{{Origin: "n1", Seq: 1}, {Origin: "n1", Seq: 2}}, e.KnownIDs("n1"))
	assert.Empty(t, e.Tick())
}

func TestMergeIsCommutative(t *testing.T) {
	a := NewBatch([]Delta[int64]{{ID: ID{Origin: "n1", Seq: 1}, Value: 1}, {ID: ID{Origin: "n1", Seq: 2}, Value: 2}})
	b := NewBatch([]Delta[int64]{{ID: ID{Origin: "n3", Seq: 1}, Value: 3}, {ID: ID{Origin: "n1", Seq: 2}, Value: 2}})

	e1 := newTestEngine[int64](t, "n2", []string{"n1", "n2", "n3"})
	e1.Merge("n1", a)
	e1.Merge("n3", b)

	e2 := newTestEngine[int64](t, "n2", []string{"n1", "n2", "n3"})
	e2.Merge("n3", b)
	e2.Merge("n1", a)

	assert.Equal(t, e1.KnownIDs("n2"), e2.KnownIDs("n2"))
	assert.ElementsMatch(t, values(e1), values(e2))
	assert.Equal(t, Read(e1, Sum[int64]), Read(e2, Sum[int64]))
	assert.Equal(t, int64(6), Read(e1, Sum[int64]))
}

func TestMergeReportsInvalidItems(t *testing.T) {
	e := newTestEngine[int64](t, "n1", []string{"n1", "n2"})

	line := `{"src":"n2","dest":"n1","body":{"type":"gossip","payload":[` +
		`[["n2",1],7],` +
		`[["n2",2],"seven"]]}}`
	env, err := message.Decode([]byte(line), Vocabulary[int64]())
	require.NoError(t, err)

	_, added, err := e.Merge("n2", env.Body.(Gossip[int64]).Payload)
	assert.Error(t, err)
	assert.Equal(t, 1, added)

	// Handle still acknowledges the valid items
	out, ok, err := e.Handle(env)
	require.True(t, ok)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []ID{{Origin: "n2", Seq: 1}}, out[0].Body.(GossipOK).Seen)
}

func TestKnowledgeOnlyGrows(t *testing.T) {
	e := newTestEngine[int64](t, "n1", []string{"n1", "n2"})
	e.Add(1)
	e.Add(2)

	assert.Equal(t, 2, e.Acknowledge("n2", []ID{{Origin: "n1", Seq: 1}, {Origin: "n1", Seq: 2}}))
	assert.Equal(t, 0, e.Acknowledge("n2", []ID{{Origin: "n1", Seq: 1}}))
	assert.Equal(t, 0, e.Acknowledge("n2", nil))
	assert.Len(t, e.KnownIDs("n2"), 2)

	// a peer that leaves the topology is still remembered
	e.SetPeers([]string{"n3"})
	assert.Len(t, e.KnownIDs("n2"), 2)
	assert.Equal(t, []string{"n3"}, e.Peers())
}

func TestSetPeersExcludesSelf(t *testing.T) {
	e := newTestEngine[int64](t, "n1", []string{"n1"})
	assert.Empty(t, e.Peers())

	e.SetPeers([]string{"n3", "n1", "n2", "n3"})
	assert.ElementsMatch(t, []string{"n2", "n3"}, e.Peers())
}

func TestHandleTick(t *testing.T) {
	e := newTestEngine[int64](t, "n1", []string{"n1", "n2"})
	e.Add(9)

	out, ok, err := e.Handle(message.Envelope{Src: "n1", Dest: "n1", Body: NewTick()})
	require.True(t, ok)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	// ticks only come from the node itself
	out, ok, err = e.Handle(message.Envelope{Src: "c1", Dest: "n1", Body: NewTick()})
	assert.True(t, ok)
	assert.True(t, actor.IsUnsupported(err))
	assert.Empty(t, out)

	_, ok, _ = e.Handle(message.Envelope{Src: "c1", Dest: "n1", Body: message.NewRequest("read", 1)})
	assert.False(t, ok)
}

// Three nodes, one value broadcast on n1.
func TestScenarioBroadcast(t *testing.T) {
	net := newNetwork[interface{}](t, "n1", "n2", "n3")

	_, err := net.engines["n1"].Add(int64(5))
	require.NoError(t, err)

	net.send(net.engines["n1"].Tick()...)
	require.Len(t, net.pending, 2)
	for _, env := range net.pending {
		assert.Equal(t, TypeGossip, env.Kind())
	}

	// two gossips, two gossip_oks
	assert.Equal(t, 4, net.deliverAll())

	for id, e := range net.engines {
		assert.Equal(t, []interface{}{int64(5)}, values(e), id)
	}

	// n1 learnt from the acknowledgements that there is nothing left to send
	assert.Empty(t, net.engines["n1"].Tick())
}

// Two nodes adding to a counter.
func TestScenarioCounter(t *testing.T) {
	net := newNetwork[int64](t, "n1", "n2")

	net.engines["n1"].Add(3)
	net.engines["n2"].Add(4)

	net.tickAll()
	net.deliverAll()

	for id, e := range net.engines {
		assert.Equal(t, int64(7), Read(e, Sum[int64]), id)
	}
}

// The same payload delivered twice.
func TestScenarioDuplicatePayload(t *testing.T) {
	net := newNetwork[int64](t, "n1", "n2")

	net.engines["n1"].Add(3)
	gossip := net.engines["n1"].Tick()
	require.Len(t, gossip, 1)

	net.send(gossip[0], gossip[0])
	net.deliverAll()

	assert.Equal(t, int64(3), Read(net.engines["n2"], Sum[int64]))
	assert.Len(t, net.engines["n2"].Deltas(), 1)
}

func TestConvergence(t *testing.T) {
	ids := []string{"n1", "n2", "n3", "n4", "n5"}
	net := newNetwork[interface{}](t, ids...)

	// a line: each node only talks to its neighbours
	for i, id := range ids {
		nb := []string{}
		if i > 0 {
			nb = append(nb, ids[i-1])
		}
		if i < len(ids)-1 {
			nb = append(nb, ids[i+1])
		}
		net.engines[id].SetPeers(nb)
	}

	expected := []interface{}{}
	for i, id := range ids {
		for j := 0; j < 3; j++ {
			v := fmt.Sprintf("%s-%d", id, j)
			_, err := net.engines[id].Add(v)
			require.NoError(t, err)
			expected = append(expected, v)
		}
		if i == 2 {
			// the same value introduced on two nodes is read once
			net.engines[id].Add("n1-0")
		}
	}

	rounds := 0
	for ; rounds < 10; rounds++ {
		net.tickAll()
		if net.deliverAll() == 0 {
			break
		}
	}
	assert.Less(t, rounds, 10, "no quiescence")

	for _, id := range ids {
		assert.ElementsMatch(t, expected, values(net.engines[id]), id)
		assert.Len(t, net.engines[id].Deltas(), 16, id)
	}
}

func TestStartGossip(t *testing.T) {
	e := newTestEngine[int64](t, "n1", []string{"n1", "n2"})

	inbox := &closingInbox{max: 3}
	e.StartGossip(inbox, 1)
	<-e.ticker.Done()

	assert.Len(t, inbox.got, 3)
	for _, env := range inbox.got {
		assert.True(t, env.IsLoopback())
		assert.Equal(t, TypeGossipTick, env.Kind())
	}

	e.StopGossip()
}

// closingInbox accepts max envelopes, then refuses everything.
type closingInbox struct {
	max int
	got []message.Envelope
}

func (c *closingInbox) Push(env message.Envelope) error {
	if len(c.got) >= c.max {
		return actor.ErrClosed
	}
	c.got = append(c.got, env)
	return nil
}
