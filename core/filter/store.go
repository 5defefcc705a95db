package filter

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// NotRetained marks a document the reservoir declined to keep.  Such
// documents get no entries in the assignment store because no
// rejuvenation sweep will ever revisit them.
const NotRetained = -1

type position struct {
	doc int32
	idx int32
}

type storeNode struct {
	parent int32 // -1 for roots
	table  map[position]int32
}

// AssignmentStore is a copy-on-write forest of topic assignments
// indexed by (node, reservoir slot, word position).  Each particle
// owns one node; a resampled particle gets a fresh child node whose
// reads fall through to its ancestors, so duplicating a particle
// costs O(1) instead of O(words observed).  Writes always land in the
// owning node and never touch ancestors or descendants.
type AssignmentStore struct {
	nodes []*storeNode
	slots int
}

// NewAssignmentStore creates an empty store for a reservoir with the
// given number of slots.
func NewAssignmentStore(slots int) *AssignmentStore {
	if slots < 0 {
		panic(fmt.Sprintf("filter: store slots = %d, less than 0", slots))
	}
	return &AssignmentStore{slots: slots}
}

// NewRoot creates a parentless node and returns its id.
func (s *AssignmentStore) NewRoot() int32 {
	return s.newNode(-1)
}

// NewChild creates a node whose reads fall through to parent.
func (s *AssignmentStore) NewChild(parent int32) int32 {
	s.node(parent)
	return s.newNode(parent)
}

// NewDocument tells the store that node p is about to write
// assignments for a fresh document in the given reservoir slot.
func (s *AssignmentStore) NewDocument(p int32, slot int) {
	s.node(p)
	s.checkSlot(slot)
}

// Set writes an assignment into p's own table.
func (s *AssignmentStore) Set(p int32, slot, i int, topic int32) {
	s.checkSlot(slot)
	s.node(p).table[position{doc: int32(slot), idx: int32(i)}] = topic
}

// Get returns the assignment for (slot, i) as seen by node p: p's own
// entry when there is one, otherwise the nearest ancestor's.  Walking
// past a root without finding the entry is an invariant violation in
// the driver and panics.
func (s *AssignmentStore) Get(p int32, slot, i int) int32 {
	s.checkSlot(slot)
	pos := position{doc: int32(slot), idx: int32(i)}
	for id := p; id >= 0; {
		n := s.node(id)
		if t, ok := n.table[pos]; ok {
			return t
		}
		id = n.parent
	}
	panic(fmt.Sprintf("filter: assignment missing for node=%d doc=%d pos=%d", p, slot, i))
}

// Prune releases every node that is not a live particle and not on
// the path from a live particle to a root, and returns how many nodes
// it reclaimed.  Node ids are never reused, so stale ids held by
// callers stay invalid rather than aliasing new nodes.
func (s *AssignmentStore) Prune(live []int32) int {
	reachable := roaring.New()
	for _, p := range live {
		for id := p; id >= 0 && !reachable.Contains(uint32(id)); {
			reachable.Add(uint32(id))
			id = s.node(id).parent
		}
	}
	reclaimed := 0
	for id, n := range s.nodes {
		if n != nil && !reachable.Contains(uint32(id)) {
			s.nodes[id] = nil
			reclaimed++
		}
	}
	return reclaimed
}

// Len returns the number of nodes ever created, pruned ones included.
func (s *AssignmentStore) Len() int {
	return len(s.nodes)
}

func (s *AssignmentStore) newNode(parent int32) int32 {
	id := int32(len(s.nodes))
	s.nodes = append(s.nodes, &storeNode{
		parent: parent,
		table:  make(map[position]int32),
	})
	return id
}

func (s *AssignmentStore) node(id int32) *storeNode {
	if int(id) < 0 || int(id) >= len(s.nodes) || s.nodes[id] == nil {
		panic(fmt.Sprintf("filter: store node %d does not exist", id))
	}
	return s.nodes[id]
}

func (s *AssignmentStore) checkSlot(slot int) {
	if slot < 0 || slot >= s.slots {
		panic(fmt.Sprintf("filter: reservoir slot=%d out of range [0, %d)", slot, s.slots))
	}
}
