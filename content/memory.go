package content

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store and Writer. Every write links a fresh copy
// of the tree; nodes already returned to readers are never modified.
type MemoryStore struct {
	mu     sync.RWMutex
	nodes  map[int]*Node // as saved, unlinked
	order  []int
	roots  []*Node
	linked map[int]*Node
}

// NewMemoryStore creates a store holding nodes.
func NewMemoryStore(nodes ...*Node) *MemoryStore {
	s := &MemoryStore{nodes: make(map[int]*Node)}
	for _, n := range nodes {
		s.put(n)
	}
	s.relink()
	return s
}

func (s *MemoryStore) put(n *Node) {
	if _, ok := s.nodes[n.ID]; !ok {
		s.order = append(s.order, n.ID)
	}
	s.nodes[n.ID] = n
}

// relink replaces the published tree with one built from shallow copies of
// the saved nodes.
func (s *MemoryStore) relink() {
	all := make([]*Node, 0, len(s.order))
	linked := make(map[int]*Node, len(s.order))
	for _, id := range s.order {
		cp := *s.nodes[id]
		cp.Children = nil
		all = append(all, &cp)
		linked[id] = &cp
	}
	s.roots = BuildTree(all)
	s.linked = linked
}

// ContentAtRoot returns the top-level nodes.
func (s *MemoryStore) ContentAtRoot(ctx context.Context) ([]*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Node, len(s.roots))
	copy(out, s.roots)
	return out, nil
}

// GetByID returns the node with id.
func (s *MemoryStore) GetByID(ctx context.Context, id int) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.linked[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return n, nil
}

// SaveNode inserts or replaces a node.
func (s *MemoryStore) SaveNode(ctx context.Context, n *Node) error {
	if n == nil || n.ID <= 0 {
		return fmt.Errorf("content: invalid node id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(n)
	s.relink()
	return nil
}

// DeleteNode removes a node. Its children become top-level nodes.
func (s *MemoryStore) DeleteNode(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[id]; !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	delete(s.nodes, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.relink()
	return nil
}
