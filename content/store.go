package content

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a node id does not exist.
	ErrNotFound = errors.New("content: node not found")
	// ErrCycle is returned when a node's parent chain loops or is too deep.
	ErrCycle = errors.New("content: parent chain cycle")
)

// MaxDepth bounds every walk up the parent chain.
const MaxDepth = 64

// Store is the read side of the published-content query API.
type Store interface {
	// ContentAtRoot returns the top-level nodes with their children linked.
	ContentAtRoot(ctx context.Context) ([]*Node, error)
	// GetByID returns a single node, or ErrNotFound.
	GetByID(ctx context.Context, id int) (*Node, error)
}

// Writer persists nodes.
type Writer interface {
	SaveNode(ctx context.Context, n *Node) error
	DeleteNode(ctx context.Context, id int) error
}

// FirstAtRoot returns the first top-level node of the given document type,
// or nil when there is none.
func FirstAtRoot(ctx context.Context, s Store, docType string) (*Node, error) {
	roots, err := s.ContentAtRoot(ctx)
	if err != nil {
		return nil, err
	}
	for _, n := range roots {
		if n.IsDocumentType(docType) {
			return n, nil
		}
	}
	return nil, nil
}

// WalkAncestors calls fn for each ancestor of n, nearest first, fetching parents
// through s. The walk ends at a top-level node, a missing parent, or when fn
// returns false.
func WalkAncestors(ctx context.Context, s Store, n *Node, fn func(*Node) bool) error {
	visited := map[int]struct{}{n.ID: {}}
	parentID := n.ParentID
	for depth := 0; parentID != 0; depth++ {
		if depth >= MaxDepth {
			return fmt.Errorf("%w: deeper than %d at node %d", ErrCycle, MaxDepth, n.ID)
		}
		if _, ok := visited[parentID]; ok {
			return fmt.Errorf("%w: node %d revisited", ErrCycle, parentID)
		}
		visited[parentID] = struct{}{}

		parent, err := s.GetByID(ctx, parentID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !fn(parent) {
			return nil
		}
		parentID = parent.ParentID
	}
	return nil
}
