package queue

import (
	"fmt"

	"github.com/pbanos/levelforest/splitsig"
	"github.com/pbanos/levelforest/tree"
)

// Task represents one current-level node whose split (if any) has
// already been decided by the Bottom engine and now needs its
// tree.Node materialized: a leaf gets its Prediction set, an
// internal node gets its two already ID-allocated children filled in
// with a FeatureCriterion and linked as its SubtreeIDs.
type Task struct {
	// The node already created on the NodeStore for this level.
	Node *tree.Node
	// The index this node occupies in the current level's node
	// slice, the BottomIdx a splitsig.SSNode result refers back to.
	BottomIdx int
	// The winning split for this node, or nil if it is a leaf.
	Split *splitsig.SSNode
	// LeftNode and RightNode are the two children already allocated
	// an ID on the NodeStore, left unset when Split is nil.
	LeftNode, RightNode *tree.Node
	// LNext and RNext are the next level's IndexNode slots the two
	// children's geometry must be written into, meaningful only when
	// Split is not nil.
	LNext, RNext int
}

// ID returns a string that identifies the task, the ID of its Node.
func (t *Task) ID() string {
	return t.Node.ID
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s}", t.Node.ID)
}
