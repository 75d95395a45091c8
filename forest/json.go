package forest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/levelforest/feature"
	"github.com/pbanos/levelforest/tree"
)

// WriteJSONForest serializes f as JSON onto w: an object with a
// "label" string and a "trees" array, each entry written the same
// way tree.WriteJSONTree would write a lone tree.
func WriteJSONForest(ctx context.Context, f *Forest, w io.Writer) error {
	jLabel, err := json.Marshal(f.Label)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `{"label":%s,"trees":[`, jLabel); err != nil {
		return err
	}
	for i, t := range f.Trees {
		if i > 0 {
			if _, err := w.Write([]byte(",")); err != nil {
				return err
			}
		}
		if err := tree.WriteJSONTree(ctx, t, w); err != nil {
			return fmt.Errorf("forest: writing tree %d: %v", i, err)
		}
	}
	_, err = w.Write([]byte(`]}`))
	return err
}

// ReadJSONForest parses a Forest written by WriteJSONForest from r,
// resolving every node's features against the given slice and
// storing each tree's nodes on its own fresh memory NodeStore.
func ReadJSONForest(ctx context.Context, features []feature.Feature, r io.Reader) (*Forest, error) {
	jf := &struct {
		Label string            `json:"label"`
		Trees []json.RawMessage `json:"trees"`
	}{}
	if err := json.NewDecoder(r).Decode(jf); err != nil {
		return nil, fmt.Errorf("forest: decoding json forest: %v", err)
	}
	f := &Forest{Label: jf.Label, Trees: make([]*tree.Tree, len(jf.Trees))}
	for i, jt := range jf.Trees {
		store := tree.NewMemoryNodeStore()
		t, err := tree.ReadJSONTree(ctx, features, bytes.NewReader(jt), store)
		if err != nil {
			return nil, fmt.Errorf("forest: reading tree %d: %v", i, err)
		}
		f.Trees[i] = t
	}
	return f, nil
}
