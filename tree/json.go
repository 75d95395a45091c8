package tree

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/pbanos/levelforest/feature"
)

/*
WriteJSONTree takes a context.Context, a pointer to a Tree and an
io.Writer and serializes the tree as JSON onto the writer: an object
with a "rootID" string, a "label" string naming the predicted
feature, and a "nodes" array holding every node reachable from the
root, each encoded by encodeNode. Nodes are streamed one at a time as
the tree is traversed, rather than built up as one in-memory value, so
writing a tree with many nodes does not require holding them all in
memory at once.
*/
func WriteJSONTree(ctx context.Context, t *Tree, w io.Writer) error {
	jRootID, err := json.Marshal(t.RootID)
	if err != nil {
		return err
	}
	jLabel, err := json.Marshal(t.Label.Name())
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `{"rootID":%s,"label":%s,"nodes":[`, jRootID, jLabel); err != nil {
		return err
	}
	i := 0
	err = t.Traverse(ctx, false, func(ctx context.Context, n *Node) error {
		if i > 0 {
			if _, err := w.Write([]byte(",")); err != nil {
				return err
			}
		}
		i++
		jn, err := encodeNode(n)
		if err != nil {
			return err
		}
		_, err = w.Write(jn)
		return err
	})
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(`]}`))
	return err
}

// ReadJSONTree takes a context.Context, the slice of Features a tree
// may reference (by name, for its Label and every node's
// SubtreeFeature/FeatureCriterion), an io.Reader holding a tree
// written by WriteJSONTree and a NodeStore to populate, and returns
// the resulting Tree.
func ReadJSONTree(ctx context.Context, features []feature.Feature, r io.Reader, store NodeStore) (*Tree, error) {
	byName := make(map[string]feature.Feature, len(features))
	for _, f := range features {
		byName[f.Name()] = f
	}
	jt := &struct {
		RootID string            `json:"rootID"`
		Label  string            `json:"label"`
		Nodes  []json.RawMessage `json:"nodes"`
	}{}
	if err := json.NewDecoder(r).Decode(jt); err != nil {
		return nil, fmt.Errorf("decoding json tree: %v", err)
	}
	label, ok := byName[jt.Label]
	if !ok {
		return nil, fmt.Errorf("decoding json tree: unknown label feature %s", jt.Label)
	}
	if jt.RootID == "" {
		return nil, fmt.Errorf("decoding json tree: missing root node id")
	}
	for _, jn := range jt.Nodes {
		n, err := decodeNode(jn, byName)
		if err != nil {
			return nil, err
		}
		if err := store.Store(ctx, n); err != nil {
			return nil, err
		}
	}
	return New(jt.RootID, store, label), nil
}

type jsonCriterion struct {
	Kind    string   `json:"kind"`
	Feature string   `json:"feature"`
	A       float64  `json:"a,omitempty"`
	B       float64  `json:"b,omitempty"`
	Values  []string `json:"values,omitempty"`
}

type jsonNode struct {
	ID               string           `json:"id"`
	ParentID         string           `json:"parentID,omitempty"`
	SubtreeIDs       []string         `json:"subtreeIDs,omitempty"`
	Prediction       *jsonPrediction  `json:"prediction,omitempty"`
	FeatureCriterion *jsonCriterion   `json:"criterion,omitempty"`
	SubtreeFeature   string           `json:"subtreeFeature,omitempty"`
}

type jsonPrediction struct {
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
	Mean          float64            `json:"mean,omitempty"`
	IsRegression  bool               `json:"isRegression,omitempty"`
	Weight        int                `json:"weight"`
}

func encodeNode(n *Node) ([]byte, error) {
	jn := &jsonNode{ID: n.ID, ParentID: n.ParentID, SubtreeIDs: n.SubtreeIDs}
	if n.Prediction != nil {
		p := n.Prediction
		mean, isRegression := p.PredictedMean()
		jn.Prediction = &jsonPrediction{Probabilities: p.Probabilities(), Mean: mean, IsRegression: isRegression, Weight: p.Weight()}
	}
	if n.FeatureCriterion != nil {
		jc, err := encodeCriterion(n.FeatureCriterion)
		if err != nil {
			return nil, err
		}
		jn.FeatureCriterion = jc
	}
	if n.SubtreeFeature != nil {
		jn.SubtreeFeature = n.SubtreeFeature.Name()
	}
	return json.Marshal(jn)
}

func encodeCriterion(c feature.Criterion) (*jsonCriterion, error) {
	if uc, ok := c.(feature.UndefinedCriterion); ok {
		return &jsonCriterion{Kind: "undefined", Feature: uc.Feature().Name()}, nil
	}
	if sc, ok := c.(feature.SetCriterion); ok {
		return &jsonCriterion{Kind: "set", Feature: sc.Feature().Name(), Values: sc.Values()}, nil
	}
	if cc, ok := c.(feature.ContinuousCriterion); ok {
		// JSON has no infinities: an open end is written as
		// -/+math.MaxFloat64 and decodeCriterion reads it back as -/+Inf.
		a, b := cc.Interval()
		if math.IsInf(a, -1) {
			a = -math.MaxFloat64
		}
		if math.IsInf(b, 1) {
			b = math.MaxFloat64
		}
		return &jsonCriterion{Kind: "continuous", Feature: cc.Feature().Name(), A: a, B: b}, nil
	}
	if dc, ok := c.(feature.DiscreteCriterion); ok {
		return &jsonCriterion{Kind: "discrete", Feature: dc.Feature().Name(), Values: []string{dc.Value()}}, nil
	}
	return nil, fmt.Errorf("encoding json tree: unknown criterion type %T", c)
}

func decodeNode(raw json.RawMessage, byName map[string]feature.Feature) (*Node, error) {
	jn := &jsonNode{}
	if err := json.Unmarshal(raw, jn); err != nil {
		return nil, fmt.Errorf("decoding json tree node: %v", err)
	}
	n := &Node{ID: jn.ID, ParentID: jn.ParentID, SubtreeIDs: jn.SubtreeIDs}
	if jn.Prediction != nil {
		p := jn.Prediction
		if p.IsRegression {
			n.Prediction = NewRegressionPrediction(p.Mean, p.Weight)
		} else {
			n.Prediction = NewPrediction(p.Probabilities, p.Weight)
		}
	}
	if jn.FeatureCriterion != nil {
		c, err := decodeCriterion(jn.FeatureCriterion, byName)
		if err != nil {
			return nil, err
		}
		n.FeatureCriterion = c
	}
	if jn.SubtreeFeature != "" {
		f, ok := byName[jn.SubtreeFeature]
		if !ok {
			return nil, fmt.Errorf("decoding json tree node %s: unknown subtree feature %s", jn.ID, jn.SubtreeFeature)
		}
		n.SubtreeFeature = f
	}
	return n, nil
}

func decodeCriterion(jc *jsonCriterion, byName map[string]feature.Feature) (feature.Criterion, error) {
	f, ok := byName[jc.Feature]
	if !ok {
		return nil, fmt.Errorf("decoding json tree criterion: unknown feature %s", jc.Feature)
	}
	switch jc.Kind {
	case "undefined":
		return feature.NewUndefinedCriterion(f), nil
	case "continuous":
		cf, ok := f.(*feature.ContinuousFeature)
		if !ok {
			return nil, fmt.Errorf("decoding json tree criterion: %s is not continuous", jc.Feature)
		}
		a, b := jc.A, jc.B
		if a == -math.MaxFloat64 {
			a = math.Inf(-1)
		}
		if b == math.MaxFloat64 {
			b = math.Inf(1)
		}
		return feature.NewContinuousCriterion(cf, a, b), nil
	case "set":
		df, ok := f.(*feature.DiscreteFeature)
		if !ok {
			return nil, fmt.Errorf("decoding json tree criterion: %s is not discrete", jc.Feature)
		}
		return feature.NewSetCriterion(df, jc.Values), nil
	case "discrete":
		df, ok := f.(*feature.DiscreteFeature)
		if !ok {
			return nil, fmt.Errorf("decoding json tree criterion: %s is not discrete", jc.Feature)
		}
		if len(jc.Values) != 1 {
			return nil, fmt.Errorf("decoding json tree criterion: discrete criterion needs exactly one value")
		}
		return feature.NewDiscreteCriterion(df, jc.Values[0]), nil
	}
	return nil, fmt.Errorf("decoding json tree criterion: unknown kind %s", jc.Kind)
}
