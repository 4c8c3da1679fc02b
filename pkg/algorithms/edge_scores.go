package algorithms

import (
	"bytes"
	"encoding/json"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/graph"
	"gopkg.in/yaml.v3"
)

// EdgeScores maps canonical edge keys to betweenness scores and remembers the
// order in which the engine enumerated the edges. That order drives the
// first-seen-wins selection of the maximum edge, so it is part of the result.
type EdgeScores struct {
	keys   []graph.EdgeKey
	scores map[graph.EdgeKey]float64
}

func newEdgeScores() *EdgeScores {
	return &EdgeScores{
		keys:   make([]graph.EdgeKey, 0),
		scores: make(map[graph.EdgeKey]float64),
	}
}

func (s *EdgeScores) init(key graph.EdgeKey) {
	if _, exists := s.scores[key]; exists {
		return
	}
	s.keys = append(s.keys, key)
	s.scores[key] = 0
}

func (s *EdgeScores) add(key graph.EdgeKey, value float64) {
	if _, exists := s.scores[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.scores[key] += value
}

// Len returns the number of scored edges.
func (s *EdgeScores) Len() int {
	return len(s.keys)
}

// Keys returns the edge keys in enumeration order.
func (s *EdgeScores) Keys() []graph.EdgeKey {
	keys := make([]graph.EdgeKey, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Get returns the score stored under a canonical key.
func (s *EdgeScores) Get(key graph.EdgeKey) (float64, bool) {
	v, ok := s.scores[key]
	return v, ok
}

// Score returns the score of the edge {u, v}; argument order does not matter.
func (s *EdgeScores) Score(u, v string) (float64, bool) {
	return s.Get(graph.EdgeKeyOf(u, v))
}

// Total returns the sum of all scores.
func (s *EdgeScores) Total() float64 {
	total := 0.0
	for _, key := range s.keys {
		total += s.scores[key]
	}
	return total
}

// MarshalJSON encodes the scores as a JSON object whose members follow
// enumeration order.
func (s *EdgeScores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(key))
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.scores[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the scores as an ordered YAML mapping.
func (s *EdgeScores) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range s.keys {
		var k, v yaml.Node
		if err := k.Encode(string(key)); err != nil {
			return nil, err
		}
		if err := v.Encode(s.scores[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &k, &v)
	}
	return node, nil
}
