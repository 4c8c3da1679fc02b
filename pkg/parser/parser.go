// Package parser reads the line-oriented network description format:
//
//	% comment
//	n1 [0.5,2]
//	n2
//	edge(n1,n2)
//
// Edges may reference nodes that were never declared; such nodes are added
// without coordinates. Lines that match none of the statements are skipped.
package parser

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/graph"
)

// CommentPrefix starts a comment line.
const CommentPrefix = "%"

var (
	nodePattern        = regexp.MustCompile(`^\s*([A-Za-z0-9_]+)\s*\[\s*([+-]?\d+(?:\.\d+)?)\s*,\s*([+-]?\d+(?:\.\d+)?)\s*\]\s*$`)
	nodeNoCoordPattern = regexp.MustCompile(`^\s*([A-Za-z0-9_]+)\s*$`)
	edgePattern        = regexp.MustCompile(`^\s*edge\s*\(\s*([A-Za-z0-9_]+)\s*,\s*([A-Za-z0-9_]+)\s*\)\s*$`)
)

// Network is the structured form of a network description.
type Network struct {
	Nodes   []graph.NodeRecord `json:"nodes" yaml:"nodes"`
	Edges   []graph.EdgeRecord `json:"edges" yaml:"edges"`
	Skipped int                `json:"skipped" yaml:"skipped"` // Non-blank, non-comment lines that were not understood
}

// builder keeps node records in first-declaration order.
type builder struct {
	index map[string]int
	net   *Network
}

func newBuilder() *builder {
	return &builder{
		index: make(map[string]int),
		net: &Network{
			Nodes: make([]graph.NodeRecord, 0),
			Edges: make([]graph.EdgeRecord, 0),
		},
	}
}

// declare adds a node without coordinates unless it already exists.
func (b *builder) declare(id string) {
	if _, ok := b.index[id]; ok {
		return
	}
	b.index[id] = len(b.net.Nodes)
	b.net.Nodes = append(b.net.Nodes, graph.NodeRecord{ID: id})
}

// set replaces the record of a node, keeping its original position.
func (b *builder) set(rec graph.NodeRecord) {
	if i, ok := b.index[rec.ID]; ok {
		b.net.Nodes[i] = rec
		return
	}
	b.index[rec.ID] = len(b.net.Nodes)
	b.net.Nodes = append(b.net.Nodes, rec)
}

// Parse reads a network description. Lines have no length limit.
func Parse(r io.Reader) (*Network, error) {
	b := newBuilder()

	br := bufio.NewReader(r)
	for {
		raw, err := br.ReadString('\n')
		if raw != "" {
			b.line(strings.TrimSuffix(raw, "\n"))
		}
		if errors.Is(err, io.EOF) {
			return b.net, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// ParseBytes parses an in-memory network description.
func ParseBytes(data []byte) (*Network, error) {
	return Parse(bytes.NewReader(data))
}

func (b *builder) line(raw string) {
	line := strings.TrimSuffix(raw, "\r")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, CommentPrefix) {
		return
	}

	if m := edgePattern.FindStringSubmatch(line); m != nil {
		b.declare(m[1])
		b.declare(m[2])
		b.net.Edges = append(b.net.Edges, graph.EdgeRecord{Source: m[1], Target: m[2]})
		return
	}

	if m := nodePattern.FindStringSubmatch(line); m != nil {
		x, errX := strconv.ParseFloat(m[2], 64)
		y, errY := strconv.ParseFloat(m[3], 64)
		if errX == nil && errY == nil {
			b.set(graph.NodeRecord{ID: m[1], X: &x, Y: &y})
			return
		}
	}

	if m := nodeNoCoordPattern.FindStringSubmatch(line); m != nil {
		b.declare(m[1])
		return
	}

	b.net.Skipped++
}
