// Package graphio decodes the JSON graph document accepted on the CLI's
// --graph-path flag and runs the feasibility gate (spec §6/§7: a graph
// admitting no perfect matching is rejected before any chain is built).
// Decoding uses goccy/go-json, a drop-in encoding/json replacement used
// here as the nearest Go analogue of the reference implementation's
// simd_json: same Marshaler/Unmarshaler surface, no hand-rolled parser.
package graphio

import (
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/katalvlaran/permanent/internal/bipartite"
	"github.com/katalvlaran/permanent/internal/flow"
)

// ErrInfeasible is returned by LoadFeasible when the decoded graph admits no
// perfect matching.
var ErrInfeasible = errors.New("graphio: graph admits no perfect matching")

// Document is the on-disk JSON shape: a vertex count and, for each left
// vertex in order, the list of right vertices it connects to.
type Document struct {
	Size  int     `json:"size"`
	Edges [][]int `json:"edges"`
}

// Load reads and decodes path into a Document.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graphio: reading %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("graphio: decoding %s: %w", path, err)
	}

	return &doc, nil
}

// Graph validates doc into a *bipartite.Graph.
func (doc *Document) Graph() (*bipartite.Graph, error) {
	return bipartite.New(doc.Size, doc.Edges)
}

// LoadFeasible loads, validates, and runs the feasibility gate on path:
// it returns the graph along with one perfect matching found by the
// max-flow matcher, or ErrInfeasible if max-flow falls short of a
// perfect matching.
func LoadFeasible(path string) (*bipartite.Graph, *bipartite.Match, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, nil, err
	}

	g, err := doc.Graph()
	if err != nil {
		return nil, nil, err
	}

	match, maxFlow := flow.FindPerfectMatching(g)
	if maxFlow < g.Size {
		return nil, nil, ErrInfeasible
	}

	return g, match, nil
}
