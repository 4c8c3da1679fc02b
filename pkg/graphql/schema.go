// Package graphql exposes the current step result through a read-only
// GraphQL schema.
package graphql

import (
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/algorithms"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/cache"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/reduction"
)

// SnapshotProvider returns the snapshot queries are answered from
type SnapshotProvider interface {
	Current() *cache.Snapshot
}

var nodeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Node",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(reduction.NodeView).ID, nil
			},
		},
		"label": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(reduction.NodeView).Label, nil
			},
		},
		"x": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return derefFloat(p.Source.(reduction.NodeView).X), nil
			},
		},
		"y": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return derefFloat(p.Source.(reduction.NodeView).Y), nil
			},
		},
		"community": &graphql.Field{
			Type:        graphql.Int,
			Description: "Component index after removal; null on the original view",
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if c := p.Source.(reduction.NodeView).Community; c != nil {
					return *c, nil
				}
				return nil, nil
			},
		},
	},
})

var linkType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Link",
	Fields: graphql.Fields{
		"source": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(reduction.LinkView).Source, nil
			},
		},
		"target": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(reduction.LinkView).Target, nil
			},
		},
	},
})

var edgeScoreType = graphql.NewObject(graphql.ObjectConfig{
	Name: "EdgeScore",
	Fields: graphql.Fields{
		"key": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return string(p.Source.(algorithms.RankedEdge).Key), nil
			},
		},
		"source": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(algorithms.RankedEdge).Source, nil
			},
		},
		"target": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(algorithms.RankedEdge).Target, nil
			},
		},
		"score": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Float),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(algorithms.RankedEdge).Score, nil
			},
		},
	},
})

var communityType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Community",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*algorithms.Community).ID, nil
			},
		},
		"size": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*algorithms.Community).Size, nil
			},
		},
		"nodes": &graphql.Field{
			Type: graphql.NewList(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*algorithms.Community).Nodes, nil
			},
		},
		"density": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*algorithms.Community).Density, nil
			},
		},
	},
})

var originalType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Original",
	Fields: graphql.Fields{
		"nodes": &graphql.Field{
			Type: graphql.NewList(nodeType),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*reduction.OriginalView).Nodes, nil
			},
		},
		"links": &graphql.Field{
			Type: graphql.NewList(linkType),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*reduction.OriginalView).Links, nil
			},
		},
		"removedEdge": &graphql.Field{
			Type:        graphql.String,
			Description: "Null when the graph has no edges",
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if key := p.Source.(*reduction.OriginalView).RemovedEdge; key != nil {
					return string(*key), nil
				}
				return nil, nil
			},
		},
		"betweenness": &graphql.Field{
			Type:        graphql.NewList(edgeScoreType),
			Description: "Every edge with its score, in enumeration order",
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return enumerated(p.Source.(*reduction.OriginalView).Betweenness), nil
			},
		},
		"topEdges": &graphql.Field{
			Type: graphql.NewList(edgeScoreType),
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{
					Type:         graphql.Int,
					DefaultValue: reduction.DefaultTopEdges,
				},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				limit, _ := p.Args["limit"].(int)
				if limit < 0 {
					return nil, fmt.Errorf("limit must not be negative, got %d", limit)
				}
				return algorithms.TopEdges(p.Source.(*reduction.OriginalView).Betweenness, limit), nil
			},
		},
	},
})

var afterType = graphql.NewObject(graphql.ObjectConfig{
	Name: "After",
	Fields: graphql.Fields{
		"nodes": &graphql.Field{
			Type: graphql.NewList(nodeType),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*reduction.AfterView).Nodes, nil
			},
		},
		"links": &graphql.Field{
			Type: graphql.NewList(linkType),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*reduction.AfterView).Links, nil
			},
		},
		"communities": &graphql.Field{
			Type: graphql.NewList(communityType),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*reduction.AfterView).Communities, nil
			},
		},
		"modularity": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*reduction.AfterView).Modularity, nil
			},
		},
	},
})

var snapshotType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Snapshot",
	Fields: graphql.Fields{
		"generation": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*cache.Snapshot).Generation, nil
			},
		},
		"source": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*cache.Snapshot).Source, nil
			},
		},
		"computedAt": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*cache.Snapshot).ComputedAt.UTC().Format(time.RFC3339Nano), nil
			},
		},
		"skippedLines": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*cache.Snapshot).Skipped, nil
			},
		},
		"original": &graphql.Field{
			Type: originalType,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*cache.Snapshot).Result.Original, nil
			},
		},
		"after": &graphql.Field{
			Type: afterType,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*cache.Snapshot).Result.After, nil
			},
		},
	},
})

// NewSchema builds the schema over provider.
func NewSchema(provider SnapshotProvider) (graphql.Schema, error) {
	current := func() *cache.Snapshot {
		snap := provider.Current()
		if snap == nil || snap.Result == nil {
			return nil
		}
		return snap
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"snapshot": &graphql.Field{
				Type:        snapshotType,
				Description: "Null until the first successful computation",
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if snap := current(); snap != nil {
						return snap, nil
					}
					return nil, nil
				},
			},
			"score": &graphql.Field{
				Type:        graphql.Float,
				Description: "Betweenness of the edge between source and target, in either order",
				Args: graphql.FieldConfigArgument{
					"source": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"target": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					snap := current()
					if snap == nil {
						return nil, nil
					}
					u, _ := p.Args["source"].(string)
					v, _ := p.Args["target"].(string)
					if score, ok := snap.Result.Original.Betweenness.Score(u, v); ok {
						return score, nil
					}
					return nil, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

// enumerated lists every scored edge in the order the scores were built.
func enumerated(scores *algorithms.EdgeScores) []algorithms.RankedEdge {
	if scores == nil {
		return nil
	}
	keys := scores.Keys()
	out := make([]algorithms.RankedEdge, len(keys))
	for i, key := range keys {
		u, v := key.Endpoints()
		score, _ := scores.Get(key)
		out[i] = algorithms.RankedEdge{Key: key, Source: u, Target: v, Score: score}
	}
	return out
}

func derefFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
