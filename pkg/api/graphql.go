package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/graphql-go/graphql"

	gr "github.com/telgraph/mantela/pkg/graph"
)

// graphQLRequest represents a GraphQL HTTP request.
type graphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

func newNodeType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if n, ok := p.Source.(gr.Node); ok {
						return n.ID, nil
					}
					return nil, nil
				},
			},
			"names": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if n, ok := p.Source.(gr.Node); ok {
						return n.Names, nil
					}
					return nil, nil
				},
			},
			"type": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if n, ok := p.Source.(gr.Node); ok {
						return n.Type, nil
					}
					return nil, nil
				},
			},
		},
	})
}

func newEdgeType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Edge",
		Fields: graphql.Fields{
			"from": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if e, ok := p.Source.(gr.Edge); ok {
						return e.From, nil
					}
					return nil, nil
				},
			},
			"to": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if e, ok := p.Source.(gr.Edge); ok {
						return e.To, nil
					}
					return nil, nil
				},
			},
			"label": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if e, ok := p.Source.(gr.Edge); ok {
						return e.Label, nil
					}
					return nil, nil
				},
			},
		},
	})
}

// buildSchema creates the query schema over the server's last snapshot. The
// snapshot getter is a closure so every query sees the current graph.
func (s *Server) buildSchema() (graphql.Schema, error) {
	snapshot := func() (*gr.Graph, error) {
		g := s.LastGraph()
		if g == nil {
			return nil, errors.New("no crawl has completed yet")
		}
		return g, nil
	}

	nodeType := newNodeType()
	edgeType := newEdgeType()

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"nodes": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, err := snapshot()
					if err != nil {
						return nil, err
					}
					return g.Nodes, nil
				},
			},
			"edges": &graphql.Field{
				Type: graphql.NewList(edgeType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, err := snapshot()
					if err != nil {
						return nil, err
					}
					return g.Edges, nil
				},
			},
			"node": &graphql.Field{
				Type: nodeType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.ID),
					},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, err := snapshot()
					if err != nil {
						return nil, err
					}
					id, _ := p.Args["id"].(string)
					if n := g.NodeByID(id); n != nil {
						return *n, nil
					}
					return nil, nil
				},
			},
			"switches": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, err := snapshot()
					if err != nil {
						return nil, err
					}
					var out []gr.Node
					for _, n := range g.Nodes {
						if n.Type == gr.TypePBX {
							out = append(out, n)
						}
					}
					return out, nil
				},
			},
			"extensions": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, err := snapshot()
					if err != nil {
						return nil, err
					}
					var out []gr.Node
					for _, n := range g.Nodes {
						if n.Type != gr.TypePBX {
							out = append(out, n)
						}
					}
					return out, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

// graphqlHandler serves POST /api/v1/graphql.
func (s *Server) graphqlHandler() http.Handler {
	schema, err := s.buildSchema()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, "schema unavailable")
			return
		}
		if r.Method != http.MethodPost {
			s.respondError(w, http.StatusMethodNotAllowed, "use POST")
			return
		}

		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
		})
		s.respondJSON(w, http.StatusOK, result)
	})
}
