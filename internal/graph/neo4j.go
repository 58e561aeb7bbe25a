package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pribylovaa/go-burrow/internal/config"
	"github.com/pribylovaa/go-burrow/internal/models"
	"github.com/pribylovaa/go-burrow/pkg/log"
)

// TopicQuery — выборка тем и всего, на что они ссылаются.
const TopicQuery = `
	MATCH (t:Topic)-[r]->(n)
	RETURN t, r, n
	LIMIT $limit
`

// DefaultLimit — ограничение выборки, если в конфиге не задано.
const DefaultLimit = 150

// Neo4jSource читает граф тем прямо из Neo4j.
type Neo4jSource struct {
	driver   neo4j.DriverWithContext
	database string
	limit    int
}

// NewNeo4jSource открывает драйвер и проверяет соединение.
func NewNeo4jSource(ctx context.Context, cfg config.Neo4jConfig) (*Neo4jSource, error) {
	const op = "graph.NewNeo4jSource"

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(context.Background())
		return nil, fmt.Errorf("%s: verify: %w", op, err)
	}

	return NewNeo4jSourceFromDriver(driver, cfg.Database, cfg.Limit), nil
}

// NewNeo4jSourceFromDriver — источник поверх готового драйвера; limit <= 0 заменяется DefaultLimit.
func NewNeo4jSourceFromDriver(driver neo4j.DriverWithContext, database string, limit int) *Neo4jSource {
	if limit <= 0 {
		limit = DefaultLimit
	}

	return &Neo4jSource{driver: driver, database: database, limit: limit}
}

func (s *Neo4jSource) Load(ctx context.Context) (models.Graph, error) {
	const op = "graph.Neo4jSource.Load"

	start := time.Now()

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, TopicQuery, map[string]any{"limit": int64(s.limit)})
	if err != nil {
		return models.Graph{}, fmt.Errorf("%s: run: %w", op, err)
	}

	b := newBuilder()
	for result.Next(ctx) {
		b.addRecord(result.Record())
	}
	if err := result.Err(); err != nil {
		return models.Graph{}, fmt.Errorf("%s: read: %w", op, err)
	}

	g := b.graph()

	log.From(ctx).Debug("neo4j_graph_loaded",
		slog.String("op", op),
		slog.Int("nodes", len(g.Nodes)),
		slog.Int("links", len(g.Links)),
		slog.Duration("dur", time.Since(start)),
	)

	return g, nil
}

func (s *Neo4jSource) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// builder собирает граф из записей (t, r, n), убирая повторяющиеся вершины.
type builder struct {
	nodes []models.GraphNode
	links []models.GraphLink
	seen  map[string]struct{}
}

func newBuilder() *builder {
	return &builder{
		nodes: []models.GraphNode{},
		links: []models.GraphLink{},
		seen:  make(map[string]struct{}),
	}
}

func (b *builder) addRecord(rec *neo4j.Record) {
	if rec == nil {
		return
	}

	for _, v := range rec.Values {
		switch x := v.(type) {
		case neo4j.Node:
			b.addNode(x)
		case neo4j.Relationship:
			b.links = append(b.links, toLink(x))
		}
	}
}

func (b *builder) addNode(n neo4j.Node) {
	id := n.ElementId
	if _, ok := b.seen[id]; ok {
		return
	}
	b.seen[id] = struct{}{}

	b.nodes = append(b.nodes, toNode(n))
}

func (b *builder) graph() models.Graph {
	return models.Graph{Nodes: b.nodes, Links: b.links}
}

func toNode(n neo4j.Node) models.GraphNode {
	out := models.GraphNode{
		ID:    n.ElementId,
		Name:  stringProp(n.Props, "name"),
		Title: stringProp(n.Props, "title"),
	}
	if len(n.Labels) > 0 {
		out.Label = n.Labels[0]
	}

	return out
}

func toLink(r neo4j.Relationship) models.GraphLink {
	return models.GraphLink{
		Source: r.StartElementId,
		Target: r.EndElementId,
		Label:  r.Type,
	}
}

func stringProp(props map[string]any, key string) string {
	if s, ok := props[key].(string); ok {
		return s
	}

	return ""
}
