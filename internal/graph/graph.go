// Package graph — источники данных для графа тем: REST-бэкенд (GET /graph)
// или напрямую Neo4j по Bolt.
package graph

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pribylovaa/go-burrow/internal/models"
)

// ErrUnknownSource — запрошен источник, который не сконфигурирован.
var ErrUnknownSource = errors.New("unknown graph source")

// Имена источников для ?source= и --source.
const (
	SourceREST  = "rest"
	SourceNeo4j = "neo4j"
)

// Source отдаёт граф целиком.
type Source interface {
	Load(ctx context.Context) (models.Graph, error)
}

// Fetcher — часть api.Client, нужная RESTSource.
type Fetcher interface {
	Graph(ctx context.Context) (models.Graph, error)
}

// RESTSource — граф с бэкенда.
type RESTSource struct {
	api Fetcher
}

func NewRESTSource(api Fetcher) *RESTSource {
	return &RESTSource{api: api}
}

func (s *RESTSource) Load(ctx context.Context) (models.Graph, error) {
	const op = "graph.RESTSource.Load"

	g, err := s.api.Graph(ctx)
	if err != nil {
		return models.Graph{}, fmt.Errorf("%s: %w", op, err)
	}

	return g, nil
}

// Sources — набор именованных источников. Первый добавленный считается
// источником по умолчанию.
type Sources struct {
	byName map[string]Source
	def    string
}

func NewSources() *Sources {
	return &Sources{byName: make(map[string]Source)}
}

// Add регистрирует источник; nil игнорируется.
func (s *Sources) Add(name string, src Source) *Sources {
	if src == nil {
		return s
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if s.def == "" {
		s.def = name
	}
	s.byName[name] = src

	return s
}

// Get возвращает источник по имени; пустое имя — источник по умолчанию.
func (s *Sources) Get(name string) (Source, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = s.def
	}

	src, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}

	return src, nil
}

// Names — зарегистрированные имена по алфавиту.
func (s *Sources) Names() []string {
	out := make([]string, 0, len(s.byName))
	for name := range s.byName {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}
