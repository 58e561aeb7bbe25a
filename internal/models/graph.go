package models

// Graph — данные для force-graph представления.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// GraphNode — вершина графа. Подпись берётся из Name, затем из Title.
type GraphNode struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
	Label string `json:"label,omitempty"` // тип вершины (Topic, Keyword, ...)
}

// Caption — подпись вершины для отображения.
func (n GraphNode) Caption() string {
	if n.Name != "" {
		return n.Name
	}

	if n.Title != "" {
		return n.Title
	}

	return n.ID
}

// GraphLink — ребро графа.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"` // тип связи (TAGGED_WITH, RELATED_TO, ...)
}
