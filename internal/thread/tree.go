// Package thread превращает плоский список комментариев в лес веток ответов
// и предоставляет обход/выборку потомков поверх этого списка.
//
// Все функции чистые: без логирования, ввода-вывода и изменения входных данных.
package thread

import (
	"errors"

	"github.com/pribylovaa/go-burrow/internal/models"
)

// SkipChildren — значение, которое visit-функция Walk может вернуть,
// чтобы не заходить в поддерево текущего узла.
var SkipChildren = errors.New("skip children")

// BuildTree строит лес ответов из плоского списка за O(n).
//
// Правила:
//   - на каждый id ровно один узел (при дублях id побеждает последняя копия);
//   - узел, чей ParentID находится в этом же списке, становится ребёнком родителя;
//   - узел без ParentID или с неразрешимым ParentID (например, родитель на другой
//     странице выдачи) становится корнем;
//   - порядок детей и корней — порядок исходного списка, без вторичной сортировки.
//
// Пустой вход даёт пустой (не nil) лес. Циклы в цепочках ParentID не проверяются:
// узлы цикла не попадут в корни и будут недостижимы из результата.
func BuildTree(flat []models.Comment) []*models.CommentNode {
	roots := make([]*models.CommentNode, 0)
	if len(flat) == 0 {
		return roots
	}

	nodes := make(map[string]*models.CommentNode, len(flat))
	for _, c := range flat {
		nodes[c.ID] = &models.CommentNode{Comment: c, Children: []*models.CommentNode{}}
	}

	linked := make(map[*models.CommentNode]struct{}, len(nodes))
	for _, c := range flat {
		node := nodes[c.ID]
		if _, ok := linked[node]; ok {
			continue
		}
		linked[node] = struct{}{}

		if parent, ok := nodes[node.ParentID]; ok && node.ParentID != "" {
			parent.Children = append(parent.Children, node)
			continue
		}

		roots = append(roots, node)
	}

	return roots
}

// Count — общее число узлов в лесу.
func Count(roots []*models.CommentNode) int {
	n := 0
	_ = Walk(roots, func(*models.CommentNode, int) error {
		n++
		return nil
	})

	return n
}

// Walk обходит лес в глубину (pre-order) явным стеком: сначала узел, затем его дети
// в порядке Children. depth корней равен 0.
//
// Если visit возвращает SkipChildren, поддерево узла пропускается; любая другая
// ошибка прерывает обход и возвращается как есть.
func Walk(roots []*models.CommentNode, visit func(node *models.CommentNode, depth int) error) error {
	type frame struct {
		node  *models.CommentNode
		depth int
	}

	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i]})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.node == nil {
			continue
		}

		if err := visit(top.node, top.depth); err != nil {
			if errors.Is(err, SkipChildren) {
				continue
			}

			return err
		}

		for i := len(top.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: top.node.Children[i], depth: top.depth + 1})
		}
	}

	return nil
}

// Find ищет узел по id в лесу.
func Find(roots []*models.CommentNode, id string) *models.CommentNode {
	var found *models.CommentNode
	errStop := errors.New("stop")

	_ = Walk(roots, func(n *models.CommentNode, _ int) error {
		if n.ID == id {
			found = n
			return errStop
		}

		return nil
	})

	return found
}
