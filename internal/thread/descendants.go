package thread

import "github.com/pribylovaa/go-burrow/internal/models"

// Descendants возвращает id всех транзитивных потомков комментария id (сам id не входит).
//
// Потомки ищутся повторной фильтрацией плоского списка по прямым детям каждого
// найденного id. Порядок — как у рекурсивного обхода: ребёнок, его потомки, затем
// следующий ребёнок. Сложность O(n·depth).
//
// Каждый комментарий попадает в результат не более одного раза, поэтому
// испорченный список с циклом в ParentID не зацикливает удаление.
func Descendants(flat []models.Comment, id string) []string {
	out := make([]string, 0)
	if id == "" || len(flat) == 0 {
		return out
	}

	seen := map[string]struct{}{id: {}}
	// В стеке лежат id, чьих детей ещё предстоит найти; вместе с каждым id
	// храним позицию продолжения обхода, чтобы сохранить рекурсивный порядок.
	type frame struct {
		parent string
		next   int
	}
	stack := []frame{{parent: id}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		child := -1
		for i := top.next; i < len(flat); i++ {
			if flat[i].ParentID == top.parent && flat[i].ParentID != "" {
				child = i
				break
			}
		}

		if child < 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		top.next = child + 1

		cid := flat[child].ID
		if _, ok := seen[cid]; ok {
			continue
		}
		seen[cid] = struct{}{}

		out = append(out, cid)
		stack = append(stack, frame{parent: cid})
	}

	return out
}

// Remove возвращает новый список без комментариев с указанными id; порядок сохраняется.
func Remove(flat []models.Comment, ids ...string) []models.Comment {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	out := make([]models.Comment, 0, len(flat))
	for _, c := range flat {
		if _, ok := drop[c.ID]; ok {
			continue
		}

		out = append(out, c)
	}

	return out
}

// Subtree — id комментария и всех его потомков: ровно то, что удаляется локально.
func Subtree(flat []models.Comment, id string) []string {
	return append([]string{id}, Descendants(flat, id)...)
}
