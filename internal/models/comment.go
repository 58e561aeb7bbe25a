// Package models содержит сущности, которыми обменивается клиент с REST-бэкендом,
// и производные view-модели (дерево комментариев).
package models

import (
	"encoding/json"
	"time"
)

// UnknownAuthor — подпись для комментария/поста без автора.
const UnknownAuthor = "Unknown"

// Author — автор комментария или поста (populate на стороне бэкенда).
type Author struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username"`
}

// Comment — комментарий в том виде, в котором его отдаёт бэкенд.
// Важно:
//   - ID — непрозрачный стабильный идентификатор (у бэкенда это Mongo ObjectID);
//   - ParentID — "" (или null/отсутствует в JSON) для корневого комментария;
//   - Text приходит как commentText, в варианте /posts/title/{id} — как body;
//   - Votes — счётчик голосов, поддерживается сервером;
//   - Subreddit/Title — метаданные поста, есть только у корней в одном из вариантов выдачи.
type Comment struct {
	ID        string    `json:"_id"`
	PostID    string    `json:"post,omitempty"`
	ParentID  string    `json:"parentComment,omitempty"`
	Author    *Author   `json:"author,omitempty"`
	Text      string    `json:"commentText"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"createdAt"`
	Subreddit string    `json:"subreddit,omitempty"`
	Title     string    `json:"title,omitempty"`
}

// AuthorName возвращает имя автора или плейсхолдер.
func (c Comment) AuthorName() string {
	if c.Author == nil || c.Author.Username == "" {
		return UnknownAuthor
	}

	return c.Author.Username
}

// IsRoot — у комментария нет ссылки на родителя.
func (c Comment) IsRoot() bool { return c.ParentID == "" }

// commentWire — форма для декодирования: допускает body вместо commentText
// и null в числовых/временных полях.
type commentWire struct {
	ID          string     `json:"_id"`
	PostID      string     `json:"post"`
	ParentID    *string    `json:"parentComment"`
	Author      *Author    `json:"author"`
	CommentText *string    `json:"commentText"`
	Body        *string    `json:"body"`
	Votes       *int       `json:"votes"`
	CreatedAt   *time.Time `json:"createdAt"`
	Subreddit   string     `json:"subreddit"`
	Title       string     `json:"title"`
}

// UnmarshalJSON принимает обе формы тела комментария (commentText | body).
func (c *Comment) UnmarshalJSON(data []byte) error {
	var w commentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*c = Comment{
		ID:        w.ID,
		PostID:    w.PostID,
		Author:    w.Author,
		Subreddit: w.Subreddit,
		Title:     w.Title,
	}

	if w.ParentID != nil {
		c.ParentID = *w.ParentID
	}

	switch {
	case w.CommentText != nil:
		c.Text = *w.CommentText
	case w.Body != nil:
		c.Text = *w.Body
	}

	if w.Votes != nil {
		c.Votes = *w.Votes
	}

	if w.CreatedAt != nil {
		c.CreatedAt = *w.CreatedAt
	}

	return nil
}

// CommentNode — узел дерева ответов. Строится только thread.BuildTree и
// пересобирается целиком при каждом изменении плоского списка.
type CommentNode struct {
	Comment
	Children []*CommentNode `json:"children"`
}

// UnmarshalJSON нужен явно: иначе у встроенного Comment перехватывается
// декодирование и children теряются.
func (n *CommentNode) UnmarshalJSON(data []byte) error {
	var c Comment
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}

	var w struct {
		Children []*CommentNode `json:"children"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	n.Comment = c
	n.Children = w.Children
	if n.Children == nil {
		n.Children = []*CommentNode{}
	}

	return nil
}
