package models

import "time"

// Post — пост ленты/поиска.
type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Subreddit string    `json:"subreddit"`
	Author    *Author   `json:"author,omitempty"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthorName возвращает имя автора или плейсхолдер (populate мог не сработать).
func (p Post) AuthorName() string {
	if p.Author == nil || p.Author.Username == "" {
		return UnknownAuthor
	}

	return p.Author.Username
}

// Direction — направление голоса.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Valid — допустимо ли значение.
func (d Direction) Valid() bool { return d == Up || d == Down }

// Delta — изменение счётчика голосов: +1 для up, -1 для down, 0 для мусора.
func (d Direction) Delta() int {
	switch d {
	case Up:
		return 1
	case Down:
		return -1
	default:
		return 0
	}
}
