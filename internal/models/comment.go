package models

import "time"

type Comment struct {
	ID     string    `json:"id"`
	Body   string    `json:"body"`
	Author string    `json:"author"`
	Date   time.Time `json:"date"`
}
