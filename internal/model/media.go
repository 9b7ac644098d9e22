package model

import "time"

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type Media struct {
	ID        int       `db:"id"         json:"id"`
	Type      MediaType `db:"type"       json:"type"`
	Title     *string   `db:"title"      json:"title,omitempty"`
	Filename  string    `db:"filename"   json:"filename"`
	Mime      string    `db:"mime"       json:"mime"`
	SizeBytes int64     `db:"size_bytes" json:"sizeBytes"`
	Duration  *float64  `db:"duration"   json:"duration,omitempty"` // seconds, videos only
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
