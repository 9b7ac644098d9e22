package model

import "time"

type DisplayFit string

const (
	FitContain DisplayFit = "contain"
	FitCover   DisplayFit = "cover"
	FitStretch DisplayFit = "stretch"
)

type Playlist struct {
	ID        int            `db:"id"         json:"id"`
	Name      string         `db:"name"       json:"name"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	Items     []PlaylistItem `db:"-"          json:"items,omitempty"`
}

type PlaylistItem struct {
	ID            int        `db:"id"             json:"id"`
	PlaylistID    int        `db:"playlist_id"    json:"playlistId"`
	MediaID       int        `db:"media_id"       json:"mediaId"`
	Position      int        `db:"position"       json:"order"`
	DisplayFit    DisplayFit `db:"display_fit"    json:"displayFit"`
	ImageDuration *int       `db:"image_duration" json:"imageDuration,omitempty"`
	Media         *Media     `db:"-"              json:"media,omitempty"`
}
