package db

import (
	"context"

	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

type playlistItemRow struct {
	model.PlaylistItem
	MediaType     model.MediaType `db:"media_type"`
	MediaTitle    *string         `db:"media_title"`
	Filename      string          `db:"filename"`
	Mime          string          `db:"mime"`
	SizeBytes     int64           `db:"size_bytes"`
	MediaDuration *float64        `db:"media_duration"`
}

// GetPlaylistItems returns the playlist's items with their media, ordered by position.
func (s *Store) GetPlaylistItems(ctx context.Context, playlistID int) ([]model.PlaylistItem, error) {
	var rows []playlistItemRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT pi.id, pi.playlist_id, pi.media_id, pi.position, pi.display_fit, pi.image_duration,
		       m.type     AS media_type,
		       m.title    AS media_title,
		       m.filename,
		       m.mime,
		       m.size_bytes,
		       m.duration AS media_duration
		  FROM playlist_items pi
		  JOIN media m ON m.id = pi.media_id
		 WHERE pi.playlist_id = $1
		 ORDER BY pi.position, pi.id`, playlistID)
	if err != nil {
		return nil, classify(err, "playlist item")
	}

	items := make([]model.PlaylistItem, 0, len(rows))
	for _, r := range rows {
		it := r.PlaylistItem
		it.Media = &model.Media{
			ID:        r.MediaID,
			Type:      r.MediaType,
			Title:     r.MediaTitle,
			Filename:  r.Filename,
			Mime:      r.Mime,
			SizeBytes: r.SizeBytes,
			Duration:  r.MediaDuration,
		}
		items = append(items, it)
	}
	return items, nil
}
