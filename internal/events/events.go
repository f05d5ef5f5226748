package events

import (
	"context"
	"time"
)

type Type string

const (
	VideoUploaded   Type = "video.uploaded"
	VideoDeleted    Type = "video.deleted"
	VideoLiked      Type = "video.liked"
	VideoDownloaded Type = "video.downloaded"
)

// Event is one catalog change. Value carries the counter value after the
// change for engagement events.
type Event struct {
	Type     Type      `json:"type"`
	VideoID  string    `json:"videoId"`
	Category string    `json:"category,omitempty"`
	Uploader string    `json:"uploader,omitempty"`
	Value    int64     `json:"value,omitempty"`
	At       time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Noop drops every event. Used when kafka is disabled.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
