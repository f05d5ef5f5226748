package models

import "time"

// Video is one uploaded clip. Field names follow the JSON shape the front-end reads.
type Video struct {
	ID              string    `bson:"_id" json:"_id"`
	Seq             int64     `bson:"seq" json:"-"` // insertion order, used as the sort tie-break
	Title           string    `bson:"title" json:"title"`
	Description     string    `bson:"description" json:"description"`
	VideoURL        string    `bson:"videoUrl" json:"videoUrl"`
	ThumbnailURL    string    `bson:"thumbnailUrl" json:"thumbnailUrl"`
	Duration        string    `bson:"duration" json:"duration"`
	Category        string    `bson:"category" json:"category"`
	Tags            []string  `bson:"tags" json:"tags"`
	Uploader        string    `bson:"uploader" json:"uploader"`
	Views           int64     `bson:"views" json:"views"`
	Likes           int64     `bson:"likes" json:"likes"`
	Downloads       int64     `bson:"downloads" json:"downloads"`
	IsCopyrightFree bool      `bson:"isCopyrightFree" json:"isCopyrightFree"`
	Resolution      string    `bson:"resolution" json:"resolution"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

const (
	DefaultResolution = "1080p"
	DefaultDuration   = "0:30"
)

// ApplyDefaults fills the optional fields the way a freshly created record expects them.
func (v *Video) ApplyDefaults() {
	if v.Resolution == "" {
		v.Resolution = DefaultResolution
	}
	if v.Duration == "" {
		v.Duration = DefaultDuration
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
}
