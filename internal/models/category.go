package models

import "time"

type Category struct {
	Name       string    `bson:"name" json:"name"`
	Slug       string    `bson:"slug" json:"slug"`
	Icon       string    `bson:"icon" json:"icon"`
	Color      string    `bson:"color" json:"color"`
	VideoCount int64     `bson:"videoCount" json:"videoCount"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

const (
	DefaultCategoryIcon  = "fas fa-folder"
	DefaultCategoryColor = "#00ffcc"
)
