package seed

import (
	"context"
	"fmt"

	"github.com/fathima-sithara/clips-service/internal/catalog"
	"github.com/fathima-sithara/clips-service/internal/models"
	"go.uber.org/zap"
)

var DefaultCategories = []models.Category{
	{Name: "Sports Edits", Slug: "sports", Icon: "fas fa-basketball-ball", Color: "#00ffcc"},
	{Name: "Anime Edits", Slug: "anime", Icon: "fas fa-robot", Color: "#ff00aa"},
	{Name: "Movie Edits", Slug: "movie", Icon: "fas fa-film", Color: "#ff5e00"},
	{Name: "Slow-Mo Edits", Slug: "slowmo", Icon: "fas fa-hourglass-half", Color: "#00ff88"},
	{Name: "Aesthetic Edits", Slug: "aesthetic", Icon: "fas fa-palette", Color: "#9d00ff"},
	{Name: "Love Edits", Slug: "love", Icon: "fas fa-heart", Color: "#ff4d6d"},
	{Name: "Action Edits", Slug: "action", Icon: "fas fa-fist-raised", Color: "#ff0000"},
	{Name: "Music Videos", Slug: "music", Icon: "fas fa-music", Color: "#ffcc00"},
}

// SampleVideos are inserted only into an empty catalog.
var SampleVideos = []models.Video{
	{
		Title:       "Epic Soccer Goals Compilation",
		Description: "Amazing soccer goals from top leagues around the world. Perfect for sports highlights and montages.",
		VideoURL:    "/uploads/sample-soccer.mp4", ThumbnailURL: "/uploads/thumbnail-soccer.jpg",
		Duration: "0:45", Category: "sports", Uploader: "SoccerEdits",
		Views: 12500, Likes: 842, Downloads: 1560,
		Tags: []string{"soccer", "goals", "sports", "football", "highlights"},
	},
	{
		Title:       "Anime AMV - Epic Fight Scenes",
		Description: "Best anime fight scenes compilation with epic background music. Great for AMV creators.",
		VideoURL:    "/uploads/sample-anime.mp4", ThumbnailURL: "/uploads/thumbnail-anime.jpg",
		Duration: "1:22", Category: "anime", Uploader: "AnimeVibes",
		Views: 8500, Likes: 512, Downloads: 890,
		Tags: []string{"anime", "fight", "amv", "action", "japanese"},
	},
	{
		Title:       "Cinematic Slow Motion Sequences",
		Description: "Beautiful slow motion shots from various films and cinematic productions.",
		VideoURL:    "/uploads/sample-slowmo.mp4", ThumbnailURL: "/uploads/thumbnail-slowmo.jpg",
		Duration: "0:38", Category: "slowmo", Uploader: "FilmMagic",
		Views: 7200, Likes: 421, Downloads: 650,
		Tags: []string{"slowmo", "cinematic", "film", "dramatic"},
	},
	{
		Title:       "Romantic Sunset Proposal Moments",
		Description: "Beautiful romantic moments and proposal scenes with golden hour lighting.",
		VideoURL:    "/uploads/sample-love.mp4", ThumbnailURL: "/uploads/thumbnail-love.jpg",
		Duration: "0:28", Category: "love", Uploader: "CinematicLove",
		Views: 4200, Likes: 328, Downloads: 891,
		Tags: []string{"love", "romantic", "proposal", "sunset", "couple"},
	},
	{
		Title:       "Martial Arts Fight Scene Compilation",
		Description: "Epic martial arts combat sequences from action films and demonstrations.",
		VideoURL:    "/uploads/sample-action.mp4", ThumbnailURL: "/uploads/thumbnail-action.jpg",
		Duration: "0:52", Category: "action", Uploader: "ActionFlow",
		Views: 5700, Likes: 512, Downloads: 1200,
		Tags: []string{"action", "fight", "martial arts", "combat", "epic"},
	},
	{
		Title:       "Aesthetic Nature Transitions",
		Description: "Beautiful nature scenes with smooth transitions and calming visuals.",
		VideoURL:    "/uploads/sample-aesthetic.mp4", ThumbnailURL: "/uploads/thumbnail-aesthetic.jpg",
		Duration: "0:35", Category: "aesthetic", Uploader: "VisualArts",
		Views: 6800, Likes: 387, Downloads: 742,
		Tags: []string{"aesthetic", "nature", "transitions", "calm", "beautiful"},
	},
}

type Seeder struct {
	store    catalog.Store
	registry catalog.Registry
	log      *zap.Logger
}

func NewSeeder(store catalog.Store, registry catalog.Registry, logger *zap.Logger) *Seeder {
	return &Seeder{store: store, registry: registry, log: logger}
}

// Run upserts the default categories, inserts the samples into an empty
// catalog and recounts every category. It is safe to run repeatedly.
func (s *Seeder) Run(ctx context.Context) error {
	for i := range DefaultCategories {
		c := DefaultCategories[i]
		if err := s.registry.Upsert(ctx, &c); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
	}
	s.log.Info("default categories initialized", zap.Int("count", len(DefaultCategories)))

	n, err := s.store.Count(ctx, catalog.Filter{})
	if err != nil {
		return fmt.Errorf("count videos: %w", err)
	}
	if n == 0 {
		for i := range SampleVideos {
			v := SampleVideos[i]
			v.ID = ""
			v.Tags = append([]string(nil), v.Tags...)
			v.IsCopyrightFree = true
			if err := s.store.Insert(ctx, &v); err != nil {
				return fmt.Errorf("insert sample video: %w", err)
			}
		}
		s.log.Info("sample videos initialized", zap.Int("count", len(SampleVideos)))
	}
	return s.Recount(ctx)
}

// Recount sets every registered category's videoCount from the video store.
func (s *Seeder) Recount(ctx context.Context) error {
	counts, err := s.store.CountByCategory(ctx)
	if err != nil {
		return fmt.Errorf("count by category: %w", err)
	}
	cats, err := s.registry.List(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	for _, c := range cats {
		if err := s.registry.SetVideoCount(ctx, c.Slug, counts[c.Slug]); err != nil {
			return fmt.Errorf("set video count %s: %w", c.Slug, err)
		}
	}
	return nil
}
