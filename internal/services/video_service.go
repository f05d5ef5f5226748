package services

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/fathima-sithara/clips-service/internal/catalog"
	"github.com/fathima-sithara/clips-service/internal/events"
	"github.com/fathima-sithara/clips-service/internal/models"
	"github.com/fathima-sithara/clips-service/internal/storage"
	"go.uber.org/zap"
)

var ErrNotOwner = apperr.New(apperr.ErrForbidden, "You can only delete your own videos")

// Recorder receives engagement and upload counts. *metrics.Metrics implements it.
type Recorder interface {
	Engagement(counter string)
	Upload()
	PublishFailure()
}

type nopRecorder struct{}

func (nopRecorder) Engagement(string) {}
func (nopRecorder) Upload()           {}
func (nopRecorder) PublishFailure()   {}

type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type UploadInput struct {
	Title       string
	Description string
	Category    string
	Tags        string // comma separated
	Duration    string
	Resolution  string
	Video       *UploadFile
	Thumbnail   *UploadFile
}

type VideoDeps struct {
	Engine   *catalog.Engine
	Store    catalog.Store
	Registry catalog.Registry
	Files    storage.FileStore
	Events   events.Publisher
	Metrics  Recorder
	Log      *zap.Logger
}

type VideoService struct {
	engine   *catalog.Engine
	store    catalog.Store
	registry catalog.Registry
	files    storage.FileStore
	events   events.Publisher
	metrics  Recorder
	log      *zap.Logger
	now      func() time.Time
}

func NewVideoService(d VideoDeps) *VideoService {
	s := &VideoService{
		engine:   d.Engine,
		store:    d.Store,
		registry: d.Registry,
		files:    d.Files,
		events:   d.Events,
		metrics:  d.Metrics,
		log:      d.Log,
		now:      func() time.Time { return time.Now().UTC() },
	}
	if s.events == nil {
		s.events = events.Noop{}
	}
	if s.metrics == nil {
		s.metrics = nopRecorder{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

func (s *VideoService) Engine() *catalog.Engine { return s.engine }

// View returns the video and counts the view.
func (s *VideoService) View(ctx context.Context, id string) (*models.Video, error) {
	v, err := s.engine.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.metrics.Engagement(string(catalog.CounterViews))
	return v, nil
}

func (s *VideoService) Like(ctx context.Context, id string) (*catalog.CounterResult, error) {
	return s.engage(ctx, id, catalog.CounterLikes, events.VideoLiked)
}

func (s *VideoService) Download(ctx context.Context, id string) (*catalog.CounterResult, error) {
	return s.engage(ctx, id, catalog.CounterDownloads, events.VideoDownloaded)
}

func (s *VideoService) engage(ctx context.Context, id string, c catalog.Counter, t events.Type) (*catalog.CounterResult, error) {
	res, err := s.engine.IncrementCounter(ctx, id, c)
	if err != nil {
		return nil, err
	}
	s.metrics.Engagement(string(c))
	s.publish(ctx, events.Event{Type: t, VideoID: res.VideoID, Category: res.Video.Category, Value: res.Value})
	return res, nil
}

// Upload stores the media files, then the record, then bumps the category count.
func (s *VideoService) Upload(ctx context.Context, uploader *models.User, in UploadInput) (*models.Video, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" || in.Category == "" {
		return nil, apperr.Invalid("title", "Title and category are required")
	}
	if in.Video == nil || len(in.Video.Data) == 0 {
		return nil, apperr.Invalid("video", "Video file is required")
	}
	if _, err := s.registry.Get(ctx, in.Category); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Invalid("category", "Unknown category: "+in.Category)
		}
		return nil, apperr.Storage("get category", err)
	}

	now := s.now()
	videoURL, err := s.files.Save(ctx, storage.NewFileName(in.Video.Name, now), in.Video.ContentType, in.Video.Data)
	if err != nil {
		return nil, apperr.Storage("save video file", err)
	}
	saved := []string{videoURL}

	thumbURL := storage.DefaultThumbnail
	if in.Thumbnail != nil && len(in.Thumbnail.Data) > 0 {
		thumbURL, err = s.saveThumbnail(ctx, in.Thumbnail, now)
		if err != nil {
			s.discard(saved)
			return nil, apperr.Storage("save thumbnail", err)
		}
		saved = append(saved, thumbURL)
	}

	v := &models.Video{
		Title:           in.Title,
		Description:     strings.TrimSpace(in.Description),
		VideoURL:        videoURL,
		ThumbnailURL:    thumbURL,
		Duration:        strings.TrimSpace(in.Duration),
		Category:        in.Category,
		Tags:            SplitTags(in.Tags),
		Uploader:        uploader.Username,
		IsCopyrightFree: true,
		Resolution:      strings.TrimSpace(in.Resolution),
	}
	if err := s.store.Insert(ctx, v); err != nil {
		s.discard(saved)
		return nil, apperr.Storage("insert video", err)
	}
	if err := s.registry.IncrementVideoCount(ctx, v.Category, 1); err != nil {
		s.log.Warn("category count not incremented", zap.String("category", v.Category), zap.Error(err))
	}

	s.metrics.Upload()
	s.publish(ctx, events.Event{Type: events.VideoUploaded, VideoID: v.ID, Category: v.Category, Uploader: v.Uploader})
	s.log.Info("video uploaded", zap.String("video_id", v.ID), zap.String("uploader", v.Uploader), zap.String("category", v.Category))
	return v, nil
}

// saveThumbnail stores a resized JPEG, or the original bytes when they do not decode.
func (s *VideoService) saveThumbnail(ctx context.Context, f *UploadFile, now time.Time) (string, error) {
	data, err := storage.Thumbnail(f.Data)
	if err != nil {
		s.log.Debug("thumbnail not decodable, storing as uploaded", zap.String("name", f.Name), zap.Error(err))
		return s.files.Save(ctx, storage.NewFileName(f.Name, now), f.ContentType, f.Data)
	}
	name := strings.TrimSuffix(f.Name, filepath.Ext(f.Name)) + ".jpg"
	return s.files.Save(ctx, storage.NewFileName(name, now), "image/jpeg", data)
}

func (s *VideoService) discard(urls []string) {
	for _, u := range urls {
		if err := s.files.Delete(context.Background(), u); err != nil {
			s.log.Warn("orphaned upload", zap.String("url", u), zap.Error(err))
		}
	}
}

// Delete removes a video owned by user and its media.
func (s *VideoService) Delete(ctx context.Context, user *models.User, id string) (*models.Video, error) {
	v, err := s.engine.Peek(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Uploader != user.Username {
		return nil, ErrNotOwner
	}
	if _, err := s.store.Delete(ctx, id); err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, apperr.Storage("delete video", err)
	}
	if err := s.registry.IncrementVideoCount(ctx, v.Category, -1); err != nil {
		s.log.Warn("category count not decremented", zap.String("category", v.Category), zap.Error(err))
	}

	media := []string{v.VideoURL}
	if v.ThumbnailURL != "" && v.ThumbnailURL != storage.DefaultThumbnail {
		media = append(media, v.ThumbnailURL)
	}
	s.discard(media)
	s.publish(ctx, events.Event{Type: events.VideoDeleted, VideoID: v.ID, Category: v.Category, Uploader: v.Uploader})
	return v, nil
}

func (s *VideoService) publish(ctx context.Context, ev events.Event) {
	if ev.At.IsZero() {
		ev.At = s.now()
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.metrics.PublishFailure()
		s.log.Warn("event not published", zap.String("type", string(ev.Type)), zap.String("video_id", ev.VideoID), zap.Error(err))
	}
}

// SplitTags turns "a, b,,c" into [a b c].
func SplitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
