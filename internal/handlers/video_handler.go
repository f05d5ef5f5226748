package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/fathima-sithara/clips-service/internal/catalog"
	"github.com/fathima-sithara/clips-service/internal/middleware"
	"github.com/fathima-sithara/clips-service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type VideoHandler struct {
	svc    *services.VideoService
	engine *catalog.Engine
}

func NewVideoHandler(svc *services.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc, engine: svc.Engine()}
}

// GET /api/videos?category=&search=&sortBy=&sortOrder=&page=&limit=
func (h *VideoHandler) List(c *fiber.Ctx) error {
	q := h.engine.DefaultQuery()
	q.Category = c.Query("category")
	q.Search = c.Query("search")
	q.SortField = catalog.ParseSortField(c.Query("sortBy"))
	q.SortOrder = catalog.ParseSortOrder(c.Query("sortOrder"))
	q.Page = queryInt(c, "page", q.Page)
	q.PageSize = queryInt(c, "limit", q.PageSize)

	page, err := h.engine.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *VideoHandler) Get(c *fiber.Ctx) error {
	v, err := h.svc.View(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(v)
}

func (h *VideoHandler) Like(c *fiber.Ctx) error {
	res, err := h.svc.Like(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Video liked successfully",
		"likes":   res.Value,
		"videoId": res.VideoID,
	})
}

func (h *VideoHandler) Download(c *fiber.Ctx) error {
	res, err := h.svc.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":     "Download ready",
		"downloadUrl": res.Video.VideoURL,
		"downloads":   res.Value,
		"videoId":     res.VideoID,
	})
}

// POST /api/videos/upload (multipart: video, thumbnail, title, description, category, tags, duration, resolution)
func (h *VideoHandler) Upload(c *fiber.Ctx) error {
	in := services.UploadInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Tags:        c.FormValue("tags"),
		Duration:    c.FormValue("duration"),
		Resolution:  c.FormValue("resolution"),
	}
	if form, err := c.MultipartForm(); err == nil {
		if in.Video, err = readPart(form, "video"); err != nil {
			return err
		}
		if in.Thumbnail, err = readPart(form, "thumbnail"); err != nil {
			return err
		}
	}

	v, err := h.svc.Upload(c.UserContext(), middleware.CurrentUser(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Video uploaded successfully",
		"video":   v,
	})
}

func readPart(form *multipart.Form, field string) (*services.UploadFile, error) {
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot open "+field)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot read "+field)
	}
	ct := fh.Header.Get(fiber.HeaderContentType)
	if ct == "" || ct == fiber.MIMEOctetStream {
		ct = http.DetectContentType(data)
	}
	return &services.UploadFile{Name: fh.Filename, ContentType: ct, Data: data}, nil
}

func (h *VideoHandler) Delete(c *fiber.Ctx) error {
	v, err := h.svc.Delete(c.UserContext(), middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Video deleted successfully", "videoId": v.ID})
}

func (h *VideoHandler) ByUploader(c *fiber.Ctx) error {
	page, err := h.engine.ByUploader(c.UserContext(), c.Params("username"),
		queryInt(c, "page", 1), queryInt(c, "limit", h.engine.Options().DefaultPageSize))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"videos":      page.Videos,
		"totalPages":  page.TotalPages,
		"currentPage": page.CurrentPage,
		"total":       page.Total,
	})
}

func (h *VideoHandler) Trending(c *fiber.Ctx) error {
	videos, err := h.engine.Trending(c.UserContext(), queryInt(c, "limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(videos)
}

func (h *VideoHandler) Recent(c *fiber.Ctx) error {
	videos, err := h.engine.Recent(c.UserContext(), queryInt(c, "limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(videos)
}

// GET /api/search?q=&category=&page=&limit=
func (h *VideoHandler) Search(c *fiber.Ctx) error {
	q := h.engine.DefaultQuery()
	q.Search = c.Query("q")
	q.Category = c.Query("category")
	q.Page = queryInt(c, "page", q.Page)
	q.PageSize = queryInt(c, "limit", q.PageSize)

	page, err := h.engine.Search(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"videos":      page.Videos,
		"total":       page.Total,
		"totalPages":  page.TotalPages,
		"currentPage": page.CurrentPage,
	})
}

func (h *VideoHandler) Stats(c *fiber.Ctx) error {
	s, err := h.engine.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(s)
}
