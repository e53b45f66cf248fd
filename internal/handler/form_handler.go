package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/form/v4"
	"go.uber.org/zap"

	dbmodels "github.com/ad-tracker/video-catalog-go/internal/db/models"
	"github.com/ad-tracker/video-catalog-go/internal/models"
	"github.com/ad-tracker/video-catalog-go/internal/service"
	"github.com/ad-tracker/video-catalog-go/pkg/logger"
)

// VideoListPath is where every successful form submission lands.
const VideoListPath = "/get_form_video_list"

var decoder = form.NewDecoder()

// PageData is the data handed to every HTML page.
type PageData struct {
	Title      string
	Error      string
	Message    string
	Videos     []*dbmodels.VideoListItem
	Categories []*dbmodels.Category
	Form       models.VideoInput
	Fields     map[string]string
	VideoID    int64
}

// FormHandler serves the HTML pages that manage videos through plain forms.
type FormHandler struct {
	catalog *service.CatalogService
}

// NewFormHandler creates a new FormHandler instance.
func NewFormHandler(catalog *service.CatalogService) *FormHandler {
	return &FormHandler{catalog: catalog}
}

// Home renders the landing page.
func (h *FormHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "page.home", PageData{Title: "Video Catalog"})
}

// VideoList renders the table of active videos.
func (h *FormHandler) VideoList(c *gin.Context) {
	items, err := h.catalog.ListVideosForForm(c.Request.Context())
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	c.HTML(http.StatusOK, "page.video_list", PageData{Title: "Videos", Videos: items})
}

// AddVideoForm renders an empty add form.
func (h *FormHandler) AddVideoForm(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	c.HTML(http.StatusOK, "page.video_add", PageData{Title: "Add a Video", Categories: categories})
}

// SubmitAddVideo creates a video from the add form.
func (h *FormHandler) SubmitAddVideo(c *gin.Context) {
	input, err := decodeVideoForm(c)
	if err == nil {
		_, err = h.catalog.CreateVideo(c.Request.Context(), input)
	}
	if err != nil {
		page := PageData{Title: "Add a Video"}
		if input != nil {
			page.Form = *input
		}
		h.rerender(c, "page.video_add", page, err)
		return
	}
	c.Redirect(http.StatusFound, VideoListPath)
}

// EditVideoForm renders the edit form of an active video.
func (h *FormHandler) EditVideoForm(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.renderNotFound(c, http.StatusBadRequest, err.Error())
		return
	}

	video, categories, err := h.catalog.GetVideoForEdit(c.Request.Context(), id)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	c.HTML(http.StatusOK, "page.video_edit", PageData{
		Title:      "Edit Video",
		Categories: categories,
		VideoID:    video.ID,
		Form: models.VideoInput{
			Title:       video.Title,
			YouTubeCode: video.YouTubeCode,
			CategoryID:  &video.CategoryID,
		},
	})
}

// SubmitEditVideo saves the edit form. The form posts back to its own path.
func (h *FormHandler) SubmitEditVideo(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.renderNotFound(c, http.StatusBadRequest, err.Error())
		return
	}

	input, err := decodeVideoForm(c)
	if err == nil {
		_, err = h.catalog.ReplaceVideo(c.Request.Context(), id, input)
	}
	if err != nil {
		var notFound *service.NotFoundError
		if errors.As(err, &notFound) && notFound.Resource == "video" {
			h.renderNotFound(c, http.StatusNotFound, err.Error())
			return
		}
		page := PageData{Title: "Edit Video", VideoID: id}
		if input != nil {
			page.Form = *input
		}
		h.rerender(c, "page.video_edit", page, err)
		return
	}
	c.Redirect(http.StatusFound, VideoListPath)
}

// DeleteVideo soft-deletes a video and returns to the list. It answers both
// GET, used by the page script, and POST.
func (h *FormHandler) DeleteVideo(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.renderNotFound(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.catalog.DeleteVideo(c.Request.Context(), id); err != nil {
		h.renderFailure(c, err)
		return
	}
	c.Redirect(http.StatusFound, VideoListPath)
}

func decodeVideoForm(c *gin.Context) (*models.VideoInput, error) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, &service.ValidationError{Message: "could not read the submitted form"}
	}

	var input models.VideoInput
	if err := decoder.Decode(&input, c.Request.PostForm); err != nil {
		return &input, &service.ValidationError{
			Message: "the submitted form contains invalid values",
			Fields:  decodeErrorFields(err),
		}
	}
	return &input, nil
}

func decodeErrorFields(err error) map[string]string {
	var decodeErrs form.DecodeErrors
	if !errors.As(err, &decodeErrs) {
		return nil
	}
	fields := make(map[string]string, len(decodeErrs))
	for field := range decodeErrs {
		fields[field] = "has an invalid value"
	}
	return fields
}

// rerender shows the form again with the failure and the matching status.
func (h *FormHandler) rerender(c *gin.Context, page string, data PageData, err error) {
	status := http.StatusInternalServerError
	var (
		notFound *service.NotFoundError
		invalid  *service.ValidationError
	)
	switch {
	case errors.As(err, &invalid):
		status = http.StatusUnprocessableEntity
		data.Error = "Please correct the highlighted fields."
		if len(invalid.Fields) == 0 {
			data.Error = invalid.Error()
		}
		data.Fields = invalid.Fields
	case errors.As(err, &notFound):
		status = http.StatusNotFound
		data.Error = err.Error()
	default:
		logger.Log.Error("Form submission failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		data.Error = "The video could not be saved."
	}

	categories, listErr := h.catalog.ListCategories(c.Request.Context())
	if listErr != nil {
		h.renderFailure(c, listErr)
		return
	}
	data.Categories = categories
	c.HTML(status, page, data)
}

func (h *FormHandler) renderFailure(c *gin.Context, err error) {
	var notFound *service.NotFoundError
	if errors.As(err, &notFound) {
		h.renderNotFound(c, http.StatusNotFound, err.Error())
		return
	}

	logger.Log.Error("Page rendering failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, "page.not_found", PageData{
		Title:   "Something went wrong",
		Message: "The page could not be loaded. Please try again.",
	})
}

func (h *FormHandler) renderNotFound(c *gin.Context, status int, message string) {
	c.HTML(status, "page.not_found", PageData{Title: "Not Found", Message: message})
}
