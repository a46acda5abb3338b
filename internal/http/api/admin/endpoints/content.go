package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vitrine-signage/vitrine/internal/db"
	"github.com/vitrine-signage/vitrine/internal/http/api"
	"github.com/vitrine-signage/vitrine/internal/http/api/admin/packets"
	"github.com/vitrine-signage/vitrine/internal/model"
	"github.com/vitrine-signage/vitrine/internal/storage"
)

type ContentController struct {
	store   db.Store
	storage storage.Storage
}

func newContentController(store db.Store, storage storage.Storage) *ContentController {
	return &ContentController{store: store, storage: storage}
}

// ContentModule mounts all authenticated /content endpoints
func ContentModule(store db.Store, storage storage.Storage) api.Module {
	ctl := newContentController(store, storage)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/content/:id", ctl.getContent)
		c.GET("/content", ctl.listContent)
		c.POST("/content", ctl.createContent)
		c.PUT("/content/:id", ctl.updateContent)
		c.DELETE("/content/:id", ctl.deleteContent)
	})
}

func (c *ContentController) listContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := c.store.ListContent()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list content"}
	}

	out := make([]packets.ContentResponse, 0, len(all))
	for _, x := range all {
		if x.CreatedBy != user.ID {
			continue
		}
		out = append(out, contentResponse(x))
	}

	return out, nil
}

func (c *ContentController) getContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	x, apiErr := c.ownedContent(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return contentResponse(*x), nil
}

// createContent accepts a multipart form. A "source" file is uploaded to
// storage; without one, a "url" field must reference the media directly.
func (c *ContentController) createContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	name := ctx.PostForm("name")
	typeVal := ctx.PostForm("type")
	if name == "" || typeVal == "" {
		log.Warn().Msg("[content] createContent: missing required form fields")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "missing required form fields"}
	}

	defaultDuration := 10
	if raw := ctx.PostForm("default_duration"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid default_duration"}
		}
		defaultDuration = parsed
	}

	var width, height *int
	if raw := ctx.PostForm("width"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			log.Error().Err(err).Str("width", raw).Msg("[content] non-integer width")
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid form fields"}
		}
		width = &parsed
	}
	if raw := ctx.PostForm("height"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			log.Error().Err(err).Str("height", raw).Msg("[content] non-integer height")
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid form fields"}
		}
		height = &parsed
	}

	url := ctx.PostForm("url")
	if fileHeader, err := ctx.FormFile("source"); err == nil {
		uploadPath, err := c.storage.SaveFile(fileHeader, fileHeader.Filename)
		if err != nil {
			log.Error().Err(err).Msg("[content] createContent: save failed")
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save file"}
		}
		url = uploadPath
	}
	if url == "" {
		log.Warn().Msg("[content] createContent: neither source file nor url provided")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "source file or url is required"}
	}

	content, err := c.store.CreateContent(name, typeVal, url, defaultDuration, width, height, user.ID)
	if err != nil {
		log.Error().Err(err).Msg("[content] createContent: insert failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create content"}
	}

	return contentResponse(content), nil
}

func (c *ContentController) updateContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	x, apiErr := c.ownedContent(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.UpdateContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := c.store.UpdateContent(x.ID, req.Name, req.Type, req.URL, req.DefaultDuration); err != nil {
		log.Error().Err(err).Int("content_id", x.ID).Msg("[content] update failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update content"}
	}

	notifyContentChanged(ctx, c.store, x.ID)

	updated, err := c.store.GetContentByID(x.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load content"}
	}
	return contentResponse(updated), nil
}

// Playlist items referencing deleted content keep their rows; players
// skip entries whose media no longer resolves.
func (c *ContentController) deleteContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	x, apiErr := c.ownedContent(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := c.store.DeleteContent(x.ID); err != nil {
		log.Error().Err(err).Int("content_id", x.ID).Msg("[content] delete failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete content"}
	}

	notifyContentChanged(ctx, c.store, x.ID)
	return nil, nil
}

func (c *ContentController) ownedContent(ctx *gin.Context, user *model.User) (*model.Content, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		log.Error().Str("id", ctx.Param("id")).Msg("invalid content id")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	x, err := c.store.GetContentByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}
	if x.CreatedBy != user.ID {
		log.Warn().Int("owner", x.CreatedBy).Int("user", user.ID).Msg("[content] forbidden access")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return &x, nil
}
