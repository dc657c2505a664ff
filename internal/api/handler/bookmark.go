package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gsearch/gateway/internal/api/response"
	"github.com/gsearch/gateway/internal/domain"
	"github.com/gsearch/gateway/internal/gateway"
)

var validate = validator.New()

// BookmarkHandler exposes the persisted bookmark collection.
type BookmarkHandler struct {
	bookmarks *gateway.Bookmarks
}

// NewBookmarkHandler creates a new bookmark handler
func NewBookmarkHandler(bookmarks *gateway.Bookmarks) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

// List returns all bookmarks
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.bookmarks.List()
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}
	if list == nil {
		list = []domain.Bookmark{}
	}
	response.OK(w, list)
}

// Add validates and stores a bookmark; adding an existing name is a no-op.
func (h *BookmarkHandler) Add(w http.ResponseWriter, r *http.Request) {
	var input domain.Bookmark
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			errors := make(map[string]string)
			for _, e := range validationErrors {
				switch e.Tag() {
				case "required":
					errors[e.Field()] = "field is required"
				case "url":
					errors[e.Field()] = "must be a valid URL"
				case "max":
					errors[e.Field()] = "must be at most " + e.Param() + " characters"
				default:
					errors[e.Field()] = "validation failed on " + e.Tag()
				}
			}
			response.BadRequest(w, errors)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.bookmarks.Add(input); err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, map[string]string{"name": input.Name})
}

// Remove deletes a bookmark by name
func (h *BookmarkHandler) Remove(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		response.BadRequest(w, "missing name parameter")
		return
	}

	removed, err := h.bookmarks.Remove(name)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}
	if !removed {
		response.NotFound(w, "bookmark not found")
		return
	}

	response.OK(w, map[string]string{"name": name})
}
