package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type createEntryRequest struct {
	Content string `json:"content" validate:"max=65536"`
}

type createEntryWithTagsRequest struct {
	Content string   `json:"content" validate:"max=65536"`
	Tags    []string `json:"tags" validate:"max=64,dive,max=255"`
}

type createTagRequest struct {
	Name string `json:"name" validate:"max=255"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

type tagsResponse struct {
	Tags []models.Tag `json:"tags"`
}

// decode reads a JSON body into dst and validates it. It writes the error
// response itself and reports whether the handler may go on.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", s.log)
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "request body is empty", s.log)
		default:
			writeError(w, http.StatusBadRequest, "invalid JSON body", s.log)
		}
		return false
	}

	if err := s.validator.Validate(dst); err != nil {
		s.log.Debug(r.Context(), "request rejected", "error", err)
		writeError(w, http.StatusBadRequest, err.Error(), s.log)
		return false
	}
	return true
}

// parsePage reads ?page=N. Absent means 1; anything but a positive integer is an error.
func parsePage(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: page must be a positive integer", common.ErrValidation)
	}
	return page, nil
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "page must be a positive integer", s.log)
		return
	}

	result, err := s.diary.ListEntriesWithTags(r.Context(), page, s.opts.PageSize)
	if err != nil {
		writeServiceError(w, err, s.log)
		return
	}
	writeJSON(w, http.StatusOK, result, s.log)
}

func (s *Server) handleCountEntries(w http.ResponseWriter, r *http.Request) {
	n, err := s.diary.CountEntries(r.Context())
	if err != nil {
		writeServiceError(w, err, s.log)
		return
	}
	writeJSON(w, http.StatusOK, n, s.log)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if !s.decode(w, r, &req) {
		return
	}

	id, err := s.diary.CreateSimpleEntry(r.Context(), req.Content)
	if err != nil {
		writeServiceError(w, err, s.log)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id}, s.log)
}

func (s *Server) handleCreateEntryWithTags(w http.ResponseWriter, r *http.Request) {
	var req createEntryWithTagsRequest
	if !s.decode(w, r, &req) {
		return
	}

	id, err := s.diary.CreateEntryWithTags(r.Context(), req.Content, req.Tags)
	if err != nil {
		writeServiceError(w, err, s.log)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id}, s.log)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tags.ListTags(r.Context())
	if err != nil {
		writeServiceError(w, err, s.log)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	writeJSON(w, http.StatusOK, tagsResponse{Tags: tags}, s.log)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if !s.decode(w, r, &req) {
		return
	}

	tag, created, err := s.tags.CreateTag(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			writeError(w, http.StatusBadRequest, "tag name cannot be empty", s.log)
			return
		}
		writeServiceError(w, err, s.log)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, tag, s.log)
}

func (s *Server) handleListEntriesByTag(w http.ResponseWriter, r *http.Request) {
	tagID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || tagID < 1 {
		writeError(w, http.StatusBadRequest, "invalid tag id", s.log)
		return
	}

	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "page must be a positive integer", s.log)
		return
	}

	result, err := s.diary.ListEntriesByTag(r.Context(), tagID, page, s.opts.PageSize)
	if err != nil {
		writeServiceError(w, err, s.log)
		return
	}
	writeJSON(w, http.StatusOK, result, s.log)
}
