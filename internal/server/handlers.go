package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/wireframe/pkg/catalog"
	"github.com/matzehuels/wireframe/pkg/errors"
	"github.com/matzehuels/wireframe/pkg/layout"
)

// maxRequestBody caps JSON request bodies.
const maxRequestBody = 1 << 20

type widgetView struct {
	Name   string   `json:"name"`
	Images []string `json:"images"`
	HTML   []string `json:"html"`
}

type catalogResponse struct {
	Widgets      []widgetView `json:"widgets"`
	CatalogError string       `json:"catalog_error,omitempty"`
}

type dropRequest struct {
	Widget   string            `json:"widget"`
	PointerY float64           `json:"pointer_y"`
	Geometry []layout.Geometry `json:"geometry,omitempty"`
}

type moveRequest struct {
	PointerY float64           `json:"pointer_y"`
	Geometry []layout.Geometry `json:"geometry,omitempty"`
}

type selectRequest struct {
	Image string `json:"image"`
}

type exportRequest struct {
	Project string `json:"project"`
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	c, _ := s.studio.Catalog()
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalogResponse())
}

func (s *Server) catalogResponse() catalogResponse {
	c, loadErr := s.studio.Catalog()
	resp := catalogResponse{Widgets: make([]widgetView, 0, c.Len())}
	for _, wd := range c.Widgets() {
		resp.Widgets = append(resp.Widgets, widgetView{
			Name:   wd.Name,
			Images: nonNil(wd.Images),
			HTML:   nonNil(wd.HTML),
		})
	}
	if loadErr != nil {
		resp.CatalogError = errors.UserMessage(loadErr)
	}
	return resp
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.opts.Reload == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "catalog reload is not configured"))
		return
	}
	c, err := s.opts.Reload(r.Context())
	if c == nil {
		c = catalog.Empty()
	}
	s.studio.SetCatalog(c, err)
	writeJSON(w, http.StatusOK, s.catalogResponse())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.studio.Snapshot())
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := errors.ValidateWidgetName(req.Widget); err != nil {
		writeError(w, err)
		return
	}
	entry, err := s.studio.Drop(req.Widget, req.PointerY, req.Geometry)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.studio.Drag(chi.URLParam(r, "id"), req.PointerY, req.Geometry); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.studio.Snapshot())
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	// Removing an absent entry is a no-op.
	s.studio.Remove(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.studio.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.studio.Update())
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	st, err := s.studio.Next(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	st, err := s.studio.Previous(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	st, err := s.studio.Select(chi.URLParam(r, "id"), req.Image)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	arch, err := s.studio.Export(r.Context(), req.Project)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", contentDisposition(arch.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(len(arch.Data)))
	if arch.Cached {
		w.Header().Set("X-Wireframe-Cache", "hit")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(arch.Data)
}

// contentDisposition builds an attachment header; names may contain spaces.
func contentDisposition(name string) string {
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, name, url.PathEscape(name))
}

// decodeJSON decodes the request body into v. An empty body leaves v zero.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(v)
	if err == nil || err == io.EOF {
		return nil
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorBody{Code: code, Message: errors.UserMessage(err)})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidSelection, errors.ErrCodeInvalidManifest:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeMissingData:
		return http.StatusNotFound
	case errors.ErrCodeExportAssetLoad, errors.ErrCodeManifestLoad, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
