package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/reportmerge/internal/parser"
	"github.com/dgallion1/reportmerge/internal/pipeline"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	// Two files plus form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, 2*s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", maxErr.Limit), "", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), "", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	mode := strings.TrimSpace(r.FormValue("mode"))
	if err := s.pipeline.Supports(mode); err != nil {
		switch {
		case errors.Is(err, pipeline.ErrLLMUnavailable):
			jsonError(w, err.Error(), "", http.StatusServiceUnavailable)
		default:
			jsonError(w, err.Error(), "", http.StatusBadRequest)
		}
		return
	}

	template, status, err := s.readUpload(r, "template")
	if err != nil {
		jsonError(w, err.Error(), "", status)
		return
	}
	notes, status, err := s.readUpload(r, "notes")
	if err != nil {
		jsonError(w, err.Error(), "", status)
		return
	}

	report, err := s.pipeline.Run(r.Context(), pipeline.Input{
		Template:  template,
		Notes:     notes,
		Mode:      mode,
		RequestID: middleware.GetReqID(r.Context()),
	})
	if err != nil {
		kind := pipeline.KindOf(err)
		jsonError(w, err.Error(), string(kind), statusForKind(kind))
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.PDF)))
	w.Header().Set("X-Report-Mode", report.Mode)
	w.WriteHeader(http.StatusOK)
	w.Write(report.PDF)
}

// readUpload reads one multipart file field, returning the HTTP status to
// use when it is missing, unsupported or too large.
func (s *Server) readUpload(r *http.Request, field string) (pipeline.Document, int, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return pipeline.Document{}, http.StatusBadRequest, fmt.Errorf("%s is required: %w", field, err)
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		return pipeline.Document{}, http.StatusBadRequest, fmt.Errorf("unsupported %s file type: %q", field, filepath.Ext(filename))
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return pipeline.Document{}, http.StatusInternalServerError, fmt.Errorf("failed to read %s", field)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return pipeline.Document{}, http.StatusRequestEntityTooLarge, fmt.Errorf("%s exceeds max size (%d bytes)", field, s.cfg.MaxUploadBytes)
	}
	return pipeline.Document{Filename: filename, Data: data}, 0, nil
}

func statusForKind(kind pipeline.Kind) int {
	switch kind {
	case pipeline.KindDocumentUnreadable:
		return http.StatusUnprocessableEntity
	case pipeline.KindRemoteServiceFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(w http.ResponseWriter, msg, kind string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	body := map[string]string{"error": msg}
	if kind != "" {
		body["kind"] = kind
	}
	json.NewEncoder(w).Encode(body)
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
