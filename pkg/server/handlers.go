package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/figslides/pkg/buildinfo"
	ferrors "github.com/matzehuels/figslides/pkg/errors"
	"github.com/matzehuels/figslides/pkg/history"
	"github.com/matzehuels/figslides/pkg/observability"
	"github.com/matzehuels/figslides/pkg/pipeline"
	"github.com/matzehuels/figslides/pkg/pptx"
	"github.com/matzehuels/figslides/pkg/scene"
)

// Response headers.
const (
	HeaderConversionID  = "X-Conversion-ID"
	HeaderLayersSkipped = "X-Layers-Skipped"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type conversionsResponse struct {
	Conversions []*history.Record `json:"conversions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Message: "figslides converter is running",
		Version: buildinfo.APIVersion,
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, ferrors.New(ferrors.ErrCodeTooLarge, "Request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "No data provided"))
		return
	}

	doc, err := scene.Parse(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	name := ferrors.SanitizeFileName(res.FileName) + "." + format
	h := w.Header()
	h.Set("Content-Type", pipeline.ContentTypes[format])
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	h.Set(HeaderLayersSkipped, strconv.Itoa(res.Stats.Skipped))
	if res.ConversionID != "" {
		h.Set(HeaderConversionID, res.ConversionID)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifacts[format])
}

// requestOptions applies query overrides to the base options. Only the
// first requested format is served.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.base
	opts.Formats = []string{pipeline.FormatPPTX}
	q := r.URL.Query()

	if f := q.Get("format"); f != "" {
		formats, err := pipeline.ParseFormats(f)
		if err != nil {
			return opts, err
		}
		if len(formats) > 0 {
			opts.Formats = formats[:1]
		}
	}
	for name, dst := range map[string]*bool{
		"slide_numbers": &opts.SlideNumbers,
		"safe_area":     &opts.ConstrainToSafeArea,
		"refresh":       &opts.Refresh,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, ferrors.New(ferrors.ErrCodeInvalidInput, "invalid %s: %q", name, v)
		}
		*dst = b
	}
	return opts, nil
}

func (s *Server) handleTestPPTX(w http.ResponseWriter, r *http.Request) {
	data, err := pptx.Render(pptx.SmokeTest(), pptx.WithCreator(buildinfo.UserAgent()))
	if err != nil {
		s.writeError(w, r, ferrors.Wrap(ferrors.ErrCodeRender, err, "Failed to generate PPTX"))
		return
	}
	h := w.Header()
	h.Set("Content-Type", pptx.MIMEType)
	h.Set("Content-Disposition", `attachment; filename="test.pptx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleListConversions(w http.ResponseWriter, r *http.Request) {
	store := s.runner.History
	if store == nil {
		s.writeError(w, r, ferrors.New(ferrors.ErrCodeUnsupported, "Conversion history is disabled"))
		return
	}

	limit := s.historyLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, r, ferrors.New(ferrors.ErrCodeInvalidInput, "invalid limit: %q", v))
			return
		}
		limit = n
	}

	records, err := store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, ferrors.Wrap(ferrors.ErrCodeStorage, err, "Failed to list conversions"))
		return
	}
	if records == nil {
		records = []*history.Record{}
	}
	writeJSON(w, http.StatusOK, conversionsResponse{Conversions: records})
}

func (s *Server) handleGetConversion(w http.ResponseWriter, r *http.Request) {
	store := s.runner.History
	if store == nil {
		s.writeError(w, r, ferrors.New(ferrors.ErrCodeUnsupported, "Conversion history is disabled"))
		return
	}

	rec, err := store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, history.ErrNotFound) {
		s.writeError(w, r, ferrors.New(ferrors.ErrCodeNotFound, "Conversion not found"))
		return
	}
	if err != nil {
		s.writeError(w, r, ferrors.Wrap(ferrors.ErrCodeStorage, err, "Failed to load conversion"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// =============================================================================
// Responses
// =============================================================================

// writeError maps err onto a status and the JSON error body. Pipeline
// failures keep a fixed headline and carry the cause in details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := ferrors.HTTPStatus(err)
	resp := errorResponse{Error: ferrors.UserMessage(err)}

	switch ferrors.GetCode(err) {
	case "", ferrors.ErrCodeInternal, ferrors.ErrCodeRender:
		resp = errorResponse{Error: "Failed to generate PPTX", Details: ferrors.Details(err)}
	default:
		var fe *ferrors.Error
		if errors.As(err, &fe) && fe.Cause != nil {
			resp.Details = fe.Cause.Error()
		}
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "err", err)
	} else {
		s.logger.Warn("bad request", "path", r.URL.Path, "status", status, "err", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
