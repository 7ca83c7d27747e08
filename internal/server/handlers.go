package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ziadkadry99/doc-chat/internal/docload"
	"github.com/ziadkadry99/doc-chat/internal/errdefs"
	"github.com/ziadkadry99/doc-chat/internal/session"
)

// maxUploadBytes bounds multipart uploads, generous enough for a few
// hundred pages of PDF.
const maxUploadBytes = 64 << 20

type uploadResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Format   string `json:"format"`
	Chunks   int    `json:"chunks"`
	Embedder string `json:"embedder"`
	Fallback bool   `json:"fallback"`
}

type statusResponse struct {
	Document string `json:"document,omitempty"`
	Format   string `json:"format,omitempty"`
	Chunks   int    `json:"chunks"`
	Turns    int    `json:"turns"`
	Embedder string `json:"embedder,omitempty"`
	Fallback bool   `json:"fallback"`
	Retry    string `json:"retry_question,omitempty"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "reading upload: "+err.Error())
		return
	}

	doc, err := docload.Load(header.Filename, data)
	if err != nil {
		s.writeTaxonomyError(w, err)
		return
	}

	if err := s.sess.SetDocument(r.Context(), doc, s.cfg.ChunkSize, s.cfg.ChunkOverlap, nil); err != nil {
		s.writeTaxonomyError(w, err)
		return
	}

	index := s.sess.Index()
	s.writeJSON(w, http.StatusCreated, uploadResponse{
		ID:       doc.ID,
		Name:     doc.Name,
		Format:   doc.Format,
		Chunks:   index.Count(),
		Embedder: index.Provider(),
		Fallback: s.sess.UsingFallback(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Turns:    len(s.sess.History()),
		Fallback: s.sess.UsingFallback(),
		Retry:    s.sess.LastFailedQuestion(),
	}
	if doc := s.sess.Document(); doc != nil {
		resp.Document = doc.Name
		resp.Format = doc.Format
	}
	if index := s.sess.Index(); index != nil {
		resp.Chunks = index.Count()
		resp.Embedder = index.Provider()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	doc := s.sess.Document()
	if doc == nil {
		s.writeError(w, http.StatusConflict, "no document loaded")
		return
	}

	digest, err := s.summarizer.Summarize(r.Context(), doc)
	if err != nil {
		s.writeTaxonomyError(w, err)
		return
	}
	// Later questions carry the digest as prompt context.
	s.sess.SetSummary(digest)
	s.writeJSON(w, http.StatusOK, map[string]string{"summary": digest})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	format := session.TranscriptFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = session.FormatMarkdown
	}

	out, err := s.sess.Transcript(format)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch format {
	case session.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	default:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.sess.Reset()
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleClearChat(w http.ResponseWriter, r *http.Request) {
	s.sess.ClearChat()
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// writeTaxonomyError maps pipeline errors onto HTTP statuses.
func (s *Server) writeTaxonomyError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errdefs.ErrUnsupportedFormat):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, errdefs.ErrCorruptFile), errors.Is(err, errdefs.ErrEmptyDocument):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errdefs.ErrAuthFailed):
		status = http.StatusBadGateway
	case errors.Is(err, errdefs.ErrQuotaExceeded):
		status = http.StatusTooManyRequests
	case errors.Is(err, errdefs.ErrNetwork), errors.Is(err, errdefs.ErrGenerationFailed):
		status = http.StatusBadGateway
	}
	s.writeError(w, status, err.Error())
}
