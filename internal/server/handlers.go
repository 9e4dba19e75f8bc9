package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-siggen/internal/session"
	"github.com/goliatone/go-siggen/pkg/export"
	"github.com/goliatone/go-siggen/pkg/model"
	"github.com/goliatone/go-siggen/pkg/schema"
)

const maxBodyBytes = 64 << 10

// fieldUpdate is a PATCH body. Revision orders edits of one field; zero means
// unordered.
type fieldUpdate struct {
	Value    *string `json:"value"`
	Revision uint64  `json:"revision"`
}

type fieldUpdateResult struct {
	Data     model.SignatureData `json:"data"`
	Preview  string              `json:"preview"`
	HTML     string              `json:"html"`
	Revision uint64              `json:"revision"`
}

type copyState struct {
	Copied bool `json:"copied"`
}

type copyResult struct {
	Copied bool `json:"copied"`
	export.Notification
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := sessionID(ctx)
	rec, err := s.opts.Store.Load(ctx, id)
	if err != nil {
		s.storeError(w, err)
		return
	}

	options := s.opts.Render
	options.Copied = s.copies.copied(id)
	options.Revision = rec.Revision()
	out, err := s.opts.Preview.Render(ctx, rec.Data, options)
	if err != nil {
		s.renderError(w, err)
		return
	}
	w.Header().Set("Content-Type", s.opts.Preview.ContentType())
	_, _ = w.Write(out)
}

// handleFormPost applies a plain form submission, for clients without
// scripting, and redirects back to the page.
func (s *Server) handleFormPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse form: %w", err))
		return
	}

	ctx := r.Context()
	_, err := s.opts.Store.Update(ctx, sessionID(ctx), func(rec *session.Record) error {
		for _, field := range model.Fields() {
			if values, ok := r.PostForm[field.String()]; ok && len(values) > 0 {
				if err := rec.ApplyField(field, values[0], 0); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := s.opts.Store.Load(ctx, sessionID(ctx))
	if err != nil {
		s.storeError(w, err)
		return
	}
	out, err := s.opts.Preview.RenderFragment(ctx, rec.Data, s.opts.Render)
	if err != nil {
		s.renderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(out)
}

func (s *Server) handleSignature(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := s.opts.Store.Load(ctx, sessionID(ctx))
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec.Data)
}

func (s *Server) handleSignatureHTML(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := s.opts.Store.Load(ctx, sessionID(ctx))
	if err != nil {
		s.storeError(w, err)
		return
	}
	out, err := s.opts.Email.Render(ctx, rec.Data, s.opts.Render)
	if err != nil {
		s.renderError(w, err)
		return
	}
	w.Header().Set("Content-Type", s.opts.Email.ContentType())
	_, _ = w.Write(out)
}

// handleFieldUpdate replaces one field and answers with the refreshed preview
// and export markup. Edits that arrive after a newer revision of the same
// field are rejected with 409 and not written.
func (s *Server) handleFieldUpdate(w http.ResponseWriter, r *http.Request) {
	field, err := model.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	var body fieldUpdate
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}
	if body.Value == nil {
		writeError(w, http.StatusBadRequest, errors.New("value is required"))
		return
	}

	ctx := r.Context()
	rec, err := s.opts.Store.Update(ctx, sessionID(ctx), func(rec *session.Record) error {
		return rec.ApplyField(field, *body.Value, body.Revision)
	})
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.writeRendered(w, r, rec, rec.Revisions[field])
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := s.opts.Store.Update(ctx, sessionID(ctx), func(rec *session.Record) error {
		form := model.NewFormFrom(rec.Data)
		form.Reset()
		rec.Data = form.Data()
		return nil
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeRendered(w, r, rec, rec.Revision())
}

func (s *Server) writeRendered(w http.ResponseWriter, r *http.Request, rec session.Record, revision uint64) {
	ctx := r.Context()
	data := rec.Data
	fragment, err := s.opts.Preview.RenderFragment(ctx, data, s.opts.Render)
	if err != nil {
		s.renderError(w, err)
		return
	}
	exported, err := s.opts.Email.Render(ctx, data, s.opts.Render)
	if err != nil {
		s.renderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fieldUpdateResult{
		Data:     data,
		Preview:  string(fragment),
		HTML:     string(exported),
		Revision: revision,
	})
}

func (s *Server) handleCopyState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, copyState{Copied: s.copies.copied(sessionID(r.Context()))})
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	if s.opts.Clipboard == nil {
		writeError(w, http.StatusNotFound, errors.New("server-side copy is disabled"))
		return
	}

	ctx := r.Context()
	id := sessionID(ctx)
	rec, err := s.opts.Store.Load(ctx, id)
	if err != nil {
		s.storeError(w, err)
		return
	}

	exp, err := s.copies.exporter(id)
	if err != nil {
		s.renderError(w, err)
		return
	}

	if err := exp.Copy(ctx, rec.Data); err != nil {
		s.logger.Warn("copy failed", zap.String("session", id), zap.Error(err))
		s.copies.dropIdle(id)
		writeJSON(w, http.StatusBadGateway, copyResult{
			Copied:       exp.Copied(),
			Notification: export.FailedNotification,
		})
		return
	}
	writeJSON(w, http.StatusOK, copyResult{
		Copied:       true,
		Notification: export.CopiedNotification,
	})
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(schema.Raw())
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrUnknownField):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, session.ErrStaleRevision):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusGone, err)
	default:
		s.logger.Error("session store", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errors.New("session unavailable"))
	}
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	s.logger.Error("render", zap.Error(err))
	writeError(w, http.StatusInternalServerError, errors.New("render failed"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}
