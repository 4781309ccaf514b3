package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/invisible-growth/leadfinder/internal/extract"
	"github.com/invisible-growth/leadfinder/internal/jobs"
	"github.com/invisible-growth/leadfinder/internal/model"
	"github.com/invisible-growth/leadfinder/internal/resolve"
)

// newRouter maps the extension's message contract onto HTTP. Every request
// yields exactly one response.
func newRouter(env *appEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/find-email", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			PersonName  string       `json:"personName"`
			CompanyName string       `json:"companyName"`
			Source      model.Source `json:"source"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.PersonName == "" || body.CompanyName == "" {
			writeError(w, http.StatusBadRequest, "personName and companyName are required")
			return
		}
		if body.Source == "" {
			body.Source = model.SourceLinkedIn
		}

		out, err := env.Resolver.Resolve(req.Context(), body.PersonName, body.CompanyName, body.Source)
		if err != nil {
			zap.L().Error("find-email failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "enrichment failed")
			return
		}

		if out.Status == resolve.StatusNeedsFallback {
			writeJSON(w, http.StatusOK, map[string]any{
				"success":       false,
				"needsFallback": true,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"contact": out.Contact,
		})
	})

	r.Post("/api/extract-ai", func(w http.ResponseWriter, req *http.Request) {
		if env.AI == nil {
			writeError(w, http.StatusServiceUnavailable, "ai extraction not enabled")
			return
		}

		var body struct {
			PageContent string `json:"pageContent"`
			Type        string `json:"type"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.PageContent == "" {
			writeError(w, http.StatusBadRequest, "pageContent is required")
			return
		}

		mode := extract.ModeBoth
		switch body.Type {
		case "name":
			mode = extract.ModeName
		case "company":
			mode = extract.ModeCompany
		}

		result, err := env.AI.Extract(req.Context(), body.PageContent, mode)
		if err != nil {
			zap.L().Error("ai extraction failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "extraction failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"name":    result.PersonName,
			"company": result.CompanyName,
		})
	})

	r.Post("/api/enrich-clay", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			PersonName  string       `json:"personName"`
			CompanyName string       `json:"companyName"`
			Source      model.Source `json:"source"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.PersonName == "" || body.CompanyName == "" {
			writeError(w, http.StatusBadRequest, "personName and companyName are required")
			return
		}
		if body.Source == "" {
			body.Source = model.SourceLinkedIn
		}

		job, err := env.Resolver.TriggerFallback(req.Context(), body.PersonName, body.CompanyName, body.Source)
		if err != nil {
			zap.L().Error("enrich-clay failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "fallback workflow not available")
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{
			"jobId":  job.ID,
			"status": string(job.Status),
		})
	})

	r.Get("/api/clay-jobs/{jobID}", func(w http.ResponseWriter, req *http.Request) {
		job, err := env.Registry.Get(chi.URLParam(req, "jobID"))
		if err != nil {
			if eris.Is(err, jobs.ErrNotFound) {
				writeError(w, http.StatusNotFound, "job not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "lookup failed")
			return
		}
		writeJSON(w, http.StatusOK, job)
	})

	r.Get("/api/history", func(w http.ResponseWriter, req *http.Request) {
		entries, err := env.History.List(req.Context(), 10000)
		if err != nil {
			zap.L().Error("list history failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list failed")
			return
		}
		if entries == nil {
			entries = []model.HistoryEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	})

	r.Delete("/api/history", func(w http.ResponseWriter, req *http.Request) {
		if err := env.History.Clear(req.Context()); err != nil {
			zap.L().Error("clear history failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "clear failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		zap.L().Info("http request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
