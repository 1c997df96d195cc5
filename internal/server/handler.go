package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"vsm/internal/domain"
	"vsm/internal/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SearchResponse struct {
	Query   string                  `json:"query"`
	Results []domain.ScoredDocument `json:"results"`
	Total   int                     `json:"total"`
}

type StatsResponse struct {
	domain.Stats
	Cache *domain.CacheStats `json:"cache,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonResponse(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	params := r.URL.Query()
	query := params.Get("q")

	opts, err := s.rankOptions(params.Get("limit"), params.Get("drop_zero"), params.Get("require_all"))
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	results, err := s.engine.Rank(query, opts)
	if err != nil {
		if errors.Is(err, usecase.ErrIndexNotLoaded) {
			jsonResponse(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
			return
		}
		s.logger.WithError(err).WithField("query", query).Error("rank failed")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: "rank failed"})
		return
	}
	if results == nil {
		results = []domain.ScoredDocument{}
	}

	jsonResponse(w, http.StatusOK, SearchResponse{
		Query:   query,
		Results: results,
		Total:   len(results),
	})
}

func (s *Server) rankOptions(limit, dropZero, requireAll string) (domain.RankOptions, error) {
	opts := s.opts.Defaults

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return opts, errors.New("limit must be a non-negative integer")
		}
		opts.Limit = n
	}
	if dropZero != "" {
		b, err := strconv.ParseBool(dropZero)
		if err != nil {
			return opts, errors.New("drop_zero must be a boolean")
		}
		opts.DropZero = b
	}
	if requireAll != "" {
		b, err := strconv.ParseBool(requireAll)
		if err != nil {
			return opts, errors.New("require_all must be a boolean")
		}
		opts.RequireAll = b
	}
	return opts, nil
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonResponse(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	stats, err := s.engine.Reload()
	if err != nil {
		s.logger.WithError(err).Error("reload failed")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: "reload failed"})
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{Stats: s.engine.Stats()}
	if cs, ok := s.engine.CacheStats(); ok {
		resp.Cache = &cs
	}
	jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
