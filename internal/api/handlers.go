package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/TxnLab/stakeview/internal/cache"
	"github.com/TxnLab/stakeview/internal/lib/ranking"
)

func (s *Server) handleValidators(w http.ResponseWriter, r *http.Request) {
	list, err := s.dash.Validators(r.Context())
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.ok(w, r, list, list.Degraded)
}

func (s *Server) handleValidator(w http.ResponseWriter, r *http.Request) {
	detail, err := s.dash.Validator(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.ok(w, r, detail, false)
}

func (s *Server) handleValidatorAPY(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	amountStr := r.URL.Query().Get("amount")
	if amountStr == "" {
		rep, err := s.dash.YieldReport(r.Context(), address)
		if err != nil {
			s.failErr(w, r, err)
			return
		}
		s.ok(w, r, rep, false)
		return
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Sprintf("invalid amount %q", amountStr))
		return
	}
	proj, err := s.dash.Project(r.Context(), address, amount)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.ok(w, r, proj, false)
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := intParam(r, "limit", ranking.DefaultLimit)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.dash.Ranking(r.Context(), page, limit)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.ok(w, r, result, result.Degraded)
}

func (s *Server) handleDelegatorRank(w http.ResponseWriter, r *http.Request) {
	pos, err := s.dash.RankOf(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.ok(w, r, pos, pos.Degraded)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	rep, err := s.dash.NetworkStats(r.Context())
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.ok(w, r, rep, rep.Degraded)
}

type cacheStats struct {
	Stores       map[string]cache.StoreStats `json:"stores"`
	TotalEntries int                         `json:"totalEntries"`
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats := cacheStats{Stores: s.registry.AllStats()}
	for _, st := range stats.Stores {
		stats.TotalEntries += st.Size
	}
	s.ok(w, r, stats, false)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	cleared := s.registry.ClearAll()
	s.logger.Info("cache cleared", "entries", cleared, "request_id", chimw.GetReqID(r.Context()))
	s.ok(w, r, map[string]int{"cleared": cleared}, false)
}

// intParam reads a positive integer query parameter, def when absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}
