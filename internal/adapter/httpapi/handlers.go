package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/aquaforesee/water-scenario-service/internal/domain"
)

const (
	defaultHistoryYears = 5
	minHistoryYears     = 1
	maxHistoryYears     = 10
)

type predictResponse struct {
	*domain.ScenarioResult
	ScenarioID string `json:"scenario_id"`
}

type baselineResponse struct {
	RegionID    string                      `json:"region_id"`
	Predictions []domain.DistrictPrediction `json:"predictions"`
	Summary     domain.Summary              `json:"summary"`
}

type keyInsightsResponse struct {
	KeyInsights     string `json:"key_insights"`
	ScenarioSummary string `json:"scenario_summary"`
	AIGenerated     bool   `json:"ai_generated"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	msg := "AquaForesee API is running"
	if s.store == nil {
		msg += " (catalog mode)"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, map[string]any{"regions": domain.Regions()})
		return
	}

	regions, err := s.store.ListRegions(r.Context())
	if err != nil {
		s.logger.Error("region listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list regions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"regions": regions})
}

func (s *Server) handleBaseline(w http.ResponseWriter, r *http.Request) {
	regionID := mux.Vars(r)["region_id"]

	region, ok, err := s.lookupRegion(r, regionID)
	if err != nil {
		s.logger.Error("region lookup failed", "region_id", regionID, "error", err)
		writeError(w, http.StatusInternalServerError, "region lookup failed")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Region %s not found", regionID))
		return
	}

	predictions, summary := domain.BaselineEstimate(region)
	writeJSON(w, http.StatusOK, baselineResponse{
		RegionID:    regionID,
		Predictions: predictions,
		Summary:     summary,
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var params domain.ScenarioParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, regionID := range params.RegionIDs {
		_, ok, err := s.lookupRegion(r, regionID)
		if err != nil {
			s.logger.Error("region lookup failed", "region_id", regionID, "error", err)
			writeError(w, http.StatusInternalServerError, "region lookup failed")
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Region %s not found", regionID))
			return
		}
	}

	result, cached := s.engine.Predict(r.Context(), params)
	rec := domain.PredictionRecord{
		ScenarioID: uuid.NewString(),
		Params:     params,
		Result:     result,
	}

	// Persistence and publishing are best-effort: a storage outage should not
	// cost the caller an already computed result. Cache hits were recorded on
	// first computation and are not re-emitted.
	if !cached {
		if s.store != nil {
			if err := s.store.SavePrediction(r.Context(), rec); err != nil {
				s.logger.Warn("prediction store failed", "scenario_id", rec.ScenarioID, "error", err)
			}
		}
		if s.publisher != nil {
			if err := s.publisher.Publish(r.Context(), rec); err != nil {
				s.logger.Warn("prediction publish failed", "scenario_id", rec.ScenarioID, "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, predictResponse{
		ScenarioResult: result,
		ScenarioID:     rec.ScenarioID,
	})
}

func (s *Server) handleHistorical(w http.ResponseWriter, r *http.Request) {
	regionID := mux.Vars(r)["region_id"]

	years, err := parseYears(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, ok, err := s.lookupRegion(r, regionID)
	if err != nil {
		s.logger.Error("region lookup failed", "region_id", regionID, "error", err)
		writeError(w, http.StatusInternalServerError, "region lookup failed")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Region %s not found", regionID))
		return
	}

	series, err := s.historicalSeries(r, regionID, years)
	if err != nil {
		s.logger.Error("history query failed", "region_id", regionID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load historical data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"region_id":       regionID,
		"historical_data": series,
	})
}

func (s *Server) handleHistoricalMultiple(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("region_ids")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "region_ids query parameter is required")
		return
	}

	years, err := parseYears(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Unknown ids are skipped rather than failing the whole batch.
	data := map[string][]domain.HistoricalRecord{}
	for _, regionID := range strings.Split(raw, ",") {
		regionID = strings.TrimSpace(regionID)
		if regionID == "" {
			continue
		}
		_, ok, err := s.lookupRegion(r, regionID)
		if err != nil {
			s.logger.Error("region lookup failed", "region_id", regionID, "error", err)
			writeError(w, http.StatusInternalServerError, "region lookup failed")
			return
		}
		if !ok {
			continue
		}
		series, err := s.historicalSeries(r, regionID, years)
		if err != nil {
			s.logger.Error("history query failed", "region_id", regionID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load historical data")
			return
		}
		data[regionID] = series
	}
	writeJSON(w, http.StatusOK, map[string]any{"historical_data": data})
}

func (s *Server) handleKeyInsights(w http.ResponseWriter, r *http.Request) {
	var params domain.ScenarioParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, _ := s.engine.Predict(r.Context(), params)
	text, aiGenerated := s.insights.KeyInsights(r.Context(), params, result.Summary)

	writeJSON(w, http.StatusOK, keyInsightsResponse{
		KeyInsights: text,
		ScenarioSummary: fmt.Sprintf("Analysis of %d districts shows %d at high risk",
			result.Summary.TotalDistricts, result.Summary.HighRiskCount),
		AIGenerated: aiGenerated,
	})
}

func (s *Server) handleAIStatus(w http.ResponseWriter, _ *http.Request) {
	service := "Disabled"
	if s.advisorOn {
		service = "Gemini AI"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ai_enabled": s.advisorOn,
		"service":    service,
	})
}

// lookupRegion checks region existence against the store, or the built-in
// catalog when no store is configured.
func (s *Server) lookupRegion(r *http.Request, regionID string) (domain.Region, bool, error) {
	if s.store == nil {
		region, ok := domain.RegionByID(regionID)
		return region, ok, nil
	}
	region, err := s.store.GetRegion(r.Context(), regionID)
	if err != nil {
		if errors.Is(err, domain.ErrRegionNotFound) {
			return domain.Region{}, false, nil
		}
		return domain.Region{}, false, err
	}
	return region, true, nil
}

func (s *Server) historicalSeries(r *http.Request, regionID string, years int) ([]domain.HistoricalRecord, error) {
	if s.store == nil {
		return domain.HistoricalSeries(regionID, years), nil
	}
	return s.store.HistoricalSeries(r.Context(), regionID, years)
}

func parseYears(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("years")
	if raw == "" {
		return defaultHistoryYears, nil
	}
	years, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("years must be an integer")
	}
	if years < minHistoryYears {
		years = minHistoryYears
	}
	if years > maxHistoryYears {
		years = maxHistoryYears
	}
	return years, nil
}
