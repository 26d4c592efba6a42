package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/workforce-planning-api/internal/domain"
	"github.com/workforce-planning-api/internal/dto"
	"github.com/workforce-planning-api/internal/service"
)

type ScenarioHandler struct {
	scenarioService service.ScenarioService
	validator       *validator.Validate
	logger          *slog.Logger
}

func NewScenarioHandler(scenarioService service.ScenarioService, logger *slog.Logger) *ScenarioHandler {
	return &ScenarioHandler{
		scenarioService: scenarioService,
		validator:       validator.New(),
		logger:          logger,
	}
}

func (h *ScenarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateScenarioRequest
	// Неизвестные ключи рычагов и экономических параметров -
	// ошибка валидации, а не молчаливое игнорирование
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	scenario, err := h.scenarioService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp, err := toScenarioResponse(scenario)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, resp)
}

func (h *ScenarioHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r.URL.Path, "/scenarios/")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid scenario id", err.Error())
		return
	}

	scenario, err := h.scenarioService.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp, err := toScenarioResponse(scenario)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.scenarioService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]dto.ScenarioResponse, 0, len(scenarios))
	for i := range scenarios {
		sr, err := toScenarioResponse(&scenarios[i])
		if err != nil {
			h.handleServiceError(w, err)
			return
		}
		resp = append(resp, sr)
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *ScenarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r.URL.Path, "/scenarios/")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid scenario id", err.Error())
		return
	}

	if err := h.scenarioService.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Run запускает сохранённый сценарий: POST /scenarios/{id}/run
func (h *ScenarioHandler) Run(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r.URL.Path, "/scenarios/")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid scenario id", err.Error())
		return
	}

	var req dto.RunScenarioRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	run, result, err := h.scenarioService.Run(r.Context(), id, req.Seed)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.RunResponse{
		ID:         run.ID,
		ScenarioID: run.ScenarioID,
		Seed:       run.Seed,
		CreatedAt:  run.CreatedAt,
		Result:     result,
	})
}

// Simulate запускает симуляцию с определением в теле запроса:
// POST /simulations
func (h *ScenarioHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req dto.SimulateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	run, result, err := h.scenarioService.Simulate(r.Context(), req.Definition, req.Seed)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.RunResponse{
		ID:        run.ID,
		Seed:      run.Seed,
		CreatedAt: run.CreatedAt,
		Result:    result,
	})
}

// GetRun возвращает сохранённый запуск: GET /runs/{id}
func (h *ScenarioHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := extractRunID(r.URL.Path)
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "invalid run id", "")
		return
	}

	run, err := h.scenarioService.GetRun(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := dto.RunResponse{
		ID:         run.ID,
		ScenarioID: run.ScenarioID,
		Seed:       run.Seed,
		CreatedAt:  run.CreatedAt,
	}
	if err := json.Unmarshal([]byte(run.Result), &resp.Result); err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// ExportRun отдаёт сохранённый документ результата как есть:
// GET /runs/{id}/export
func (h *ScenarioHandler) ExportRun(w http.ResponseWriter, r *http.Request) {
	id := extractRunID(r.URL.Path)
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "invalid run id", "")
		return
	}

	run, err := h.scenarioService.GetRun(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="run-`+run.ID+`.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(run.Result)); err != nil {
		h.logger.Error("failed to write export", slog.Any("error", err))
	}
}

// ListRuns возвращает запуски, опционально по сценарию:
// GET /runs?scenario_id=N
func (h *ScenarioHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	var scenarioID *int64
	if raw := r.URL.Query().Get("scenario_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid scenario_id", err.Error())
			return
		}
		scenarioID = &id
	}

	runs, err := h.scenarioService.ListRuns(r.Context(), scenarioID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]dto.RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, dto.RunResponse{
			ID:         run.ID,
			ScenarioID: run.ScenarioID,
			Seed:       run.Seed,
			CreatedAt:  run.CreatedAt,
		})
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func toScenarioResponse(scenario *domain.Scenario) (dto.ScenarioResponse, error) {
	resp := dto.ScenarioResponse{
		ID:        scenario.ID,
		Name:      scenario.Name,
		CreatedAt: scenario.CreatedAt,
	}
	if err := json.Unmarshal([]byte(scenario.Definition), &resp.Definition); err != nil {
		return resp, err
	}
	return resp, nil
}

func extractRunID(path string) string {
	path = strings.TrimPrefix(path, "/runs/")
	path = strings.TrimSuffix(path, "/export")
	return strings.Trim(path, "/")
}

func (h *ScenarioHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrScenarioNotFound):
		h.respondError(w, http.StatusNotFound, "scenario not found", "")
	case errors.Is(err, domain.ErrRunNotFound):
		h.respondError(w, http.StatusNotFound, "scenario run not found", "")
	case errors.Is(err, domain.ErrInvalidScenario):
		h.respondError(w, http.StatusBadRequest, "scenario definition is invalid", err.Error())
	case errors.Is(err, domain.ErrSimulationFailed):
		h.respondError(w, http.StatusUnprocessableEntity, "simulation aborted", err.Error())
	default:
		h.logger.Error("internal error", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

func (h *ScenarioHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *ScenarioHandler) respondError(w http.ResponseWriter, status int, errMsg, details string) {
	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: errMsg}
	if details != "" {
		resp.Message = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode error response", slog.Any("error", err))
	}
}
