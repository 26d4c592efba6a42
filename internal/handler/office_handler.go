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

type OfficeHandler struct {
	officeService service.OfficeService
	validator     *validator.Validate
	logger        *slog.Logger
}

func NewOfficeHandler(officeService service.OfficeService, logger *slog.Logger) *OfficeHandler {
	return &OfficeHandler{
		officeService: officeService,
		validator:     validator.New(),
		logger:        logger,
	}
}

func (h *OfficeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOfficeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	office, err := h.officeService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toOfficeResponse(office))
}

func (h *OfficeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r.URL.Path, "/offices/")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid office id", err.Error())
		return
	}

	office, err := h.officeService.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toOfficeResponse(office))
}

func (h *OfficeHandler) List(w http.ResponseWriter, r *http.Request) {
	offices, err := h.officeService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]dto.OfficeResponse, len(offices))
	for i := range offices {
		resp[i] = toOfficeResponse(&offices[i])
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *OfficeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r.URL.Path, "/offices/")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid office id", err.Error())
		return
	}

	var req dto.UpdateOfficeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	office, err := h.officeService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toOfficeResponse(office))
}

func (h *OfficeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r.URL.Path, "/offices/")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid office id", err.Error())
		return
	}

	if err := h.officeService.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toOfficeResponse(office *domain.Office) dto.OfficeResponse {
	resp := dto.OfficeResponse{
		ID:        office.ID,
		Code:      office.Code,
		Name:      office.Name,
		Journey:   office.Journey,
		CreatedAt: office.CreatedAt,
	}

	for _, lc := range office.Levels {
		level := dto.LevelConfigResponse{
			Role:           lc.Role,
			Level:          lc.Level,
			RoleKind:       lc.RoleKind,
			StartingFTE:    lc.StartingFTE,
			Price:          lc.Price,
			Salary:         lc.Salary,
			UTR:            lc.UTR,
			FeePerHead:     lc.FeePerHead,
			CommissionRate: lc.CommissionRate,
			NextLevel:      lc.NextLevel,
			EligibleMonths: parseMonthsCSV(lc.EligibleMonths),
		}
		for _, cp := range lc.Curve {
			level.Curve = append(level.Curve, dto.CurvePointResponse{
				TenureBucket: cp.TenureBucket,
				Probability:  cp.Probability,
			})
		}
		resp.Levels = append(resp.Levels, level)
	}

	return resp
}

func parseMonthsCSV(s string) []int {
	if s == "" {
		return nil
	}
	var months []int
	for _, part := range strings.Split(s, ",") {
		if m, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			months = append(months, m)
		}
	}
	return months
}

func (h *OfficeHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOfficeNotFound):
		h.respondError(w, http.StatusNotFound, "office not found", "")
	case errors.Is(err, domain.ErrDuplicateOfficeCode):
		h.respondError(w, http.StatusConflict, "office with this code already exists", "")
	case errors.Is(err, domain.ErrDuplicateLevel):
		h.respondError(w, http.StatusBadRequest, "duplicate role/level in office configuration", "")
	case errors.Is(err, domain.ErrUnknownRoleKind):
		h.respondError(w, http.StatusBadRequest, "unknown role kind", "")
	default:
		h.logger.Error("internal error", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

func (h *OfficeHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *OfficeHandler) respondError(w http.ResponseWriter, status int, errMsg, details string) {
	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: errMsg}
	if details != "" {
		resp.Message = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode error response", slog.Any("error", err))
	}
}

// extractID извлекает числовой идентификатор из пути запроса
func extractID(path, prefix string) (int64, error) {
	path = strings.TrimPrefix(path, prefix)
	path = strings.Trim(path, "/")

	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		return 0, errors.New("id is required")
	}

	return strconv.ParseInt(parts[0], 10, 64)
}
