package user_config

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/flexkonto/flexkonto/internal/rest"
	"github.com/flexkonto/flexkonto/pkg/worktime"
	log "github.com/sirupsen/logrus"
)

type ConfigDTO struct {
	WeeklyTargetHours  float64 `json:"weeklyTargetHours"`
	YearlyVacationDays float64 `json:"yearlyVacationDays"`
	// InitialOvertimeBalance is in minutes and may be negative.
	InitialOvertimeBalance int     `json:"initialOvertimeBalance"`
	VacationCarryover      float64 `json:"vacationCarryover"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetConfig godoc
// @Summary Get account settings
// @Description Returns the current user's settings, created with defaults on first access
// @Tags Config
// @Produce json
// @Success 200 {object} ConfigDTO
// @Failure 403 {string} string "User not found"
// @Router /api/config [get]
// @Security XUserId
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting user config")

	cfg, err := h.service.GetConfig(r.Context())
	if err != nil {
		log.Errorf("failed to get user config: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, configToDTO(cfg))
}

// UpdateConfig godoc
// @Summary Store account settings
// @Tags Config
// @Accept json
// @Produce json
// @Param config body ConfigDTO true "Settings"
// @Success 200 {object} ConfigDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 403 {string} string "User not found"
// @Router /api/config [post]
// @Security XUserId
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	log.Trace("Updating user config")

	var dto ConfigDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Missing body", err.Error())
		return
	}

	cfg, err := h.service.UpdateConfig(r.Context(), dtoToConfig(dto))
	if err != nil {
		if errors.Is(err, ErrInvalidConfig) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid config", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, configToDTO(cfg))
}

func configToDTO(cfg worktime.UserConfig) ConfigDTO {
	return ConfigDTO{
		WeeklyTargetHours:      cfg.WeeklyTargetHours,
		YearlyVacationDays:     cfg.YearlyVacationDays,
		InitialOvertimeBalance: int(cfg.InitialOvertimeBalance / time.Minute),
		VacationCarryover:      cfg.VacationCarryover,
	}
}

func dtoToConfig(dto ConfigDTO) worktime.UserConfig {
	return worktime.UserConfig{
		WeeklyTargetHours:      dto.WeeklyTargetHours,
		YearlyVacationDays:     dto.YearlyVacationDays,
		InitialOvertimeBalance: time.Duration(dto.InitialOvertimeBalance) * time.Minute,
		VacationCarryover:      dto.VacationCarryover,
	}
}
