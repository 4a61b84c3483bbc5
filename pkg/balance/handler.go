package balance

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/flexkonto/flexkonto/internal/rest"
	"github.com/flexkonto/flexkonto/pkg/worktime"
	log "github.com/sirupsen/logrus"
)

// Durations in every DTO of this package are in minutes.

type WeekDTO struct {
	Week      string `json:"week"`
	Work      int    `json:"work"`
	Target    int    `json:"target"`
	FlexDelta int    `json:"flexDelta"`
	Overtime  int    `json:"overtime"`
}

type BalanceDTO struct {
	Today    string    `json:"today"`
	YearFlex int       `json:"yearFlex"`
	Overtime int       `json:"overtime"`
	Month    int       `json:"month"`
	Week     int       `json:"week"`
	Vacation float64   `json:"vacation"`
	Weeks    []WeekDTO `json:"weeks"`
}

type LedgerRowDTO struct {
	Date    string `json:"date"`
	Weekend bool   `json:"weekend"`
	Target  int    `json:"target"`
	Work    int    `json:"work"`
	Absence int    `json:"absence"`
	Delta   int    `json:"delta"`
	Running int    `json:"running"`
	Missing bool   `json:"missing"`
}

type CalculationRequestDTO struct {
	T1   string `json:"t1"`
	T2   string `json:"t2"`
	T3   string `json:"t3"`
	T4   string `json:"t4"`
	Date string `json:"date,omitempty"`
}

type CalculationDTO struct {
	RawDuration   int      `json:"rawDuration"`
	PauseDuration int      `json:"pauseDuration"`
	NetDuration   int      `json:"netDuration"`
	Net           string   `json:"net"`
	RulesApplied  []string `json:"rulesApplied"`
	DailyTarget   int      `json:"dailyTarget"`
	SuggestedEnd  string   `json:"suggestedEnd,omitempty"`
}

type Handler struct {
	service        Service
	ledgerRenderer LedgerRenderer
}

func NewHandler(service Service, ledgerRenderer LedgerRenderer) *Handler {
	return &Handler{service: service, ledgerRenderer: ledgerRenderer}
}

// GetBalance godoc
// @Summary Get the account balances
// @Description Flex account, overtime, month and week sums and vacation days left, as of today
// @Tags Balance
// @Produce json
// @Success 200 {object} BalanceDTO
// @Router /api/balance [get]
// @Security XUserId
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting balances")

	balances, err := h.service.GetBalances(r.Context())
	if err != nil {
		log.Errorf("failed to get balances: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, balancesToDTO(balances))
}

// GetLedger godoc
// @Summary Get the day-by-day account
// @Tags Balance
// @Produce json,text/csv
// @Description Either from and to, or an ISO week optionally extended up to untilWeek
// @Param from query string false "First day, YYYY-MM-DD"
// @Param to query string false "Last day, YYYY-MM-DD"
// @Param week query string false "ISO week, e.g. 2025-W03"
// @Param untilWeek query string false "Last ISO week, defaults to week"
// @Success 200 {array} LedgerRowDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid range"
// @Router /api/balance/ledger [get]
// @Security XUserId
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var from, to time.Time
	if weekParam := query.Get("week"); weekParam != "" {
		week, err := worktime.WeekNumberFromString(weekParam)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid week format", err.Error())
			return
		}
		lastWeek := week
		if untilParam := query.Get("untilWeek"); untilParam != "" {
			lastWeek, err = worktime.WeekNumberFromString(untilParam)
			if err != nil {
				rest.WriteError(w, http.StatusBadRequest, "Invalid untilWeek format", err.Error())
				return
			}
			if lastWeek.Before(week) {
				rest.WriteError(w, http.StatusBadRequest, "Invalid range", fmt.Sprintf("%s is before %s", lastWeek, week))
				return
			}
		}
		from, to = week.Monday(), lastWeek.Sunday()
	} else {
		var ok bool
		from, ok = worktime.ParseDate(query.Get("from"))
		if !ok {
			rest.WriteError(w, http.StatusBadRequest, "Invalid from format", "from must be YYYY-MM-DD")
			return
		}
		to, ok = worktime.ParseDate(query.Get("to"))
		if !ok {
			rest.WriteError(w, http.StatusBadRequest, "Invalid to format", "to must be YYYY-MM-DD")
			return
		}
	}

	rows, err := h.service.GetLedger(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid range", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := h.ledgerRenderer.RenderLedger(rows)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write ledger: %v", err)
		}
		return
	}
	rest.WriteJSON(w, http.StatusOK, ledgerToDTO(rows))
}

// Calculate godoc
// @Summary Evaluate punches with the break rules
// @Description Without a date the 09:30 rule is not applied
// @Tags Balance
// @Accept json
// @Produce json
// @Param punches body CalculationRequestDTO true "Punches"
// @Success 200 {object} CalculationDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/calculator [post]
// @Security XUserId
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var dto CalculationRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	request := CalculationRequest{T1: dto.T1, T2: dto.T2, T3: dto.T3, T4: dto.T4}
	if dto.Date != "" {
		date, ok := worktime.ParseDate(dto.Date)
		if !ok {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "date must be YYYY-MM-DD")
			return
		}
		request.Date = date
	}

	calculation, err := h.service.Calculate(r.Context(), request)
	if err != nil {
		if errors.Is(err, ErrInvalidPunch) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid punch", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, calculationToDTO(calculation))
}

func minutes(d time.Duration) int {
	return int(d.Round(time.Minute) / time.Minute)
}

func balancesToDTO(b worktime.Balances) BalanceDTO {
	weeks := make([]WeekDTO, 0, len(b.Weeks))
	for _, week := range b.Weeks {
		weeks = append(weeks, WeekDTO{
			Week:      week.Week.String(),
			Work:      minutes(week.Work),
			Target:    minutes(week.Target),
			FlexDelta: minutes(week.FlexDelta),
			Overtime:  minutes(week.Overtime),
		})
	}
	return BalanceDTO{
		Today:    b.Today.Format(worktime.DateLayout),
		YearFlex: minutes(b.YearFlex),
		Overtime: minutes(b.Overtime),
		Month:    minutes(b.Month),
		Week:     minutes(b.Week),
		Vacation: b.Vacation.InexactFloat64(),
		Weeks:    weeks,
	}
}

func ledgerToDTO(rows []worktime.LedgerRow) []LedgerRowDTO {
	dtos := make([]LedgerRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, LedgerRowDTO{
			Date:    row.Date.Format(worktime.DateLayout),
			Weekend: row.Weekend,
			Target:  minutes(row.Target),
			Work:    minutes(row.WorkNet),
			Absence: minutes(row.AbsenceCredit),
			Delta:   minutes(row.Delta),
			Running: minutes(row.Running),
			Missing: row.Missing(),
		})
	}
	return dtos
}

func calculationToDTO(c Calculation) CalculationDTO {
	rules := c.RulesApplied
	if rules == nil {
		rules = []string{}
	}
	return CalculationDTO{
		RawDuration:   minutes(c.RawDuration),
		PauseDuration: minutes(c.PauseDuration),
		NetDuration:   minutes(c.NetDuration),
		Net:           worktime.FormatDuration(c.NetDuration),
		RulesApplied:  rules,
		DailyTarget:   minutes(c.DailyTarget),
		SuggestedEnd:  c.SuggestedEnd,
	}
}
