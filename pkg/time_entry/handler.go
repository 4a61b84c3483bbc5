package time_entry

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/flexkonto/flexkonto/internal/rest"
	"github.com/flexkonto/flexkonto/pkg/worktime"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type EntryDTO struct {
	Id        int     `json:"id"`
	Date      string  `json:"date"`
	Type      string  `json:"type"`
	Value     float64 `json:"value"`
	StartTime string  `json:"startTime,omitempty"`
	EndTime   string  `json:"endTime,omitempty"`
	// PauseDuration is in minutes.
	PauseDuration int    `json:"pauseDuration"`
	Notes         string `json:"notes,omitempty"`
}

type DeduplicateResultDTO struct {
	DuplicatesRemoved int `json:"duplicatesRemoved"`
}

type DeleteResultDTO struct {
	Deleted int `json:"deleted"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetEntries godoc
// @Summary List time entries
// @Description Returns all entries of the current user, newest date first
// @Tags Entries
// @Produce json
// @Success 200 {array} EntryDTO
// @Failure 403 {string} string "User not found"
// @Router /api/entries [get]
// @Security XUserId
func (h *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	log.Trace("Listing time entries")

	entries, err := h.service.ListEntries(r.Context())
	if err != nil {
		log.Errorf("failed to list entries: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, entriesToDTO(entries))
}

// CreateEntries godoc
// @Summary Create time entries
// @Description Accepts one entry or an array of entries and answers in the same shape
// @Tags Entries
// @Accept json
// @Produce json
// @Param entry body EntryDTO true "Entry or array of entries"
// @Success 201 {object} EntryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/entries [post]
// @Security XUserId
func (h *Handler) CreateEntries(w http.ResponseWriter, r *http.Request) {
	log.Trace("Creating time entries")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	trimmed := bytes.TrimSpace(body)
	isArray := len(trimmed) > 0 && trimmed[0] == '['

	var dtos []EntryDTO
	if isArray {
		err = json.Unmarshal(trimmed, &dtos)
	} else {
		var dto EntryDTO
		err = json.Unmarshal(trimmed, &dto)
		dtos = []EntryDTO{dto}
	}
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if len(dtos) == 0 {
		rest.WriteError(w, http.StatusBadRequest, "No entries given", "")
		return
	}

	entries := make([]worktime.TimeEntry, 0, len(dtos))
	for _, dto := range dtos {
		entries = append(entries, dtoToEntry(dto))
	}

	created, err := h.service.CreateEntries(r.Context(), entries)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if isArray {
		rest.WriteJSON(w, http.StatusCreated, entriesToDTO(created))
		return
	}
	rest.WriteJSON(w, http.StatusCreated, entryToDTO(created[0]))
}

// UpdateEntry godoc
// @Summary Replace a time entry
// @Tags Entries
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Param entry body EntryDTO true "Entry"
// @Success 200 {object} EntryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 404 {string} string "Entry not found"
// @Router /api/entries/{id} [put]
// @Security XUserId
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryId(w, r)
	if !ok {
		return
	}
	log.Tracef("Updating entry %d", id)

	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	updated, err := h.service.UpdateEntry(r.Context(), id, dtoToEntry(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, entryToDTO(updated))
}

// DeleteEntry godoc
// @Summary Delete a time entry
// @Tags Entries
// @Param id path int true "Entry ID"
// @Success 204
// @Failure 404 {string} string "Entry not found"
// @Router /api/entries/{id} [delete]
// @Security XUserId
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryId(w, r)
	if !ok {
		return
	}
	log.Tracef("Deleting entry %d", id)

	if err := h.service.DeleteEntry(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllEntries godoc
// @Summary Delete every time entry of the current user
// @Tags Entries
// @Param all query bool true "Must be true"
// @Success 200 {object} DeleteResultDTO
// @Failure 400 {object} rest.ErrorResponse "Missing confirmation"
// @Router /api/entries [delete]
// @Security XUserId
func (h *Handler) DeleteAllEntries(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("all") != "true" {
		rest.WriteError(w, http.StatusBadRequest, "Refusing to delete all entries", "pass all=true to confirm")
		return
	}

	count, err := h.service.DeleteAllEntries(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, DeleteResultDTO{Deleted: count})
}

// Deduplicate godoc
// @Summary Remove duplicate entries
// @Description Keeps the oldest entry of every group with equal date, type, times and notes
// @Tags Entries
// @Produce json
// @Success 200 {object} DeduplicateResultDTO
// @Router /api/entries/deduplicate [post]
// @Security XUserId
func (h *Handler) Deduplicate(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.Deduplicate(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, DeduplicateResultDTO{DuplicatesRemoved: removed})
}

// Import godoc
// @Summary Import a time-clock export
// @Description Appends the days of a CSV export. Rows carry day and month only, the year is a parameter.
// @Tags Entries
// @Accept text/csv
// @Produce json
// @Param year query int false "Year of the export, defaults to the current year"
// @Success 201 {array} EntryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid export"
// @Router /api/entries/import [post]
// @Security XUserId
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if yearString := r.URL.Query().Get("year"); yearString != "" {
		var err error
		if year, err = strconv.Atoi(yearString); err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid year", err.Error())
			return
		}
	}
	log.Debugf("Importing export for %d", year)

	created, err := h.service.Import(r.Context(), year, r.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, entriesToDTO(created))
}

func entryId(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid entry id", err.Error())
		return 0, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidEntry):
		rest.WriteError(w, http.StatusBadRequest, "Invalid entry", err.Error())
	case errors.Is(err, ErrEmptyPayload):
		rest.WriteError(w, http.StatusBadRequest, "No entries given", "")
	case errors.Is(err, ErrEntryNotFound):
		http.Error(w, "entry not found", http.StatusNotFound)
	default:
		log.Errorf("time entry request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func entriesToDTO(entries []Entry) []EntryDTO {
	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, entryToDTO(e))
	}
	return dtos
}

func entryToDTO(e Entry) EntryDTO {
	return EntryDTO{
		Id:            e.Id,
		Date:          e.Date,
		Type:          string(e.Type),
		Value:         e.Value,
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		PauseDuration: int(e.PauseDuration / time.Minute),
		Notes:         e.Notes,
	}
}

func dtoToEntry(dto EntryDTO) worktime.TimeEntry {
	return worktime.TimeEntry{
		Date:          dto.Date,
		Type:          worktime.EntryType(dto.Type),
		Value:         dto.Value,
		StartTime:     dto.StartTime,
		EndTime:       dto.EndTime,
		PauseDuration: time.Duration(dto.PauseDuration) * time.Minute,
		Notes:         dto.Notes,
	}
}
