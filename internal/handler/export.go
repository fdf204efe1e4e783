package handler

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"scheduled_date", "scheduled_time", "activity_name", "category",
	"duration", "participants", "price",
}

// ExportItinerary handles GET /itineraries/{id}/export.
// Use ?format=csv to receive CSV as a download; the default is JSON.
func (s *Server) ExportItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		writeError(w, http.StatusBadRequest, "format must be one of: csv, json")
		return
	}

	rows, err := s.export.Export(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "itinerary not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	if format == "csv" {
		s.writeCSV(w, r, id, rows)
		return
	}

	out := make([]exportRowResponse, len(rows))
	for i, row := range rows {
		out[i] = exportRowToResponse(row)
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows into a buffer first so an encoding failure can still
// become a clean 500 rather than a truncated download.
func (s *Server) writeCSV(w http.ResponseWriter, r *http.Request, id uuid.UUID, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(csvHeaders); err != nil {
		s.internalError(w, r, err)
		return
	}
	for _, row := range rows {
		if err := cw.Write(exportRowToCSVRecord(row)); err != nil {
			s.internalError(w, r, err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.internalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="itinerary-%s.csv"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// exportRowResponse is one JSON export row.
type exportRowResponse struct {
	ItineraryID   uuid.UUID          `json:"itineraryId"`
	ScheduledDate openapi_types.Date `json:"scheduledDate"`
	ScheduledTime string             `json:"scheduledTime"`
	ActivityID    uuid.UUID          `json:"activityId"`
	ActivityName  string             `json:"activityName"`
	Category      domain.Category    `json:"category"`
	Duration      float64            `json:"duration"`
	Participants  int                `json:"participants"`
	Price         float64            `json:"price"`
}

func exportRowToResponse(r domain.ExportRow) exportRowResponse {
	return exportRowResponse{
		ItineraryID:   r.ItineraryID,
		ScheduledDate: openapi_types.Date{Time: r.ScheduledDate.Time()},
		ScheduledTime: r.ScheduledTime,
		ActivityID:    r.ActivityID,
		ActivityName:  r.ActivityName,
		Category:      r.Category,
		Duration:      r.Duration,
		Participants:  r.Participants,
		Price:         r.Price,
	}
}

// exportRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Numbers use the shortest representation ("8", "2.5", "1400").
func exportRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.ScheduledDate.String(),
		r.ScheduledTime,
		r.ActivityName,
		string(r.Category),
		strconv.FormatFloat(r.Duration, 'f', -1, 64),
		strconv.Itoa(r.Participants),
		strconv.FormatFloat(r.Price, 'f', -1, 64),
	}
}
