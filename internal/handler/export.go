package handler

// export.go implements GET /trips/{tripId}/export: the trip's itinerary as
// a flat table, one row per snapshot item, as JSON or ?format=csv.

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/travel-planner/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "trip_start_date", "trip_end_date",
	"item_kind", "item_id", "item_name", "item_description", "item_cost",
}

// ItineraryRow is one snapshot item of a trip, flattened with its trip.
type ItineraryRow struct {
	TripID          uuid.UUID          `json:"tripId"`
	TripName        string             `json:"tripName"`
	TripStartDate   openapi_types.Date `json:"tripStartDate"`
	TripEndDate     openapi_types.Date `json:"tripEndDate"`
	ItemKind        string             `json:"itemKind"`
	ItemID          uuid.UUID          `json:"itemId"`
	ItemName        string             `json:"itemName"`
	ItemDescription string             `json:"itemDescription"`
	ItemCost        *float64           `json:"itemCost"`
}

// Itinerary is the JSON export body. TotalCost sums the known item costs.
type Itinerary struct {
	Rows      []ItineraryRow `json:"rows"`
	Budget    float64        `json:"budget"`
	TotalCost float64        `json:"totalCost"`
}

// ExportTrip handles GET /trips/{tripId}/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tripId")
	if err != nil {
		respondError(w, r, s.log, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		respondError(w, r, s.log, domain.Invalid("format must be json or csv"))
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, s.log, err)
		return
	}

	rows := itineraryRows(trip)
	if format == "csv" {
		writeCSV(w, "trip-"+trip.ID.String()+".csv", rows)
		return
	}
	var total float64
	for _, row := range rows {
		if row.ItemCost != nil {
			total += *row.ItemCost
		}
	}
	writeJSON(w, http.StatusOK, Itinerary{Rows: rows, Budget: trip.Budget, TotalCost: total})
}

// itineraryRows flattens the snapshot sequences in trip order:
// attractions, then restaurants, then activities.
func itineraryRows(t domain.Trip) []ItineraryRow {
	base := ItineraryRow{
		TripID:        t.ID,
		TripName:      t.Name,
		TripStartDate: openapi_types.Date{Time: t.StartDate},
		TripEndDate:   openapi_types.Date{Time: t.EndDate},
	}
	rows := make([]ItineraryRow, 0, len(t.AttractionsSnapshot)+len(t.RestaurantsSnapshot)+len(t.ActivitiesSnapshot))
	add := func(kind domain.Kind, id uuid.UUID, name, desc string, cost *float64) {
		row := base
		row.ItemKind, row.ItemID, row.ItemName, row.ItemDescription, row.ItemCost = kind.String(), id, name, desc, cost
		rows = append(rows, row)
	}
	for _, a := range t.AttractionsSnapshot {
		add(domain.KindAttraction, a.ID, a.Name, a.Description, a.EntryFee)
	}
	for _, rs := range t.RestaurantsSnapshot {
		add(domain.KindRestaurant, rs.ID, rs.Name, rs.Description, rs.AverageCost)
	}
	for _, a := range t.ActivitiesSnapshot {
		add(domain.KindActivity, a.ID, a.Name, a.Description, a.Price)
	}
	return rows
}

// writeCSV encodes rows as CSV with a header row, served as a download named
// filename. Missing costs are empty cells.
func writeCSV(w http.ResponseWriter, filename string, rows []ItineraryRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(rowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(buf.Bytes())
}

// rowToCSVRecord encodes an ItineraryRow as a flat string slice.
func rowToCSVRecord(r ItineraryRow) []string {
	cost := ""
	if r.ItemCost != nil {
		cost = strconv.FormatFloat(*r.ItemCost, 'f', -1, 64)
	}
	return []string{
		r.TripID.String(),
		r.TripName,
		r.TripStartDate.Format(domain.DateLayout),
		r.TripEndDate.Format(domain.DateLayout),
		r.ItemKind,
		r.ItemID.String(),
		r.ItemName,
		r.ItemDescription,
		cost,
	}
}
