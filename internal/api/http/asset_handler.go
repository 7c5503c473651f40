package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"hireshop-backend/internal/availability"
	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/service"
	"hireshop-backend/internal/utils"
)

type assetHandler struct {
	svc service.BookingService
}

type intervalBody struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (b intervalBody) interval() (domain.BookingInterval, error) {
	start, err := utils.ParseDate(b.Start)
	if err != nil {
		return domain.BookingInterval{}, fmt.Errorf("%w: start: %v", errBadRequest, err)
	}
	end, err := utils.ParseDate(b.End)
	if err != nil {
		return domain.BookingInterval{}, fmt.Errorf("%w: end: %v", errBadRequest, err)
	}
	return domain.BookingInterval{Start: start, End: end}, nil
}

type bookingBody struct {
	intervalBody
	OrderRef string `json:"order_ref"`
}

type calendarResponse struct {
	AssetID      int64    `json:"asset_id"`
	From         string   `json:"from"`
	To           string   `json:"to"`
	BlockedDates []string `json:"blocked_dates"`
}

type availabilityResponse struct {
	Bookable bool   `json:"bookable"`
	Reason   string `json:"reason,omitempty"`
}

type bookingResponse struct {
	Reference string `json:"reference"`
	AssetID   int64  `json:"asset_id"`
	OrderRef  string `json:"order_ref,omitempty"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

func assetID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid asset id", errBadRequest)
	}
	return id, nil
}

func (h *assetHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	id, err := assetID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := h.svc.Calendar(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := calendarResponse{
		AssetID:      id,
		From:         utils.FormatDate(view.From),
		To:           utils.FormatDate(view.To),
		BlockedDates: []string{},
	}
	for _, d := range view.Calendar.BlockedDates() {
		resp.BlockedDates = append(resp.BlockedDates, utils.FormatDate(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Availability answers 200 whether or not the range is bookable; only lookup
// failures are errors.
func (h *assetHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := assetID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body intervalBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err))
		return
	}
	interval, err := body.interval()
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.svc.CheckAvailability(r.Context(), id, interval)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, availabilityResponse{Bookable: true})
	case errors.Is(err, availability.ErrDateUnavailable),
		errors.Is(err, availability.ErrStartTooSoon),
		errors.Is(err, availability.ErrInvertedRange),
		errors.Is(err, availability.ErrBeyondWindow):
		writeJSON(w, http.StatusOK, availabilityResponse{Reason: err.Error()})
	default:
		writeError(w, r, err)
	}
}

func (h *assetHandler) Book(w http.ResponseWriter, r *http.Request) {
	id, err := assetID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body bookingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err))
		return
	}
	interval, err := body.interval()
	if err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.svc.Book(r.Context(), id, interval, body.OrderRef)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookingResponse{
		Reference: booking.Reference,
		AssetID:   booking.AssetID,
		OrderRef:  booking.OrderRef,
		Start:     utils.FormatDate(booking.Interval.Start),
		End:       utils.FormatDate(booking.Interval.End),
	})
}
