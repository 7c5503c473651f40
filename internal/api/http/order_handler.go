package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/service"
)

type orderHandler struct {
	svc service.CheckoutService
}

type quoteLineBody struct {
	SKU         string               `json:"sku"`
	ProductType domain.ProductType   `json:"product_type"`
	UnitPrice   decimal.Decimal      `json:"unit_price"`
	Quantity    decimal.Decimal      `json:"quantity"`
	AssetID     int64                `json:"asset_id"`
	Hire        *intervalBody        `json:"hire"`
	Discount    *domain.DiscountSpec `json:"discount"`
}

type quoteBody struct {
	Lines         []quoteLineBody      `json:"lines"`
	OrderDiscount *domain.DiscountSpec `json:"order_discount"`
}

type quotedLineResponse struct {
	SKU        string `json:"sku,omitempty"`
	Quantity   string `json:"quantity"`
	Original   string `json:"original"`
	Discounted string `json:"discounted"`
}

type quoteResponse struct {
	Lines               []quotedLineResponse `json:"lines"`
	Subtotal            string               `json:"subtotal"`
	OrderDiscountAmount string               `json:"order_discount_amount"`
	Total               string               `json:"total"`
}

func (h *orderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var body quoteBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err))
		return
	}

	req := service.QuoteRequest{OrderDiscount: body.OrderDiscount}
	for i, line := range body.Lines {
		ql := service.QuoteLine{
			SKU:         line.SKU,
			ProductType: line.ProductType,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			AssetID:     line.AssetID,
			Discount:    line.Discount,
		}
		if line.Hire != nil {
			interval, err := line.Hire.interval()
			if err != nil {
				writeError(w, r, fmt.Errorf("line %d: %w", i+1, err))
				return
			}
			ql.Hire = &interval
		}
		req.Lines = append(req.Lines, ql)
	}

	quote, err := h.svc.Quote(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuoteResponse(quote))
}

// toQuoteResponse is the only place amounts are rounded.
func toQuoteResponse(q *service.Quote) quoteResponse {
	resp := quoteResponse{
		Lines:               make([]quotedLineResponse, 0, len(q.Lines)),
		Subtotal:            q.Totals.Subtotal.StringFixed(2),
		OrderDiscountAmount: q.Totals.OrderDiscountAmount.StringFixed(2),
		Total:               q.Totals.Total.StringFixed(2),
	}
	for _, l := range q.Lines {
		resp.Lines = append(resp.Lines, quotedLineResponse{
			SKU:        l.SKU,
			Quantity:   l.Quantity.String(),
			Original:   l.Amounts.Original.StringFixed(2),
			Discounted: l.Amounts.Discounted.StringFixed(2),
		})
	}
	return resp
}
