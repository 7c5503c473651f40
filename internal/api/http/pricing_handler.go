package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/pricing"
	"hireshop-backend/internal/service"
	"hireshop-backend/internal/tabular"
)

type pricingHandler struct {
	svc            service.PricingService
	maxUploadBytes int64
}

// Import accepts a CSV or XLSX body, picked by Content-Type or ?format=.
// A rejected file is answered with 400 and the import report.
func (h *pricingHandler) Import(w http.ResponseWriter, r *http.Request) {
	schema, err := pricing.SchemaByName(mux.Vars(r)["schema"])
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	format := tabular.FormatForContentType(r.Header.Get("Content-Type"))
	if q := r.URL.Query().Get("format"); q != "" {
		if format, err = tabular.ParseFormat(q); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}

	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadBytes))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: reading upload: %v", errBadRequest, err))
		return
	}

	report, err := h.svc.Import(r.Context(), service.ImportRequest{
		Content:  content,
		Format:   format,
		Schema:   schema,
		FileName: r.URL.Query().Get("file_name"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if report.FileRejected {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, report)
}

func (h *pricingHandler) Export(w http.ResponseWriter, r *http.Request) {
	schema, err := pricing.SchemaByName(mux.Vars(r)["schema"])
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	format, err := tabular.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	file, err := h.svc.Export(r.Context(), schema, format)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		logger.Error("Failed to write export", "file", file.FileName, "error", err)
	}
}
