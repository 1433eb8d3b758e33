package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/QingyuanL1/financial-backend-sub000/internal/store"
	"github.com/QingyuanL1/financial-backend-sub000/pkg/period"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type saveReportRequest struct {
	Period string          `json:"period"`
	Data   json.RawMessage `json:"data"`
}

func (h *handler) lookupTable(w http.ResponseWriter, r *http.Request, op string) (reportTable, bool) {
	name := chi.URLParam(r, "table")
	table, ok := h.tables[name]
	if !ok {
		h.respondErrorWithOp(w, http.StatusNotFound, "unknown report table: "+name, nil, op)
		return reportTable{}, false
	}
	return table, true
}

func (h *handler) handleListReports(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: sortedTables(h.tables)})
}

func (h *handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListPeriods"
	table, ok := h.lookupTable(w, r, op)
	if !ok {
		return
	}

	periods, err := h.repo.ListReportPeriods(r.Context(), table.Name)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to list periods", err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: periods})
}

func (h *handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetReport"
	table, ok := h.lookupTable(w, r, op)
	if !ok {
		return
	}
	p := chi.URLParam(r, "period")
	if err := period.ValidateMonth(p); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "invalid period", err, op)
		return
	}

	raw, err := h.repo.GetReport(r.Context(), table.Name, p)
	if errors.Is(err, store.ErrNotFound) {
		h.respondErrorWithOp(w, http.StatusNotFound, "no data found for period "+p, nil, op)
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to load report", err, op)
		return
	}

	data, err := decodePayload(raw)
	if err != nil {
		h.logger.Warn("stored payload is not valid JSON, returning it unannotated",
			zap.String("op", op),
			zap.String("table", table.Name),
			zap.String("period", p),
			zap.Error(err),
		)
		h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: raw, Period: p})
		return
	}

	h.writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    table.annotate(r.Context(), h.annotator, p, data),
		Period:  p,
	})
}

func (h *handler) handleSaveReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSaveReport"
	table, ok := h.lookupTable(w, r, op)
	if !ok {
		return
	}

	var req saveReportRequest
	if status, err := h.decodeBody(w, r, &req); err != nil {
		h.respondErrorWithOp(w, status, "invalid request body", err, op)
		return
	}
	if err := period.ValidateMonth(req.Period); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "invalid period", err, op)
		return
	}
	trimmed := bytes.TrimSpace(req.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		h.respondErrorWithOp(w, http.StatusBadRequest, "data is required", nil, op)
		return
	}

	if err := h.repo.SaveReport(r.Context(), table.Name, req.Period, string(trimmed)); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to save report", err, op)
		return
	}

	h.logger.Info("report saved",
		zap.String("op", op),
		zap.String("table", table.Name),
		zap.String("period", req.Period),
		zap.Int("bytes", len(trimmed)),
	)
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Period: req.Period, Message: "data saved"})
}

func (h *handler) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteReport"
	table, ok := h.lookupTable(w, r, op)
	if !ok {
		return
	}
	p := chi.URLParam(r, "period")
	if err := period.ValidateMonth(p); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "invalid period", err, op)
		return
	}

	err := h.repo.DeleteReport(r.Context(), table.Name, p)
	if errors.Is(err, store.ErrNotFound) {
		h.respondErrorWithOp(w, http.StatusNotFound, "no data found for period "+p, nil, op)
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to delete report", err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Period: p, Message: "data deleted"})
}

// decodePayload decodes a stored JSON payload, keeping numbers as json.Number.
func decodePayload(raw string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}
