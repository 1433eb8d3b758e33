package server

import (
	"fmt"
	"net/http"

	"github.com/QingyuanL1/financial-backend-sub000/internal/budget"
	"github.com/QingyuanL1/financial-backend-sub000/pkg/period"
	"github.com/QingyuanL1/financial-backend-sub000/pkg/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type replaceBudgetRequest struct {
	Entries []budget.Entry `json:"entries"`
}

type budgetTableResponse struct {
	TableKey  string         `json:"tableKey"`
	Entries   []budget.Entry `json:"entries"`
	BudgetMap budget.Map     `json:"budgetMap"`
}

func (h *handler) yearParam(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	year := chi.URLParam(r, "year")
	if err := period.ValidateYear(year); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "invalid year", err, op)
		return "", false
	}
	return year, true
}

func (h *handler) handleGetBudgetYear(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetBudgetYear"
	year, ok := h.yearParam(w, r, op)
	if !ok {
		return
	}

	entries, err := h.repo.ListBudgetYear(r.Context(), year)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to load budget plan", err, op)
		return
	}

	grouped := make(map[string][]budget.Entry)
	for _, e := range entries {
		grouped[e.TableKey] = append(grouped[e.TableKey], e)
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: grouped, Period: year})
}

func (h *handler) handleGetBudgetTable(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetBudgetTable"
	year, ok := h.yearParam(w, r, op)
	if !ok {
		return
	}
	tableKey := chi.URLParam(r, "tableKey")

	entries, err := h.repo.BudgetEntries(r.Context(), tableKey, year)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to load budget plan", err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Period:  year,
		Data: budgetTableResponse{
			TableKey:  tableKey,
			Entries:   entries,
			BudgetMap: budget.BuildMap(tableKey, entries),
		},
	})
}

func (h *handler) handleReplaceBudgetYear(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReplaceBudgetYear"
	year, ok := h.yearParam(w, r, op)
	if !ok {
		return
	}

	var req replaceBudgetRequest
	if status, err := h.decodeBody(w, r, &req); err != nil {
		h.respondErrorWithOp(w, status, "invalid request body", err, op)
		return
	}
	if err := validation.ValidateEntries(req.Entries); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "invalid budget entries", err, op)
		return
	}
	for i := range req.Entries {
		req.Entries[i].Period = year
	}

	if err := h.repo.ReplaceBudgetYear(r.Context(), year, req.Entries); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to save budget plan", err, op)
		return
	}

	h.logger.Info("budget plan saved",
		zap.String("op", op),
		zap.String("year", year),
		zap.Int("entries", len(req.Entries)),
	)
	h.writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Period:  year,
		Message: fmt.Sprintf("saved %d budget entries", len(req.Entries)),
	})
}

func (h *handler) handleDeleteBudgetYear(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteBudgetYear"
	year, ok := h.yearParam(w, r, op)
	if !ok {
		return
	}
	if err := h.repo.DeleteBudgetYear(r.Context(), year); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to delete budget plan", err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Period: year, Message: "budget plan deleted"})
}
