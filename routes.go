package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/quochoa304/codex-AI/aggregate"
	"github.com/quochoa304/codex-AI/model"
	"github.com/quochoa304/codex-AI/reconcile"
	"github.com/quochoa304/codex-AI/report"
	"github.com/quochoa304/codex-AI/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// exportStatus ánh xạ lỗi xuất sang mã HTTP: chọn sai / chưa chọn là lỗi
// request, domain đang tải là xung đột trạng thái.
func exportStatus(err error) int {
	var busy *report.DomainBusyError
	switch {
	case errors.As(err, &busy):
		return http.StatusConflict
	case errors.Is(err, report.ErrNothingSelected),
		errors.Is(err, report.ErrUnknownReport),
		errors.Is(err, session.ErrNoStoreSelected):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func SetupRoutes(mux *http.ServeMux, sess *session.Session, exporter *report.Exporter, logger *zap.Logger) {
	logger = logger.Named("http")

	mux.HandleFunc("/api/stores", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, sess.Stores())
	})

	mux.HandleFunc("/api/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var f model.Filter
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("đọc bộ lọc: %w", err))
			return
		}
		sess.SetFilter(f)
		if err := sess.Refresh(r.Context()); err != nil {
			if errors.Is(err, session.ErrNoStoreSelected) {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			logger.Error("refresh thất bại", zap.Error(err))
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"loading":         sess.LoadingFlags(),
			"anyLoading":      sess.AnyLoading(),
			"inventoryLoaded": sess.InventoryLoaded(),
		})
	})

	mux.HandleFunc("/api/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snap := sess.Snapshot()
		revByStore := reconcile.RevenueByStore(snap.Summary.THDoanhSo, snap.CakeSales, snap.Wholesale, snap.Stores)
		stats := aggregate.BuildSummaryStats(snap.Summary, snap.CakeSales, snap.Wholesale, snap.Shifts, snap.Inventory, revByStore)
		writeJSON(w, http.StatusOK, stats)
	})

	mux.HandleFunc("/api/export", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Reports []report.ReportType `json:"reports"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("đọc danh sách báo cáo: %w", err))
			return
		}
		result, err := exporter.ExportSelected(r.Context(), req.Reports)
		if err != nil {
			status := exportStatus(err)
			if status == http.StatusInternalServerError {
				logger.Error("xuất báo cáo thất bại", zap.Error(err))
			}
			writeError(w, status, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	mux.HandleFunc("/api/export/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		key := strings.TrimPrefix(r.URL.Path, "/api/export/")
		rt, err := report.ParseReportType(key)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		name, data, err := exporter.RenderOne(r.Context(), rt)
		if err != nil {
			status := exportStatus(err)
			if status == http.StatusInternalServerError {
				logger.Error("xuất báo cáo thất bại", zap.String("report", key), zap.Error(err))
			}
			writeError(w, status, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
		if _, err := w.Write(data); err != nil {
			logger.Warn("ghi response xuất báo cáo lỗi", zap.Error(err))
		}
	})
}
