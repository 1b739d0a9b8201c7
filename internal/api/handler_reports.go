package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"minecontrol-backend/internal/parse"
	"minecontrol-backend/internal/report"
	"minecontrol-backend/internal/store"
)

func dateRange(c *gin.Context) (store.DateRange, bool) {
	from, to, err := parse.Range(c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return store.DateRange{}, false
	}
	return store.DateRange{From: from, To: to}, true
}

func sendPDF(c *gin.Context, filename string, out []byte, err error) {
	if errors.Is(err, report.ErrEmpty) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no records to report"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", out)
}

// AttendanceReport handles GET /api/reports/attendance.
func (h *Handler) AttendanceReport(c *gin.Context) {
	rng, ok := dateRange(c)
	if !ok {
		return
	}
	rows, err := h.store.AttendanceReport(c.Request.Context(), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.reports.Attendance(rows, rng)
	sendPDF(c, "attendance_report.pdf", out, err)
}

// WorkerReport handles GET /api/reports/workers.
func (h *Handler) WorkerReport(c *gin.Context) {
	workers, err := h.store.WorkerReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.reports.Workers(workers)
	sendPDF(c, "workers_report.pdf", out, err)
}

// MachineReport handles GET /api/reports/machinery.
func (h *Handler) MachineReport(c *gin.Context) {
	machines, err := h.store.MachineReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.reports.Machines(machines)
	sendPDF(c, "machinery_report.pdf", out, err)
}

// UsageReport handles GET /api/reports/machinery-usage.
func (h *Handler) UsageReport(c *gin.Context) {
	rng, ok := dateRange(c)
	if !ok {
		return
	}
	rows, err := h.store.UsageReport(c.Request.Context(), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.reports.Usage(rows, rng)
	sendPDF(c, "machinery_usage_report.pdf", out, err)
}

// StatisticsReport handles GET /api/reports/statistics.
func (h *Handler) StatisticsReport(c *gin.Context) {
	rng, ok := dateRange(c)
	if !ok {
		return
	}
	stats, err := h.store.Statistics(c.Request.Context(), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.reports.Statistics(stats, rng)
	sendPDF(c, "statistics_report.pdf", out, err)
}
