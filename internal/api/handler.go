package api

import (
	"minecontrol-backend/config"
	"minecontrol-backend/internal/auth"
	"minecontrol-backend/internal/model"
	"minecontrol-backend/internal/report"
	"minecontrol-backend/internal/store"
	"minecontrol-backend/internal/tracker"
)

// AuditRecorder accepts audit entries without blocking the request.
type AuditRecorder interface {
	Dispatch(entry model.AuditEntry)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	attendance *tracker.AttendanceTracker
	usage      *tracker.UsageTracker
	audit      AuditRecorder
	issuer     *auth.Issuer
	reports    *report.Renderer
	uploads    config.UploadsConfig
}

// NewHandler creates a new API handler. The trackers share the store and the
// configured business timezone.
func NewHandler(s store.Store, cfg *config.Config, recorder AuditRecorder) *Handler {
	clock := tracker.Clock{Location: cfg.Attendance.Location}
	return &Handler{
		store:      s,
		attendance: tracker.NewAttendanceTracker(s, clock, cfg.Attendance.ReentryAllowed()),
		usage:      tracker.NewUsageTracker(s, clock),
		audit:      recorder,
		issuer:     auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		reports:    &report.Renderer{Company: cfg.Reports.Company, Location: cfg.Attendance.Location},
		uploads:    cfg.Uploads,
	}
}

// Issuer exposes the token issuer so the router can authenticate requests.
func (h *Handler) Issuer() *auth.Issuer {
	return h.issuer
}
