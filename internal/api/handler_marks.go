package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"minecontrol-backend/internal/tracker"
)

type markAttendanceRequest struct {
	WorkerID      int64  `json:"worker_id"`
	Type          string `json:"type"`
	MarkingMethod string `json:"marking_method"`
}

// MarkAttendance handles POST /api/attendance/mark. The tracker decides whether the
// mark opens or closes the worker's session for today.
func (h *Handler) MarkAttendance(c *gin.Context) {
	var req markAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, transition, err := h.attendance.Mark(c.Request.Context(), tracker.AttendanceMark{
		WorkerID: req.WorkerID,
		Type:     req.Type,
		Method:   req.MarkingMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	message := fmt.Sprintf("Entry recorded for worker %d", req.WorkerID)
	if transition == tracker.Exit {
		message = fmt.Sprintf("Exit recorded for worker %d", req.WorkerID)
	}
	h.record(c, "attendance", string(transition), session.ID, message)
	c.JSON(http.StatusOK, gin.H{"message": message, "data": session})
}

type markUsageRequest struct {
	MachineID    int64    `json:"machine_id"`
	Type         string   `json:"type"`
	MarkType     string   `json:"mark_type"`
	WorkerID     *int64   `json:"worker_id"`
	WorkType     *string  `json:"work_type"`
	Tonnage      *float64 `json:"tonnage"`
	OperatorName *string  `json:"operator_name"`
	Notes        *string  `json:"notes"`
}

// MarkMachineryUsage handles POST /api/machinery-usage/mark. Either "type" or
// "mark_type" carries the transition.
func (h *Handler) MarkMachineryUsage(c *gin.Context) {
	var req markUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	kind := req.Type
	if kind == "" {
		kind = req.MarkType
	}
	session, transition, err := h.usage.Mark(c.Request.Context(), tracker.UsageMark{
		MachineID:    req.MachineID,
		Type:         kind,
		WorkerID:     req.WorkerID,
		WorkType:     req.WorkType,
		Tonnage:      req.Tonnage,
		OperatorName: req.OperatorName,
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	message := fmt.Sprintf("Entry recorded for machine %d", req.MachineID)
	if transition == tracker.Exit {
		message = fmt.Sprintf("Exit recorded for machine %d", req.MachineID)
	}
	h.record(c, "machinery-usage", string(transition), session.ID, message)
	c.JSON(http.StatusOK, gin.H{"message": message, "data": session})
}
