package api

import (
	"github.com/gin-gonic/gin"

	"minecontrol-backend/internal/model"
	"minecontrol-backend/internal/mw"
)

// record queues an audit entry for the acting principal. It never fails the request.
func (h *Handler) record(c *gin.Context, module, action string, recordID int64, detail string) {
	if h.audit == nil {
		return
	}
	p := mw.PrincipalFrom(c)
	entry := model.AuditEntry{
		RequestID: mw.RequestIDFrom(c),
		Username:  p.Username,
		RoleName:  p.Role,
		Module:    module,
		Action:    action,
		Detail:    detail,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if !p.IsAnonymous() {
		uid := p.UserID
		entry.UserID = &uid
	}
	if recordID > 0 {
		entry.RecordID = &recordID
	}
	h.audit.Dispatch(entry)
}
