package api

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"minecontrol-backend/internal/auth"
	"minecontrol-backend/internal/model"
	"minecontrol-backend/internal/parse"
)

type workerRequest struct {
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	DNI       string  `json:"dni" binding:"required,max=16"`
	Position  string  `json:"position"`
	Area      string  `json:"area"`
	Phone     string  `json:"phone"`
	Address   string  `json:"address"`
	HiredOn   *string `json:"hired_on" binding:"omitempty,yyyymmdd"`
	Status    string  `json:"status"`
}

func (h *Handler) workers() resource[model.Worker] {
	return resource[model.Worker]{
		module: "workers",
		id:     func(w *model.Worker) int64 { return w.ID },
		bind: func(c *gin.Context, _ bool) (*model.Worker, []string, error) {
			var req workerRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, nil, invalidBody(err)
			}
			return &model.Worker{
				FirstName: strings.TrimSpace(req.FirstName),
				LastName:  strings.TrimSpace(req.LastName),
				DNI:       strings.TrimSpace(req.DNI),
				Position:  req.Position,
				Area:      req.Area,
				Phone:     req.Phone,
				Address:   req.Address,
				HiredOn:   req.HiredOn,
				Status:    req.Status,
			}, nil, nil
		},
	}
}

type machineRequest struct {
	Code         string   `json:"code"`
	Name         string   `json:"name" binding:"required"`
	Type         string   `json:"type"`
	Brand        string   `json:"brand"`
	Model        string   `json:"model"`
	Plate        string   `json:"plate"`
	Status       string   `json:"status"`
	RegisteredOn *string  `json:"registered_on" binding:"omitempty,yyyymmdd"`
	AccruedHours *float64 `json:"accrued_hours" binding:"omitempty,gte=0"`
}

func (h *Handler) machines() resource[model.Machine] {
	return resource[model.Machine]{
		module: "machinery",
		id:     func(m *model.Machine) int64 { return m.ID },
		bind: func(c *gin.Context, _ bool) (*model.Machine, []string, error) {
			var req machineRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, nil, invalidBody(err)
			}
			return &model.Machine{
				Code:         req.Code,
				Name:         strings.TrimSpace(req.Name),
				Type:         req.Type,
				Brand:        req.Brand,
				Model:        req.Model,
				Plate:        req.Plate,
				Status:       req.Status,
				RegisteredOn: req.RegisteredOn,
				AccruedHours: req.AccruedHours,
			}, nil, nil
		},
	}
}

type roleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) roles() resource[model.Role] {
	return resource[model.Role]{
		module: "roles",
		id:     func(r *model.Role) int64 { return r.ID },
		bind: func(c *gin.Context, _ bool) (*model.Role, []string, error) {
			var req roleRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, nil, invalidBody(err)
			}
			return &model.Role{Name: strings.TrimSpace(req.Name), Description: req.Description}, nil, nil
		},
	}
}

type userRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
	RoleID   *int64 `json:"role_id"`
	Status   string `json:"status"`
}

// users hashes plain passwords. On update an empty password keeps the stored hash and
// a value that already is a bcrypt hash is stored unchanged.
func (h *Handler) users() resource[model.User] {
	return resource[model.User]{
		module: "users",
		id:     func(u *model.User) int64 { return u.ID },
		bind: func(c *gin.Context, creating bool) (*model.User, []string, error) {
			var req userRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, nil, invalidBody(err)
			}
			if req.Status == "" {
				req.Status = model.UserStatusActive
			}
			user := &model.User{
				Username: strings.TrimSpace(req.Username),
				Email:    req.Email,
				RoleID:   req.RoleID,
				Status:   req.Status,
			}

			var omit []string
			switch {
			case req.Password == "" && creating:
				return nil, nil, fmt.Errorf("%w: password is required", parse.ErrInvalid)
			case req.Password == "":
				omit = append(omit, "password")
			case auth.IsHash(req.Password):
				user.PasswordHash = req.Password
			default:
				hash, err := auth.HashPassword(req.Password)
				if err != nil {
					return nil, nil, err
				}
				user.PasswordHash = hash
			}
			return user, omit, nil
		},
	}
}

type documentRequest struct {
	WorkerID     int64  `json:"worker_id" binding:"required,gt=0"`
	DocumentType string `json:"document_type"`
	FileName     string `json:"file_name"`
	FilePath     string `json:"file_path"`
}

// documents removes the stored file when its row is deleted.
func (h *Handler) documents() resource[model.WorkerDocument] {
	return resource[model.WorkerDocument]{
		module: "documents",
		id:     func(d *model.WorkerDocument) int64 { return d.ID },
		bind: func(c *gin.Context, _ bool) (*model.WorkerDocument, []string, error) {
			var req documentRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, nil, invalidBody(err)
			}
			return &model.WorkerDocument{
				WorkerID:     req.WorkerID,
				DocumentType: req.DocumentType,
				FileName:     req.FileName,
				FilePath:     req.FilePath,
			}, []string{"uploaded_at"}, nil
		},
		onDelete: func(d *model.WorkerDocument) {
			h.removeStoredFile(d.FilePath)
		},
	}
}

// removeStoredFile deletes an uploaded file by its public path. Only the base name is
// used so a stored path can never point outside the uploads directory.
func (h *Handler) removeStoredFile(publicPath string) {
	name := filepath.Base(filepath.FromSlash(publicPath))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return
	}
	if err := os.Remove(filepath.Join(h.uploads.Dir, name)); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove document file %s: %v", name, err)
	}
}

type attendanceRequest struct {
	WorkerID      int64      `json:"worker_id" binding:"required,gt=0"`
	Date          string     `json:"date" binding:"required,yyyymmdd"`
	EntryTime     time.Time  `json:"entry_time"`
	ExitTime      *time.Time `json:"exit_time"`
	MarkingMethod string     `json:"marking_method" binding:"omitempty,oneof=manual QR biometrico"`
	Status        string     `json:"status" binding:"required,oneof=Dentro Fuera"`
	Notes         *string    `json:"notes"`
}

func (h *Handler) attendanceRecords() resource[model.AttendanceSession] {
	return resource[model.AttendanceSession]{
		module: "attendance",
		id:     func(a *model.AttendanceSession) int64 { return a.ID },
		bind: func(c *gin.Context, _ bool) (*model.AttendanceSession, []string, error) {
			var req attendanceRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, nil, invalidBody(err)
			}
			if req.EntryTime.IsZero() {
				return nil, nil, fmt.Errorf("%w: entry_time is required", parse.ErrInvalid)
			}
			if req.MarkingMethod == "" {
				req.MarkingMethod = model.MarkManual
			}
			return &model.AttendanceSession{
				WorkerID:      req.WorkerID,
				Date:          req.Date,
				EntryTime:     req.EntryTime,
				ExitTime:      req.ExitTime,
				MarkingMethod: req.MarkingMethod,
				Status:        req.Status,
				Notes:         req.Notes,
			}, nil, nil
		},
	}
}

type usageRequest struct {
	MachineID    int64      `json:"machine_id" binding:"required,gt=0"`
	WorkerID     *int64     `json:"worker_id"`
	Date         string     `json:"date" binding:"required,yyyymmdd"`
	EntryTime    time.Time  `json:"entry_time"`
	ExitTime     *time.Time `json:"exit_time"`
	WorkType     *string    `json:"work_type"`
	Tonnage      *float64   `json:"tonnage" binding:"omitempty,gte=0"`
	OperatorName *string    `json:"operator_name"`
	Notes        *string    `json:"notes"`
}

func (h *Handler) usageRecords() resource[model.MachineryUsageSession] {
	return resource[model.MachineryUsageSession]{
		module: "machinery-usage",
		id:     func(u *model.MachineryUsageSession) int64 { return u.ID },
		bind: func(c *gin.Context, _ bool) (*model.MachineryUsageSession, []string, error) {
			var req usageRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, nil, invalidBody(err)
			}
			if req.EntryTime.IsZero() {
				return nil, nil, fmt.Errorf("%w: entry_time is required", parse.ErrInvalid)
			}
			return &model.MachineryUsageSession{
				MachineID:    req.MachineID,
				WorkerID:     req.WorkerID,
				Date:         req.Date,
				EntryTime:    req.EntryTime,
				ExitTime:     req.ExitTime,
				WorkType:     req.WorkType,
				Tonnage:      req.Tonnage,
				OperatorName: req.OperatorName,
				Notes:        req.Notes,
			}, nil, nil
		},
	}
}
