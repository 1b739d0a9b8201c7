package report

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"minecontrol-backend/internal/model"
	"minecontrol-backend/internal/store"
)

// ErrEmpty is returned by tabular reports that have no rows to print.
var ErrEmpty = errors.New("no rows to report")

// Renderer builds the PDF reports. Timestamps are printed in Location.
type Renderer struct {
	Company  string
	Location *time.Location
	Now      func() time.Time
}

func (r *Renderer) now() time.Time {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return now().In(r.loc())
}

func (r *Renderer) loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

func (r *Renderer) clock(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(r.loc()).Format("15:04")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Attendance renders clock-in/clock-out rows.
func (r *Renderer) Attendance(rows []store.AttendanceRow, rng store.DateRange) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	d := newDocument(r.Company, "ATTENDANCE REPORT", false, rng.From, rng.To, r.now())
	cols := []column{{"First name", 34}, {"Last name", 34}, {"Date", 22}, {"Entry", 16}, {"Exit", 16}, {"Status", 16}, {"Notes", 34}}

	table := make([][]string, 0, len(rows))
	for _, a := range rows {
		entry := a.EntryTime
		table = append(table, []string{a.FirstName, a.LastName, a.Date, r.clock(&entry), r.clock(a.ExitTime), a.Status, deref(a.Notes)})
	}
	d.table(cols, table)
	return d.bytes()
}

// Workers renders the worker roster.
func (r *Renderer) Workers(workers []model.Worker) ([]byte, error) {
	if len(workers) == 0 {
		return nil, ErrEmpty
	}
	d := newDocument(r.Company, "WORKER LIST", false, "", "", r.now())
	cols := []column{{"First name", 45}, {"Last name", 45}, {"DNI", 25}, {"Position", 57}}

	table := make([][]string, 0, len(workers))
	for _, w := range workers {
		table = append(table, []string{w.FirstName, w.LastName, w.DNI, w.Position})
	}
	d.table(cols, table)
	return d.bytes()
}

// Machines renders the machinery catalog.
func (r *Renderer) Machines(machines []model.Machine) ([]byte, error) {
	if len(machines) == 0 {
		return nil, ErrEmpty
	}
	d := newDocument(r.Company, "MACHINERY LIST", true, "", "", r.now())
	cols := []column{{"Code", 25}, {"Name", 60}, {"Type", 35}, {"Brand", 35}, {"Model", 35}, {"Plate", 30}, {"Status", 30}}

	table := make([][]string, 0, len(machines))
	for _, m := range machines {
		table = append(table, []string{m.Code, m.Name, m.Type, m.Brand, m.Model, m.Plate, m.Status})
	}
	d.table(cols, table)
	return d.bytes()
}

// Usage renders machinery entry/exit rows.
func (r *Renderer) Usage(rows []store.UsageRow, rng store.DateRange) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	d := newDocument(r.Company, "MACHINERY ENTRY AND EXIT LOG", true, rng.From, rng.To, r.now())
	cols := []column{{"Machine", 42}, {"Operator", 42}, {"Date", 22}, {"Entry", 16}, {"Exit", 16}, {"Work type", 34}, {"Tonnage", 20}, {"Notes", 57}}

	table := make([][]string, 0, len(rows))
	for _, u := range rows {
		operator := deref(u.WorkerName)
		if operator == "" {
			operator = deref(u.OperatorName)
		}
		tonnage := ""
		if u.Tonnage != nil {
			tonnage = strconv.FormatFloat(*u.Tonnage, 'f', 2, 64)
		}
		entry := u.EntryTime
		table = append(table, []string{u.MachineName, operator, u.Date, r.clock(&entry), r.clock(u.ExitTime), deref(u.WorkType), tonnage, deref(u.Notes)})
	}
	d.table(cols, table)
	return d.bytes()
}

// Statistics renders the operations summary. It is produced even when empty.
func (r *Renderer) Statistics(stats *store.Statistics, rng store.DateRange) ([]byte, error) {
	if stats == nil {
		stats = &store.Statistics{}
	}
	d := newDocument(r.Company, "OPERATIONS SUMMARY", true, rng.From, rng.To, r.now())
	d.heading(fmt.Sprintf("Days worked: %d", stats.DaysWorked))
	d.pdf.Ln(4)
	d.heading("Tonnage by work type")

	table := make([][]string, 0, len(stats.Tonnage))
	for _, t := range stats.Tonnage {
		table = append(table, []string{t.WorkType, strconv.FormatFloat(t.TotalTonnage, 'f', 2, 64)})
	}
	d.table([]column{{"Work type", 110}, {"Total tonnage", 60}}, table)
	return d.bytes()
}
