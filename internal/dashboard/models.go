package dashboard

import (
	"strings"
	"time"

	"studioadmin/internal/studio"
	dErrors "studioadmin/pkg/domain-errors"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) Normalize() {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
}

func (r *loginRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}

// selectionRequest carries the studio to activate. An empty id clears the
// selection.
type selectionRequest struct {
	StudioID string `json:"studio_id"`
}

func (r *selectionRequest) Normalize() {
	r.StudioID = strings.TrimSpace(r.StudioID)
}

type createTraineeRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	StudioID string `json:"studio_id"`
}

func (r *createTraineeRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.StudioID = strings.TrimSpace(r.StudioID)
}

func (r *createTraineeRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.StudioID == "" {
		return dErrors.New(dErrors.CodeValidation, "studio_id is required")
	}
	return nil
}

type updateTraineeRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (r *updateTraineeRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
}

// generateSchedulesRequest asks the backend to materialize class sessions
// from a template over a date range. The range cap keeps a fat-fingered
// year-long request from flooding the backend.
type generateSchedulesRequest struct {
	TemplateID string `json:"template_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

const maxScheduleRangeDays = 92

func (r *generateSchedulesRequest) Normalize() {
	r.TemplateID = strings.TrimSpace(r.TemplateID)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
}

func (r *generateSchedulesRequest) Validate() error {
	if r.TemplateID == "" {
		return dErrors.New(dErrors.CodeValidation, "template_id is required")
	}
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "start_date must be formatted YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "end_date must be formatted YYYY-MM-DD")
	}
	if end.Before(start) {
		return dErrors.New(dErrors.CodeValidation, "end_date cannot precede start_date")
	}
	if end.Sub(start) > maxScheduleRangeDays*24*time.Hour {
		return dErrors.New(dErrors.CodeValidation, "date range cannot exceed 92 days")
	}
	return nil
}

type meResponse struct {
	AdminID   string `json:"admin_id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Resolving bool   `json:"resolving,omitempty"`
}

type studiosResponse struct {
	Studios     []studio.Studio `json:"studios"`
	Loading     bool            `json:"loading"`
	FailureKind string          `json:"failure_kind,omitempty"`
}

type usersResponse struct {
	Users       []studio.User `json:"users"`
	Loading     bool          `json:"loading"`
	FailureKind string        `json:"failure_kind,omitempty"`
}

type selectionResponse struct {
	StudioID string `json:"studio_id"`
}

// parseReservationDate validates the reservations date filter. The backend
// expects the ISO calendar date form.
func parseReservationDate(raw string) (string, error) {
	if raw == "" {
		return "", dErrors.New(dErrors.CodeValidation, "date is required")
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return "", dErrors.New(dErrors.CodeValidation, "date must be formatted YYYY-MM-DD")
	}
	return raw, nil
}
