package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-appointment-scheduling/internal/appointment"
	"github.com/hackgods/clinic-appointment-scheduling/internal/timeslot"
)

type CreateAppointmentRequest struct {
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type CreateScheduleRequest struct {
	Weekday   *int   `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Enabled   *bool  `json:"enabled"`
}

type UpdateScheduleRequest struct {
	Enabled *bool `json:"enabled"`
}

type CreateBlackoutRequest struct {
	DateFrom  string  `json:"date_from"`
	DateTo    string  `json:"date_to"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Reason    *string `json:"reason"`
	Force     bool    `json:"force"`
}

type AppointmentResponse struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HistoryResponse struct {
	ID             int64     `json:"id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ChangedBy      uuid.UUID `json:"changed_by"`
	ChangedByRole  string    `json:"changed_by_role"`
	Reason         *string   `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type DoctorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Specialty *string   `json:"specialty,omitempty"`
}

type SlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type SlotsResponse struct {
	DoctorID   uuid.UUID      `json:"doctor_id"`
	Date       string         `json:"date"`
	SlotLength int            `json:"slot_length"`
	Slots      []SlotResponse `json:"slots"`
}

type ScheduleEntryResponse struct {
	ID        uuid.UUID `json:"id"`
	Weekday   int       `json:"weekday"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Enabled   bool      `json:"enabled"`
}

type BlackoutResponse struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Reason    *string   `json:"reason,omitempty"`
}

type CreateBlackoutResponse struct {
	Blackouts []BlackoutResponse    `json:"blackouts"`
	Conflicts []AppointmentResponse `json:"conflicts"`
}

type StatsResponse struct {
	Total     int `json:"total"`
	Scheduled int `json:"scheduled"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	NoShow    int `json:"no_show"`
	Upcoming  int `json:"upcoming"`
}

type ErrorResponse struct {
	Error     string                `json:"error"`
	Details   string                `json:"details,omitempty"`
	Count     int                   `json:"count,omitempty"`
	Conflicts []AppointmentResponse `json:"conflicts,omitempty"`
}

func toAppointmentResponse(a appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		Date:      timeslot.FormatDate(a.Date),
		StartTime: a.StartTime.String(),
		EndTime:   a.EndTime.String(),
		Status:    string(a.Status),
		Reason:    a.Reason,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAppointmentResponses(in []appointment.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(in))
	for _, a := range in {
		out = append(out, toAppointmentResponse(a))
	}
	return out
}

func toDoctorResponses(in []appointment.Doctor) []DoctorResponse {
	out := make([]DoctorResponse, 0, len(in))
	for _, d := range in {
		out = append(out, DoctorResponse{ID: d.ID, Name: d.Name, Specialty: d.Specialty})
	}
	return out
}

func toHistoryResponses(in []appointment.History) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(in))
	for _, h := range in {
		out = append(out, HistoryResponse{
			ID:             h.ID,
			PreviousStatus: string(h.PreviousStatus),
			NewStatus:      string(h.NewStatus),
			ChangedBy:      h.ChangedBy,
			ChangedByRole:  string(h.ChangedByRole),
			Reason:         h.Reason,
			CreatedAt:      h.CreatedAt,
		})
	}
	return out
}

func toScheduleResponse(e appointment.WeeklyScheduleEntry) ScheduleEntryResponse {
	return ScheduleEntryResponse{
		ID:        e.ID,
		Weekday:   e.Weekday,
		StartTime: e.StartTime.String(),
		EndTime:   e.EndTime.String(),
		Enabled:   e.Enabled,
	}
}

func toBlackoutResponses(in []appointment.Blackout) []BlackoutResponse {
	out := make([]BlackoutResponse, 0, len(in))
	for _, b := range in {
		out = append(out, BlackoutResponse{
			ID:        b.ID,
			Date:      timeslot.FormatDate(b.Date),
			StartTime: b.StartTime.String(),
			EndTime:   b.EndTime.String(),
			Reason:    b.Reason,
		})
	}
	return out
}
