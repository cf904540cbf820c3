package api

import (
	"encoding/json"
	"net/http"

	"github.com/hackgods/clinic-appointment-scheduling/internal/appointment"
)

// Handlers below run behind RequireRole(RoleDoctor); the caller manages
// their own calendar.

func listScheduleHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		entries, err := svc.ListSchedule(r.Context(), actor.ID)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		resp := make([]ScheduleEntryResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, toScheduleResponse(e))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createScheduleHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		var req CreateScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Weekday == nil {
			writeError(w, http.StatusBadRequest, "invalid_weekday", "weekday is required")
			return
		}

		entry, err := svc.CreateScheduleEntry(r.Context(), appointment.CreateScheduleRequest{
			DoctorID:  actor.ID,
			Weekday:   *req.Weekday,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Enabled:   req.Enabled,
		})
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, toScheduleResponse(*entry))
	}
}

func updateScheduleHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())
		id, ok := uuidParam(w, r, "id")
		if !ok {
			return
		}

		var req UpdateScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "enabled is required")
			return
		}

		entry, err := svc.SetScheduleEnabled(r.Context(), actor.ID, id, *req.Enabled)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toScheduleResponse(*entry))
	}
}

func deleteScheduleHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())
		id, ok := uuidParam(w, r, "id")
		if !ok {
			return
		}

		if err := svc.DeleteScheduleEntry(r.Context(), actor.ID, id); err != nil {
			handleServiceError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listBlackoutsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		blackouts, err := svc.ListBlackouts(r.Context(), actor.ID)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toBlackoutResponses(blackouts))
	}
}

func createBlackoutHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		var req CreateBlackoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		result, err := svc.CreateBlackout(r.Context(), appointment.CreateBlackoutRequest{
			DoctorID:  actor.ID,
			DateFrom:  req.DateFrom,
			DateTo:    req.DateTo,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Reason:    req.Reason,
			Force:     req.Force,
		})
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, CreateBlackoutResponse{
			Blackouts: toBlackoutResponses(result.Blackouts),
			Conflicts: toAppointmentResponses(result.Conflicts),
		})
	}
}

func checkBlackoutHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		var req CreateBlackoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		conflicts, err := svc.CheckBlackoutConflicts(r.Context(), appointment.BlackoutWindow{
			DoctorID:  actor.ID,
			DateFrom:  req.DateFrom,
			DateTo:    req.DateTo,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		})
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponses(conflicts))
	}
}

func deleteBlackoutHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())
		id, ok := uuidParam(w, r, "id")
		if !ok {
			return
		}

		if err := svc.DeleteBlackout(r.Context(), actor.ID, id); err != nil {
			handleServiceError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
