package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/neuroalign/neuroalign/server/auth"
	"github.com/neuroalign/neuroalign/store"
)

type scheduleRequest struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	StartTime         *time.Time `json:"start_time"`
	EndTime           *time.Time `json:"end_time"`
	DurationHours     *int       `json:"duration_hours"`
	Priority          *float64   `json:"priority"`
	Complexity        *float64   `json:"complexity"`
	EnergyRequirement *float64   `json:"energy_requirement"`
	Status            *string    `json:"status"`
}

// Task priority lives on a 1-5 scale, 3 is neutral.
const (
	minPriority     = 1.0
	maxPriority     = 5.0
	defaultPriority = 3.0
)

func validPriority(priority float64) bool {
	return priority >= minPriority && priority <= maxPriority
}

func validScheduleStatus(status string) bool {
	switch store.ScheduleStatus(status) {
	case store.ScheduleStatusPending, store.ScheduleStatusScheduled,
		store.ScheduleStatusDone, store.ScheduleStatusCancelled:
		return true
	}
	return false
}

// CreateSchedule creates one task for the authenticated user.
func (s *APIV1Service) CreateSchedule(c echo.Context) error {
	claims := auth.GetClaims(c)
	req := &scheduleRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest("malformed schedule payload")
	}
	if strings.TrimSpace(req.Title) == "" {
		return badRequest("title required")
	}
	if req.Priority != nil && !validPriority(*req.Priority) {
		return badRequest("priority must be between 1 and 5")
	}

	sched := &store.Schedule{
		UserID:            claims.UserID,
		Title:             req.Title,
		Description:       req.Description,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		DurationHours:     1,
		Priority:          defaultPriority,
		Complexity:        0.5,
		EnergyRequirement: 0.5,
	}
	if req.DurationHours != nil && *req.DurationHours > 0 {
		sched.DurationHours = *req.DurationHours
	}
	if req.Priority != nil {
		sched.Priority = *req.Priority
	}
	if req.Complexity != nil {
		sched.Complexity = *req.Complexity
	}
	if req.EnergyRequirement != nil {
		sched.EnergyRequirement = *req.EnergyRequirement
	}

	created, err := s.Store.CreateSchedule(c.Request().Context(), sched)
	if err != nil {
		return internalError(c, s.logger, "create-schedule", err)
	}
	return c.JSON(http.StatusOK, created)
}

// ListSchedules lists the user's tasks, optionally filtered by status.
func (s *APIV1Service) ListSchedules(c echo.Context) error {
	claims := auth.GetClaims(c)
	find := &store.FindSchedule{UserID: &claims.UserID}
	if status := c.QueryParam("status"); status != "" {
		if !validScheduleStatus(status) {
			return badRequest("unknown status filter")
		}
		st := store.ScheduleStatus(status)
		find.Status = &st
	}

	schedules, err := s.Store.ListSchedules(c.Request().Context(), find)
	if err != nil {
		return internalError(c, s.logger, "list-schedules", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"schedules": schedules,
		"count":     len(schedules),
	})
}

// GetSchedule fetches one task by UID.
func (s *APIV1Service) GetSchedule(c echo.Context) error {
	claims := auth.GetClaims(c)
	sched, err := s.Store.GetScheduleByUID(c.Request().Context(), claims.UserID, c.Param("uid"))
	if err != nil {
		return internalError(c, s.logger, "get-schedule", err)
	}
	if sched == nil {
		return echo.NewHTTPError(http.StatusNotFound, errorResponse{Message: "schedule not found"})
	}
	return c.JSON(http.StatusOK, sched)
}

// UpdateSchedule applies a partial update to one task.
func (s *APIV1Service) UpdateSchedule(c echo.Context) error {
	claims := auth.GetClaims(c)
	req := &scheduleRequest{}
	if err := c.Bind(req); err != nil {
		return badRequest("malformed schedule payload")
	}
	if req.Priority != nil && !validPriority(*req.Priority) {
		return badRequest("priority must be between 1 and 5")
	}

	update := &store.UpdateSchedule{
		UserID:            claims.UserID,
		UID:               c.Param("uid"),
		Description:       &req.Description,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		DurationHours:     req.DurationHours,
		Priority:          req.Priority,
		Complexity:        req.Complexity,
		EnergyRequirement: req.EnergyRequirement,
	}
	if strings.TrimSpace(req.Title) != "" {
		update.Title = &req.Title
	}
	if req.Description == "" {
		update.Description = nil
	}
	if req.Status != nil {
		if !validScheduleStatus(*req.Status) {
			return badRequest("unknown status")
		}
		st := store.ScheduleStatus(*req.Status)
		update.Status = &st
	}

	updated, err := s.Store.UpdateSchedule(c.Request().Context(), update)
	if err != nil {
		return internalError(c, s.logger, "update-schedule", err)
	}
	if updated == nil {
		return echo.NewHTTPError(http.StatusNotFound, errorResponse{Message: "schedule not found"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteSchedule removes one task.
func (s *APIV1Service) DeleteSchedule(c echo.Context) error {
	claims := auth.GetClaims(c)
	if err := s.Store.DeleteSchedule(c.Request().Context(), claims.UserID, c.Param("uid")); err != nil {
		return internalError(c, s.logger, "delete-schedule", err)
	}
	return c.NoContent(http.StatusNoContent)
}
