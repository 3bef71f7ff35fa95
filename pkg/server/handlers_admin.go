package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/core/roles"
	"github.com/jakechorley/bethel-serve/pkg/core/services"
	"github.com/jakechorley/bethel-serve/pkg/db"
)

func (s *Server) registerAdminRoutes(g *echo.Group) {
	g.POST("/volunteers", s.addVolunteer)
	g.PUT("/volunteers/:id", s.renameVolunteer)
	g.DELETE("/volunteers/:id", s.removeVolunteer)

	months := g.Group("/months/:month")
	months.PUT("/status", s.setMonthStatus)
	months.PUT("/dates", s.setEnabledDates)
	months.PUT("/announcement", s.setAnnouncement)
	months.POST("/publish", s.publishSchedule)

	g.PUT("/availability/:date/:volunteerID", s.setAvailability)

	assignments := g.Group("/assignments/:date")
	assignments.GET("", s.getAssignment)
	assignments.PUT("", s.saveAssignment)
	assignments.POST("/toggle", s.toggleAssignment)
	assignments.GET("/candidates", s.getCandidates)
	assignments.GET("/summary", s.getSummary)
	assignments.GET("/suggestion", s.getSuggestion)

	g.GET("/tally/:year", s.getTallies)
	g.GET("/tally/:year/:volunteerID", s.getVolunteerTally)
}

type volunteerRequest struct {
	Name string `json:"name" validate:"notblank"`
}

func (s *Server) addVolunteer(c echo.Context) error {
	var req volunteerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	volunteer, err := services.AddVolunteer(c.Request().Context(), s.store, s.logger, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, volunteer)
}

func (s *Server) renameVolunteer(c echo.Context) error {
	var req volunteerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	volunteer, err := services.RenameVolunteer(c.Request().Context(), s.store, s.logger, c.Param("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, volunteer)
}

func (s *Server) removeVolunteer(c echo.Context) error {
	result, err := services.RemoveVolunteer(c.Request().Context(), s.store, s.logger, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type monthStatusRequest struct {
	Open *bool `json:"open" validate:"required"`
}

func (s *Server) setMonthStatus(c echo.Context) error {
	month, err := monthParam(c)
	if err != nil {
		return err
	}
	var req monthStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := services.SetMonthOpen(c.Request().Context(), s.store, s.logger, month, *req.Open); err != nil {
		return err
	}
	return s.getMonth(c)
}

type enabledDatesRequest struct {
	Dates []string `json:"dates" validate:"required,dive,datetime=2006-01-02"`
}

func (s *Server) setEnabledDates(c echo.Context) error {
	month, err := monthParam(c)
	if err != nil {
		return err
	}
	var req enabledDatesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := services.SetEnabledDates(c.Request().Context(), s.store, s.logger, month, req.Dates); err != nil {
		return err
	}
	return s.getMonth(c)
}

type announcementRequest struct {
	Content string `json:"content"`
}

func (s *Server) setAnnouncement(c echo.Context) error {
	month, err := monthParam(c)
	if err != nil {
		return err
	}
	var req announcementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := services.SetAnnouncement(c.Request().Context(), s.store, s.logger, month, req.Content); err != nil {
		return err
	}
	return s.getAnnouncement(c)
}

func (s *Server) publishSchedule(c echo.Context) error {
	month, err := monthParam(c)
	if err != nil {
		return err
	}
	published, err := services.PublishSchedule(c.Request().Context(), s.store, s.sheets, s.cfg, s.logger, month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"month": published.Month, "rows": len(published.Rows)})
}

func (s *Server) setAvailability(c echo.Context) error {
	var req availabilityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	err := services.SetAvailability(c.Request().Context(), s.store, s.logger, c.Param("volunteerID"), c.Param("date"), *req.Available)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getAssignment(c echo.Context) error {
	result, err := services.LoadAssignment(c.Request().Context(), s.store, s.logger, c.Param("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type saveAssignmentRequest struct {
	Assignment model.Assignment `json:"assignment"`
	// Version is the version the client loaded; omit to overwrite unconditionally
	Version *int `json:"version" validate:"omitempty,min=0"`
}

func (s *Server) saveAssignment(c echo.Context) error {
	var req saveAssignmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := services.SaveAssignment(c.Request().Context(), s.store, s.logger, c.Param("date"), req.Assignment, req.Version)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type toggleRequest struct {
	Assignment  model.Assignment `json:"assignment"`
	Slot        string           `json:"slot" validate:"required"`
	VolunteerID string           `json:"volunteerId" validate:"notblank"`
}

// toggleAssignment applies one toggle to the client's working copy and returns
// the result. Nothing is stored.
func (s *Server) toggleAssignment(c echo.Context) error {
	var req toggleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	slot, err := model.ParseRoleSlot(req.Slot)
	if err != nil {
		return err
	}
	next, err := roles.Toggle(req.Assignment, slot, req.VolunteerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":       c.Param("date"),
		"assignment": next,
		"complete":   roles.ValidateForSave(next) == nil,
	})
}

func (s *Server) getCandidates(c echo.Context) error {
	result, err := services.AssignmentCandidates(c.Request().Context(), s.store, s.cfg, s.logger, c.Param("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) getSuggestion(c echo.Context) error {
	result, err := services.SuggestAssignment(c.Request().Context(), s.store, s.cfg, s.logger, c.Param("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) getSummary(c echo.Context) error {
	summary, err := services.DateSummary(c.Request().Context(), s.store, s.cfg, s.logger, c.Param("date"))
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, summary)
}

func yearParam(c echo.Context) (int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		return 0, &services.ArgumentError{Field: "year", Err: errors.New("must be a positive integer")}
	}
	return year, nil
}

func (s *Server) getTallies(c echo.Context) error {
	year, err := yearParam(c)
	if err != nil {
		return err
	}
	tallies, err := services.VolunteerTallies(c.Request().Context(), s.store, s.cfg, year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"year": year, "volunteers": tallies})
}

func (s *Server) getVolunteerTally(c echo.Context) error {
	year, err := yearParam(c)
	if err != nil {
		return err
	}
	// assignments keep the ids of removed volunteers, so their tally is still served
	candidate := roles.Candidate{ID: c.Param("volunteerID")}
	volunteer, err := s.store.GetVolunteer(c.Request().Context(), candidate.ID)
	switch {
	case err == nil:
		candidate.Name = volunteer.Name
	case !errors.Is(err, db.ErrNotFound):
		return err
	}
	candidate.Tally, err = services.VolunteerTally(c.Request().Context(), s.store, s.logger, candidate.ID, year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, candidate)
}
