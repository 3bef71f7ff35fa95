package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/core/prayer"
	"github.com/jakechorley/bethel-serve/pkg/core/services"
)

func (s *Server) registerPublicRoutes(g *echo.Group) {
	months := g.Group("/months/:month")
	months.GET("", s.getMonth)
	months.GET("/announcement", s.getAnnouncement)
	months.GET("/schedule", s.getSchedule)
	months.GET("/applications", s.getApplications)

	g.GET("/volunteers", s.listVolunteers)
	g.GET("/volunteers/lookup", s.lookupVolunteer)

	g.GET("/availability/:date", s.getAvailability)
	g.PUT("/availability/:date/:volunteerID", s.declareAvailability)

	g.GET("/prayers/:date", s.getPrayers)
	g.PUT("/prayers/:date/:slot", s.setPrayer)
}

func monthParam(c echo.Context) (model.MonthKey, error) {
	month, err := model.ParseMonthKey(c.Param("month"))
	if err != nil {
		return model.MonthKey{}, &services.ArgumentError{Field: "month", Err: err}
	}
	return month, nil
}

func (s *Server) getMonth(c echo.Context) error {
	month, err := monthParam(c)
	if err != nil {
		return err
	}
	status, err := services.GetMonthStatus(c.Request().Context(), s.store, s.cfg, month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}

func (s *Server) getAnnouncement(c echo.Context) error {
	month, err := monthParam(c)
	if err != nil {
		return err
	}
	announcement, err := services.GetAnnouncement(c.Request().Context(), s.store, month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, announcement)
}

func (s *Server) getSchedule(c echo.Context) error {
	month, err := monthParam(c)
	if err != nil {
		return err
	}
	schedule, err := services.MonthSchedule(c.Request().Context(), s.store, s.cfg, s.logger, month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, schedule)
}

func (s *Server) getApplications(c echo.Context) error {
	month, err := monthParam(c)
	if err != nil {
		return err
	}
	applications, err := services.GetMonthApplications(c.Request().Context(), s.store, s.cfg, s.logger, month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, applications)
}

func (s *Server) listVolunteers(c echo.Context) error {
	volunteers, err := services.ListVolunteers(c.Request().Context(), s.store, s.logger, s.cfg.Calendar.Locale)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, volunteers)
}

func (s *Server) lookupVolunteer(c echo.Context) error {
	id, err := services.FindVolunteerIDByName(c.Request().Context(), s.store, c.QueryParam("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

func (s *Server) getAvailability(c echo.Context) error {
	date := c.Param("date")
	volunteers, err := services.GetAvailableVolunteers(c.Request().Context(), s.store, s.logger, date)
	if err != nil {
		return err
	}
	services.SortVolunteersByName(volunteers, s.cfg.Calendar.Locale)
	return c.JSON(http.StatusOK, echo.Map{"date": date, "volunteers": volunteers})
}

type availabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

func (s *Server) declareAvailability(c echo.Context) error {
	var req availabilityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	date, volunteerID := c.Param("date"), c.Param("volunteerID")
	if err := services.DeclareAvailability(c.Request().Context(), s.store, s.cfg, s.logger, volunteerID, date, *req.Available); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getPrayers(c echo.Context) error {
	texts, err := services.GetPrayerTexts(c.Request().Context(), s.store, s.logger, c.Param("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, texts)
}

type prayerRequest struct {
	Content string `json:"content"`
}

func (s *Server) setPrayer(c echo.Context) error {
	var req prayerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		return &services.ArgumentError{Field: "slot", Err: err}
	}

	date := c.Param("date")
	text, err := services.SetPrayerText(c.Request().Context(), s.store, s.logger, date, slot, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, services.PrayerSlotText{Slot: slot, Content: text, State: prayerState(text)})
}

func prayerState(text string) prayer.State {
	if text == "" {
		return prayer.StateUnset
	}
	return prayer.StateSaved
}
