package calendar

import (
	"fmt"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ko"
	"github.com/teambition/rrule-go"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
)

// DefaultServiceDays is the recurrence used when a month has no enabled-dates record
const DefaultServiceDays = "FREQ=WEEKLY;BYDAY=SU"

// SupportedLocales lists the locales day labels can be rendered in
var SupportedLocales = []string{"ko", "en"}

// Day is a single calendar day with its display label
type Day struct {
	Date         time.Time    `json:"-"`
	DateString   string       `json:"date"`
	Display      string       `json:"display"`
	Weekday      time.Weekday `json:"weekday"`
	WeekdayLabel string       `json:"weekdayLabel"`
}

// Calendar enumerates days of a month and labels them for one locale
type Calendar struct {
	locale     string
	translator locales.Translator
}

// New creates a Calendar for the given locale ("ko" or "en")
func New(locale string) (*Calendar, error) {
	var tr locales.Translator
	switch locale {
	case "ko":
		tr = ko.New()
	case "en":
		tr = en.New()
	default:
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}
	return &Calendar{locale: locale, translator: tr}, nil
}

// Locale returns the locale the calendar renders labels in
func (c *Calendar) Locale() string {
	return c.locale
}

// DaysInMonth returns every day of the month in ascending order
func (c *Calendar) DaysInMonth(year, month int) ([]Day, error) {
	key, err := model.NewMonthKey(year, month)
	if err != nil {
		return nil, err
	}

	end := key.End()
	days := make([]Day, 0, end.Day())
	for d := key.Start(); !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, c.Day(d))
	}
	return days, nil
}

// WeekendsInMonth returns the Saturdays and Sundays of the month in date order
func (c *Calendar) WeekendsInMonth(year, month int) ([]Day, error) {
	all, err := c.DaysInMonth(year, month)
	if err != nil {
		return nil, err
	}

	weekends := make([]Day, 0, 10)
	for _, d := range all {
		if d.Weekday == time.Saturday || d.Weekday == time.Sunday {
			weekends = append(weekends, d)
		}
	}
	return weekends, nil
}

// ServiceDays returns the days of the month matching an RRULE recurrence such as
// "FREQ=WEEKLY;BYDAY=SU". The rule's own DTSTART is replaced by the month start.
func (c *Calendar) ServiceDays(year, month int, recurrence string) ([]Day, error) {
	key, err := model.NewMonthKey(year, month)
	if err != nil {
		return nil, err
	}

	rule, err := rrule.StrToRRule(recurrence)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service day rule %q: %w", recurrence, err)
	}

	start := key.Start()
	end := key.End()
	rule.DTStart(start)

	occurrences := rule.Between(start, end, true)
	days := make([]Day, 0, len(occurrences))
	for _, occ := range occurrences {
		days = append(days, c.Day(occ))
	}
	return days, nil
}

// ServiceDates is ServiceDays reduced to ISO date strings
func (c *Calendar) ServiceDates(year, month int, recurrence string) ([]string, error) {
	days, err := c.ServiceDays(year, month, recurrence)
	if err != nil {
		return nil, err
	}
	dates := make([]string, len(days))
	for i, d := range days {
		dates[i] = d.DateString
	}
	return dates, nil
}

// Day builds the labelled Day for a date
func (c *Calendar) Day(t time.Time) Day {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Day{
		Date:         t,
		DateString:   t.Format(model.DateLayout),
		Display:      c.Label(t),
		Weekday:      t.Weekday(),
		WeekdayLabel: c.translator.WeekdayAbbreviated(t.Weekday()),
	}
}

// Label renders a short day label, e.g. "3월 9일 (일)" or "Mar 9 (Sun)"
func (c *Calendar) Label(t time.Time) string {
	wd := c.translator.WeekdayAbbreviated(t.Weekday())
	if c.locale == "ko" {
		return fmt.Sprintf("%d월 %d일 (%s)", int(t.Month()), t.Day(), wd)
	}
	return fmt.Sprintf("%s %d (%s)", c.translator.MonthAbbreviated(t.Month()), t.Day(), wd)
}

// LabelDate renders the label for an ISO date string
func (c *Calendar) LabelDate(date string) (string, error) {
	t, err := model.ParseDate(date)
	if err != nil {
		return "", err
	}
	return c.Label(t), nil
}
