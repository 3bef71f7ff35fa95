package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/jakechorley/bethel-serve/pkg/core/model"
	"github.com/jakechorley/bethel-serve/pkg/db"
)

type prayerKey struct {
	date string
	slot int
}

// Store is an in-memory db.Database for local runs and tests
type Store struct {
	mu sync.RWMutex

	volunteers    map[string]db.Volunteer
	availability  map[string]map[string]time.Time // date -> volunteerID -> timestamp
	assignments   map[string]db.RoleAssignment
	monthOpen     map[model.MonthKey]bool
	enabledDates  map[model.MonthKey]db.EnabledDates
	announcements map[model.MonthKey]string
	prayers       map[prayerKey]db.PrayerText

	now func() time.Time
}

var _ db.Database = (*Store)(nil)

// New creates an empty Store
func New() *Store {
	return &Store{
		volunteers:    make(map[string]db.Volunteer),
		availability:  make(map[string]map[string]time.Time),
		assignments:   make(map[string]db.RoleAssignment),
		monthOpen:     make(map[model.MonthKey]bool),
		enabledDates:  make(map[model.MonthKey]db.EnabledDates),
		announcements: make(map[model.MonthKey]string),
		prayers:       make(map[prayerKey]db.PrayerText),
		now:           time.Now,
	}
}

// Close is a no-op
func (s *Store) Close() {}

func (s *Store) ListVolunteers(ctx context.Context) ([]db.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]db.Volunteer, 0, len(s.volunteers))
	for _, v := range s.volunteers {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt) ||
			(result[i].CreatedAt.Equal(result[j].CreatedAt) && result[i].ID < result[j].ID)
	})
	return result, nil
}

func (s *Store) GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.volunteers[id]
	if !ok {
		return nil, &db.NotFoundError{Entity: "volunteer", Key: id}
	}
	return &v, nil
}

func (s *Store) InsertVolunteer(ctx context.Context, volunteer *db.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volunteers[volunteer.ID] = *volunteer
	return nil
}

func (s *Store) UpdateVolunteerName(ctx context.Context, id, name string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.volunteers[id]
	if !ok {
		return &db.NotFoundError{Entity: "volunteer", Key: id}
	}
	v.Name = name
	v.UpdatedAt = &updatedAt
	s.volunteers[id] = v
	return nil
}

func (s *Store) DeleteVolunteer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.volunteers[id]; !ok {
		return &db.NotFoundError{Entity: "volunteer", Key: id}
	}
	delete(s.volunteers, id)
	return nil
}

func (s *Store) SetAvailability(ctx context.Context, date, volunteerID string, timestamp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byVolunteer, ok := s.availability[date]
	if !ok {
		byVolunteer = make(map[string]time.Time)
		s.availability[date] = byVolunteer
	}
	byVolunteer[volunteerID] = timestamp
	return nil
}

func (s *Store) DeleteAvailability(ctx context.Context, date, volunteerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if byVolunteer, ok := s.availability[date]; ok {
		delete(byVolunteer, volunteerID)
		if len(byVolunteer) == 0 {
			delete(s.availability, date)
		}
	}
	return nil
}

func (s *Store) ListAvailability(ctx context.Context, date string) ([]db.Availability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byVolunteer := s.availability[date]
	result := make([]db.Availability, 0, len(byVolunteer))
	for id, ts := range byVolunteer {
		result = append(result, db.Availability{Date: date, VolunteerID: id, Timestamp: ts})
	}
	return result, nil
}

func (s *Store) DeleteAvailabilityForVolunteer(ctx context.Context, volunteerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for date, byVolunteer := range s.availability {
		if _, ok := byVolunteer[volunteerID]; ok {
			delete(byVolunteer, volunteerID)
			removed++
		}
		if len(byVolunteer) == 0 {
			delete(s.availability, date)
		}
	}
	return removed, nil
}

func (s *Store) GetRoleAssignment(ctx context.Context, date string) (*db.RoleAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.assignments[date]
	if !ok {
		return nil, &db.NotFoundError{Entity: "role assignment", Key: date}
	}
	rec.Selections = rec.Selections.Clone()
	return &rec, nil
}

func (s *Store) SaveRoleAssignment(ctx context.Context, date string, selections model.Assignment, expectedVersion *int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.assignments[date].Version
	if expectedVersion != nil && *expectedVersion != current {
		return 0, db.ErrVersionConflict
	}

	rec := db.RoleAssignment{
		Date:       date,
		Selections: selections.Clone(),
		Version:    current + 1,
		UpdatedAt:  s.now(),
	}
	s.assignments[date] = rec
	return rec.Version, nil
}

func (s *Store) ListRoleAssignments(ctx context.Context, from, to string) ([]db.RoleAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]db.RoleAssignment, 0)
	for date, rec := range s.assignments {
		if date < from || date > to {
			continue
		}
		rec.Selections = rec.Selections.Clone()
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (s *Store) GetMonthOpen(ctx context.Context, month model.MonthKey) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.monthOpen[month], nil
}

func (s *Store) SetMonthOpen(ctx context.Context, month model.MonthKey, open bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.monthOpen[month] = open
	return nil
}

func (s *Store) GetEnabledDates(ctx context.Context, month model.MonthKey) (*db.EnabledDates, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.enabledDates[month]
	if !ok {
		return nil, nil
	}
	rec.Dates = slices.Clone(rec.Dates)
	return &rec, nil
}

func (s *Store) SetEnabledDates(ctx context.Context, month model.MonthKey, dates []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]string, len(dates))
	copy(stored, dates)
	s.enabledDates[month] = db.EnabledDates{Month: month, Dates: stored, UpdatedAt: s.now()}
	return nil
}

func (s *Store) GetAnnouncement(ctx context.Context, month model.MonthKey) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.announcements[month], nil
}

func (s *Store) SetAnnouncement(ctx context.Context, month model.MonthKey, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.announcements[month] = content
	return nil
}

func (s *Store) ListPrayerTexts(ctx context.Context, date string) ([]db.PrayerText, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]db.PrayerText, 0, 4)
	for key, text := range s.prayers {
		if key.date == date {
			result = append(result, text)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Slot < result[j].Slot })
	return result, nil
}

func (s *Store) SetPrayerText(ctx context.Context, date string, slot int, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prayers[prayerKey{date: date, slot: slot}] = db.PrayerText{
		Date:      date,
		Slot:      slot,
		Content:   content,
		UpdatedAt: s.now(),
	}
	return nil
}
