// Package memory implements the repository interfaces in process memory.
// It follows the same uniqueness, parent and cascade rules as the
// PostgreSQL repositories and backs the logic and handler tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/duynhne/fishfile-service/internal/core/domain"
)

// Store holds users, locations and records behind one lock.
type Store struct {
	mu        sync.RWMutex
	users     map[string]memUser
	locations map[int64]domain.Location
	records   map[int64]domain.Record
	nextID    int64
}

type memUser struct {
	user domain.User
	hash string
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:     map[string]memUser{},
		locations: map[int64]domain.Location{},
		records:   map[int64]domain.Record{},
	}
}

// Users returns the user repository view of the store.
func (m *Store) Users() domain.UserRepository { return memUsers{m} }

// Locations returns the location repository view of the store.
func (m *Store) Locations() domain.LocationRepository { return memLocations{m} }

// Records returns the record repository view of the store.
func (m *Store) Records() domain.RecordRepository { return memRecords{m} }

func (m *Store) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Store) locationRecordIDs(id int64) []int64 {
	ids := []int64{}
	for _, r := range m.records {
		if r.LocationID == id {
			ids = append(ids, r.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type memUsers struct{ *Store }

func (m memUsers) Create(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[nu.Username]; ok {
		return domain.User{}, fmt.Errorf("duplicate username: %s: %w", nu.Username, domain.ErrConflict)
	}
	u := domain.User{Username: nu.Username, FirstName: nu.FirstName, LastName: nu.LastName, Email: nu.Email, IsAdmin: nu.IsAdmin}
	m.users[nu.Username] = memUser{user: u, hash: nu.Password}
	return u, nil
}

func (m memUsers) Get(ctx context.Context, username string) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mu, ok := m.users[username]
	if !ok {
		return domain.User{}, fmt.Errorf("no user: %s: %w", username, domain.ErrNotFound)
	}
	u := mu.user
	u.Locations, u.Records = []int64{}, []int64{}
	for id, l := range m.locations {
		if l.Username == username {
			u.Locations = append(u.Locations, id)
		}
	}
	for id, r := range m.records {
		if r.Username == username {
			u.Records = append(u.Records, id)
		}
	}
	sort.Slice(u.Locations, func(i, j int) bool { return u.Locations[i] < u.Locations[j] })
	sort.Slice(u.Records, func(i, j int) bool { return u.Records[i] < u.Records[j] })
	return u, nil
}

func (m memUsers) FindAll(ctx context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := []domain.User{}
	for _, mu := range m.users {
		users = append(users, mu.user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m memUsers) GetCredentials(ctx context.Context, username string) (domain.User, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mu, ok := m.users[username]
	if !ok {
		return domain.User{}, "", fmt.Errorf("no user: %s: %w", username, domain.ErrNotFound)
	}
	return mu.user, mu.hash, nil
}

func (m memUsers) Update(ctx context.Context, username string, upd domain.UserUpdate) (domain.User, error) {
	if len(upd.Fields()) == 0 {
		return domain.User{}, fmt.Errorf("no data: %w", domain.ErrBadRequest)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	mu, ok := m.users[username]
	if !ok {
		return domain.User{}, fmt.Errorf("no user: %s: %w", username, domain.ErrNotFound)
	}
	if upd.FirstName != nil {
		mu.user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		mu.user.LastName = *upd.LastName
	}
	if upd.Email != nil {
		mu.user.Email = *upd.Email
	}
	if upd.IsAdmin != nil {
		mu.user.IsAdmin = *upd.IsAdmin
	}
	if upd.Password != nil {
		mu.hash = *upd.Password
	}
	m.users[username] = mu
	return mu.user, nil
}

func (m memUsers) Remove(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; !ok {
		return fmt.Errorf("no user: %s: %w", username, domain.ErrNotFound)
	}
	delete(m.users, username)
	for id, l := range m.locations {
		if l.Username == username {
			delete(m.locations, id)
		}
	}
	for id, r := range m.records {
		if r.Username == username {
			delete(m.records, id)
		}
	}
	return nil
}

type memLocations struct{ *Store }

func (m memLocations) Create(ctx context.Context, nl domain.NewLocation) (domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[nl.Username]; !ok {
		return domain.Location{}, fmt.Errorf("no user: %s: %w", nl.Username, domain.ErrNotFound)
	}
	for _, l := range m.locations {
		if l.Username == nl.Username && l.Name == nl.Name {
			return domain.Location{}, fmt.Errorf("duplicate location for user %s: %s: %w", nl.Username, nl.Name, domain.ErrConflict)
		}
	}
	if nl.DecLat == nil || nl.DecLong == nil {
		return domain.Location{}, fmt.Errorf("coordinates required: %w", domain.ErrBadRequest)
	}
	l := domain.Location{
		ID: m.id(), Username: nl.Username, Name: nl.Name, UsgsID: nl.UsgsID,
		DecLat: *nl.DecLat, DecLong: *nl.DecLong, Fish: nl.Fish, Records: []int64{},
	}
	m.locations[l.ID] = l
	return l, nil
}

func (m memLocations) Get(ctx context.Context, id int64) (domain.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.locations[id]
	if !ok {
		return domain.Location{}, fmt.Errorf("no location: %d: %w", id, domain.ErrNotFound)
	}
	l.Records = m.locationRecordIDs(id)
	return l, nil
}

func (m memLocations) FindAllForOwner(ctx context.Context, username string) ([]domain.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.Location{}
	for id, l := range m.locations {
		if l.Username == username {
			l.Records = m.locationRecordIDs(id)
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memLocations) Update(ctx context.Context, id int64, upd domain.LocationUpdate) (domain.Location, error) {
	if len(upd.Fields()) == 0 {
		return domain.Location{}, fmt.Errorf("no data: %w", domain.ErrBadRequest)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locations[id]
	if !ok {
		return domain.Location{}, fmt.Errorf("no location: %d: %w", id, domain.ErrNotFound)
	}
	if upd.Name != nil {
		for oid, o := range m.locations {
			if oid != id && o.Username == l.Username && o.Name == *upd.Name {
				return domain.Location{}, fmt.Errorf("duplicate location name: %s: %w", *upd.Name, domain.ErrConflict)
			}
		}
		l.Name = *upd.Name
	}
	if upd.UsgsID != nil {
		l.UsgsID = upd.UsgsID
	}
	if upd.DecLat != nil {
		l.DecLat = *upd.DecLat
	}
	if upd.DecLong != nil {
		l.DecLong = *upd.DecLong
	}
	if upd.Fish != nil {
		l.Fish = upd.Fish
	}
	m.locations[id] = l
	l.Records = m.locationRecordIDs(id)
	return l, nil
}

func (m memLocations) Remove(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.locations[id]; !ok {
		return fmt.Errorf("no location: %d: %w", id, domain.ErrNotFound)
	}
	delete(m.locations, id)
	for rid, r := range m.records {
		if r.LocationID == id {
			delete(m.records, rid)
		}
	}
	return nil
}

type memRecords struct{ *Store }

func (m memRecords) Create(ctx context.Context, nr domain.NewRecord) (domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.locations[nr.LocationID]; !ok {
		return domain.Record{}, fmt.Errorf("no location: %d: %w", nr.LocationID, domain.ErrNotFound)
	}
	for _, r := range m.records {
		if r.LocationID == nr.LocationID && r.Date == nr.Date {
			return domain.Record{}, fmt.Errorf("duplicate record for location %d on %s: %w", nr.LocationID, nr.Date, domain.ErrConflict)
		}
	}
	r := domain.Record{
		ID: m.id(), Username: nr.Username, LocationID: nr.LocationID, Date: nr.Date,
		Rating: nr.Rating, Description: nr.Description, Flies: nr.Flies, Flow: nr.Flow,
		WaterTemp: nr.WaterTemp, Pressure: nr.Pressure, Weather: nr.Weather,
		HighTemp: nr.HighTemp, LowTemp: nr.LowTemp,
	}
	m.records[r.ID] = r
	return r, nil
}

func (m memRecords) Get(ctx context.Context, id int64) (domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return domain.Record{}, fmt.Errorf("no record: %d: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

func (m memRecords) list(keep func(domain.Record) bool) []domain.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.Record{}
	for _, r := range m.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m memRecords) FindAllForOwner(ctx context.Context, username string) ([]domain.Record, error) {
	return m.list(func(r domain.Record) bool { return r.Username == username }), nil
}

func (m memRecords) FindAllForLocation(ctx context.Context, locationID int64) ([]domain.Record, error) {
	return m.list(func(r domain.Record) bool { return r.LocationID == locationID }), nil
}

func (m memRecords) Update(ctx context.Context, id int64, upd domain.RecordUpdate) (domain.Record, error) {
	if len(upd.Fields()) == 0 {
		return domain.Record{}, fmt.Errorf("no data: %w", domain.ErrBadRequest)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return domain.Record{}, fmt.Errorf("no record: %d: %w", id, domain.ErrNotFound)
	}
	if upd.LocationID != nil {
		if _, ok := m.locations[*upd.LocationID]; !ok {
			return domain.Record{}, fmt.Errorf("no location: %d: %w", *upd.LocationID, domain.ErrNotFound)
		}
		r.LocationID = *upd.LocationID
	}
	if upd.Date != nil {
		r.Date = *upd.Date
	}
	for oid, o := range m.records {
		if oid != id && o.LocationID == r.LocationID && o.Date == r.Date {
			return domain.Record{}, fmt.Errorf("duplicate record for date %s: %w", r.Date, domain.ErrConflict)
		}
	}
	if upd.Rating != nil {
		r.Rating = upd.Rating
	}
	if upd.Description != nil {
		r.Description = upd.Description
	}
	if upd.Flies != nil {
		r.Flies = upd.Flies
	}
	if upd.Flow != nil {
		r.Flow = upd.Flow
	}
	if upd.WaterTemp != nil {
		r.WaterTemp = upd.WaterTemp
	}
	if upd.Pressure != nil {
		r.Pressure = upd.Pressure
	}
	if upd.Weather != nil {
		r.Weather = upd.Weather
	}
	if upd.HighTemp != nil {
		r.HighTemp = upd.HighTemp
	}
	if upd.LowTemp != nil {
		r.LowTemp = upd.LowTemp
	}
	m.records[id] = r
	return r, nil
}

func (m memRecords) Remove(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("no record: %d: %w", id, domain.ErrNotFound)
	}
	delete(m.records, id)
	return nil
}
