package domain

import "context"

// Location is a fishing spot owned by a user.
type Location struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	UsgsID   *string `json:"usgsId"`
	DecLat   float64 `json:"decLat"`
	DecLong  float64 `json:"decLong"`
	Fish     *string `json:"fish"`
	Records  []int64 `json:"records,omitempty"`
}

// NewLocation is the create payload. Username is taken from the route, not the body.
type NewLocation struct {
	Username string   `json:"-"`
	Name     string   `json:"name" binding:"required,min=1,max=50"`
	UsgsID   *string  `json:"usgsId" binding:"omitempty,max=15"`
	DecLat   *float64 `json:"decLat" binding:"required,gte=-90,lte=90"`
	DecLong  *float64 `json:"decLong" binding:"required,gte=-180,lte=180"`
	Fish     *string  `json:"fish" binding:"omitempty,max=50"`
}

// LocationUpdate is a partial update of a location; nil fields are left untouched.
type LocationUpdate struct {
	Name    *string  `json:"name" binding:"omitempty,min=1,max=50"`
	UsgsID  *string  `json:"usgsId" binding:"omitempty,max=15"`
	DecLat  *float64 `json:"decLat" binding:"omitempty,gte=-90,lte=90"`
	DecLong *float64 `json:"decLong" binding:"omitempty,gte=-180,lte=180"`
	Fish    *string  `json:"fish" binding:"omitempty,max=50"`
}

// Fields returns the supplied fields in declaration order.
func (u LocationUpdate) Fields() []Field {
	var fields []Field
	fields = appendIfSet(fields, "name", u.Name)
	fields = appendIfSet(fields, "usgsId", u.UsgsID)
	fields = appendIfSet(fields, "decLat", u.DecLat)
	fields = appendIfSet(fields, "decLong", u.DecLong)
	fields = appendIfSet(fields, "fish", u.Fish)
	return fields
}

// LocationRepository defines the data-access contract for locations.
type LocationRepository interface {
	// Create inserts a location. Returns ErrNotFound when the owner does not
	// exist and ErrConflict when the owner already has a location of that name.
	Create(ctx context.Context, l NewLocation) (Location, error)

	// Get returns the location with the ids of its records.
	Get(ctx context.Context, id int64) (Location, error)

	// FindAllForOwner returns the owner's locations ordered by name, each with record ids.
	FindAllForOwner(ctx context.Context, username string) ([]Location, error)

	// Update applies a partial update.
	Update(ctx context.Context, id int64, u LocationUpdate) (Location, error)

	// Remove deletes the location and, through cascading foreign keys, its records.
	Remove(ctx context.Context, id int64) error
}
