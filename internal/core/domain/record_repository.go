package domain

import "context"

// Record is one dated observation at a location. At most one record exists
// per location per day.
type Record struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	LocationID  int64    `json:"locationId"`
	Date        string   `json:"date"`
	Rating      *int     `json:"rating"`
	Description *string  `json:"description"`
	Flies       *string  `json:"flies"`
	Flow        *int     `json:"flow"`
	WaterTemp   *int     `json:"waterTemp"`
	Pressure    *float64 `json:"pressure"`
	Weather     *string  `json:"weather"`
	HighTemp    *int     `json:"highTemp"`
	LowTemp     *int     `json:"lowTemp"`
}

// NewRecord is the create payload. Username is taken from the route.
// Date is a calendar day in YYYY-MM-DD form.
type NewRecord struct {
	Username    string   `json:"-"`
	LocationID  int64    `json:"locationId" binding:"required,gt=0"`
	Date        string   `json:"date" binding:"required,datetime=2006-01-02"`
	Rating      *int     `json:"rating" binding:"omitempty,gte=0,lte=5"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	Flies       *string  `json:"flies" binding:"omitempty,max=200"`
	Flow        *int     `json:"flow" binding:"omitempty,gte=0"`
	WaterTemp   *int     `json:"waterTemp"`
	Pressure    *float64 `json:"pressure"`
	Weather     *string  `json:"weather" binding:"omitempty,max=50"`
	HighTemp    *int     `json:"highTemp"`
	LowTemp     *int     `json:"lowTemp"`
}

// RecordUpdate is a partial update of a record; nil fields are left untouched.
type RecordUpdate struct {
	LocationID  *int64   `json:"locationId" binding:"omitempty,gt=0"`
	Date        *string  `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Rating      *int     `json:"rating" binding:"omitempty,gte=0,lte=5"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	Flies       *string  `json:"flies" binding:"omitempty,max=200"`
	Flow        *int     `json:"flow" binding:"omitempty,gte=0"`
	WaterTemp   *int     `json:"waterTemp"`
	Pressure    *float64 `json:"pressure"`
	Weather     *string  `json:"weather" binding:"omitempty,max=50"`
	HighTemp    *int     `json:"highTemp"`
	LowTemp     *int     `json:"lowTemp"`
}

// Fields returns the supplied fields in declaration order.
func (u RecordUpdate) Fields() []Field {
	var fields []Field
	fields = appendIfSet(fields, "locationId", u.LocationID)
	fields = appendIfSet(fields, "date", u.Date)
	fields = appendIfSet(fields, "rating", u.Rating)
	fields = appendIfSet(fields, "description", u.Description)
	fields = appendIfSet(fields, "flies", u.Flies)
	fields = appendIfSet(fields, "flow", u.Flow)
	fields = appendIfSet(fields, "waterTemp", u.WaterTemp)
	fields = appendIfSet(fields, "pressure", u.Pressure)
	fields = appendIfSet(fields, "weather", u.Weather)
	fields = appendIfSet(fields, "highTemp", u.HighTemp)
	fields = appendIfSet(fields, "lowTemp", u.LowTemp)
	return fields
}

// RecordRepository defines the data-access contract for records.
type RecordRepository interface {
	// Create inserts a record. Returns ErrNotFound when the location does not
	// exist and ErrConflict when the location already has a record for that date.
	Create(ctx context.Context, r NewRecord) (Record, error)

	Get(ctx context.Context, id int64) (Record, error)

	// FindAllForOwner returns the user's records, newest date first.
	FindAllForOwner(ctx context.Context, username string) ([]Record, error)

	// FindAllForLocation returns the location's records, newest date first.
	FindAllForLocation(ctx context.Context, locationID int64) ([]Record, error)

	Update(ctx context.Context, id int64, u RecordUpdate) (Record, error)

	Remove(ctx context.Context, id int64) error
}
