package repository

import (
	"context"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/utils"

	"gorm.io/gorm"
)

// GormObservationRepository implements the ObservationRepository interface
type GormObservationRepository struct {
	db *gorm.DB
}

// NewGormObservationRepository creates a new GORM observation repository
func NewGormObservationRepository(db *gorm.DB) repository.ObservationRepository {
	return &GormObservationRepository{
		db: db,
	}
}

// FlightSearches GORM model for database mapping
type FlightSearches struct {
	ID               uint       `gorm:"primaryKey"`
	QueryTime        time.Time  `gorm:"column:query_time"`
	FromAirport      string     `gorm:"column:from_airport"`
	ToAirport        string     `gorm:"column:to_airport"`
	Trip             string     `gorm:"column:trip"`
	Seat             string     `gorm:"column:seat"`
	AirlineName      *string    `gorm:"column:airline_name"`
	Departure        *time.Time `gorm:"column:departure"`
	Arrival          *time.Time `gorm:"column:arrival"`
	Duration         string     `gorm:"column:duration;type:interval"`
	Stops            *int       `gorm:"column:stops"`
	Price            float64    `gorm:"column:price"`
	IsBest           *bool      `gorm:"column:is_best"`
	ArrivalTimeAhead *string    `gorm:"column:arrival_time_ahead"`
	Delay            *int       `gorm:"column:delay"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
}

// TableName overrides the default table name
func (FlightSearches) TableName() string {
	return "flight_searches"
}

const createFlightSearchesSQL = `
CREATE TABLE IF NOT EXISTS flight_searches (
    id SERIAL PRIMARY KEY,
    query_time TIMESTAMP NOT NULL,
    from_airport VARCHAR(3) NOT NULL,
    to_airport VARCHAR(3) NOT NULL,
    trip VARCHAR(10) NOT NULL,
    seat VARCHAR(20) NOT NULL,
    airline_name VARCHAR(50),
    departure TIMESTAMP,
    arrival TIMESTAMP,
    duration INTERVAL,
    stops INTEGER,
    price DECIMAL(10,2),
    is_best BOOLEAN,
    arrival_time_ahead VARCHAR(100),
    delay INTEGER,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// EnsureSchema creates the observation table if it does not exist
func (r *GormObservationRepository) EnsureSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec(createFlightSearchesSQL).Error
}

// Insert appends one observation to the log and returns its id. The log
// is append-only; there is deliberately no update or delete here.
func (r *GormObservationRepository) Insert(ctx context.Context, obs *entity.Observation) (uint, error) {
	row := FlightSearches{
		QueryTime:        obs.QueryTime,
		FromAirport:      obs.FromAirport,
		ToAirport:        obs.ToAirport,
		Trip:             string(obs.Trip),
		Seat:             string(obs.Seat),
		AirlineName:      obs.AirlineName,
		Departure:        obs.Departure,
		Arrival:          obs.Arrival,
		Duration:         utils.FormatInterval(obs.Duration),
		Stops:            obs.Stops,
		Price:            obs.Price,
		IsBest:           obs.IsBest,
		ArrivalTimeAhead: obs.ArrivalTimeAhead,
		Delay:            obs.Delay,
		CreatedAt:        time.Now(),
	}

	result := r.db.WithContext(ctx).Create(&row)
	if result.Error != nil {
		return 0, result.Error
	}

	obs.ID = row.ID
	obs.CreatedAt = row.CreatedAt
	return row.ID, nil
}
