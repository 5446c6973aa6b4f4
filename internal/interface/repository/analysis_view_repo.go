package repository

import (
	"context"
	"fmt"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAnalysisViewRepository implements the AnalysisViewRepository
// interface over the fixed set of materialized views.
type GormAnalysisViewRepository struct {
	db *gorm.DB
}

// NewGormAnalysisViewRepository creates a new GORM analysis view repository
func NewGormAnalysisViewRepository(db *gorm.DB) repository.AnalysisViewRepository {
	return &GormAnalysisViewRepository{
		db: db,
	}
}

// viewNames lists every analysis view in refresh order
var viewNames = []string{
	"flight_daily_summary",
	"route_analysis",
	"price_trends",
	"advance_purchase_analysis",
	"latest_prices",
	"lowest_prices",
	"highest_prices",
	"average_prices",
}

const dailySummarySQL = `
CREATE MATERIALIZED VIEW IF NOT EXISTS flight_daily_summary AS
WITH latest_price AS (
    SELECT
        from_airport,
        to_airport,
        DATE(departure) as departure_date,
        airline_name,
        price as current_price,
        ROW_NUMBER() OVER (
            PARTITION BY from_airport, to_airport, DATE(departure), airline_name
            ORDER BY query_time DESC
        ) as rn
    FROM flight_searches
)
SELECT
    DATE(fs.query_time) as date,
    fs.from_airport,
    fs.to_airport,
    DATE(fs.departure) as departure_date,
    fs.airline_name,
    MIN(fs.price) as min_daily_price,
    MAX(fs.price) as max_daily_price,
    AVG(fs.price) as avg_daily_price,
    STDDEV(fs.price) as price_volatility,
    COUNT(*) as daily_checks,
    MAX(fs.price) - MIN(fs.price) as daily_price_swing,
    lp.current_price as latest_price
FROM flight_searches fs
LEFT JOIN latest_price lp ON
    fs.from_airport = lp.from_airport
    AND fs.to_airport = lp.to_airport
    AND DATE(fs.departure) = lp.departure_date
    AND fs.airline_name = lp.airline_name
    AND lp.rn = 1
GROUP BY
    DATE(fs.query_time), fs.from_airport, fs.to_airport,
    DATE(fs.departure), fs.airline_name, lp.current_price`

const routeAnalysisSQL = `
CREATE MATERIALIZED VIEW IF NOT EXISTS route_analysis AS
WITH latest_prices AS (
    SELECT
        from_airport,
        to_airport,
        EXTRACT(DOW FROM departure) as day_of_week,
        price as latest_price,
        ROW_NUMBER() OVER (
            PARTITION BY from_airport, to_airport, EXTRACT(DOW FROM departure)
            ORDER BY query_time DESC
        ) as rn
    FROM flight_searches
)
SELECT
    fs.from_airport,
    fs.to_airport,
    fs.airline_name,
    EXTRACT(DOW FROM fs.departure) as day_of_week,
    MIN(fs.price) as historical_low,
    MAX(fs.price) as historical_high,
    lp.latest_price,
    AVG(fs.stops) as avg_stops,
    MODE() WITHIN GROUP (ORDER BY fs.duration) as typical_duration,
    COUNT(DISTINCT DATE(fs.departure)) as days_tracked,
    COUNT(*) as total_searches
FROM flight_searches fs
LEFT JOIN latest_prices lp ON
    fs.from_airport = lp.from_airport
    AND fs.to_airport = lp.to_airport
    AND EXTRACT(DOW FROM fs.departure) = lp.day_of_week
    AND lp.rn = 1
GROUP BY
    fs.from_airport, fs.to_airport, fs.airline_name,
    EXTRACT(DOW FROM fs.departure), lp.latest_price`

const priceTrendsSQL = `
CREATE MATERIALIZED VIEW IF NOT EXISTS price_trends AS
WITH daily_prices AS (
    SELECT
        DATE(query_time) as query_date,
        DATE(departure) as departure_date,
        from_airport,
        to_airport,
        airline_name,
        MIN(price) as min_price
    FROM flight_searches
    GROUP BY
        DATE(query_time),
        DATE(departure),
        from_airport,
        to_airport,
        airline_name
)
SELECT
    query_date,
    departure_date,
    from_airport,
    to_airport,
    airline_name,
    min_price
FROM daily_prices
ORDER BY
    query_date,
    departure_date`

const advancePurchaseSQL = `
CREATE MATERIALIZED VIEW IF NOT EXISTS advance_purchase_analysis AS
SELECT
    from_airport,
    to_airport,
    airline_name,
    DATE(departure) - DATE(query_time) as days_before_flight,
    AVG(price) as avg_price,
    MIN(price) as min_price,
    MAX(price) as max_price,
    COUNT(*) as sample_size
FROM flight_searches
WHERE departure > query_time
GROUP BY
    from_airport, to_airport, airline_name,
    DATE(departure) - DATE(query_time)
HAVING COUNT(*) > 5`

const latestPricesSQL = `
CREATE MATERIALIZED VIEW IF NOT EXISTS latest_prices AS
WITH ranked_prices AS (
    SELECT
        from_airport,
        to_airport,
        airline_name,
        departure,
        price,
        query_time,
        ROW_NUMBER() OVER (
            PARTITION BY from_airport, to_airport, airline_name, departure
            ORDER BY query_time DESC
        ) as rn
    FROM flight_searches
)
SELECT
    from_airport,
    to_airport,
    airline_name,
    departure,
    price as latest_price,
    query_time as last_updated
FROM ranked_prices
WHERE rn = 1`

const lowestPricesSQL = `
CREATE MATERIALIZED VIEW IF NOT EXISTS lowest_prices AS
SELECT
    from_airport,
    to_airport,
    airline_name,
    departure,
    MIN(price) as lowest_price,
    MIN(query_time) as first_seen
FROM flight_searches
GROUP BY
    from_airport, to_airport, airline_name, departure`

const highestPricesSQL = `
CREATE MATERIALIZED VIEW IF NOT EXISTS highest_prices AS
SELECT
    from_airport,
    to_airport,
    airline_name,
    departure,
    MAX(price) as highest_price,
    MAX(query_time) as last_seen
FROM flight_searches
GROUP BY
    from_airport, to_airport, airline_name, departure`

const averagePricesSQL = `
CREATE MATERIALIZED VIEW IF NOT EXISTS average_prices AS
SELECT
    from_airport,
    to_airport,
    airline_name,
    departure,
    AVG(price) as avg_price,
    COUNT(*) as price_points,
    MIN(query_time) as first_seen,
    MAX(query_time) as last_seen
FROM flight_searches
GROUP BY
    from_airport, to_airport, airline_name, departure`

var createViewSQL = map[string]string{
	"flight_daily_summary":      dailySummarySQL,
	"route_analysis":            routeAnalysisSQL,
	"price_trends":              priceTrendsSQL,
	"advance_purchase_analysis": advancePurchaseSQL,
	"latest_prices":             latestPricesSQL,
	"lowest_prices":             lowestPricesSQL,
	"highest_prices":            highestPricesSQL,
	"average_prices":            averagePricesSQL,
}

var createIndexSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_daily_summary
	 ON flight_daily_summary (from_airport, to_airport, departure_date)`,
	`CREATE INDEX IF NOT EXISTS idx_route_analysis
	 ON route_analysis (from_airport, to_airport, airline_name, day_of_week)`,
	`CREATE INDEX IF NOT EXISTS idx_price_trends
	 ON price_trends (from_airport, to_airport, query_date, departure_date)`,
	`CREATE INDEX IF NOT EXISTS idx_advance_purchase
	 ON advance_purchase_analysis (from_airport, to_airport, days_before_flight)`,
	`CREATE INDEX IF NOT EXISTS idx_latest_prices
	 ON latest_prices (from_airport, to_airport, departure)`,
	`CREATE INDEX IF NOT EXISTS idx_lowest_prices
	 ON lowest_prices (from_airport, to_airport, departure)`,
	`CREATE INDEX IF NOT EXISTS idx_highest_prices
	 ON highest_prices (from_airport, to_airport, departure)`,
	`CREATE INDEX IF NOT EXISTS idx_average_prices
	 ON average_prices (from_airport, to_airport, departure)`,
}

// ViewNames returns every analysis view in refresh order
func (r *GormAnalysisViewRepository) ViewNames() []string {
	names := make([]string, len(viewNames))
	copy(names, viewNames)
	return names
}

// CreateViews defines all analysis views and their indexes. Idempotent:
// existing views are left in place.
func (r *GormAnalysisViewRepository) CreateViews(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	for _, name := range viewNames {
		if err := db.Exec(createViewSQL[name]).Error; err != nil {
			return fmt.Errorf("create view %s: %w", name, err)
		}
	}
	for _, stmt := range createIndexSQL {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// RefreshView fully recomputes one analysis view. The name is checked
// against the fixed view set before being interpolated into SQL.
func (r *GormAnalysisViewRepository) RefreshView(ctx context.Context, name string) error {
	if _, ok := createViewSQL[name]; !ok {
		return fmt.Errorf("%w: %s", entity.ErrUnknownView, name)
	}
	return r.db.WithContext(ctx).Exec("REFRESH MATERIALIZED VIEW " + name).Error
}
