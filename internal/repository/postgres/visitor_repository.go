package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Artin0123/API-backend/internal/domain"
)

const uniqueViolationCode = "23505"

// maxUpsertAttempts bounds the retry loop when concurrent first-time hits
// for the same identity race on the unique constraints.
const maxUpsertAttempts = 3

type VisitorRepository struct {
	db *pgxpool.Pool
}

func NewVisitorRepository(db *pgxpool.Pool) *VisitorRepository {
	return &VisitorRepository{db: db}
}

// InitSchema creates the visitors table and its constraints. Safe to run
// on every startup.
func (r *VisitorRepository) InitSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS visitors (
			id SERIAL PRIMARY KEY,
			visitor_number INTEGER UNIQUE NOT NULL,
			ip_address TEXT NOT NULL,
			country TEXT,
			region TEXT,
			city TEXT,
			timezone TEXT,
			local_time TEXT,
			utc_offset INTEGER,
			browser_name TEXT,
			browser_version TEXT,
			os_name TEXT,
			os_version TEXT,
			device_type TEXT,
			device_vendor TEXT,
			navigator_language TEXT,
			fonts_available TEXT,
			screen_width INTEGER,
			screen_height INTEGER,
			screen_color_depth INTEGER,
			device_pixel_ratio REAL,
			hardware_concurrency INTEGER,
			cookie_enabled BOOLEAN,
			max_touch_points INTEGER,
			connection_type TEXT,
			connection_effective_type TEXT,
			connection_rtt INTEGER,
			source_type TEXT NOT NULL DEFAULT 'GET',
			last_visit TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			visit_count INTEGER NOT NULL DEFAULT 1,
			UNIQUE (ip_address, source_type)
		);
		CREATE INDEX IF NOT EXISTS idx_visitors_last_visit ON visitors (last_visit DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize visitors schema: %w", err)
	}
	return nil
}

// Upsert records one hit for the identity (ip_address, source_type).
// A known identity only gets its counter and last_visit moved; the
// first-seen fingerprint is kept untouched. A new identity is inserted
// with the next visitor number. Races between concurrent first hits
// surface as unique violations and are retried as updates.
func (r *VisitorRepository) Upsert(ctx context.Context, info *domain.ClientInfo) (*domain.UpsertResult, error) {
	var lastErr error

	for attempt := 0; attempt < maxUpsertAttempts; attempt++ {
		number, err := r.touch(ctx, info.IPAddress, info.SourceType)
		if err == nil {
			return &domain.UpsertResult{VisitorNumber: number}, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to update visitor: %w", err)
		}

		number, err = r.insert(ctx, info)
		if err == nil {
			return &domain.UpsertResult{VisitorNumber: number, NewVisitor: true}, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			// A concurrent hit claimed the identity or the number first.
			lastErr = err
			continue
		}
		return nil, fmt.Errorf("failed to insert visitor: %w", err)
	}

	return nil, fmt.Errorf("visitor upsert did not settle after %d attempts: %w", maxUpsertAttempts, lastErr)
}

func (r *VisitorRepository) touch(ctx context.Context, ip string, source domain.SourceType) (int, error) {
	query := `
		UPDATE visitors
		SET visit_count = visit_count + 1, last_visit = CURRENT_TIMESTAMP
		WHERE ip_address = $1 AND source_type = $2
		RETURNING visitor_number
	`

	var number int
	err := r.db.QueryRow(ctx, query, ip, source).Scan(&number)
	if err != nil {
		return 0, err
	}
	return number, nil
}

func (r *VisitorRepository) insert(ctx context.Context, info *domain.ClientInfo) (int, error) {
	// The number is allocated inside the INSERT so the unique constraint
	// on visitor_number is the only arbiter under concurrency.
	query := `
		INSERT INTO visitors (
			visitor_number, ip_address, country, region, city,
			timezone, local_time, utc_offset,
			browser_name, browser_version, os_name, os_version, device_type, device_vendor,
			navigator_language, fonts_available,
			screen_width, screen_height, screen_color_depth, device_pixel_ratio,
			hardware_concurrency, cookie_enabled, max_touch_points,
			connection_type, connection_effective_type, connection_rtt,
			source_type
		)
		SELECT COALESCE(MAX(visitor_number), 0) + 1,
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
		FROM visitors
		RETURNING visitor_number
	`

	var number int
	err := r.db.QueryRow(ctx, query,
		info.IPAddress, info.Country, info.Region, info.City,
		info.Timezone, info.LocalTime, info.UTCOffset,
		info.BrowserName, info.BrowserVersion, info.OSName, info.OSVersion, info.DeviceType, info.DeviceVendor,
		info.NavigatorLanguage, info.FontsAvailable,
		info.ScreenWidth, info.ScreenHeight, info.ScreenColorDepth, info.DevicePixelRatio,
		info.HardwareConcurrency, info.CookieEnabled, info.MaxTouchPoints,
		info.ConnectionType, info.ConnectionEffectiveType, info.ConnectionRTT,
		info.SourceType,
	).Scan(&number)
	if err != nil {
		return 0, err
	}
	return number, nil
}

// List returns visitor rows ordered by most recent visit.
func (r *VisitorRepository) List(ctx context.Context, limit, offset int) ([]domain.VisitorRecord, error) {
	query := `
		SELECT id, visitor_number, ip_address, country, region, city,
			timezone, local_time, utc_offset,
			browser_name, browser_version, os_name, os_version, device_type, device_vendor,
			navigator_language, fonts_available,
			screen_width, screen_height, screen_color_depth, device_pixel_ratio,
			hardware_concurrency, cookie_enabled, max_touch_points,
			connection_type, connection_effective_type, connection_rtt,
			source_type, last_visit, visit_count
		FROM visitors
		ORDER BY last_visit DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list visitors: %w", err)
	}
	defer rows.Close()

	var visitors []domain.VisitorRecord
	for rows.Next() {
		var v domain.VisitorRecord
		err := rows.Scan(
			&v.ID, &v.VisitorNumber, &v.IPAddress, &v.Country, &v.Region, &v.City,
			&v.Timezone, &v.LocalTime, &v.UTCOffset,
			&v.BrowserName, &v.BrowserVersion, &v.OSName, &v.OSVersion, &v.DeviceType, &v.DeviceVendor,
			&v.NavigatorLanguage, &v.FontsAvailable,
			&v.ScreenWidth, &v.ScreenHeight, &v.ScreenColorDepth, &v.DevicePixelRatio,
			&v.HardwareConcurrency, &v.CookieEnabled, &v.MaxTouchPoints,
			&v.ConnectionType, &v.ConnectionEffectiveType, &v.ConnectionRTT,
			&v.SourceType, &v.LastVisit, &v.VisitCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visitor row: %w", err)
		}
		visitors = append(visitors, v)
	}

	return visitors, rows.Err()
}
