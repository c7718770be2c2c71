package database

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/portix/portfolio-service/internal/models"
	"github.com/portix/portfolio-service/internal/pricelabel"
)

// AllowedCategories is the enumerated category set accepted on create and
// update.
var AllowedCategories = []string{
	models.CategoryStock,
	models.CategoryCommodity,
	models.CategoryHedge,
	models.CategoryCash,
	models.CategoryCryptocurrency,
}

// AllowedPositionTypes is the enumerated direction set.
var AllowedPositionTypes = []string{models.PositionTypeLong, models.PositionTypeShort}

const uniqueViolation = pq.ErrorCode("23505")

// CreatePosition validates the input, derives slug and quote symbol, and
// inserts the position row together with its initial valuation snapshot in a
// single transaction. A duplicate symbol/slug returns ErrPositionExists.
func (db *DB) CreatePosition(input *models.CreatePositionInput) (*models.Position, error) {
	symbol := strings.TrimSpace(input.Symbol)
	if symbol == "" {
		return nil, &ValidationError{Code: CodeInvalidSymbol, Message: "symbol is required"}
	}

	purchaseLabel := strings.TrimSpace(input.PurchasePrice)
	if purchaseLabel == "" {
		return nil, &ValidationError{Code: CodeInvalidPurchasePrice, Message: "purchasePrice is required"}
	}

	category := strings.TrimSpace(input.Category)
	if !contains(AllowedCategories, category) {
		return nil, &ValidationError{
			Code:    CodeInvalidCategory,
			Message: fmt.Sprintf("invalid category: %q", input.Category),
			Allowed: AllowedCategories,
		}
	}

	positionType := strings.TrimSpace(input.PositionType)
	if !contains(AllowedPositionTypes, positionType) {
		return nil, &ValidationError{
			Code:    CodeInvalidPositionType,
			Message: fmt.Sprintf("invalid positionType: %q", input.PositionType),
			Allowed: AllowedPositionTypes,
		}
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = symbol
	}

	quoteSymbol := strings.TrimSpace(input.QuoteSymbol)
	if quoteSymbol == "" {
		quoteSymbol = strings.ToUpper(symbol)
	}

	slug := strings.ToLower(symbol)

	// Initial snapshot is derived from the current price label when given,
	// falling back to the purchase price label.
	currentLabel := strings.TrimSpace(input.CurrentPrice)
	if currentLabel == "" {
		currentLabel = purchaseLabel
	}

	var currentValue *float64
	if v, ok := pricelabel.ParseNumericValue(currentLabel); ok {
		currentValue = &v
	}

	var currency *string
	if c, ok := pricelabel.InferCurrencyFromLabel(currentLabel); ok {
		currency = &c
	}

	returnValue := coerceReturnValue(input.ReturnValue)
	returnLabel := pricelabel.FormatReturnLabel(returnValue)

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	p := &models.Position{
		Slug:                 slug,
		Symbol:               symbol,
		QuoteSymbol:          quoteSymbol,
		Name:                 name,
		Category:             category,
		PositionType:         positionType,
		PurchasePriceLabel:   purchaseLabel,
		CurrentPriceValue:    currentValue,
		CurrentPriceCurrency: currency,
		CurrentPriceLabel:    currentLabel,
		ReturnValue:          returnValue,
		ReturnLabel:          returnLabel,
	}

	err = tx.QueryRow(`
		INSERT INTO portfolio_positions (
			slug, symbol, quote_symbol, name, category, position_type,
			purchase_price_label, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id, created_at, updated_at
	`, slug, symbol, quoteSymbol, name, category, positionType, purchaseLabel, now).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrPositionExists
		}
		return nil, fmt.Errorf("failed to create position: %w", err)
	}

	var snapshotID int
	err = tx.QueryRow(`
		INSERT INTO portfolio_position_snapshots (
			position_id, recorded_at, current_price_value, current_price_currency,
			current_price_label, return_value, return_label, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $2)
		RETURNING id
	`, p.ID, now, currentValue, currency, currentLabel, returnValue, returnLabel).
		Scan(&snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit position creation: %w", err)
	}

	recordedAt := now
	p.SnapshotRecordedAt = &recordedAt
	return p, nil
}

const positionWithSnapshotColumns = `
	p.id, p.slug, p.symbol, p.quote_symbol, p.name, p.category, p.position_type,
	p.purchase_price_label, p.created_at, p.updated_at,
	s.recorded_at, s.current_price_value, s.current_price_currency,
	s.current_price_label, s.return_value, s.return_label
`

const latestSnapshotJoin = `
	LEFT JOIN LATERAL (
		SELECT recorded_at, current_price_value, current_price_currency,
		       current_price_label, return_value, return_label
		FROM portfolio_position_snapshots
		WHERE position_id = p.id
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	) s ON true
`

// GetAllPositions retrieves every position joined with its most recent
// snapshot, newest position first. A position without a snapshot still
// appears, with empty snapshot fields.
func (db *DB) GetAllPositions() ([]*models.Position, error) {
	query := `
		SELECT ` + positionWithSnapshotColumns + `
		FROM portfolio_positions p` + latestSnapshotJoin + `
		ORDER BY p.created_at DESC
	`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []*models.Position
	for rows.Next() {
		p, err := scanPosition(rows.Scan)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate positions: %w", err)
	}
	return positions, nil
}

// GetPositionBySlug retrieves one position with its latest snapshot.
func (db *DB) GetPositionBySlug(slug string) (*models.Position, error) {
	query := `
		SELECT ` + positionWithSnapshotColumns + `
		FROM portfolio_positions p` + latestSnapshotJoin + `
		WHERE p.slug = $1
	`
	row := db.conn.QueryRow(query, slug)
	p, err := scanPosition(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPositionNotFound
	}
	return p, err
}

// UpdatePosition applies a metadata update to the position with the given
// slug. Empty input fields are left unchanged; price labels are never
// touched.
func (db *DB) UpdatePosition(slug string, input *models.UpdatePositionInput) (*models.Position, error) {
	if c := strings.TrimSpace(input.Category); c != "" && !contains(AllowedCategories, c) {
		return nil, &ValidationError{
			Code:    CodeInvalidCategory,
			Message: fmt.Sprintf("invalid category: %q", input.Category),
			Allowed: AllowedCategories,
		}
	}
	if t := strings.TrimSpace(input.PositionType); t != "" && !contains(AllowedPositionTypes, t) {
		return nil, &ValidationError{
			Code:    CodeInvalidPositionType,
			Message: fmt.Sprintf("invalid positionType: %q", input.PositionType),
			Allowed: AllowedPositionTypes,
		}
	}

	query := `
		UPDATE portfolio_positions SET
			name = COALESCE(NULLIF($2, ''), name),
			category = COALESCE(NULLIF($3, ''), category),
			position_type = COALESCE(NULLIF($4, ''), position_type),
			quote_symbol = COALESCE(NULLIF($5, ''), quote_symbol),
			updated_at = $6
		WHERE slug = $1
	`
	result, err := db.conn.Exec(query, slug,
		strings.TrimSpace(input.Name),
		strings.TrimSpace(input.Category),
		strings.TrimSpace(input.PositionType),
		strings.TrimSpace(input.QuoteSymbol),
		time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update position: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, ErrPositionNotFound
	}

	return db.GetPositionBySlug(slug)
}

// DeletePosition removes a position; its snapshots cascade.
func (db *DB) DeletePosition(slug string) error {
	result, err := db.conn.Exec(`DELETE FROM portfolio_positions WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrPositionNotFound
	}
	return nil
}

func scanPosition(scan func(dest ...interface{}) error) (*models.Position, error) {
	var p models.Position
	var recordedAt sql.NullTime
	var currentValue, returnValue sql.NullFloat64
	var currency, currentLabel, returnLabel sql.NullString

	err := scan(
		&p.ID, &p.Slug, &p.Symbol, &p.QuoteSymbol, &p.Name, &p.Category, &p.PositionType,
		&p.PurchasePriceLabel, &p.CreatedAt, &p.UpdatedAt,
		&recordedAt, &currentValue, &currency, &currentLabel, &returnValue, &returnLabel,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan position: %w", err)
	}

	if recordedAt.Valid {
		p.SnapshotRecordedAt = &recordedAt.Time
	}
	if currentValue.Valid {
		p.CurrentPriceValue = &currentValue.Float64
	}
	if currency.Valid {
		p.CurrentPriceCurrency = &currency.String
	}
	if currentLabel.Valid {
		p.CurrentPriceLabel = currentLabel.String
	}
	if returnValue.Valid {
		p.ReturnValue = coerceReturnValue(returnValue.Float64)
	}
	if returnLabel.Valid {
		p.ReturnLabel = returnLabel.String
	}
	return &p, nil
}

// coerceReturnValue clamps a stored return percentage to a finite number,
// defaulting to 0.
func coerceReturnValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
