// Package postgres stores sales, products and stock movements in Postgres
// and backs both the report surfaces and the ETL loader.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ruanmelo/chopptrailer/internal/domain/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	price_per_liter DOUBLE PRECISION NOT NULL DEFAULT 0,
	keg_price DOUBLE PRECISION NOT NULL DEFAULT 0,
	keg_volume_liters DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sales (
	id BIGSERIAL PRIMARY KEY,
	date DATE NOT NULL,
	weekday TEXT NOT NULL,
	kind TEXT NOT NULL,
	total DOUBLE PRECISION,
	card DOUBLE PRECISION NOT NULL DEFAULT 0,
	cash DOUBLE PRECISION NOT NULL DEFAULT 0,
	pix DOUBLE PRECISION NOT NULL DEFAULT 0,
	labor_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
	cups_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
	invoice_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
	profit DOUBLE PRECISION,
	product_id BIGINT REFERENCES products(id),
	notes TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date);

CREATE TABLE IF NOT EXISTS stock_movements (
	id BIGSERIAL PRIMARY KEY,
	date DATE NOT NULL,
	product_id BIGINT NOT NULL REFERENCES products(id),
	kind TEXT NOT NULL,
	liters DOUBLE PRECISION NOT NULL,
	notes TEXT NOT NULL DEFAULT ''
);
`

// Store is a pgx-pool backed repository.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// New connects a pool and verifies it with a bounded ping.
func New(ctx context.Context, databaseURL string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const saleColumns = `id, date, weekday, kind, total, card, cash, pix, labor_cost, cups_cost, invoice_cost, profit, product_id, notes`

// FetchSales returns sales in the half-open range [start, end), oldest
// first. A non-nil kind narrows to that sale kind.
func (s *Store) FetchSales(ctx context.Context, start, end time.Time, kind *models.SaleKind) ([]models.SaleRecord, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE date >= $1 AND date < $2`
	args := []any{start, end}
	if kind != nil {
		query += ` AND kind = $3`
		args = append(args, string(*kind))
	}
	query += ` ORDER BY date, id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	sales := make([]models.SaleRecord, 0, 64)
	for rows.Next() {
		var sale models.SaleRecord
		if err := rows.Scan(&sale.ID, &sale.Date, &sale.Weekday, &sale.Kind, &sale.Total,
			&sale.Card, &sale.Cash, &sale.Pix, &sale.LaborCost, &sale.CupsCost,
			&sale.InvoiceCost, &sale.Profit, &sale.ProductID, &sale.Notes); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sales, nil
}

// InsertSale persists one sale; the weekday label is fixed from the date
// when the caller did not set it.
func (s *Store) InsertSale(ctx context.Context, sale models.SaleRecord) (*models.SaleRecord, error) {
	if sale.Weekday == "" {
		sale.Weekday = models.WeekdayFor(sale.Date)
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO sales (date, weekday, kind, total, card, cash, pix, labor_cost, cups_cost, invoice_cost, profit, product_id, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id`,
		sale.Date, sale.Weekday, string(sale.Kind), sale.Total, sale.Card, sale.Cash, sale.Pix,
		sale.LaborCost, sale.CupsCost, sale.InvoiceCost, sale.Profit, sale.ProductID, sale.Notes,
	).Scan(&sale.ID)
	if err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}
	return &sale, nil
}

// ReplaceSalesForDates reloads the sales table for every calendar date
// present in rows: delete-by-date plus insert in one transaction, so the
// ETL stays idempotent per date.
func (s *Store) ReplaceSalesForDates(ctx context.Context, rows []models.SaleRecord) error {
	if len(rows) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var dates []time.Time
	for _, row := range rows {
		key := row.DayKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dates = append(dates, row.Date)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM sales WHERE date = ANY($1)`, dates); err != nil {
		return fmt.Errorf("delete sales for dates: %w", err)
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		if row.Weekday == "" {
			row.Weekday = models.WeekdayFor(row.Date)
		}
		batch.Queue(`
			INSERT INTO sales (date, weekday, kind, total, card, cash, pix, labor_cost, cups_cost, invoice_cost, profit, product_id, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			row.Date, row.Weekday, string(row.Kind), row.Total, row.Card, row.Cash, row.Pix,
			row.LaborCost, row.CupsCost, row.InvoiceCost, row.Profit, row.ProductID, row.Notes)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert replacement sales: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace tx: %w", err)
	}

	s.logger.Info("sales reloaded",
		zap.Int("rows", len(rows)),
		zap.Int("dates", len(dates)))
	return nil
}

// FetchProducts lists the product catalog.
func (s *Store) FetchProducts(ctx context.Context) ([]models.ProductRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, price_per_liter, keg_price, keg_volume_liters
		FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]models.ProductRecord, 0, 16)
	for rows.Next() {
		var product models.ProductRecord
		if err := rows.Scan(&product.ID, &product.Name, &product.PricePerLiter,
			&product.KegPrice, &product.KegVolumeLiters); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct adds one product to the catalog.
func (s *Store) CreateProduct(ctx context.Context, product models.ProductRecord) (*models.ProductRecord, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, price_per_liter, keg_price, keg_volume_liters)
		VALUES ($1,$2,$3,$4) RETURNING id`,
		product.Name, product.PricePerLiter, product.KegPrice, product.KegVolumeLiters,
	).Scan(&product.ID)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return &product, nil
}

// InsertStockMovement records liters entering or leaving the trailer.
func (s *Store) InsertStockMovement(ctx context.Context, movement models.StockMovementRecord) (*models.StockMovementRecord, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO stock_movements (date, product_id, kind, liters, notes)
		VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		movement.Date, movement.ProductID, string(movement.Kind), movement.Liters, movement.Notes,
	).Scan(&movement.ID)
	if err != nil {
		return nil, fmt.Errorf("insert stock movement: %w", err)
	}
	return &movement, nil
}

// ListStockMovements returns movements in the half-open range [start, end).
func (s *Store) ListStockMovements(ctx context.Context, start, end time.Time) ([]models.StockMovementRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, date, product_id, kind, liters, notes
		FROM stock_movements WHERE date >= $1 AND date < $2
		ORDER BY date, id`, start, end)
	if err != nil {
		return nil, fmt.Errorf("query stock movements: %w", err)
	}
	defer rows.Close()

	movements := make([]models.StockMovementRecord, 0, 32)
	for rows.Next() {
		var movement models.StockMovementRecord
		if err := rows.Scan(&movement.ID, &movement.Date, &movement.ProductID,
			&movement.Kind, &movement.Liters, &movement.Notes); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		movements = append(movements, movement)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movements, nil
}
