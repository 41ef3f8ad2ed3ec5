package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopassist/internal/errx"
	"shopassist/internal/model"
	"shopassist/internal/utils"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

const productColumns = `
	id, COALESCE(handle, '') AS handle, title, COALESCE(description, '') AS description,
	COALESCE(category, '') AS category, COALESCE(subcategory, '') AS subcategory,
	COALESCE(brand, '') AS brand, price, compare_at_price, stock_qty,
	COALESCE(color, '') AS color, COALESCE(material, '') AS material, COALESCE(fabric, '') AS fabric,
	COALESCE(style, '') AS style, COALESCE(dimensions, '') AS dimensions, COALESCE(room, '') AS room,
	COALESCE(tags, '{}') AS tags, COALESCE(image_url, '') AS image_url,
	COALESCE(product_url, '') AS product_url, COALESCE(confidence_score, 0) AS confidence_score`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing connection
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the database connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// whereBuilder accumulates AND-ed clauses with positional arguments
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (w *whereBuilder) next(arg interface{}) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

// aliasPatterns turns a term into ILIKE patterns for every known spelling
func aliasPatterns(term string) interface{} {
	return pq.Array(utils.LikePatterns(term))
}

// ilikeAny matches any of the columns against every spelling of term
func (w *whereBuilder) ilikeAny(term string, columns ...string) string {
	placeholder := w.next(aliasPatterns(term))
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE ANY(%s)", col, placeholder)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// buildSearchQuery translates a catalog query into SQL. Text attributes are
// AND-ed; photo signals form one OR group AND-ed with them.
func buildSearchQuery(query *model.CatalogQuery) (string, []interface{}) {
	w := &whereBuilder{clauses: []string{"stock_qty > 0"}}

	attrs := query.Attributes
	if attrs.Category != nil {
		w.clauses = append(w.clauses, w.ilikeAny(*attrs.Category, "category", "subcategory"))
	}
	if attrs.Color != nil {
		w.clauses = append(w.clauses, w.ilikeAny(*attrs.Color, "color"))
	}
	if attrs.Material != nil {
		w.clauses = append(w.clauses, w.ilikeAny(*attrs.Material, "material", "fabric"))
	}
	if attrs.Style != nil {
		w.clauses = append(w.clauses, w.ilikeAny(*attrs.Style, "style"))
	}
	if attrs.Room != nil {
		w.clauses = append(w.clauses, w.ilikeAny(*attrs.Room, "room"))
	}
	if attrs.PriceMax != nil {
		w.clauses = append(w.clauses, "price <= "+w.next(*attrs.PriceMax))
	}

	if v := query.Visual; v.HasFilters() {
		var group []string
		if v.StyleDetected != nil && *v.StyleDetected != "" {
			group = append(group, w.ilikeAny(*v.StyleDetected, "style"))
		}
		if v.RoomType != nil && *v.RoomType != "" {
			group = append(group, w.ilikeAny(*v.RoomType, "room"))
		}
		for _, color := range v.DominantColors {
			group = append(group, w.ilikeAny(color, "color"))
		}
		for _, material := range v.MaterialsVisible {
			group = append(group, w.ilikeAny(material, "material", "fabric"))
		}
		if len(group) > 0 {
			w.clauses = append(w.clauses, "("+strings.Join(group, " OR ")+")")
		}
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 8
	}

	sqlQuery := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY confidence_score DESC NULLS LAST, id
		LIMIT %s
	`, productColumns, strings.Join(w.clauses, " AND "), w.next(limit))

	return sqlQuery, w.args
}

// SearchProducts returns in-stock products matching query, best confidence first
func (r *PostgresRepository) SearchProducts(ctx context.Context, query *model.CatalogQuery) ([]model.CatalogProduct, error) {
	sqlQuery, args := buildSearchQuery(query)

	var products []model.CatalogProduct
	if err := r.db.SelectContext(ctx, &products, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// GetProductByID retrieves a single in-stock product, or nil when there is none
func (r *PostgresRepository) GetProductByID(ctx context.Context, id string) (*model.CatalogProduct, error) {
	var product model.CatalogProduct
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 AND stock_qty > 0`, productColumns)

	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// UpdateEmbedding updates the embedding vector for a product
func (r *PostgresRepository) UpdateEmbedding(ctx context.Context, productID string, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	query := `UPDATE products SET embedding = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, vec, productID)
	if err != nil {
		return fmt.Errorf("failed to update embedding: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errx.ErrNotFound
	}
	return nil
}

// BatchUpdateEmbeddings updates embeddings for multiple products in one
// transaction. A single item skips the transaction.
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	if len(items) == 1 {
		if err := r.UpdateEmbedding(ctx, items[0].ProductID, items[0].Embedding); err != nil {
			return 0, []string{fmt.Sprintf("product_id %s: %v", items[0].ProductID, err)}
		}
		return 1, nil
	}

	success := 0
	var errs []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errs
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE products SET embedding = $1, updated_at = NOW() WHERE id = $2`)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errs
	}
	defer stmt.Close()

	for _, item := range items {
		vec := pgvector.NewVector(item.Embedding)
		res, err := stmt.ExecContext(ctx, vec, item.ProductID)
		if err != nil {
			errs = append(errs, fmt.Sprintf("product_id %s: %v", item.ProductID, err))
			continue
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			errs = append(errs, fmt.Sprintf("product_id %s: not found", item.ProductID))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errs = append(errs, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errs
	}

	return success, errs
}

// LogChat records an answered chat
func (r *PostgresRepository) LogChat(ctx context.Context, entry *model.ChatLog) error {
	query := `
		INSERT INTO chat_logs (request_id, message, intent, attributes, product_ids, source, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.RequestID, entry.Message, string(entry.Intent), entry.Attributes,
		pq.Array(entry.ProductIDs), entry.Source, entry.ResponseTimeMs)
	if err != nil {
		return fmt.Errorf("failed to log chat: %w", err)
	}
	return nil
}

// LogFeedback records a shopper action on a product from a chat answer
func (r *PostgresRepository) LogFeedback(ctx context.Context, requestID, productID, action string) error {
	query := `
		UPDATE chat_logs
		SET clicked_product_id = $2, action = $3, action_at = NOW()
		WHERE request_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, requestID, productID, action)
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("chat request %s: %w", requestID, errx.ErrNotFound)
	}
	return nil
}
