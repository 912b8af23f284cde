package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/milan1710/mern-ayurveda/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `id, name, COALESCE(sku, ''), price, old_price, stock, description,
	images, featured, category_id, collection_id, created_by, created_by_role, assigned_to,
	created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.SKU, &p.Price, &p.OldPrice, &p.Stock, &p.Description,
		&p.Images, &p.Featured, &p.CategoryID, &p.CollectionID, &p.CreatedBy,
		&p.CreatedByRole, &p.AssignedTo, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	var sku *string
	if p.SKU != "" {
		sku = &p.SKU
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products (name, sku, price, old_price, stock, description, images, featured,
			category_id, collection_id, created_by, created_by_role, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, p.Name, sku, p.Price, p.OldPrice, p.Stock, p.Description, p.Images, p.Featured,
		p.CategoryID, p.CollectionID, p.CreatedBy, p.CreatedByRole, p.AssignedTo,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id int) (*models.Product, error) {
	return scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

// GetByIDs returns the requested products keyed by id
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Product, error) {
	if len(ids) == 0 {
		return map[int]*models.Product{}, nil
	}

	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int]*models.Product)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	return result, rows.Err()
}

func (r *ProductRepository) List(ctx context.Context, filter models.ProductListFilter) ([]*models.Product, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argNum))
		args = append(args, *filter.CategoryID)
		argNum++
	}
	if filter.CollectionID != nil {
		conditions = append(conditions, fmt.Sprintf("collection_id = $%d", argNum))
		args = append(args, *filter.CollectionID)
		argNum++
	}
	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("featured = $%d", argNum))
		args = append(args, *filter.Featured)
		argNum++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d)", argNum, argNum))
		args = append(args, "%"+filter.Search+"%")
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	query := fmt.Sprintf(`
		SELECT %s FROM products %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, argNum, argNum+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	var sku *string
	if p.SKU != "" {
		sku = &p.SKU
	}
	tag, err := r.DB.Exec(ctx, `
		UPDATE products
		SET name = $2, sku = $3, price = $4, old_price = $5, stock = $6, description = $7,
			images = $8, featured = $9, category_id = $10, collection_id = $11,
			assigned_to = $12, updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, sku, p.Price, p.OldPrice, p.Stock, p.Description,
		p.Images, p.Featured, p.CategoryID, p.CollectionID, p.AssignedTo)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
