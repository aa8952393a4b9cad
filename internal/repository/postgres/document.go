package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"lawfirm-cms/internal/repository"
	apperrors "lawfirm-cms/pkg/errors"

	"github.com/jackc/pgx/v5"
)

// DocumentRepository stores every resource in one JSONB table.
type DocumentRepository struct {
	db *DB
}

func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id::text, resource, fields, created_at, updated_at`

func scanDocument(row pgx.Row) (*repository.Document, error) {
	var (
		d   repository.Document
		raw []byte
	)
	if err := row.Scan(&d.ID, &d.Resource, &raw, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Fields = map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &d.Fields); err != nil {
			return nil, errFailedDecodeFields(err)
		}
	}
	return &d, nil
}

func (r *DocumentRepository) List(ctx context.Context, resource string) ([]*repository.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE resource = $1 ORDER BY seq`

	rows, err := r.db.Pool.Query(ctx, query, resource)
	if err != nil {
		return nil, errFailedListDocuments(resource, err)
	}
	defer rows.Close()

	docs := []*repository.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, errFailedListDocuments(resource, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errFailedListDocuments(resource, err)
	}
	return docs, nil
}

func (r *DocumentRepository) Get(ctx context.Context, resource, id string) (*repository.Document, error) {
	if !validID(id) {
		return nil, apperrors.NotFound(errDocumentNotFound)
	}
	query := `SELECT ` + documentColumns + ` FROM documents WHERE resource = $1 AND id = $2`

	d, err := scanDocument(r.db.Pool.QueryRow(ctx, query, resource, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errDocumentNotFound)
		}
		return nil, errFailedGetDocument(err)
	}
	return d, nil
}

func (r *DocumentRepository) Create(ctx context.Context, resource string, fields map[string]any) (*repository.Document, error) {
	clean := map[string]any{}
	repository.MergeFields(clean, fields)
	raw, err := json.Marshal(clean)
	if err != nil {
		return nil, errFailedEncodeFields(err)
	}

	query := `
		INSERT INTO documents (id, resource, fields)
		VALUES ($1, $2, $3)
		RETURNING ` + documentColumns

	d, err := scanDocument(r.db.Pool.QueryRow(ctx, query, repository.NewID(), resource, raw))
	if err != nil {
		return nil, errFailedCreateDocument(err)
	}
	return d, nil
}

// Update reads and rewrites the row inside one transaction so concurrent
// patches to different keys are not lost.
func (r *DocumentRepository) Update(ctx context.Context, resource, id string, fields map[string]any) (*repository.Document, error) {
	if !validID(id) {
		return nil, apperrors.NotFound(errDocumentNotFound)
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, errFailedUpdateDocument(err)
	}
	defer tx.Rollback(ctx)

	current, err := scanDocument(tx.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE resource = $1 AND id = $2 FOR UPDATE`, resource, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errDocumentNotFound)
		}
		return nil, errFailedUpdateDocument(err)
	}

	repository.MergeFields(current.Fields, fields)
	raw, err := json.Marshal(current.Fields)
	if err != nil {
		return nil, errFailedEncodeFields(err)
	}

	updated, err := scanDocument(tx.QueryRow(ctx, `
		UPDATE documents SET fields = $3, updated_at = now()
		WHERE resource = $1 AND id = $2
		RETURNING `+documentColumns, resource, id, raw))
	if err != nil {
		return nil, errFailedUpdateDocument(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errFailedUpdateDocument(err)
	}
	return updated, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, resource, id string) (*repository.Document, error) {
	if !validID(id) {
		return nil, apperrors.NotFound(errDocumentNotFound)
	}
	query := `DELETE FROM documents WHERE resource = $1 AND id = $2 RETURNING ` + documentColumns

	d, err := scanDocument(r.db.Pool.QueryRow(ctx, query, resource, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errDocumentNotFound)
		}
		return nil, errFailedDeleteDocument(err)
	}
	return d, nil
}
