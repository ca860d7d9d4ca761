package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kyangwi/portfolio/internal/docstore"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// serverNowExpr builds a jsonb object mapping each key in the text[]
// parameter to the database clock as an RFC3339 string. Keys marked with
// docstore.ServerTimestamp resolve through this so document timestamps
// never depend on the application host's clock.
const serverNowExpr = `(SELECT coalesce(
	jsonb_object_agg(k, to_jsonb(to_char(now() AT TIME ZONE 'utc', 'YYYY-MM-DD"T"HH24:MI:SS"Z"'))),
	'{}'::jsonb) FROM unnest(%s::text[]) AS k)`

type postgresDocStore struct {
	db *pgxpool.Pool
}

// NewPostgresDocStore returns a docstore.Store over a single "documents"
// table keyed by (collection, id) with a JSONB body. Merge semantics use
// the jsonb || operator; equality queries compare the field's text form.
func NewPostgresDocStore(db *pgxpool.Pool) docstore.Store {
	return &postgresDocStore{db: db}
}

func (s *postgresDocStore) GetAll(ctx context.Context, collection string) ([]docstore.Doc, error) {
	query, args, err := psql.Select("id", "data").
		From("documents").
		Where(sq.Eq{"collection": collection}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get-all query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan collection %q: %w", collection, err)
	}
	return scanDocs(rows)
}

func (s *postgresDocStore) Get(ctx context.Context, collection, id string) (docstore.Doc, error) {
	query, args, err := psql.Select("id", "data").
		From("documents").
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return docstore.Doc{}, fmt.Errorf("build get query: %w", err)
	}

	doc, err := scanDoc(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return docstore.Doc{}, docstore.ErrNotFound
		}
		return docstore.Doc{}, fmt.Errorf("get document %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *postgresDocStore) Query(ctx context.Context, collection, field string, value any) ([]docstore.Doc, error) {
	query, args, err := psql.Select("id", "data").
		From("documents").
		Where(sq.Eq{"collection": collection}).
		Where(sq.Expr("data ->> ? = ?", field, fmt.Sprint(value))).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build field query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s by %s: %w", collection, field, err)
	}
	return scanDocs(rows)
}

func (s *postgresDocStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *postgresDocStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	body, stampKeys, err := encodeData(data)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb || %s)
		ON CONFLICT (collection, id) DO UPDATE SET data = documents.data || EXCLUDED.data
	`, fmt.Sprintf(serverNowExpr, "$4"))

	if _, err := s.db.Exec(ctx, query, collection, id, body, stampKeys); err != nil {
		return fmt.Errorf("set document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *postgresDocStore) Update(ctx context.Context, collection, id string, data map[string]any) error {
	body, stampKeys, err := encodeData(data)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE documents
		SET data = data || $3::jsonb || %s
		WHERE collection = $1 AND id = $2
	`, fmt.Sprintf(serverNowExpr, "$4"))

	tag, err := s.db.Exec(ctx, query, collection, id, body, stampKeys)
	if err != nil {
		return fmt.Errorf("update document %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *postgresDocStore) Delete(ctx context.Context, collection, id string) error {
	query, args, err := psql.Delete("documents").
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete document %s/%s: %w", collection, id, err)
	}
	return nil
}

// encodeData splits server-timestamp sentinels out of the field map and
// JSON-encodes the rest. stampKeys is never nil so it always binds as a
// text[] parameter.
func encodeData(data map[string]any) ([]byte, []string, error) {
	stampKeys := []string{}
	plain := make(map[string]any, len(data))
	for k, v := range data {
		if v == docstore.ServerTimestamp {
			stampKeys = append(stampKeys, k)
			continue
		}
		plain[k] = v
	}

	body, err := json.Marshal(plain)
	if err != nil {
		return nil, nil, fmt.Errorf("encode document body: %w", err)
	}
	return body, stampKeys, nil
}

func scanDoc(row pgx.Row) (docstore.Doc, error) {
	var id string
	var body []byte
	if err := row.Scan(&id, &body); err != nil {
		return docstore.Doc{}, err
	}

	data := make(map[string]any)
	if err := json.Unmarshal(body, &data); err != nil {
		return docstore.Doc{}, fmt.Errorf("decode document %q body: %w", id, err)
	}
	return docstore.Doc{ID: id, Data: data}, nil
}

func scanDocs(rows pgx.Rows) ([]docstore.Doc, error) {
	defer rows.Close()

	docs := make([]docstore.Doc, 0)
	for rows.Next() {
		doc, err := scanDoc(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}
	return docs, nil
}
