package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"housesign-server/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema создаёт таблицы при старте приложения. Агрегат документа
// лежит в JSONB целиком: подписанты и поля подписи - часть агрегата,
// отдельных таблиц для них нет.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents(owner_id, updated_at DESC);
	`
	_, err := p.db.Exec(ctx, schema)
	return err
}

// --- User Repository ---

func (p *Postgres) CreateUser(ctx context.Context, user model.User) error {
	query := `INSERT INTO users (id, email, name, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := p.db.Exec(ctx, query, user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt)
	return err
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	query := `SELECT id, email, name, password_hash, created_at FROM users WHERE email = $1`
	err := p.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return user, ErrNotFound
	}
	if err != nil {
		return user, err
	}
	return user, nil
}

// --- Document Repository ---

// SaveDocument - семантика set: вставка либо полная перезапись
// значения по ключу id. Временные метки внутри data сериализуются в
// ISO-8601 (RFC 3339) силами encoding/json.
func (p *Postgres) SaveDocument(ctx context.Context, doc model.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := `INSERT INTO documents (id, owner_id, data, updated_at) VALUES ($1, $2, $3, $4)
	          ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	_, err = p.db.Exec(ctx, query, doc.ID, doc.OwnerID, data, doc.UpdatedAt)
	return err
}

func (p *Postgres) GetDocument(ctx context.Context, docID uuid.UUID) (model.Document, error) {
	var raw []byte
	query := `SELECT data FROM documents WHERE id = $1`
	err := p.db.QueryRow(ctx, query, docID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Document{}, ErrNotFound
	}
	if err != nil {
		return model.Document{}, err
	}

	// Разбор возвращает метки времени из ISO-8601 строк обратно в time.Time.
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.Document{}, fmt.Errorf("failed to unmarshal document %s: %w", docID, err)
	}
	return doc, nil
}

func (p *Postgres) ListDocuments(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.Document, error) {
	query := `SELECT data FROM documents WHERE owner_id = $1 ORDER BY updated_at DESC LIMIT $2`
	rows, err := p.db.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc model.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (p *Postgres) DeleteDocument(ctx context.Context, docID uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1`
	_, err := p.db.Exec(ctx, query, docID)
	return err
}
