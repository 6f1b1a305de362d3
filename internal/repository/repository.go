package repository

import (
	"context"
	"errors"

	"housesign-server/internal/model"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type UserRepository interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

// DocumentRepository - коллаборатор персистентности. Агрегат хранится
// как непрозрачное значение по ключу id (get/set семантика); запись
// выполняется после каждой мутирующей операции движка.
type DocumentRepository interface {
	SaveDocument(ctx context.Context, doc model.Document) error
	GetDocument(ctx context.Context, docID uuid.UUID) (model.Document, error)
	ListDocuments(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.Document, error)
	DeleteDocument(ctx context.Context, docID uuid.UUID) error
}
