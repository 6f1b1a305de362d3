package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Статус документа. Вычисляется движком после каждой мутации,
// напрямую пользователем не устанавливается.
type DocumentStatus string

const (
	StatusDraft              DocumentStatus = "draft"
	StatusAwaitingSignatures DocumentStatus = "awaiting_signatures"
	StatusCompleted          DocumentStatus = "completed"
)

type SignerStatus string

const (
	SignerPending SignerStatus = "pending"
	SignerSigned  SignerStatus = "signed"
)

// Signer - участник подписания, идентифицируется по email.
type Signer struct {
	Email     string       `json:"email"`
	Name      string       `json:"name"`
	Status    SignerStatus `json:"status"`
	Timestamp *time.Time   `json:"timestamp"` // nil пока статус pending
}

// SigningField - область для подписи, привязанная к одной странице.
// Координаты и размеры хранятся в document-space (единицы страницы PDF,
// не зависят от текущего масштаба просмотра).
type SigningField struct {
	ID                 uuid.UUID  `json:"id"`
	Page               int        `json:"page"` // нумерация с 1
	X                  float64    `json:"x"`
	Y                  float64    `json:"y"`
	Width              float64    `json:"width"`
	Height             float64    `json:"height"`
	SignedBy           *string    `json:"signedBy"`
	SignatureImageData *string    `json:"signatureImageData,omitempty"`
	SignedTimestamp    *time.Time `json:"signedTimestamp,omitempty"`
}

// IsSigned - инвариант: SignedBy, SignatureImageData и SignedTimestamp
// устанавливаются и очищаются только вместе.
func (f *SigningField) IsSigned() bool {
	return f.SignedBy != nil
}

// Document - агрегат документа. Файл хранится отдельно (blob-хранилище),
// документ держит только ссылку FileID.
type Document struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	Status        DocumentStatus `json:"status"`
	Owner         string         `json:"owner"` // email создателя
	OwnerID       uuid.UUID      `json:"ownerId"`
	Signers       []Signer       `json:"signers"` // порядок вставки, стабилен
	FileID        string         `json:"fileId,omitempty"`
	SigningFields []SigningField `json:"signingFields"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// FindField возвращает поле по id или nil.
func (d *Document) FindField(id uuid.UUID) *SigningField {
	for i := range d.SigningFields {
		if d.SigningFields[i].ID == id {
			return &d.SigningFields[i]
		}
	}
	return nil
}

// FindSigner возвращает подписанта по email или nil.
func (d *Document) FindSigner(email string) *Signer {
	for i := range d.Signers {
		if d.Signers[i].Email == email {
			return &d.Signers[i]
		}
	}
	return nil
}

// Recipient - получатель при создании документа. Исторически клиент
// передавал либо голую строку email, либо структуру {email, name} -
// нормализуем на границе, внутри всегда работаем со структурой.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (r *Recipient) UnmarshalJSON(data []byte) error {
	// Вариант с голой строкой: "user@example.com"
	var email string
	if err := json.Unmarshal(data, &email); err == nil {
		r.Email = email
		r.Name = ""
		return nil
	}

	type plain Recipient
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Recipient(p)
	return nil
}

// DisplayName - имя для отображения; если не задано, берём локальную
// часть email.
func (r Recipient) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	if i := strings.Index(r.Email, "@"); i > 0 {
		return r.Email[:i]
	}
	return r.Email
}

// Для входящих данных при создании документа (поле 'meta' в multipart)
type CreateDocumentRequest struct {
	Title      string      `json:"title"`
	Recipients []Recipient `json:"recipients"`
}

// Запрос на размещение поля подписи. С масштабом (drag-and-drop)
// координаты и размеры страницы - view-space, конвертацию выполняет
// геометрическая модель; без масштаба (кнопка в редакторе) размеры
// страницы опциональны и трактуются как document-space.
type PlaceFieldRequest struct {
	Page       int     `json:"page"`
	DropX      float64 `json:"dropX"`
	DropY      float64 `json:"dropY"`
	Scale      float64 `json:"scale"`
	PageWidth  float64 `json:"pageWidth"`  // view-space
	PageHeight float64 `json:"pageHeight"` // view-space
}

// Запрос на перемещение/изменение размера поля. За одно обращение
// выполняется ровно одна операция (move либо resize).
type UpdateFieldRequest struct {
	Op         string  `json:"op"` // "move" | "resize"
	DeltaX     float64 `json:"deltaX"`
	DeltaY     float64 `json:"deltaY"`
	PointerX   float64 `json:"pointerX"`
	PointerY   float64 `json:"pointerY"`
	Scale      float64 `json:"scale"`
	PageWidth  float64 `json:"pageWidth"`  // document-space
	PageHeight float64 `json:"pageHeight"` // document-space
}

// Запрос на подпись поля.
type SignFieldRequest struct {
	SignatureImageData string `json:"signatureImageData"`
}
