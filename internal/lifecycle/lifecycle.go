// Package lifecycle реализует движок жизненного цикла документа:
// правила перехода между состояниями draft / awaiting_signatures /
// completed при подписании и отзыве подписей. Все операции чистые -
// работают с агрегатом в памяти, персистентность вызывает слой выше.
package lifecycle

import (
	"errors"
	"strings"
	"time"

	"housesign-server/internal/model"

	"github.com/google/uuid"
)

// RevokeWindow - окно, в течение которого подписант может отозвать
// свою подпись.
const RevokeWindow = 5 * time.Minute

var (
	ErrFieldNotFound     = errors.New("signing field not found")
	ErrAlreadySigned     = errors.New("field is already signed")
	ErrNotSigned         = errors.New("field is not signed")
	ErrNotAuthorized     = errors.New("not authorized to sign")
	ErrRevokeNotSigner   = errors.New("only the signer may revoke their signature")
	ErrRevocationExpired = errors.New("revocation window has expired")
	ErrHasFields         = errors.New("document uses per-field signing")
)

// Engine инкапсулирует источник времени, чтобы окно отзыва можно было
// проверять в тестах без реального ожидания.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineAt создаёт движок с подменённым источником времени.
func NewEngineAt(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// CanSign сообщает, может ли identity подписать документ целиком:
// либо он числится подписантом в статусе pending, либо он владелец,
// ещё не добавленный в список (владелец добавляется неявно при первой
// подписи). Повторная подпись целиком смысла не имеет - подписавший
// отклоняется.
func CanSign(doc *model.Document, identity string) bool {
	if identity == "" {
		return false
	}
	if s := doc.FindSigner(identity); s != nil {
		return s.Status == model.SignerPending
	}
	return identity == doc.Owner
}

// CanSignField сообщает, может ли identity подписывать поля: владелец
// или любой участник списка подписантов, независимо от статуса - один
// подписант вправе подписать несколько полей. Проверяется и на уровне
// UI, и повторно внутри SignField - вызывающему не доверяем.
func CanSignField(doc *model.Document, identity string) bool {
	if identity == "" {
		return false
	}
	if doc.FindSigner(identity) != nil {
		return true
	}
	return identity == doc.Owner
}

// SignField подписывает отдельное поле. Все проверки выполняются до
// первой мутации: операция либо применяется целиком, либо не меняет
// агрегат вовсе.
func (e *Engine) SignField(doc *model.Document, fieldID uuid.UUID, identity, signatureImage string) error {
	field := doc.FindField(fieldID)
	if field == nil {
		return ErrFieldNotFound
	}
	if field.IsSigned() {
		return ErrAlreadySigned
	}
	if !CanSignField(doc, identity) {
		return ErrNotAuthorized
	}

	now := e.now()
	field.SignedBy = &identity
	field.SignatureImageData = &signatureImage
	field.SignedTimestamp = &now

	e.markSignerSigned(doc, identity, now)
	doc.UpdatedAt = now
	RecomputeStatus(doc)
	return nil
}

// SignDocument - подпись документа целиком. Используется когда у
// документа нет отдельных полей; документ работает либо в режиме
// полей, либо в режиме целиком - режимы взаимоисключающие.
func (e *Engine) SignDocument(doc *model.Document, identity string) error {
	if len(doc.SigningFields) > 0 {
		return ErrHasFields
	}
	if !CanSign(doc, identity) {
		return ErrNotAuthorized
	}

	now := e.now()
	e.markSignerSigned(doc, identity, now)
	doc.UpdatedAt = now
	RecomputeStatus(doc)
	return nil
}

// RevokeSignature отзывает подпись с поля. Разрешено только тому, кто
// поле подписал, и только в пределах RevokeWindow от момента подписи.
// Окно проверяется в момент вызова, фонового таймера нет.
func (e *Engine) RevokeSignature(doc *model.Document, fieldID uuid.UUID, requester string) error {
	field := doc.FindField(fieldID)
	if field == nil {
		return ErrFieldNotFound
	}
	if !field.IsSigned() {
		return ErrNotSigned
	}
	if *field.SignedBy != requester {
		return ErrRevokeNotSigner
	}

	now := e.now()
	if now.Sub(*field.SignedTimestamp) > RevokeWindow {
		return ErrRevocationExpired
	}

	field.SignedBy = nil
	field.SignatureImageData = nil
	field.SignedTimestamp = nil

	// Если других подписанных полей у отзывающего не осталось,
	// возвращаем его запись подписанта в pending.
	if !hasSignedField(doc, requester) {
		if s := doc.FindSigner(requester); s != nil {
			s.Status = model.SignerPending
			s.Timestamp = nil
		}
	}

	doc.UpdatedAt = now
	RecomputeStatus(doc)
	return nil
}

// RecomputeStatus пересчитывает статус документа как чистую функцию
// текущего состояния подписантов и полей. Единственное исключение -
// draft: документ, который ни разу не отправлялся на подпись (ни
// одного подписанта), остаётся черновиком и в completed не переходит.
func RecomputeStatus(doc *model.Document) {
	if len(doc.Signers) == 0 {
		if doc.Status != model.StatusDraft {
			doc.Status = model.StatusAwaitingSignatures
		}
		return
	}

	allSignersSigned := true
	for i := range doc.Signers {
		if doc.Signers[i].Status != model.SignerSigned {
			allSignersSigned = false
			break
		}
	}

	// Пустой набор полей считается подписанным: документ без полей
	// завершается когда подписали все подписанты.
	allFieldsSigned := true
	for i := range doc.SigningFields {
		if !doc.SigningFields[i].IsSigned() {
			allFieldsSigned = false
			break
		}
	}

	if allSignersSigned && allFieldsSigned {
		doc.Status = model.StatusCompleted
	} else {
		doc.Status = model.StatusAwaitingSignatures
	}
}

// markSignerSigned переводит запись подписанта в signed; владелец, не
// числившийся в списке, добавляется в конец при первой подписи.
func (e *Engine) markSignerSigned(doc *model.Document, identity string, now time.Time) {
	if s := doc.FindSigner(identity); s != nil {
		if s.Status != model.SignerSigned {
			s.Status = model.SignerSigned
			ts := now
			s.Timestamp = &ts
		}
		return
	}

	ts := now
	doc.Signers = append(doc.Signers, model.Signer{
		Email:     identity,
		Name:      displayName(identity),
		Status:    model.SignerSigned,
		Timestamp: &ts,
	})
}

func hasSignedField(doc *model.Document, identity string) bool {
	for i := range doc.SigningFields {
		f := &doc.SigningFields[i]
		if f.SignedBy != nil && *f.SignedBy == identity {
			return true
		}
	}
	return false
}

func displayName(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
