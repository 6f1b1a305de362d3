package lifecycle

import (
	"testing"
	"time"

	"housesign-server/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

// testEngine - движок с управляемыми часами.
func testEngine(now *time.Time) *Engine {
	return NewEngineAt(func() time.Time { return *now })
}

func newDoc(owner string, signers ...string) *model.Document {
	doc := &model.Document{
		ID:        uuid.New(),
		Title:     "Purchase Agreement",
		Owner:     owner,
		OwnerID:   uuid.New(),
		Status:    model.StatusAwaitingSignatures,
		UpdatedAt: baseTime,
	}
	for _, email := range signers {
		doc.Signers = append(doc.Signers, model.Signer{
			Email:  email,
			Name:   model.Recipient{Email: email}.DisplayName(),
			Status: model.SignerPending,
		})
	}
	return doc
}

func addField(doc *model.Document) uuid.UUID {
	f := model.SigningField{
		ID:     uuid.New(),
		Page:   1,
		X:      100,
		Y:      100,
		Width:  200,
		Height: 50,
	}
	doc.SigningFields = append(doc.SigningFields, f)
	return f.ID
}

func TestSignDocument_TwoSigners(t *testing.T) {
	now := baseTime
	e := testEngine(&now)
	doc := newDoc("owner@x.com", "a@x.com", "b@x.com")

	require.NoError(t, e.SignDocument(doc, "a@x.com"))
	assert.Equal(t, model.StatusAwaitingSignatures, doc.Status)
	assert.Equal(t, model.SignerSigned, doc.Signers[0].Status)
	require.NotNil(t, doc.Signers[0].Timestamp)

	require.NoError(t, e.SignDocument(doc, "b@x.com"))
	assert.Equal(t, model.StatusCompleted, doc.Status)
}

func TestSignDocument_RejectsUnknownIdentity(t *testing.T) {
	now := baseTime
	e := testEngine(&now)
	doc := newDoc("owner@x.com", "a@x.com")

	err := e.SignDocument(doc, "stranger@x.com")
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.Equal(t, model.StatusAwaitingSignatures, doc.Status)
}

func TestSignDocument_RejectedWhenDocumentHasFields(t *testing.T) {
	now := baseTime
	e := testEngine(&now)
	doc := newDoc("owner@x.com", "a@x.com")
	addField(doc)

	err := e.SignDocument(doc, "a@x.com")
	assert.ErrorIs(t, err, ErrHasFields)
}

func TestSignField_OwnerImplicitlyAddedAsSigner(t *testing.T) {
	now := baseTime
	e := testEngine(&now)
	doc := newDoc("owner@x.com") // подписантов нет, владелец - единственный участник
	fieldID := addField(doc)

	require.NoError(t, e.SignField(doc, fieldID, "owner@x.com", "data:image/png;base64,sig"))

	require.Len(t, doc.Signers, 1)
	assert.Equal(t, "owner@x.com", doc.Signers[0].Email)
	assert.Equal(t, "owner", doc.Signers[0].Name)
	assert.Equal(t, model.SignerSigned, doc.Signers[0].Status)

	field := doc.FindField(fieldID)
	require.NotNil(t, field.SignedBy)
	assert.Equal(t, "owner@x.com", *field.SignedBy)
	assert.Equal(t, model.StatusCompleted, doc.Status)
}

func TestSignField_AlreadySigned(t *testing.T) {
	now := baseTime
	e := testEngine(&now)
	doc := newDoc("owner@x.com", "a@x.com", "b@x.com")
	fieldID := addField(doc)

	require.NoError(t, e.SignField(doc, fieldID, "a@x.com", "sig-a"))
	err := e.SignField(doc, fieldID, "b@x.com", "sig-b")
	assert.ErrorIs(t, err, ErrAlreadySigned)

	// Поле не перезаписано
	field := doc.FindField(fieldID)
	assert.Equal(t, "a@x.com", *field.SignedBy)
	assert.Equal(t, "sig-a", *field.SignatureImageData)
}

func TestSignField_NotAuthorized(t *testing.T) {
	now := baseTime
	e := testEngine(&now)
	doc := newDoc("owner@x.com", "a@x.com")
	fieldID := addField(doc)

	err := e.SignField(doc, fieldID, "stranger@x.com", "sig")
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.False(t, doc.FindField(fieldID).IsSigned())
}

func TestSignField_UnknownField(t *testing.T) {
	now := baseTime
	e := testEngine(&now)
	doc := newDoc("owner@x.com", "a@x.com")

	err := e.SignField(doc, uuid.New(), "a@x.com", "sig")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestSignField_OneSignerManyFields(t *testing.T) {
	now := baseTime
	e := testEngine(&now)
	doc := newDoc("owner@x.com", "a@x.com")
	first := addField(doc)
	second := addField(doc)

	require.NoError(t, e.SignField(doc, first, "a@x.com", "sig-1"))
	assert.Equal(t, model.StatusAwaitingSignatures, doc.Status)

	// Статус подписанта уже signed, но оставшиеся поля ему доступны
	require.NoError(t, e.SignField(doc, second, "a@x.com", "sig-2"))
	assert.Equal(t, model.StatusCompleted, doc.Status)
	assert.True(t, doc.FindField(first).IsSigned())
	assert.True(t, doc.FindField(second).IsSigned())
	require.Len(t, doc.Signers, 1)
}

func TestCanSign(t *testing.T) {
	doc := newDoc("owner@x.com", "a@x.com")

	assert.True(t, CanSign(doc, "a@x.com"), "pending подписант")
	assert.True(t, CanSign(doc, "owner@x.com"), "владелец вне списка")
	assert.False(t, CanSign(doc, "stranger@x.com"))
	assert.False(t, CanSign(doc, ""))

	doc.Signers[0].Status = model.SignerSigned
	assert.False(t, CanSign(doc, "a@x.com"), "уже подписал")
}

func TestCanSignField(t *testing.T) {
	doc := newDoc("owner@x.com", "a@x.com")

	assert.True(t, CanSignField(doc, "a@x.com"), "pending подписант")
	assert.True(t, CanSignField(doc, "owner@x.com"), "владелец вне списка")
	assert.False(t, CanSignField(doc, "stranger@x.com"))
	assert.False(t, CanSignField(doc, ""))

	// В отличие от подписи целиком, подписавший сохраняет доступ к полям
	doc.Signers[0].Status = model.SignerSigned
	assert.True(t, CanSignField(doc, "a@x.com"))
}

func TestRevoke_RoundTrip(t *testing.T) {
	now := baseTime
	e := testEngine(&now)
	doc := newDoc("owner@x.com", "a@x.com", "b@x.com")
	fieldID := addField(doc)

	require.NoError(t, e.SignField(doc, fieldID, "a@x.com", "sig"))
	require.Equal(t, model.SignerSigned, doc.Signers[0].Status)

	now = now.Add(time.Minute)
	require.NoError(t, e.RevokeSignature(doc, fieldID, "a@x.com"))

	field := doc.FindField(fieldID)
	assert.Nil(t, field.SignedBy)
	assert.Nil(t, field.SignatureImageData)
	assert.Nil(t, field.SignedTimestamp)

	// Это было единственное подписанное поле - запись подписанта
	// возвращается в pending.
	assert.Equal(t, model.SignerPending, doc.Signers[0].Status)
	assert.Nil(t, doc.Signers[0].Timestamp)
	assert.Equal(t, model.StatusAwaitingSignatures, doc.Status)
}

func TestRevoke_KeepsSignerSignedWhileOtherFieldsRemain(t *testing.T) {
	now := baseTime
	e := testEngine(&now)
	doc := newDoc("owner@x.com", "a@x.com")
	first := addField(doc)
	second := addField(doc)

	require.NoError(t, e.SignField(doc, first, "a@x.com", "sig-1"))
	require.NoError(t, e.SignField(doc, second, "a@x.com", "sig-2"))

	require.NoError(t, e.RevokeSignature(doc, first, "a@x.com"))
	assert.Equal(t, model.SignerSigned, doc.Signers[0].Status)
}

func TestRevoke_WindowBoundary(t *testing.T) {
	t.Run("ровно на границе окна отзыв проходит", func(t *testing.T) {
		now := baseTime
		e := testEngine(&now)
		doc := newDoc("owner@x.com", "a@x.com")
		fieldID := addField(doc)
		require.NoError(t, e.SignField(doc, fieldID, "a@x.com", "sig"))

		now = baseTime.Add(RevokeWindow)
		assert.NoError(t, e.RevokeSignature(doc, fieldID, "a@x.com"))
	})

	t.Run("миллисекундой позже окно закрыто", func(t *testing.T) {
		now := baseTime
		e := testEngine(&now)
		doc := newDoc("owner@x.com", "a@x.com")
		fieldID := addField(doc)
		require.NoError(t, e.SignField(doc, fieldID, "a@x.com", "sig"))

		now = baseTime.Add(RevokeWindow + time.Millisecond)
		err := e.RevokeSignature(doc, fieldID, "a@x.com")
		assert.ErrorIs(t, err, ErrRevocationExpired)
		assert.True(t, doc.FindField(fieldID).IsSigned())
	})
}

func TestRevoke_ByAnotherIdentity(t *testing.T) {
	now := baseTime
	e := testEngine(&now)
	doc := newDoc("owner@x.com", "a@x.com", "b@x.com")
	fieldID := addField(doc)
	require.NoError(t, e.SignField(doc, fieldID, "a@x.com", "sig"))

	// Даже владелец не может отозвать чужую подпись.
	err := e.RevokeSignature(doc, fieldID, "owner@x.com")
	assert.ErrorIs(t, err, ErrRevokeNotSigner)

	field := doc.FindField(fieldID)
	require.NotNil(t, field.SignedBy)
	assert.Equal(t, "a@x.com", *field.SignedBy)
}

func TestRevoke_UnsignedField(t *testing.T) {
	now := baseTime
	e := testEngine(&now)
	doc := newDoc("owner@x.com", "a@x.com")
	fieldID := addField(doc)

	err := e.RevokeSignature(doc, fieldID, "a@x.com")
	assert.ErrorIs(t, err, ErrNotSigned)
}

func TestRevoke_DowngradesCompleted(t *testing.T) {
	now := baseTime
	e := testEngine(&now)
	doc := newDoc("owner@x.com", "a@x.com")
	fieldID := addField(doc)

	require.NoError(t, e.SignField(doc, fieldID, "a@x.com", "sig"))
	require.Equal(t, model.StatusCompleted, doc.Status)

	require.NoError(t, e.RevokeSignature(doc, fieldID, "a@x.com"))
	assert.Equal(t, model.StatusAwaitingSignatures, doc.Status)
}

func TestRecomputeStatus(t *testing.T) {
	t.Run("все подписанты и все поля подписаны", func(t *testing.T) {
		doc := newDoc("owner@x.com", "a@x.com")
		fieldID := addField(doc)
		by := "a@x.com"
		img := "sig"
		ts := baseTime
		f := doc.FindField(fieldID)
		f.SignedBy, f.SignatureImageData, f.SignedTimestamp = &by, &img, &ts
		doc.Signers[0].Status = model.SignerSigned
		doc.Signers[0].Timestamp = &ts

		RecomputeStatus(doc)
		assert.Equal(t, model.StatusCompleted, doc.Status)
	})

	t.Run("неподписанное поле блокирует завершение", func(t *testing.T) {
		doc := newDoc("owner@x.com", "a@x.com")
		addField(doc)
		doc.Signers[0].Status = model.SignerSigned

		RecomputeStatus(doc)
		assert.Equal(t, model.StatusAwaitingSignatures, doc.Status)
	})

	t.Run("черновик без подписантов остаётся черновиком", func(t *testing.T) {
		doc := newDoc("owner@x.com")
		doc.Status = model.StatusDraft

		RecomputeStatus(doc)
		assert.Equal(t, model.StatusDraft, doc.Status)
	})
}
