package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"housesign-server/internal/geometry"
	"housesign-server/internal/lifecycle"
	"housesign-server/internal/model"
	"housesign-server/internal/repository"
	"housesign-server/internal/storage"

	"github.com/google/uuid"
)

// Ограничения загрузки (как в клиенте: PDF/DOC/DOCX, до 10 МБ).
const maxUploadSize = 10 << 20

var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// --- Document Service ---

// CreateDocument создаёт документ: сохраняет blob, материализует
// список подписантов из получателей и вычисляет начальный статус.
// С получателями документ сразу уходит в awaiting_signatures, без них
// остаётся черновиком.
func (s *Service) CreateDocument(ctx context.Context, tokenString string, meta model.CreateDocumentRequest, fileHeader *multipart.FileHeader) (model.Document, error) {
	user, err := s.UserFromToken(ctx, tokenString)
	if err != nil {
		return model.Document{}, errors.New("unauthorized")
	}

	if fileHeader == nil {
		return model.Document{}, errors.New("file is required")
	}
	if fileHeader.Size > maxUploadSize {
		return model.Document{}, errors.New("file too large: maximum size is 10MB")
	}
	mime := fileHeader.Header.Get("Content-Type")
	if mime == "" {
		// Часть без Content-Type типизируем по расширению имени файла
		mime = storage.MimeByName(fileHeader.Filename)
	}
	if !allowedMimeTypes[mime] {
		return model.Document{}, errors.New("invalid file type: PDF or Word document required")
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		// Заголовок по умолчанию - имя файла без расширения
		name := fileHeader.Filename
		if i := strings.LastIndex(name, "."); i > 0 {
			name = name[:i]
		}
		title = name
	}
	if title == "" {
		return model.Document{}, errors.New("document title is required")
	}

	signers, err := materializeSigners(meta.Recipients)
	if err != nil {
		return model.Document{}, err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	fileID, err := s.blobs.Save(fileHeader.Filename, src)
	if err != nil {
		return model.Document{}, fmt.Errorf("file upload failed: %w", err)
	}

	status := model.StatusDraft
	if len(signers) > 0 {
		status = model.StatusAwaitingSignatures
	}

	doc := model.Document{
		ID:            uuid.New(),
		Title:         title,
		Status:        status,
		Owner:         user.Email,
		OwnerID:       user.ID,
		Signers:       signers,
		FileID:        fileID,
		SigningFields: []model.SigningField{},
		UpdatedAt:     time.Now(),
	}

	if err := s.docRepo.SaveDocument(ctx, doc); err != nil {
		s.blobs.Delete(fileID) // Файл уже записан - подчищаем
		return model.Document{}, fmt.Errorf("failed to create document: %w", err)
	}

	go s.cache.InvalidateDocumentLists(context.Background()) // Не блокируем основной поток

	return doc, nil
}

// materializeSigners нормализует получателей в структурные записи
// подписантов: email обязателен и уникален, имя по умолчанию -
// локальная часть email.
func materializeSigners(recipients []model.Recipient) ([]model.Signer, error) {
	signers := make([]model.Signer, 0, len(recipients))
	seen := make(map[string]bool)
	for _, r := range recipients {
		email := strings.ToLower(strings.TrimSpace(r.Email))
		if email == "" {
			return nil, errors.New("recipient email is required")
		}
		if seen[email] {
			continue
		}
		seen[email] = true
		signers = append(signers, model.Signer{
			Email:  email,
			Name:   model.Recipient{Email: email, Name: r.Name}.DisplayName(),
			Status: model.SignerPending,
		})
	}
	return signers, nil
}

func (s *Service) GetDocument(ctx context.Context, tokenString, docIDStr string) (model.Document, error) {
	user, err := s.UserFromToken(ctx, tokenString)
	if err != nil {
		return model.Document{}, errors.New("unauthorized")
	}

	docID, err := uuid.Parse(docIDStr)
	if err != nil {
		return model.Document{}, errors.New("invalid document ID")
	}

	cacheKey := "docitem:" + docIDStr

	// Пытаемся получить из кэша
	if cachedData, err := s.cache.GetDocumentItem(ctx, cacheKey); err == nil {
		var doc model.Document
		if json.Unmarshal(cachedData, &doc) == nil {
			if err := checkViewAccess(&doc, user.Email); err != nil {
				return model.Document{}, err
			}
			return doc, nil
		}
	}

	doc, err := s.docRepo.GetDocument(ctx, docID)
	if err != nil {
		return model.Document{}, errors.New("document not found")
	}
	if err := checkViewAccess(&doc, user.Email); err != nil {
		return model.Document{}, err
	}

	if data, err := json.Marshal(doc); err == nil {
		go s.cache.SetDocumentItem(context.Background(), cacheKey, data) // Не блокируем
	}

	return doc, nil
}

func (s *Service) ListDocuments(ctx context.Context, tokenString string, limit int) ([]model.Document, error) {
	user, err := s.UserFromToken(ctx, tokenString)
	if err != nil {
		return nil, errors.New("unauthorized")
	}

	cacheKey := fmt.Sprintf("doclist:%s:%d", user.ID.String(), limit)

	if cachedData, err := s.cache.GetDocumentList(ctx, cacheKey); err == nil {
		var docs []model.Document
		if json.Unmarshal(cachedData, &docs) == nil {
			return docs, nil
		}
	}

	docs, err := s.docRepo.ListDocuments(ctx, user.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}

	if data, err := json.Marshal(docs); err == nil {
		go s.cache.SetDocumentList(context.Background(), cacheKey, data)
	}

	return docs, nil
}

func (s *Service) DeleteDocument(ctx context.Context, tokenString, docIDStr string) error {
	doc, _, err := s.loadOwnedDocument(ctx, tokenString, docIDStr)
	if err != nil {
		return err
	}

	s.blobs.Delete(doc.FileID)

	if err := s.docRepo.DeleteDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	s.invalidateDocument(doc.ID)
	return nil
}

// --- Подписание ---

// SignField подписывает поле и фиксирует агрегат. Мутация выполняется
// движком жизненного цикла поверх свежей копии из хранилища (кэш для
// мутаций не используется), запись - после каждой мутации.
func (s *Service) SignField(ctx context.Context, tokenString, docIDStr, fieldIDStr, signatureImage string) (model.Document, error) {
	user, doc, err := s.loadForUpdate(ctx, tokenString, docIDStr)
	if err != nil {
		return model.Document{}, err
	}
	fieldID, err := uuid.Parse(fieldIDStr)
	if err != nil {
		return model.Document{}, lifecycle.ErrFieldNotFound
	}
	if signatureImage == "" {
		return model.Document{}, errors.New("signature image is required")
	}

	if err := s.engine.SignField(&doc, fieldID, user.Email, signatureImage); err != nil {
		return model.Document{}, err
	}
	return s.persist(ctx, doc)
}

// SignDocument - подпись документа целиком (для документов без полей).
func (s *Service) SignDocument(ctx context.Context, tokenString, docIDStr string) (model.Document, error) {
	user, doc, err := s.loadForUpdate(ctx, tokenString, docIDStr)
	if err != nil {
		return model.Document{}, err
	}

	if err := s.engine.SignDocument(&doc, user.Email); err != nil {
		return model.Document{}, err
	}
	return s.persist(ctx, doc)
}

func (s *Service) RevokeSignature(ctx context.Context, tokenString, docIDStr, fieldIDStr string) (model.Document, error) {
	user, doc, err := s.loadForUpdate(ctx, tokenString, docIDStr)
	if err != nil {
		return model.Document{}, err
	}
	fieldID, err := uuid.Parse(fieldIDStr)
	if err != nil {
		return model.Document{}, lifecycle.ErrFieldNotFound
	}

	if err := s.engine.RevokeSignature(&doc, fieldID, user.Email); err != nil {
		return model.Document{}, err
	}
	return s.persist(ctx, doc)
}

// --- Поля подписи ---

// PlaceField добавляет поле. Запрос с масштабом трактуется как
// drag-and-drop по точке сброса; без масштаба - как кнопка "Add Field"
// с фиксированной позицией.
func (s *Service) PlaceField(ctx context.Context, tokenString, docIDStr string, req model.PlaceFieldRequest) (model.Document, error) {
	doc, _, err := s.loadOwnedDocument(ctx, tokenString, docIDStr)
	if err != nil {
		return model.Document{}, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	var field model.SigningField
	if req.Scale > 0 {
		scale := geometry.ClampScale(req.Scale)
		field, err = geometry.PlaceField(doc.SigningFields, page,
			geometry.Point{X: req.DropX, Y: req.DropY}, scale,
			geometry.Size{Width: req.PageWidth, Height: req.PageHeight})
	} else {
		field, err = geometry.AddField(doc.SigningFields, page,
			geometry.Size{Width: req.PageWidth, Height: req.PageHeight})
	}
	if err != nil {
		return model.Document{}, err
	}

	doc.SigningFields = append(doc.SigningFields, field)
	doc.UpdatedAt = time.Now()
	return s.persist(ctx, doc)
}

// UpdateField - перемещение или изменение размера поля. Каждый вызов -
// завершённая мутация с прижатыми границами (персистим сразу, фазы
// предпросмотра нет). Подписанное поле неизменяемо до отзыва подписи.
func (s *Service) UpdateField(ctx context.Context, tokenString, docIDStr, fieldIDStr string, req model.UpdateFieldRequest) (model.Document, error) {
	doc, _, err := s.loadOwnedDocument(ctx, tokenString, docIDStr)
	if err != nil {
		return model.Document{}, err
	}

	fieldID, err := uuid.Parse(fieldIDStr)
	if err != nil {
		return model.Document{}, lifecycle.ErrFieldNotFound
	}
	field := doc.FindField(fieldID)
	if field == nil {
		return model.Document{}, lifecycle.ErrFieldNotFound
	}
	if field.IsSigned() {
		return model.Document{}, lifecycle.ErrAlreadySigned
	}
	if req.PageWidth <= 0 || req.PageHeight <= 0 {
		return model.Document{}, errors.New("invalid page dimensions")
	}

	scale := geometry.ClampScale(req.Scale)
	pageDoc := geometry.Size{Width: req.PageWidth, Height: req.PageHeight}

	switch req.Op {
	case "move":
		*field = geometry.MoveField(*field, geometry.Point{X: req.DeltaX, Y: req.DeltaY}, scale, pageDoc)
	case "resize":
		*field = geometry.ResizeField(*field, geometry.Point{X: req.PointerX, Y: req.PointerY}, scale, pageDoc)
	default:
		return model.Document{}, errors.New("invalid field operation: expected move or resize")
	}

	doc.UpdatedAt = time.Now()
	return s.persist(ctx, doc)
}

// DeleteField удаляет поле по id. Подписанное поле удаляется вместе с
// подписью - осознанное решение, а не ошибка.
func (s *Service) DeleteField(ctx context.Context, tokenString, docIDStr, fieldIDStr string) (model.Document, error) {
	doc, _, err := s.loadOwnedDocument(ctx, tokenString, docIDStr)
	if err != nil {
		return model.Document{}, err
	}

	fieldID, err := uuid.Parse(fieldIDStr)
	if err != nil {
		return model.Document{}, lifecycle.ErrFieldNotFound
	}
	if doc.FindField(fieldID) == nil {
		return model.Document{}, lifecycle.ErrFieldNotFound
	}

	doc.SigningFields = geometry.DeleteField(doc.SigningFields, fieldID)
	lifecycle.RecomputeStatus(&doc) // Удаление могло закрыть последнее неподписанное поле
	doc.UpdatedAt = time.Now()
	return s.persist(ctx, doc)
}

// --- Share и download ---

// ShareLink строит ссылки для совместного доступа: простую и с
// токеном. Токен - непрозрачная capability, срок и права проверяет
// слой представления, не движок.
func (s *Service) ShareLink(ctx context.Context, tokenString, docIDStr string) (map[string]string, error) {
	doc, err := s.GetDocument(ctx, tokenString, docIDStr)
	if err != nil {
		return nil, err
	}

	base := s.baseURL + "/document/" + doc.ID.String()
	return map[string]string{
		"url":      base + "?share=true",
		"tokenUrl": base + "?token=share_" + doc.ID.String() + "_" + strconv.FormatInt(time.Now().UnixMilli(), 10),
	}, nil
}

// FileURL отдаёт blob документа как data URL; отсутствующий blob
// заменяется образцом (рендер не падает).
func (s *Service) FileURL(ctx context.Context, tokenString, docIDStr string) (string, error) {
	doc, err := s.GetDocument(ctx, tokenString, docIDStr)
	if err != nil {
		return "", err
	}
	return s.blobs.Load(doc.FileID)
}

// Download возвращает имя файла и содержимое для скачивания.
func (s *Service) Download(ctx context.Context, tokenString, docIDStr string) (string, []byte, error) {
	doc, err := s.GetDocument(ctx, tokenString, docIDStr)
	if err != nil {
		return "", nil, err
	}

	content, err := s.blobs.Raw(doc.FileID)
	if err != nil {
		return "", nil, err
	}
	return doc.Title + ".pdf", embedSignatures(content, doc.SigningFields), nil
}

// embedSignatures - осознанный passthrough: настоящая вклейка картинок
// подписи в бинарный формат требует PDF-библиотеки и остаётся за
// пределами ядра. Возвращаем blob как есть.
func embedSignatures(content []byte, _ []model.SigningField) []byte {
	return content
}

// --- Вспомогательные ---

func checkViewAccess(doc *model.Document, email string) error {
	if doc.Owner == email {
		return nil
	}
	if doc.FindSigner(email) != nil {
		return nil
	}
	return errors.New("access denied")
}

// loadForUpdate загружает свежий агрегат из хранилища для мутации.
// Кэш здесь не используется: источник истины для мутаций - хранилище.
func (s *Service) loadForUpdate(ctx context.Context, tokenString, docIDStr string) (model.User, model.Document, error) {
	user, err := s.UserFromToken(ctx, tokenString)
	if err != nil {
		return model.User{}, model.Document{}, errors.New("unauthorized")
	}

	docID, err := uuid.Parse(docIDStr)
	if err != nil {
		return model.User{}, model.Document{}, errors.New("invalid document ID")
	}

	doc, err := s.docRepo.GetDocument(ctx, docID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, model.Document{}, errors.New("document not found")
	}
	if err != nil {
		return model.User{}, model.Document{}, fmt.Errorf("failed to load document: %w", err)
	}
	return user, doc, nil
}

// loadOwnedDocument - как loadForUpdate, но операция доступна только
// владельцу (удаление документа, редактирование раскладки полей).
func (s *Service) loadOwnedDocument(ctx context.Context, tokenString, docIDStr string) (model.Document, model.User, error) {
	user, doc, err := s.loadForUpdate(ctx, tokenString, docIDStr)
	if err != nil {
		return model.Document{}, model.User{}, err
	}
	if doc.Owner != user.Email {
		return model.Document{}, model.User{}, errors.New("access denied")
	}
	return doc, user, nil
}

// persist записывает агрегат и сбрасывает кэш. Запись после каждой
// мутации; инвалидация кэша не блокирует основной поток.
func (s *Service) persist(ctx context.Context, doc model.Document) (model.Document, error) {
	if err := s.docRepo.SaveDocument(ctx, doc); err != nil {
		return model.Document{}, fmt.Errorf("failed to save document: %w", err)
	}
	s.invalidateDocument(doc.ID)
	return doc, nil
}

func (s *Service) invalidateDocument(docID uuid.UUID) {
	go s.cache.InvalidateDocumentLists(context.Background())
	go s.cache.InvalidateDocumentItem(context.Background(), "docitem:"+docID.String())
}
