package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"housesign-server/internal/geometry"
	"housesign-server/internal/lifecycle"
	"housesign-server/internal/middleware"
	"housesign-server/internal/model"
	"housesign-server/internal/service"
)

type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func NewHandler(s *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

// respondError переводит ошибку сервиса/движка в HTTP статус. Ядро
// отдаёт sentinel-ошибки - их проверяем через errors.Is, остальное
// сопоставляем по тексту.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, lifecycle.ErrAlreadySigned):
		status = http.StatusConflict
	case errors.Is(err, lifecycle.ErrNotAuthorized),
		errors.Is(err, lifecycle.ErrRevokeNotSigner),
		errors.Is(err, lifecycle.ErrRevocationExpired):
		status = http.StatusForbidden
	case errors.Is(err, lifecycle.ErrFieldNotFound):
		status = http.StatusNotFound
	case errors.Is(err, lifecycle.ErrNotSigned),
		errors.Is(err, lifecycle.ErrHasFields),
		errors.Is(err, geometry.ErrFieldLimit):
		status = http.StatusBadRequest
	case err.Error() == "unauthorized":
		status = http.StatusUnauthorized
	case err.Error() == "access denied":
		status = http.StatusForbidden
	case err.Error() == "document not found" || err.Error() == "invalid document ID":
		status = http.StatusNotFound
	case strings.Contains(err.Error(), "required") ||
		strings.Contains(err.Error(), "invalid") ||
		strings.Contains(err.Error(), "too large") ||
		strings.Contains(err.Error(), "at least") ||
		strings.Contains(err.Error(), "already registered"):
		status = http.StatusBadRequest
	}
	middleware.WriteJSONResponse(w, middleware.Response{Error: &middleware.ErrorResponse{Code: status, Text: err.Error()}}, status)
}

func badRequest(w http.ResponseWriter, text string) {
	middleware.WriteJSONResponse(w, middleware.Response{Error: &middleware.ErrorResponse{Code: 400, Text: text}}, http.StatusBadRequest)
}

// Signup godoc
// @Summary Регистрация нового пользователя
// @Description Создание аккаунта по email, паролю и имени.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body map[string]string true "Данные для регистрации"
// @Success 200 {object} middleware.Response
// @Failure 400 {object} middleware.Response
// @Router /api/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid JSON")
		return
	}

	if err := h.service.Signup(r.Context(), req.Email, req.Password, req.Name); err != nil {
		respondError(w, err)
		return
	}

	middleware.WriteJSONResponse(w, middleware.Response{Response: map[string]string{"email": strings.ToLower(req.Email)}}, http.StatusOK)
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Получение JWT токена по email и паролю.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body map[string]string true "Учетные данные"
// @Success 200 {object} middleware.Response
// @Failure 400 {object} middleware.Response
// @Failure 401 {object} middleware.Response
// @Router /api/auth [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		badRequest(w, "Missing email or password")
		return
	}

	tokenString, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.WriteJSONResponse(w, middleware.Response{Error: &middleware.ErrorResponse{Code: 401, Text: "Invalid email or password"}}, http.StatusUnauthorized)
		return
	}

	middleware.WriteJSONResponse(w, middleware.Response{Response: map[string]string{"token": tokenString}}, http.StatusOK)
}

// Logout godoc
// @Summary Завершение сессии
// @Description Помечает токен недействительным (блэклист до истечения срока).
// @Tags auth
// @Produce json
// @Success 200 {object} middleware.Response
// @Failure 401 {object} middleware.Response
// @Router /api/auth [delete]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	if err := h.service.Logout(r.Context(), token); err != nil {
		middleware.WriteJSONResponse(w, middleware.Response{Error: &middleware.ErrorResponse{Code: 401, Text: err.Error()}}, http.StatusUnauthorized)
		return
	}
	middleware.WriteJSONResponse(w, middleware.Response{Response: map[string]bool{"logout": true}}, http.StatusOK)
}

// CreateDocument godoc
// @Summary Загрузка нового документа
// @Description Загрузка документа (PDF/DOC/DOCX до 10 МБ) с метаданными: заголовок и получатели. С получателями документ сразу уходит в awaiting_signatures, без них остаётся черновиком.
// @Tags documents
// @Accept mpfd
// @Produce json
// @Param meta formData string true "Метаданные документа в формате JSON"
// @Param file formData file true "Файл документа"
// @Success 200 {object} middleware.Response
// @Failure 400 {object} middleware.Response
// @Failure 401 {object} middleware.Response
// @Router /api/docs [post]
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32 MB max memory
		badRequest(w, "Failed to parse multipart form")
		return
	}

	metaStr := r.FormValue("meta")
	if metaStr == "" {
		badRequest(w, "Missing meta field")
		return
	}

	var meta model.CreateDocumentRequest
	if err := json.Unmarshal([]byte(metaStr), &meta); err != nil {
		badRequest(w, "Invalid meta JSON")
		return
	}

	var fileHeader *multipart.FileHeader
	file, fileHeaderTmp, _ := r.FormFile("file")
	if file != nil {
		defer file.Close()
		fileHeader = fileHeaderTmp
	}

	doc, err := h.service.CreateDocument(r.Context(), middleware.TokenFromContext(r.Context()), meta, fileHeader)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.WriteJSONResponse(w, middleware.Response{Data: doc}, http.StatusOK)
}

// ListDocuments godoc
// @Summary Список документов пользователя
// @Description Документы текущего пользователя, по убыванию времени изменения.
// @Tags documents
// @Produce json
// @Param limit query int false "Лимит количества документов (по умолчанию 100)"
// @Success 200 {object} middleware.Response
// @Failure 401 {object} middleware.Response
// @Router /api/docs [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	limit := 100 // Значение по умолчанию
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 1000 {
			limit = 100
		}
	}

	docs, err := h.service.ListDocuments(r.Context(), middleware.TokenFromContext(r.Context()), limit)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.WriteJSONResponse(w, middleware.Response{Data: map[string]interface{}{"docs": docs}}, http.StatusOK)
}
