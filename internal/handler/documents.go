package handler

import (
	"net/http"

	"housesign-server/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// GetDocument godoc
// @Summary Получение документа
// @Description Агрегат документа: статус, подписанты, поля подписи. Доступно владельцу и подписантам.
// @Tags documents
// @Produce json
// @Param id path string true "ID документа"
// @Success 200 {object} middleware.Response
// @Failure 401 {object} middleware.Response
// @Failure 403 {object} middleware.Response
// @Failure 404 {object} middleware.Response
// @Router /api/docs/{id} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")
	if docID == "" {
		badRequest(w, "Missing document ID")
		return
	}

	doc, err := h.service.GetDocument(r.Context(), middleware.TokenFromContext(r.Context()), docID)
	if err != nil {
		respondError(w, err)
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	middleware.WriteJSONResponse(w, middleware.Response{Data: doc}, http.StatusOK)
}

// DeleteDocument godoc
// @Summary Удаление документа
// @Description Удаление документа по ID вместе с blob. Доступно только владельцу.
// @Tags documents
// @Produce json
// @Param id path string true "ID документа"
// @Success 200 {object} middleware.Response
// @Failure 401 {object} middleware.Response
// @Failure 403 {object} middleware.Response
// @Failure 404 {object} middleware.Response
// @Router /api/docs/{id} [delete]
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")
	if docID == "" {
		badRequest(w, "Missing document ID")
		return
	}

	if err := h.service.DeleteDocument(r.Context(), middleware.TokenFromContext(r.Context()), docID); err != nil {
		respondError(w, err)
		return
	}

	middleware.WriteJSONResponse(w, middleware.Response{Response: map[string]bool{docID: true}}, http.StatusOK)
}

// GetDocumentFile godoc
// @Summary Файл документа
// @Description Blob документа как data URL. Отсутствующий blob заменяется образцом документа.
// @Tags documents
// @Produce json
// @Param id path string true "ID документа"
// @Success 200 {object} middleware.Response
// @Failure 401 {object} middleware.Response
// @Failure 404 {object} middleware.Response
// @Router /api/docs/{id}/file [get]
func (h *Handler) GetDocumentFile(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")

	dataURL, err := h.service.FileURL(r.Context(), middleware.TokenFromContext(r.Context()), docID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.WriteJSONResponse(w, middleware.Response{Data: map[string]string{"file": dataURL}}, http.StatusOK)
}

// DownloadDocument godoc
// @Summary Скачивание документа
// @Description Отдаёт PDF для скачивания. Вклейка подписей в бинарный формат не выполняется - возвращается исходный blob.
// @Tags documents
// @Produce application/pdf
// @Param id path string true "ID документа"
// @Success 200 {file} file
// @Failure 401 {object} middleware.Response
// @Failure 404 {object} middleware.Response
// @Router /api/docs/{id}/download [get]
func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")

	filename, content, err := h.service.Download(r.Context(), middleware.TokenFromContext(r.Context()), docID)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// ShareDocument godoc
// @Summary Ссылка для совместного доступа
// @Description Формирует share-ссылку и её вариант с токеном. Токен - непрозрачная capability, проверяется слоем представления.
// @Tags documents
// @Produce json
// @Param id path string true "ID документа"
// @Success 200 {object} middleware.Response
// @Failure 401 {object} middleware.Response
// @Failure 404 {object} middleware.Response
// @Router /api/docs/{id}/share [get]
func (h *Handler) ShareDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")

	links, err := h.service.ShareLink(r.Context(), middleware.TokenFromContext(r.Context()), docID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.WriteJSONResponse(w, middleware.Response{Data: links}, http.StatusOK)
}
