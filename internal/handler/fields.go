package handler

import (
	"encoding/json"
	"net/http"

	"housesign-server/internal/middleware"
	"housesign-server/internal/model"

	"github.com/go-chi/chi/v5"
)

// PlaceField godoc
// @Summary Размещение поля подписи
// @Description Создаёт поле подписи. С координатами сброса - поле центрируется по точке; без них - позиция по умолчанию. Не более 5 полей на документ.
// @Tags fields
// @Accept json
// @Produce json
// @Param id path string true "ID документа"
// @Param input body model.PlaceFieldRequest true "Параметры размещения"
// @Success 200 {object} middleware.Response
// @Failure 400 {object} middleware.Response
// @Failure 401 {object} middleware.Response
// @Failure 403 {object} middleware.Response
// @Router /api/docs/{id}/fields [post]
func (h *Handler) PlaceField(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")

	var req model.PlaceFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request payload")
		return
	}

	doc, err := h.service.PlaceField(r.Context(), middleware.TokenFromContext(r.Context()), docID, req)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.WriteJSONResponse(w, middleware.Response{Data: doc}, http.StatusOK)
}

// UpdateField godoc
// @Summary Перемещение или изменение размера поля
// @Description Применяет одну операцию move или resize к полю. Координаты остаются в пределах страницы, размер не меньше минимального.
// @Tags fields
// @Accept json
// @Produce json
// @Param id path string true "ID документа"
// @Param fid path string true "ID поля"
// @Param input body model.UpdateFieldRequest true "Операция над полем"
// @Success 200 {object} middleware.Response
// @Failure 400 {object} middleware.Response
// @Failure 401 {object} middleware.Response
// @Failure 404 {object} middleware.Response
// @Failure 409 {object} middleware.Response
// @Router /api/docs/{id}/fields/{fid} [patch]
func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")
	fieldID := chi.URLParam(r, "fid")

	var req model.UpdateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request payload")
		return
	}

	doc, err := h.service.UpdateField(r.Context(), middleware.TokenFromContext(r.Context()), docID, fieldID, req)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.WriteJSONResponse(w, middleware.Response{Data: doc}, http.StatusOK)
}

// DeleteField godoc
// @Summary Удаление поля подписи
// @Description Удаляет поле по ID. Подписанные поля тоже удаляются, статус документа пересчитывается.
// @Tags fields
// @Produce json
// @Param id path string true "ID документа"
// @Param fid path string true "ID поля"
// @Success 200 {object} middleware.Response
// @Failure 401 {object} middleware.Response
// @Failure 404 {object} middleware.Response
// @Router /api/docs/{id}/fields/{fid} [delete]
func (h *Handler) DeleteField(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")
	fieldID := chi.URLParam(r, "fid")

	doc, err := h.service.DeleteField(r.Context(), middleware.TokenFromContext(r.Context()), docID, fieldID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.WriteJSONResponse(w, middleware.Response{Data: doc}, http.StatusOK)
}

// SignField godoc
// @Summary Подписание поля
// @Description Записывает подпись в поле от имени текущего пользователя. Владелец без поля в списке подписантов добавляется в него автоматически.
// @Tags signing
// @Accept json
// @Produce json
// @Param id path string true "ID документа"
// @Param fid path string true "ID поля"
// @Param input body model.SignFieldRequest true "Изображение подписи (data URL)"
// @Success 200 {object} middleware.Response
// @Failure 400 {object} middleware.Response
// @Failure 401 {object} middleware.Response
// @Failure 403 {object} middleware.Response
// @Failure 404 {object} middleware.Response
// @Failure 409 {object} middleware.Response
// @Router /api/docs/{id}/fields/{fid}/sign [post]
func (h *Handler) SignField(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")
	fieldID := chi.URLParam(r, "fid")

	var req model.SignFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request payload")
		return
	}

	doc, err := h.service.SignField(r.Context(), middleware.TokenFromContext(r.Context()), docID, fieldID, req.SignatureImageData)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.WriteJSONResponse(w, middleware.Response{Data: doc}, http.StatusOK)
}

// SignDocument godoc
// @Summary Подписание документа целиком
// @Description Подписание без полей: отмечает текущего пользователя подписавшим. Для документов с полями недоступно.
// @Tags signing
// @Produce json
// @Param id path string true "ID документа"
// @Success 200 {object} middleware.Response
// @Failure 400 {object} middleware.Response
// @Failure 401 {object} middleware.Response
// @Failure 403 {object} middleware.Response
// @Router /api/docs/{id}/sign [post]
func (h *Handler) SignDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")

	doc, err := h.service.SignDocument(r.Context(), middleware.TokenFromContext(r.Context()), docID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.WriteJSONResponse(w, middleware.Response{Data: doc}, http.StatusOK)
}

// RevokeSignature godoc
// @Summary Отзыв подписи
// @Description Отзыв собственной подписи из поля в течение 5 минут после подписания.
// @Tags signing
// @Produce json
// @Param id path string true "ID документа"
// @Param fid path string true "ID поля"
// @Success 200 {object} middleware.Response
// @Failure 401 {object} middleware.Response
// @Failure 403 {object} middleware.Response
// @Failure 404 {object} middleware.Response
// @Router /api/docs/{id}/fields/{fid}/revoke [post]
func (h *Handler) RevokeSignature(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")
	fieldID := chi.URLParam(r, "fid")

	doc, err := h.service.RevokeSignature(r.Context(), middleware.TokenFromContext(r.Context()), docID, fieldID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.WriteJSONResponse(w, middleware.Response{Data: doc}, http.StatusOK)
}
