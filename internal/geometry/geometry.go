// Package geometry - модель геометрии полей подписи: размещение,
// перетаскивание, изменение размера и пересчёт координат между
// view-space (пиксели на экране при текущем масштабе) и document-space
// (нативные единицы страницы). Персистентные данные всегда в
// document-space; дельты указателя делятся на масштаб до мутации.
package geometry

import (
	"errors"

	"housesign-server/internal/model"

	"github.com/google/uuid"
)

const (
	// MaxFields - лимит полей подписи на документ.
	MaxFields = 5

	// Размер поля по умолчанию при создании.
	DefaultWidth  = 200.0
	DefaultHeight = 50.0

	// Минимальный размер при изменении размера перетаскиванием.
	MinWidth  = 100.0
	MinHeight = 40.0

	// Границы масштаба просмотра.
	MinScale  = 0.5
	MaxScale  = 2.0
	ScaleStep = 0.1
)

var ErrFieldLimit = errors.New("maximum signing fields reached")

// Point - точка; пространство координат определяется контекстом.
type Point struct {
	X float64
	Y float64
}

// Size - размеры страницы; пространство координат определяется
// контекстом.
type Size struct {
	Width  float64
	Height float64
}

// ToDocSpace переводит view-space координаты в document-space.
func ToDocSpace(p Point, scale float64) Point {
	return Point{X: p.X / scale, Y: p.Y / scale}
}

// ClampScale прижимает масштаб к допустимым границам просмотра.
func ClampScale(scale float64) float64 {
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}

// PlaceField создаёт поле по точке сброса (drag-and-drop): точка
// конвертируется в document-space и становится центром поля размера по
// умолчанию. Границы прижимаются к странице. При достижении лимита
// полей - отказ, набор не усекается.
func PlaceField(fields []model.SigningField, page int, drop Point, scale float64, pageView Size) (model.SigningField, error) {
	if len(fields) >= MaxFields {
		return model.SigningField{}, ErrFieldLimit
	}

	center := ToDocSpace(drop, scale)
	pageDoc := Size{Width: pageView.Width / scale, Height: pageView.Height / scale}

	field := model.SigningField{
		ID:     uuid.New(),
		Page:   page,
		X:      center.X - DefaultWidth/2,
		Y:      center.Y - DefaultHeight/2,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
	field.X = clampCoord(field.X, pageDoc.Width, field.Width)
	field.Y = clampCoord(field.Y, pageDoc.Height, field.Height)
	return field, nil
}

// AddField - альтернативный путь создания (кнопка в редакторе):
// фиксированная позиция без привязки к точке указателя. Размеры
// страницы (document-space) опциональны; если заданы, поле прижимается
// к странице так же, как при сбросе.
func AddField(fields []model.SigningField, page int, pageDoc Size) (model.SigningField, error) {
	if len(fields) >= MaxFields {
		return model.SigningField{}, ErrFieldLimit
	}
	field := model.SigningField{
		ID:     uuid.New(),
		Page:   page,
		X:      100,
		Y:      100,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
	if pageDoc.Width > 0 {
		field.X = clampCoord(field.X, pageDoc.Width, field.Width)
	}
	if pageDoc.Height > 0 {
		field.Y = clampCoord(field.Y, pageDoc.Height, field.Height)
	}
	return field, nil
}

// MoveField смещает поле на дельту указателя (view-space), дельта
// делится на масштаб. Позиция прижимается так, чтобы поле целиком
// оставалось на странице: 0 <= x <= pageW - w, 0 <= y <= pageH - h.
func MoveField(field model.SigningField, delta Point, scale float64, pageDoc Size) model.SigningField {
	field.X = clampCoord(field.X+delta.X/scale, pageDoc.Width, field.Width)
	field.Y = clampCoord(field.Y+delta.Y/scale, pageDoc.Height, field.Height)
	return field
}

// ResizeField пересчитывает размер по позиции указателя (view-space).
// Сначала минимальный размер, затем прижатие к краю страницы - край
// имеет приоритет, поле никогда не выходит за страницу. Отрицательный
// размер невозможен даже при вырожденных размерах страницы.
func ResizeField(field model.SigningField, pointer Point, scale float64, pageDoc Size) model.SigningField {
	w := (pointer.X - field.X*scale) / scale
	if w < MinWidth {
		w = MinWidth
	}
	if field.X+w > pageDoc.Width {
		w = pageDoc.Width - field.X
	}
	if w < 0 {
		w = 0
	}

	h := (pointer.Y - field.Y*scale) / scale
	if h < MinHeight {
		h = MinHeight
	}
	if field.Y+h > pageDoc.Height {
		h = pageDoc.Height - field.Y
	}
	if h < 0 {
		h = 0
	}

	field.Width = w
	field.Height = h
	return field
}

// DeleteField удаляет поле по id. Подписанное поле удалить можно -
// подпись уничтожается вместе с полем, это ожидаемое поведение.
func DeleteField(fields []model.SigningField, id uuid.UUID) []model.SigningField {
	out := fields[:0]
	for _, f := range fields {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}

// clampCoord прижимает координату в [0, page - size]. Если поле шире
// страницы, прижимаем к нулю.
func clampCoord(v, page, size float64) float64 {
	max := page - size
	if v > max {
		v = max
	}
	if v < 0 {
		v = 0
	}
	return v
}
