package geometry

import (
	"errors"

	"housesign-server/internal/model"
)

// Состояние взаимодействия с полем: idle -> dragging -> idle,
// idle -> resizing -> idle. Каждое движение указателя - завершённая
// мутация с прижатыми границами, фазы "предпросмотр/фиксация" нет и
// отката промежуточных позиций тоже нет: на pointer-up остаётся
// последняя зафиксированная позиция.
type InteractionState int

const (
	StateIdle InteractionState = iota
	StateDragging
	StateResizing
)

var ErrInteractionBusy = errors.New("interaction already in progress")

// Interaction - машина состояний перетаскивания одного поля.
type Interaction struct {
	state InteractionState
	last  Point // последняя позиция указателя, view-space
}

func (in *Interaction) State() InteractionState {
	return in.state
}

// BeginDrag входит в dragging по pointer-down на теле поля.
func (in *Interaction) BeginDrag(at Point) error {
	if in.state != StateIdle {
		return ErrInteractionBusy
	}
	in.state = StateDragging
	in.last = at
	return nil
}

// BeginResize входит в resizing по pointer-down на ручке изменения
// размера.
func (in *Interaction) BeginResize(at Point) error {
	if in.state != StateIdle {
		return ErrInteractionBusy
	}
	in.state = StateResizing
	in.last = at
	return nil
}

// Move обрабатывает движение указателя. В idle поле не меняется.
func (in *Interaction) Move(field model.SigningField, at Point, scale float64, pageDoc Size) model.SigningField {
	switch in.state {
	case StateDragging:
		delta := Point{X: at.X - in.last.X, Y: at.Y - in.last.Y}
		in.last = at
		return MoveField(field, delta, scale, pageDoc)
	case StateResizing:
		in.last = at
		return ResizeField(field, at, scale, pageDoc)
	default:
		return field
	}
}

// End завершает взаимодействие по pointer-up в любом месте.
func (in *Interaction) End() {
	in.state = StateIdle
}
