package geometry

import (
	"testing"

	"housesign-server/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func field(x, y, w, h float64) model.SigningField {
	return model.SigningField{ID: uuid.New(), Page: 1, X: x, Y: y, Width: w, Height: h}
}

// inBounds проверяет инвариант: поле целиком на странице.
func inBounds(t *testing.T, f model.SigningField, page Size) {
	t.Helper()
	assert.GreaterOrEqual(t, f.X, 0.0)
	assert.GreaterOrEqual(t, f.Y, 0.0)
	assert.LessOrEqual(t, f.X+f.Width, page.Width)
	assert.LessOrEqual(t, f.Y+f.Height, page.Height)
}

func TestPlaceField_CentersOnDropPoint(t *testing.T) {
	// Точка сброса (450, 300) в view-space при масштабе 1.5 на странице
	// 600x800 document-space: центр в doc-space (300, 200), поле 200x50
	// получает левый верхний угол (200, 175).
	f, err := PlaceField(nil, 1, Point{X: 450, Y: 300}, 1.5, Size{Width: 900, Height: 1200})
	require.NoError(t, err)

	assert.Equal(t, 200.0, f.X)
	assert.Equal(t, 175.0, f.Y)
	assert.Equal(t, DefaultWidth, f.Width)
	assert.Equal(t, DefaultHeight, f.Height)
	assert.Equal(t, 1, f.Page)
	inBounds(t, f, Size{Width: 600, Height: 800})
}

func TestPlaceField_ClampsToPage(t *testing.T) {
	// Сброс у самого края: поле прижимается внутрь страницы.
	f, err := PlaceField(nil, 1, Point{X: 0, Y: 0}, 1.0, Size{Width: 600, Height: 800})
	require.NoError(t, err)
	assert.Equal(t, 0.0, f.X)
	assert.Equal(t, 0.0, f.Y)

	f, err = PlaceField(nil, 1, Point{X: 600, Y: 800}, 1.0, Size{Width: 600, Height: 800})
	require.NoError(t, err)
	assert.Equal(t, 600.0-DefaultWidth, f.X)
	assert.Equal(t, 800.0-DefaultHeight, f.Y)
}

func TestPlaceField_Limit(t *testing.T) {
	fields := make([]model.SigningField, 0, MaxFields)
	for i := 0; i < MaxFields; i++ {
		f, err := PlaceField(fields, 1, Point{X: 300, Y: 300}, 1.0, Size{Width: 600, Height: 800})
		require.NoError(t, err)
		fields = append(fields, f)
	}

	_, err := PlaceField(fields, 1, Point{X: 300, Y: 300}, 1.0, Size{Width: 600, Height: 800})
	assert.ErrorIs(t, err, ErrFieldLimit)
	assert.Len(t, fields, MaxFields)

	_, err = AddField(fields, 1, Size{Width: 600, Height: 800})
	assert.ErrorIs(t, err, ErrFieldLimit)
}

func TestAddField_Defaults(t *testing.T) {
	f, err := AddField(nil, 3, Size{Width: 600, Height: 800})
	require.NoError(t, err)
	assert.Equal(t, 100.0, f.X)
	assert.Equal(t, 100.0, f.Y)
	assert.Equal(t, DefaultWidth, f.Width)
	assert.Equal(t, DefaultHeight, f.Height)
	assert.Equal(t, 3, f.Page)
	assert.Nil(t, f.SignedBy)
}

func TestAddField_ClampsToNarrowPage(t *testing.T) {
	page := Size{Width: 250, Height: 120}
	f, err := AddField(nil, 1, page)
	require.NoError(t, err)
	assert.Equal(t, 50.0, f.X)
	assert.Equal(t, 70.0, f.Y)
	inBounds(t, f, page)

	// Без размеров страницы остаётся позиция по умолчанию
	f, err = AddField(nil, 1, Size{})
	require.NoError(t, err)
	assert.Equal(t, 100.0, f.X)
	assert.Equal(t, 100.0, f.Y)
}

func TestMoveField(t *testing.T) {
	page := Size{Width: 600, Height: 800}

	t.Run("дельта делится на масштаб", func(t *testing.T) {
		f := MoveField(field(100, 100, 200, 50), Point{X: 30, Y: -15}, 1.5, page)
		assert.Equal(t, 120.0, f.X)
		assert.Equal(t, 90.0, f.Y)
	})

	t.Run("прижатие к левому верхнему краю", func(t *testing.T) {
		f := MoveField(field(10, 10, 200, 50), Point{X: -500, Y: -500}, 1.0, page)
		assert.Equal(t, 0.0, f.X)
		assert.Equal(t, 0.0, f.Y)
	})

	t.Run("прижатие к правому нижнему краю", func(t *testing.T) {
		f := MoveField(field(300, 300, 200, 50), Point{X: 5000, Y: 5000}, 1.0, page)
		assert.Equal(t, 400.0, f.X)
		assert.Equal(t, 750.0, f.Y)
	})
}

func TestMoveResize_SequencePreservesBounds(t *testing.T) {
	// Произвольная последовательность move/resize не должна выводить
	// поле за пределы страницы.
	page := Size{Width: 600, Height: 800}
	f := field(100, 100, 200, 50)

	moves := []Point{{X: 250, Y: 400}, {X: -900, Y: -900}, {X: 37, Y: 11}, {X: 10000, Y: 3}}
	pointers := []Point{{X: 599, Y: 799}, {X: 0, Y: 0}, {X: 450, Y: 300}}

	for _, d := range moves {
		f = MoveField(f, d, 1.25, page)
		inBounds(t, f, page)
	}
	for _, p := range pointers {
		f = ResizeField(f, p, 1.25, page)
		inBounds(t, f, page)
	}
}

func TestResizeField(t *testing.T) {
	page := Size{Width: 600, Height: 800}

	t.Run("размер по позиции указателя", func(t *testing.T) {
		f := ResizeField(field(100, 100, 200, 50), Point{X: 450, Y: 300}, 1.5, page)
		// (450 - 100*1.5)/1.5 = 200; (300 - 100*1.5)/1.5 = 100
		assert.Equal(t, 200.0, f.Width)
		assert.Equal(t, 100.0, f.Height)
	})

	t.Run("минимальный размер", func(t *testing.T) {
		f := ResizeField(field(100, 100, 200, 50), Point{X: 101, Y: 101}, 1.0, page)
		assert.Equal(t, MinWidth, f.Width)
		assert.Equal(t, MinHeight, f.Height)
	})

	t.Run("вырожденная страница не даёт отрицательный размер", func(t *testing.T) {
		f := ResizeField(field(100, 100, 200, 50), Point{X: 400, Y: 200}, 1.0, Size{})
		assert.Equal(t, 0.0, f.Width)
		assert.Equal(t, 0.0, f.Height)
	})

	t.Run("прижатие к краю страницы", func(t *testing.T) {
		f := ResizeField(field(550, 770, 200, 50), Point{X: 10000, Y: 10000}, 1.0, page)
		assert.Equal(t, 50.0, f.Width)
		assert.Equal(t, 30.0, f.Height)
		inBounds(t, f, page)
	})
}

func TestDeleteField(t *testing.T) {
	a := field(0, 0, 200, 50)
	b := field(100, 100, 200, 50)
	by := "a@x.com"
	b.SignedBy = &by // подписанные поля тоже удаляются

	fields := DeleteField([]model.SigningField{a, b}, b.ID)
	require.Len(t, fields, 1)
	assert.Equal(t, a.ID, fields[0].ID)

	// Удаление несуществующего id - no-op.
	fields = DeleteField(fields, uuid.New())
	assert.Len(t, fields, 1)
}

func TestClampScale(t *testing.T) {
	assert.Equal(t, MinScale, ClampScale(0.1))
	assert.Equal(t, MaxScale, ClampScale(3.0))
	assert.Equal(t, 1.3, ClampScale(1.3))
}

func TestInteraction_DragCycle(t *testing.T) {
	page := Size{Width: 600, Height: 800}
	f := field(100, 100, 200, 50)

	var in Interaction
	require.Equal(t, StateIdle, in.State())

	// В idle движение указателя поле не меняет.
	unchanged := in.Move(f, Point{X: 500, Y: 500}, 1.0, page)
	assert.Equal(t, f, unchanged)

	require.NoError(t, in.BeginDrag(Point{X: 150, Y: 120}))
	assert.Equal(t, StateDragging, in.State())
	assert.ErrorIs(t, in.BeginResize(Point{}), ErrInteractionBusy)

	// Каждое движение - зафиксированная мутация.
	f = in.Move(f, Point{X: 170, Y: 140}, 1.0, page)
	assert.Equal(t, 120.0, f.X)
	assert.Equal(t, 120.0, f.Y)
	f = in.Move(f, Point{X: 180, Y: 150}, 1.0, page)
	assert.Equal(t, 130.0, f.X)

	in.End()
	assert.Equal(t, StateIdle, in.State())
	// Отката нет: остаётся последняя позиция.
	assert.Equal(t, 130.0, f.X)
}

func TestInteraction_ResizeCycle(t *testing.T) {
	page := Size{Width: 600, Height: 800}
	f := field(100, 100, 200, 50)

	var in Interaction
	require.NoError(t, in.BeginResize(Point{X: 300, Y: 150}))
	assert.Equal(t, StateResizing, in.State())

	f = in.Move(f, Point{X: 400, Y: 200}, 1.0, page)
	assert.Equal(t, 300.0, f.Width)
	assert.Equal(t, 100.0, f.Height)
	inBounds(t, f, page)

	in.End()
	assert.Equal(t, StateIdle, in.State())
}
