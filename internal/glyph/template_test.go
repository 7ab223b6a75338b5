package glyph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"
)

func TestTemplateTable_NineNonEmptyTemplates(t *testing.T) {
	table := NewTemplateTable()

	for d := Digit(0); d <= 9; d++ {
		segs, err := table.TemplateFor(d, Units)
		require.NoError(t, err)
		if d == 0 {
			assert.Empty(t, segs, "digit 0 must have no strokes")
			continue
		}
		assert.NotEmpty(t, segs, "digit %d", d)
	}
}

func TestTemplateTable_QuadrantsMirrorUnits(t *testing.T) {
	table := NewTemplateTable()

	mirrors := []struct {
		q      Quadrant
		mirror func(vec.Vec2) vec.Vec2
	}{
		{Tens, func(p vec.Vec2) vec.Vec2 { return vec.Vec2{X: -p.X, Y: p.Y} }},
		{Hundreds, func(p vec.Vec2) vec.Vec2 { return vec.Vec2{X: p.X, Y: -p.Y} }},
		{Thousands, func(p vec.Vec2) vec.Vec2 { return vec.Vec2{X: -p.X, Y: -p.Y} }},
	}

	for d := Digit(1); d <= 9; d++ {
		units, err := table.TemplateFor(d, Units)
		require.NoError(t, err)

		for _, m := range mirrors {
			got, err := table.TemplateFor(d, m.q)
			require.NoError(t, err)
			require.Len(t, got, len(units), "digit %d %s", d, m.q)

			for i, s := range units {
				assert.Equal(t, m.mirror(s.Start), got[i].Start, "digit %d %s segment %d start", d, m.q, i)
				assert.Equal(t, m.mirror(s.End), got[i].End, "digit %d %s segment %d end", d, m.q, i)
			}
		}
	}
}

func TestTemplateTable_QuadrantHalfPlanes(t *testing.T) {
	table := NewTemplateTable()

	for _, q := range Quadrants {
		for d := Digit(1); d <= 9; d++ {
			segs, err := table.TemplateFor(d, q)
			require.NoError(t, err)
			for _, s := range segs {
				for _, p := range []vec.Vec2{s.Start, s.End} {
					if q.Right() {
						assert.GreaterOrEqual(t, p.X, 0.0, "%s digit %d", q, d)
					} else {
						assert.LessOrEqual(t, p.X, 0.0, "%s digit %d", q, d)
					}
					if q.Upper() {
						assert.LessOrEqual(t, p.Y, 0.0, "%s digit %d", q, d)
					} else {
						assert.GreaterOrEqual(t, p.Y, 0.0, "%s digit %d", q, d)
					}
				}
			}
		}
	}
}

func TestTemplateTable_InvalidDigit(t *testing.T) {
	table := NewTemplateTable()

	for _, d := range []Digit{-1, 10, 42} {
		_, err := table.TemplateFor(d, Units)
		var invalid *InvalidDigitError
		require.True(t, errors.As(err, &invalid), "digit %d", d)
		assert.Equal(t, d, invalid.Digit)
	}
}

func TestTemplateTable_ReturnsCopies(t *testing.T) {
	table := NewTemplateTable()

	segs, err := table.TemplateFor(1, Units)
	require.NoError(t, err)
	segs[0] = Seg(5, 5, 5, 5)

	again, err := table.TemplateFor(1, Units)
	require.NoError(t, err)
	assert.Equal(t, Seg(0, StemTop, BoxOuter, StemTop), again[0])
}

func TestTemplateTable_StrokeLength(t *testing.T) {
	table := NewTemplateTable()

	assert.Zero(t, table.StrokeLength(0))
	assert.InDelta(t, BoxSize, table.StrokeLength(1), 1e-9)
	assert.InDelta(t, 3*BoxSize, table.StrokeLength(9), 1e-9)
	assert.Greater(t, table.StrokeLength(3), table.StrokeLength(1), "diagonal is longer than a bar")
	assert.Zero(t, table.StrokeLength(11))
}

func TestSegment_Distance(t *testing.T) {
	s := Seg(0, 0, 1, 0)

	tests := []struct {
		name string
		p    vec.Vec2
		want float64
	}{
		{"on segment", vec.Vec2{X: 0.5, Y: 0}, 0},
		{"above middle", vec.Vec2{X: 0.5, Y: 2}, 2},
		{"past end", vec.Vec2{X: 4, Y: 4}, 5},
		{"before start", vec.Vec2{X: -3, Y: 0}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Distance(tt.p), 1e-9)
		})
	}

	point := Seg(1, 1, 1, 1)
	assert.InDelta(t, 1.0, point.Distance(vec.Vec2{X: 1, Y: 2}), 1e-9)
}
