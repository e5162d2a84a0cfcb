package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBody(t *testing.T) {
	b, err := ParseBody("Saturn")
	require.NoError(t, err)
	assert.Equal(t, Saturn, b)
	assert.Equal(t, 6, b.Index())

	_, err = ParseBody("chiron")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, -1, Body("chiron").Index())
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    Point
		wantErr bool
	}{
		{"sun", BodyPoint(Sun), false},
		{"PLUTO", BodyPoint(Pluto), false},
		{"ascendant", Ascendant, false},
		{"asc", Ascendant, false},
		{"mc", Midheaven, false},
		{"house1", HousePoint(1), false},
		{"house12", HousePoint(12), false},
		{"house0", "", true},
		{"house13", "", true},
		{"housex", "", true},
		{"vertex", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePoint(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPoint_Accessors(t *testing.T) {
	b, ok := BodyPoint(Venus).Body()
	assert.True(t, ok)
	assert.Equal(t, Venus, b)

	_, ok = Ascendant.Body()
	assert.False(t, ok)

	n, ok := HousePoint(8).House()
	assert.True(t, ok)
	assert.Equal(t, 8, n)

	_, ok = BodyPoint(Mars).House()
	assert.False(t, ok)
}

func TestAspectType(t *testing.T) {
	assert.Equal(t, 120.0, Trine.Angle())
	assert.Equal(t, -1.0, AspectType("quincunx").Angle())

	a, err := ParseAspectType("Opposition")
	require.NoError(t, err)
	assert.Equal(t, Opposition, a)

	_, err = ParseAspectType("quincunx")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
