package style

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge/api/schemas"
)

func TestNormalizeCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		value   schemas.Coord
		def     schemas.Coord
		want    schemas.Coord
		wantErr bool
	}{
		{"number passes through", schemas.Inches(3.25), schemas.Inches(0), schemas.Inches(3.25), false},
		{"valid percent passes through unresolved", schemas.Str("50%"), schemas.Inches(0), schemas.Str("50%"), false},
		{"unset takes numeric default", schemas.Coord{}, schemas.Inches(1.5), schemas.Inches(1.5), false},
		{"unset takes percent default", schemas.Coord{}, schemas.Str("100%"), schemas.Str("100%"), false},
		{"bare numeric string fails", schemas.Str("50"), schemas.Inches(0), schemas.Coord{}, true},
		{"fractional percent fails", schemas.Str("12.5%"), schemas.Inches(0), schemas.Coord{}, true},
		{"garbage fails", schemas.Str("left"), schemas.Inches(0), schemas.Coord{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCoordinate(tt.value, tt.def)
			if tt.wantErr {
				var posErr *schemas.InvalidPositionError
				require.Error(t, err)
				assert.True(t, errors.As(err, &posErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePosition(t *testing.T) {
	// 50% of a 200in reference resolves to 100in.
	v, err := NormalizePosition(schemas.Str("50%"), schemas.Inches(0), 200)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	// Numbers are fixed points regardless of the reference.
	v, err = NormalizePosition(schemas.Inches(4.5), schemas.Inches(0), 200)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)

	// An unset value resolves through the default.
	v, err = NormalizePosition(schemas.Coord{}, schemas.Str("25%"), 8)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	// Everything unset resolves to zero.
	v, err = NormalizePosition(schemas.Coord{}, schemas.Coord{}, 8)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = NormalizePosition(schemas.Str("oops"), schemas.Inches(0), 10)
	var posErr *schemas.InvalidPositionError
	assert.True(t, errors.As(err, &posErr))
}

func TestExpandBox(t *testing.T) {
	tests := []struct {
		name    string
		input   schemas.Box
		want    [4]float64
		wantErr bool
	}{
		{"nil is zero", nil, [4]float64{}, false},
		{"scalar fans out", schemas.Box{2}, [4]float64{2, 2, 2, 2}, false},
		{"pair is vertical horizontal", schemas.Box{1, 3}, [4]float64{1, 3, 1, 3}, false},
		{"quad passes through", schemas.Box{1, 2, 3, 4}, [4]float64{1, 2, 3, 4}, false},
		{"triple rejected", schemas.Box{1, 2, 3}, [4]float64{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandBox(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
