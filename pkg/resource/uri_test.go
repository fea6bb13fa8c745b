package resource

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMap(t *testing.T) {
	tests := []struct {
		name     string
		template string
		attrs    map[string]any
		want     string
		missing  string
	}{
		{
			name:     "two placeholders",
			template: "/v1/albums/:album/songs/:id",
			attrs:    map[string]any{"album": "10", "id": "5"},
			want:     "/v1/albums/10/songs/5",
		},
		{
			name:     "trailing slash preserved",
			template: "/v1/fans/",
			want:     "/v1/fans/",
		},
		{
			name:     "numbers render as decimal",
			template: "/v1/users/:uid",
			attrs:    map[string]any{"uid": json.Number("1000")},
			want:     "/v1/users/1000",
		},
		{
			name:     "big integers",
			template: "/v1/users/:uid",
			attrs:    map[string]any{"uid": big.NewInt(4294967296)},
			want:     "/v1/users/4294967296",
		},
		{
			name:     "escaped segment",
			template: "/v1/shares/:name",
			attrs:    map[string]any{"name": "team a/b"},
			want:     "/v1/shares/team%20a%2Fb",
		},
		{
			name:     "missing placeholder",
			template: "/v1/albums/:album/songs/:id",
			attrs:    map[string]any{"id": "5"},
			missing:  "album",
		},
		{
			name:     "empty value counts as missing",
			template: "/v1/fans/:id",
			attrs:    map[string]any{"id": ""},
			missing:  "id",
		},
		{
			name:     "null value counts as missing",
			template: "/v1/fans/:id",
			attrs:    map[string]any{"id": nil},
			missing:  "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveMap(tt.template, tt.attrs)
			if tt.missing != "" {
				require.ErrorIs(t, err, ErrURI)
				var uerr *URIError
				require.ErrorAs(t, err, &uerr)
				assert.Equal(t, tt.missing, uerr.Placeholder)
				assert.Equal(t, tt.template, uerr.Template)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResource_PathAppendsQuery(t *testing.T) {
	r := New(fanSchema, map[string]any{"id": "7"})
	require.NoError(t, fanCreateTag.Set(r, "a b&c"))
	r.SetQuery("limit", "10")

	path, err := r.Path()
	require.NoError(t, err)
	assert.Equal(t, "/v1/fans/7?tag=a+b%26c&limit=10", path)

	tag, err := fanCreateTag.Get(r)
	require.NoError(t, err)
	assert.Equal(t, "a b&c", tag)
}

func TestResource_PathWithoutURI(t *testing.T) {
	r := New(addressSchema, nil)
	_, err := r.Path()
	assert.ErrorIs(t, err, ErrUsage)
}
