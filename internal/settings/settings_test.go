package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	typ, err := ParseType("hero-banner")
	require.NoError(t, err)
	assert.Equal(t, TypeHeroBanner, typ)

	typ, err = ParseType(" Promo_Popup ")
	require.NoError(t, err)
	assert.Equal(t, TypePromoPopup, typ)

	_, err = ParseType("footer")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		typ       Type
		payload   string
		want      Value
		isDefault bool
		wantErr   bool
	}{
		{
			name:    "valid announcement",
			typ:     TypeAnnouncementBar,
			payload: `{"enabled":true,"message":"Free shipping over 999"}`,
			want:    AnnouncementBar{Enabled: true, Message: "Free shipping over 999"},
		},
		{
			name:      "empty payload",
			typ:       TypeHeroBanner,
			payload:   "  ",
			want:      HeroBanner{},
			isDefault: true,
		},
		{
			name:      "wrong shape",
			typ:       TypeHeroBanner,
			payload:   `{"enabled":"yes"}`,
			want:      HeroBanner{},
			isDefault: true,
			wantErr:   true,
		},
		{
			name:      "unknown field",
			typ:       TypeAnnouncementBar,
			payload:   `{"enabled":true,"message":"hi","color":"red"}`,
			want:      AnnouncementBar{},
			isDefault: true,
			wantErr:   true,
		},
		{
			name:      "negative delay",
			typ:       TypePromoPopup,
			payload:   `{"enabled":true,"delaySeconds":-1}`,
			want:      PromoPopup{DelaySeconds: 5},
			isDefault: true,
			wantErr:   true,
		},
		{
			name:      "not json",
			typ:       TypePromoPopup,
			payload:   `<html>`,
			want:      PromoPopup{DelaySeconds: 5},
			isDefault: true,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, isDefault, err := Resolve(tt.typ, []byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.isDefault, isDefault)
		})
	}
}

func TestResolveUnknownType(t *testing.T) {
	_, _, err := Resolve("footer", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownType)
}
