// Package settings decodes admin-edited content settings. Each setting type has its own shape and
// a default that is served whenever the stored payload is missing or does not match that shape.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Type string

const (
	TypeHeroBanner      Type = "hero_banner"
	TypeAnnouncementBar Type = "announcement_bar"
	TypePromoPopup      Type = "promo_popup"
)

var ErrUnknownType = errors.New("unknown setting type")

type HeroBanner struct {
	Enabled  bool   `json:"enabled"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"imageUrl"`
	CTAText  string `json:"ctaText"`
	CTALink  string `json:"ctaLink"`
}

type AnnouncementBar struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
	Link    string `json:"link"`
}

type PromoPopup struct {
	Enabled      bool   `json:"enabled"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	CouponCode   string `json:"couponCode"`
	DelaySeconds int    `json:"delaySeconds"`
}

// Value is one of HeroBanner, AnnouncementBar or PromoPopup.
type Value interface {
	settingType() Type
}

func (HeroBanner) settingType() Type      { return TypeHeroBanner }
func (AnnouncementBar) settingType() Type { return TypeAnnouncementBar }
func (PromoPopup) settingType() Type      { return TypePromoPopup }

// Default values render nothing.
func Default(t Type) (Value, error) {
	switch t {
	case TypeHeroBanner:
		return HeroBanner{}, nil
	case TypeAnnouncementBar:
		return AnnouncementBar{}, nil
	case TypePromoPopup:
		return PromoPopup{DelaySeconds: 5}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

// ParseType accepts the stored form and the hyphenated form used in URLs.
func ParseType(s string) (Type, error) {
	t := Type(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if _, err := Default(t); err != nil {
		return "", err
	}
	return t, nil
}

// Decode parses payload strictly as the shape registered for t. Unknown fields or wrong types are
// an error; callers fall back to Default.
func Decode(t Type, payload []byte) (Value, error) {
	switch t {
	case TypeHeroBanner:
		return decodeAs[HeroBanner](payload)
	case TypeAnnouncementBar:
		return decodeAs[AnnouncementBar](payload)
	case TypePromoPopup:
		return decodePromo(payload)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

// Resolve never fails for a known type: a bad payload yields the default and the decode error.
func Resolve(t Type, payload []byte) (Value, bool, error) {
	def, err := Default(t)
	if err != nil {
		return nil, false, err
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return def, true, nil
	}
	v, err := Decode(t, payload)
	if err != nil {
		return def, true, err
	}
	return v, false, nil
}

func decodePromo(payload []byte) (Value, error) {
	p, err := decodeAs[PromoPopup](payload)
	if err != nil {
		return nil, err
	}
	if p.DelaySeconds < 0 {
		return nil, errors.New("promo popup delay must not be negative")
	}
	return p, nil
}

func decodeAs[T Value](payload []byte) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s: %w", v.settingType(), err)
	}
	if dec.More() {
		var zero T
		return zero, fmt.Errorf("decode %s: trailing data", v.settingType())
	}
	return v, nil
}
