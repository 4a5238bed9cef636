package domain

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 2000
)

type StoreName string

func NewStoreName(value string) (StoreName, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("store name is required")
	}
	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", fmt.Errorf("store name must be <= %d characters", maxNameLength)
	}
	return StoreName(trimmed), nil
}

func (n StoreName) String() string {
	return string(n)
}

type MenuName string

func NewMenuName(value string) (MenuName, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("menu name is required")
	}
	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", fmt.Errorf("menu name must be <= %d characters", maxNameLength)
	}
	return MenuName(trimmed), nil
}

func (n MenuName) String() string {
	return string(n)
}

type Address string

func NewAddress(value string) (Address, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("address is required")
	}
	return Address(trimmed), nil
}

func (a Address) String() string {
	return string(a)
}

type Description string

func NewDescription(value string) (Description, error) {
	trimmed := strings.TrimSpace(value)
	if utf8.RuneCountInString(trimmed) > maxDescriptionLength {
		return "", fmt.Errorf("description must be <= %d characters", maxDescriptionLength)
	}
	return Description(trimmed), nil
}

func (d Description) String() string {
	return string(d)
}

// Location is a WGS84 position.
type Location struct {
	Longitude float64
	Latitude  float64
}

func NewLocation(longitude, latitude float64) (Location, error) {
	if math.IsNaN(longitude) || longitude < -180 || longitude > 180 {
		return Location{}, fmt.Errorf("longitude must be between -180 and 180")
	}
	if math.IsNaN(latitude) || latitude < -90 || latitude > 90 {
		return Location{}, fmt.Errorf("latitude must be between -90 and 90")
	}
	return Location{Longitude: longitude, Latitude: latitude}, nil
}

type PhoneNumber string

func NewPhoneNumber(value string) (PhoneNumber, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	for _, r := range trimmed {
		if (r < '0' || r > '9') && r != '-' && r != '+' && r != ' ' {
			return "", fmt.Errorf("invalid phone number: %s", trimmed)
		}
	}
	return PhoneNumber(trimmed), nil
}

func (p PhoneNumber) String() string {
	return string(p)
}

type Money int64

func NewMoney(value int64) (Money, error) {
	if value < 0 {
		return 0, fmt.Errorf("money must be >= 0")
	}
	return Money(value), nil
}

func (m Money) Int64() int64 {
	return int64(m)
}

// ImagePath accepts an absolute URL or a site-relative path.
type ImagePath string

func NewImagePath(value string) (ImagePath, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if strings.HasPrefix(trimmed, "/") {
		return ImagePath(trimmed), nil
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return "", fmt.Errorf("invalid image path: %w", err)
	}
	return ImagePath(trimmed), nil
}

func (p ImagePath) String() string {
	return string(p)
}
