// Package validate turns untrusted request values into typed ones.
//
// Values arrive as whatever the JSON decoder or the router produced:
// strings, json.Number or plain numbers. Anything else is rejected.
package validate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/store/pkg/apperr"
)

const MaxStringLength = 255

func invalid(name string) error {
	return apperr.New(apperr.ErrInvalidInput, fmt.Sprintf("Invalid input parameter %q", name))
}

func scalar(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}

func numeric(raw any) (decimal.Decimal, bool) {
	s, ok := scalar(raw)
	if !ok {
		return decimal.Zero, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Integer accepts integral numbers, negative ones included. "7.0" counts as 7.
func Integer(name string, raw any) (int64, error) {
	d, ok := numeric(raw)
	if !ok || !d.IsInteger() || !d.BigInt().IsInt64() {
		return 0, invalid(name)
	}
	return d.IntPart(), nil
}

// Price parses a major-unit amount ("6.99" or "6,99") into minor units,
// rounding half away from zero.
func Price(name string, raw any) (int64, error) {
	s, ok := scalar(raw)
	if !ok {
		return 0, invalid(name)
	}
	d, ok := numeric(strings.Replace(s, ",", ".", 1))
	if !ok {
		return 0, invalid(name)
	}
	minor := d.Shift(2).Round(0)
	if minor.IsNegative() {
		return 0, apperr.New(apperr.ErrInvalidInput, "Price cannot be a negative number")
	}
	if !minor.BigInt().IsInt64() {
		return 0, invalid(name)
	}
	return minor.IntPart(), nil
}

func String(name string, raw any) (string, error) {
	s, ok := scalar(raw)
	if !ok || s == "" {
		return "", invalid(name)
	}
	if len(s) > MaxStringLength {
		return "", apperr.New(apperr.ErrInvalidInput, "String too long")
	}
	return s, nil
}

// GUID reports whether raw is a UUID in 8-4-4-4-12 form, optionally in braces.
// The value is returned untouched so the caller keeps the client's spelling.
func GUID(raw string) (string, bool) {
	switch len(raw) {
	case 36:
	case 38:
		if raw[0] != '{' || raw[37] != '}' {
			return "", false
		}
	default:
		return "", false
	}
	if _, err := uuid.Parse(raw); err != nil {
		return "", false
	}
	return raw, true
}

// NewCartID returns a random (version 4) UUID.
func NewCartID() string {
	return uuid.NewString()
}
