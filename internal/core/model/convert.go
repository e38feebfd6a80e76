package model

import (
	"encoding/json"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// The helpers below turn loosely typed inputs (caller field maps, decoded JSON,
// decoded protobuf structs) into the typed values the setters accept.

func invalid(kind Kind, field, reason string) error {
	return &ValidationError{Kind: kind, Field: field, Reason: reason}
}

func asString(kind Kind, field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", invalid(kind, field, "must be a string")
	}
	return s, nil
}

func asInt(kind Kind, field string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint32:
		return int(n), nil
	case json.Number:
		if i, err := strconv.Atoi(n.String()); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, invalid(kind, field, "must be an integer")
		}
		return floatToInt(kind, field, f)
	case float64:
		return floatToInt(kind, field, n)
	}
	return 0, invalid(kind, field, "must be an integer")
}

// floatToInt accepts integral values that fit an int.
func floatToInt(kind Kind, field string, f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, invalid(kind, field, "must be an integer")
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, invalid(kind, field, "is out of range")
	}
	return int(f), nil
}

func asFloat(kind Kind, field string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, invalid(kind, field, "must be a number")
		}
		return f, nil
	}
	return 0, invalid(kind, field, "must be a number")
}

func asIDList(kind Kind, field string, v any) ([]string, error) {
	switch l := v.(type) {
	case []string:
		return append(make([]string, 0, len(l)), l...), nil
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			s, ok := item.(string)
			if !ok {
				return nil, invalid(kind, field, "must be a list of ids")
			}
			out = append(out, s)
		}
		return out, nil
	case nil:
		return nil, invalid(kind, field, "must be a list of ids")
	}
	return nil, invalid(kind, field, "must be a list of ids")
}

func checkNonNegative(kind Kind, field string, n int) error {
	if n < 0 {
		return invalid(kind, field, "can't be negative")
	}
	return nil
}

func checkRequiredID(kind Kind, field, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid(kind, field, "must be a non-empty id")
	}
	return nil
}

func checkEmail(kind Kind, field, email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid(kind, field, "must be a valid email address")
	}
	return nil
}

func checkISO(kind Kind, field, iso string) error {
	if utf8.RuneCountInString(iso) != 2 {
		return invalid(kind, field, "must be a two letter code")
	}
	for _, r := range iso {
		if !unicode.IsLetter(r) {
			return invalid(kind, field, "must be a two letter code")
		}
	}
	return nil
}

func copyIDs(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func setString(kind Kind, field string, v any, set func(string) error) error {
	s, err := asString(kind, field, v)
	if err != nil {
		return err
	}
	return set(s)
}

func setInt(kind Kind, field string, v any, set func(int) error) error {
	n, err := asInt(kind, field, v)
	if err != nil {
		return err
	}
	return set(n)
}

func setFloat(kind Kind, field string, v any, set func(float64) error) error {
	f, err := asFloat(kind, field, v)
	if err != nil {
		return err
	}
	return set(f)
}

func setIDs(kind Kind, field string, v any, set func([]string) error) error {
	ids, err := asIDList(kind, field, v)
	if err != nil {
		return err
	}
	return set(ids)
}
