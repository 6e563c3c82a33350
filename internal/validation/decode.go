package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"couple-journal-backend/internal/apperr"

	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// normalizer is implemented by DTOs that trim or default fields before checks
type normalizer interface {
	normalize()
}

// DecodeBody reads a JSON body into dst, normalizes and validates it.
// An empty body decodes as {}. A value of the wrong JSON type is reported
// together with every rule violation of the remaining fields.
func DecodeBody(r *http.Request, dst any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperr.BadRequest("Failed to read request body", nil)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}

	var fields []apperr.FieldError
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) || typeErr.Field == "" {
			return apperr.BadRequest("Request body must be valid JSON", map[string]string{"reason": "INVALID_JSON"})
		}
		fields = append(fields, apperr.FieldError{
			Field:   typeErr.Field,
			Message: "must be " + withArticle(jsonKind(typeErr.Type)),
		})
	}

	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}

	ruleErrs, err := fieldErrors(dst)
	if err != nil {
		return err
	}
	for _, fe := range ruleErrs {
		if !hasField(fields, fe.Field) {
			fields = append(fields, fe)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return apperr.Validation(fields)
}

func hasField(fields []apperr.FieldError, name string) bool {
	for _, f := range fields {
		if f.Field == name {
			return true
		}
	}
	return false
}

// jsonKind names the JSON type expected for t
func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return t.Kind().String()
	}
}

func withArticle(noun string) string {
	if noun != "" && strings.ContainsRune("aeiou", rune(noun[0])) {
		return "an " + noun
	}
	return "a " + noun
}

// PathUUID checks that a path parameter is a UUID
func PathUUID(name, value string) (string, error) {
	if _, err := uuid.Parse(value); err != nil {
		return "", apperr.Validation([]apperr.FieldError{{Field: name, Message: "must be a valid UUID"}})
	}
	return strings.ToLower(value), nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 timestamps and plain calendar dates (UTC)
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// NullableString distinguishes an absent key, an explicit null and a value
type NullableString struct {
	Set   bool
	Null  bool
	Value string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(bytes.TrimSpace(data)) == "null" {
		n.Null = true
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}
