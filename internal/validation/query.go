package validation

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"couple-journal-backend/internal/apperr"
	"couple-journal-backend/internal/pagination"

	"github.com/google/uuid"
)

// QueryReader coerces scalar query parameters, collecting every failure
type QueryReader struct {
	values url.Values
	errs   []apperr.FieldError
}

func NewQueryReader(values url.Values) *QueryReader {
	return &QueryReader{values: values}
}

func (q *QueryReader) fail(key, msg string) {
	q.errs = append(q.errs, apperr.FieldError{Field: key, Message: msg})
}

// Fail records a cross-field violation
func (q *QueryReader) Fail(key, msg string) {
	q.fail(key, msg)
}

func (q *QueryReader) raw(key string) (string, bool) {
	v := strings.TrimSpace(q.values.Get(key))
	return v, v != ""
}

// Int reads an optional integer
func (q *QueryReader) Int(key string) *int {
	s, ok := q.raw(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		q.fail(key, "must be an integer")
		return nil
	}
	return &n
}

// IntRange reads an optional integer that must lie within [lo, hi]
func (q *QueryReader) IntRange(key string, lo, hi int) *int {
	n := q.Int(key)
	if n != nil && (*n < lo || *n > hi) {
		q.fail(key, "must be between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
		return nil
	}
	return n
}

// Bool reads an optional boolean; absent yields nil
func (q *QueryReader) Bool(key string) *bool {
	s, ok := q.raw(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		q.fail(key, "must be true or false")
		return nil
	}
	return &b
}

// Flag reads a boolean with a default
func (q *QueryReader) Flag(key string, def bool) bool {
	if b := q.Bool(key); b != nil {
		return *b
	}
	return def
}

// Date reads an optional date
func (q *QueryReader) Date(key string) *time.Time {
	s, ok := q.raw(key)
	if !ok {
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		q.fail(key, "must be a valid date")
		return nil
	}
	return &t
}

// UUID reads an optional UUID
func (q *QueryReader) UUID(key string) string {
	s, ok := q.raw(key)
	if !ok {
		return ""
	}
	if _, err := uuid.Parse(s); err != nil {
		q.fail(key, "must be a valid UUID")
		return ""
	}
	return strings.ToLower(s)
}

// List reads a repeated or comma separated parameter
func (q *QueryReader) List(key string) []string {
	var out []string
	for _, v := range q.values[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Enum reads an optional enum value into dst using its Valid/Values methods
func Enum[T interface {
	~string
	Valid() bool
	Values() []string
}](q *QueryReader, key string) *T {
	s, ok := q.raw(key)
	if !ok {
		return nil
	}
	v := T(s)
	if !v.Valid() {
		q.fail(key, "must be one of: "+strings.Join(v.Values(), ", "))
		return nil
	}
	return &v
}

// Pagination reads take, skip and cursor
func (q *QueryReader) Pagination() pagination.Params {
	take := q.Int("take")
	skip := q.Int("skip")
	cursor := q.UUID("cursor")
	return pagination.Normalize(take, skip, cursor)
}

// DateRange reads startDate/endDate and checks their order
func (q *QueryReader) DateRange() (*time.Time, *time.Time) {
	start := q.Date("startDate")
	end := q.Date("endDate")
	if start != nil && end != nil && end.Before(*start) {
		q.fail("endDate", "must not be before startDate")
	}
	return start, end
}

// Err returns VALIDATION_FAILED if any parameter was rejected
func (q *QueryReader) Err() error {
	if len(q.errs) == 0 {
		return nil
	}
	return apperr.Validation(q.errs)
}
