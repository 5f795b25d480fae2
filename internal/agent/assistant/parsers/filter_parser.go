package parsers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/property-assistant/server/internal/agent/model"
	errx "github.com/property-assistant/server/internal/core/error"
	logx "github.com/property-assistant/server/pkg/logger"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen  = 64 * 1024 // 64KB
	maxLocationLen = 200       // characters
	maxErrSnippet  = 200       // limit error snippet size
	maxCount       = math.MaxInt32
)

var errNoObject = errors.New("no json object in output")

// fieldError names the first filter field that failed validation.
type fieldError struct {
	Field  string
	Reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
}

// ParseSearchFilters turns model output into validated filters. Surrounding
// prose and code fences are tolerated. Any known field with a bad type, a
// negative value, an unknown property type or an inverted range fails the
// whole parse. Unknown keys are ignored and null means absent.
func ParseSearchFilters(content string) (filters *model.SearchFilters, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "filter_parser").Msgf("panic recovered: %v", r)
			filters = nil
			err = errx.Parse(fmt.Errorf("filter parser panic: %v", r))
		}
	}()

	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "filter_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("model output over size limit")
		return nil, errx.Parse(fmt.Errorf("output too large (%d bytes)", len(content)))
	}
	if !utf8.ValidString(content) {
		return nil, errx.Parse(errors.New("output is not valid utf8"))
	}

	raw, err := decodeObject(stripFences(content))
	if err != nil {
		logx.Debug().Err(err).Str("component", "filter_parser").Str("snippet", safeSnippet(content)).Msg("unparseable filter output")
		return nil, errx.Parse(err)
	}

	f, err := buildFilters(raw)
	if err != nil {
		logx.Debug().Err(err).Str("component", "filter_parser").Msg("filter output rejected")
		return nil, errx.Parse(err)
	}
	return f, nil
}

// stripFences returns the body of the first ``` fenced block, or content as is.
func stripFences(content string) string {
	s := strings.TrimSpace(content)
	start := strings.Index(s, "```")
	if start < 0 {
		return s
	}
	body := s[start+3:]
	// drop a language tag such as ```json
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{}") {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// decodeObject decodes the first JSON object in s. Text after it is ignored.
func decodeObject(s string) (map[string]any, error) {
	idx := strings.IndexByte(s, '{')
	if idx < 0 {
		return nil, errNoObject
	}
	dec := json.NewDecoder(strings.NewReader(s[idx:]))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode filter json: %w", err)
	}
	if raw == nil {
		return nil, errNoObject
	}
	return raw, nil
}

func buildFilters(raw map[string]any) (*model.SearchFilters, error) {
	f := &model.SearchFilters{}
	var err error

	if f.PriceMin, err = nonNegativeInt64(raw, model.FieldPriceMin); err != nil {
		return nil, err
	}
	if f.PriceMax, err = nonNegativeInt64(raw, model.FieldPriceMax); err != nil {
		return nil, err
	}
	if f.Bedrooms, err = nonNegativeInt(raw, model.FieldBedrooms); err != nil {
		return nil, err
	}
	if f.Bathrooms, err = nonNegativeFloat(raw, model.FieldBathrooms); err != nil {
		return nil, err
	}
	if f.SqftMin, err = nonNegativeInt(raw, model.FieldSqftMin); err != nil {
		return nil, err
	}
	if f.SqftMax, err = nonNegativeInt(raw, model.FieldSqftMax); err != nil {
		return nil, err
	}
	if f.PropertyType, err = propertyType(raw, model.FieldPropertyType); err != nil {
		return nil, err
	}
	if f.Location, err = location(raw, model.FieldLocation); err != nil {
		return nil, err
	}

	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		return nil, &fieldError{Field: model.FieldPriceMin, Reason: "greater than priceMax"}
	}
	if f.SqftMin != nil && f.SqftMax != nil && *f.SqftMin > *f.SqftMax {
		return nil, &fieldError{Field: model.FieldSqftMin, Reason: "greater than sqftMax"}
	}
	return f, nil
}

// --- helpers ---

// number reads a JSON number or a numeric string. ok is false when the key is
// absent or null.
func number(raw map[string]any, field string) (v float64, n json.Number, ok bool, err error) {
	val, present := raw[field]
	if !present || val == nil {
		return 0, "", false, nil
	}
	switch t := val.(type) {
	case json.Number:
		n = t
	case string:
		n = json.Number(strings.TrimSpace(strings.ReplaceAll(t, ",", "")))
	default:
		return 0, "", false, &fieldError{Field: field, Reason: fmt.Sprintf("expected number, got %T", val)}
	}
	v, perr := n.Float64()
	if perr != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, "", false, &fieldError{Field: field, Reason: fmt.Sprintf("invalid number %q", string(n))}
	}
	if v < 0 {
		return 0, "", false, &fieldError{Field: field, Reason: "negative"}
	}
	return v, n, true, nil
}

func nonNegativeInt64(raw map[string]any, field string) (*int64, error) {
	v, n, ok, err := number(raw, field)
	if err != nil || !ok {
		return nil, err
	}
	if i, err := n.Int64(); err == nil {
		return &i, nil
	}
	if v != math.Trunc(v) || v >= math.MaxInt64 {
		return nil, &fieldError{Field: field, Reason: fmt.Sprintf("expected whole number, got %s", string(n))}
	}
	i := int64(v)
	return &i, nil
}

func nonNegativeInt(raw map[string]any, field string) (*int, error) {
	i, err := nonNegativeInt64(raw, field)
	if err != nil || i == nil {
		return nil, err
	}
	if *i > maxCount {
		return nil, &fieldError{Field: field, Reason: "out of range"}
	}
	out := int(*i)
	return &out, nil
}

func nonNegativeFloat(raw map[string]any, field string) (*float64, error) {
	v, _, ok, err := number(raw, field)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func propertyType(raw map[string]any, field string) (*model.PropertyType, error) {
	val, present := raw[field]
	if !present || val == nil {
		return nil, nil
	}
	s, ok := val.(string)
	if !ok {
		return nil, &fieldError{Field: field, Reason: fmt.Sprintf("expected string, got %T", val)}
	}
	pt := model.PropertyType(strings.ToLower(strings.TrimSpace(s)))
	if !pt.Valid() {
		return nil, &fieldError{Field: field, Reason: fmt.Sprintf("unknown property type %q", safeSnippet(s))}
	}
	return &pt, nil
}

func location(raw map[string]any, field string) (*string, error) {
	val, present := raw[field]
	if !present || val == nil {
		return nil, nil
	}
	s, ok := val.(string)
	if !ok {
		return nil, &fieldError{Field: field, Reason: fmt.Sprintf("expected string, got %T", val)}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(s) > maxLocationLen {
		return nil, &fieldError{Field: field, Reason: "too long"}
	}
	return &s, nil
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	// back off to a rune boundary
	cut := maxErrSnippet
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
