package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-viper/mapstructure/v2"

	commonhttp "github.com/AlibekovAA/auth-api/internal/common/http"
	"github.com/AlibekovAA/auth-api/internal/common/logger"
	"github.com/AlibekovAA/auth-api/internal/observability/metrics"
)

const (
	MessageInvalidBody   = "Validation failed"
	MessageInvalidParams = "Invalid Params"
	MessageInvalidQuery  = "Invalid query"
	MessageInvalidJSON   = "Invalid JSON body"
	MessageBodyTooLarge  = "Request body too large"
)

var errTrailingData = errors.New("unexpected data after JSON value")

type (
	bodyKey[T any]   struct{}
	paramsKey[T any] struct{}
	queryKey[T any]  struct{}
)

// Body decodes the JSON request body into a fresh T, validates it and
// stores it on the request context. Keys not declared on T are dropped.
func Body[T any](v *Validator) commonhttp.Step {
	return func(r *http.Request) (*http.Request, *commonhttp.Response, error) {
		var dst T
		if err := ensureStruct(dst); err != nil {
			return nil, nil, err
		}

		decoded, resp, err := decodeBody[T](v, r, &dst)
		if err != nil || resp != nil {
			return nil, resp, err
		}

		validated, err := v.violations(&dst)
		if err != nil {
			return nil, nil, err
		}

		if violations := mergeViolations(decoded, validated); len(violations) > 0 {
			return nil, v.reject(r, "body", MessageInvalidBody, violations), nil
		}

		return r.WithContext(context.WithValue(r.Context(), bodyKey[T]{}, dst)), nil, nil
	}
}

func BodyFrom[T any](r *http.Request) (T, bool) {
	v, ok := r.Context().Value(bodyKey[T]{}).(T)
	return v, ok
}

// Params decodes chi URL parameters into T using `param` tags.
func Params[T any](v *Validator) commonhttp.Step {
	return func(r *http.Request) (*http.Request, *commonhttp.Response, error) {
		input := map[string]any{}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				if key == "*" || i >= len(rctx.URLParams.Values) {
					continue
				}
				input[key] = rctx.URLParams.Values[i]
			}
		}

		dst, resp, err := decodeValues[T](v, r, input, "param", "params", MessageInvalidParams)
		if err != nil || resp != nil {
			return nil, resp, err
		}
		return r.WithContext(context.WithValue(r.Context(), paramsKey[T]{}, dst)), nil, nil
	}
}

func ParamsFrom[T any](r *http.Request) (T, bool) {
	v, ok := r.Context().Value(paramsKey[T]{}).(T)
	return v, ok
}

// Query decodes the query string into T using `query` tags. Repeated keys
// decode into slice fields.
func Query[T any](v *Validator) commonhttp.Step {
	return func(r *http.Request) (*http.Request, *commonhttp.Response, error) {
		dst, resp, err := decodeValues[T](v, r, queryInput(r.URL.Query()), "query", "query", MessageInvalidQuery)
		if err != nil || resp != nil {
			return nil, resp, err
		}
		return r.WithContext(context.WithValue(r.Context(), queryKey[T]{}, dst)), nil, nil
	}
}

func QueryFrom[T any](r *http.Request) (T, bool) {
	v, ok := r.Context().Value(queryKey[T]{}).(T)
	return v, ok
}

// decodeBody reads one JSON value into dst. Fields whose JSON type does not
// match T come back as violations so the caller can report them alongside
// rule failures.
func decodeBody[T any](v *Validator, r *http.Request, dst *T) ([]FieldViolation, *commonhttp.Response, error) {
	if r.Body == nil {
		return nil, nil, nil
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var maxByteErr *http.MaxBytesError
		if errors.As(err, &maxByteErr) {
			v.logRejection(r, "body", MessageBodyTooLarge, nil, err)
			return nil, &commonhttp.Response{
				Status: http.StatusRequestEntityTooLarge,
				Body:   commonhttp.ErrorResponse{Error: MessageBodyTooLarge},
			}, nil
		}
		return nil, nil, fmt.Errorf("read request body: %w", err)
	}

	err = decodeSingle(raw, dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil, nil, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		if violations := locateTypeMismatches[T](raw); len(violations) > 0 {
			return violations, nil, nil
		}
		return []FieldViolation{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Expected %s", jsonTypeName(typeErr.Type)),
		}}, nil, nil
	}

	metrics.ValidationFailuresTotal.WithLabelValues("body").Inc()
	v.logRejection(r, "body", MessageInvalidJSON, nil, err)
	return nil, &commonhttp.Response{
		Status: http.StatusBadRequest,
		Body:   commonhttp.ErrorResponse{Error: MessageInvalidJSON},
	}, nil
}

// decodeSingle decodes raw into dst and rejects anything after the first
// value. An empty body yields io.EOF.
func decodeSingle(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return err
		}
		if trailing := ensureDrained(dec); trailing != nil {
			return trailing
		}
		return err
	}
	return ensureDrained(dec)
}

func ensureDrained(dec *json.Decoder) error {
	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return err
	}
	return errTrailingData
}

// locateTypeMismatches decodes each top-level key on its own, since the
// decoder only reports the first mismatch.
func locateTypeMismatches[T any](raw []byte) []FieldViolation {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var violations []FieldViolation
	for _, k := range keys {
		single, err := json.Marshal(map[string]json.RawMessage{k: fields[k]})
		if err != nil {
			continue
		}

		var scratch T
		var typeErr *json.UnmarshalTypeError
		if err := json.Unmarshal(single, &scratch); errors.As(err, &typeErr) && typeErr.Field != "" {
			violations = append(violations, FieldViolation{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("Expected %s", jsonTypeName(typeErr.Type)),
			})
		}
	}
	return violations
}

// mergeViolations keeps every decode violation and drops rule violations on
// the same field or below it.
func mergeViolations(decoded, validated []FieldViolation) []FieldViolation {
	if len(decoded) == 0 {
		return validated
	}

	merged := append([]FieldViolation(nil), decoded...)
	for _, v := range validated {
		shadowed := false
		for _, d := range decoded {
			if v.Field == d.Field || strings.HasPrefix(v.Field, d.Field+".") {
				shadowed = true
				break
			}
		}
		if !shadowed {
			merged = append(merged, v)
		}
	}
	return merged
}

func decodeValues[T any](v *Validator, r *http.Request, input map[string]any, tag, source, message string) (T, *commonhttp.Response, error) {
	var dst T
	if err := ensureStruct(dst); err != nil {
		return dst, nil, err
	}

	if err := weakDecode(input, &dst, tag); err != nil {
		violations := locateDecodeFailures[T](input, tag)
		if len(violations) == 0 {
			return dst, nil, err
		}
		return dst, v.reject(r, source, message, violations), nil
	}

	violations, err := v.violations(&dst)
	if err != nil {
		return dst, nil, err
	}
	if len(violations) > 0 {
		return dst, v.reject(r, source, message, violations), nil
	}
	return dst, nil, nil
}

func weakDecode(input map[string]any, dst any, tag string) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          tag,
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// locateDecodeFailures re-decodes one key at a time to name the fields
// that could not be converted.
func locateDecodeFailures[T any](input map[string]any, tag string) []FieldViolation {
	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var violations []FieldViolation
	for _, k := range keys {
		var scratch T
		if err := weakDecode(map[string]any{k: input[k]}, &scratch, tag); err != nil {
			violations = append(violations, FieldViolation{Field: k, Message: "Invalid value"})
		}
	}
	return violations
}

// violations runs the rules on schema. Only non-rule failures are returned
// as an error.
func (v *Validator) violations(schema any) ([]FieldViolation, error) {
	err := v.Struct(schema)
	if err == nil {
		return nil, nil
	}

	var verr *Error
	if errors.As(err, &verr) {
		return verr.Violations, nil
	}
	return nil, err
}

func (v *Validator) reject(r *http.Request, source, message string, violations []FieldViolation) *commonhttp.Response {
	metrics.ValidationFailuresTotal.WithLabelValues(source).Inc()

	fields := make([]string, 0, len(violations))
	for _, fv := range violations {
		fields = append(fields, fv.Field)
	}
	v.logRejection(r, source, message, fields, nil)

	return &commonhttp.Response{
		Status: http.StatusBadRequest,
		Body:   commonhttp.ErrorResponse{Error: message, Details: violations},
	}
}

func (v *Validator) logRejection(r *http.Request, source, message string, fields []string, cause error) {
	if v.log == nil {
		return
	}

	logFields := logger.Fields{
		"source": source,
		"path":   r.URL.Path,
		"action": "validation_failed",
	}
	if len(fields) > 0 {
		logFields["fields"] = strings.Join(fields, ",")
	}
	if cause != nil {
		logFields["error"] = cause.Error()
	}
	v.log.WithFields(r.Context(), logFields).Warnf("request rejected: %s", message)
}

func queryInput(values url.Values) map[string]any {
	input := make(map[string]any, len(values))
	for k, vs := range values {
		if len(vs) == 1 {
			input[k] = vs[0]
			continue
		}
		input[k] = vs
	}
	return input
}

func ensureStruct(schema any) error {
	t := reflect.TypeOf(schema)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %v", ErrSchemaNotStruct, t)
	}
	return nil
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	}
	return strings.ToLower(t.Kind().String())
}
