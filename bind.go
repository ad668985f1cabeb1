package outcome

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

const defaultMaxBodySize = 1 << 20 // 1MB

var (
	validate     = newValidator()
	pathDecoder  = newDecoder("path")
	queryDecoder = newDecoder("query")
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "path", "query"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

func newDecoder(tag string) *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag(tag)
	d.IgnoreUnknownKeys(true)
	return d
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists everything wrong with a request's parameters.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return strings.Join(msgs, "; ")
}

// ValidationFailed converts a binding failure into the ordinary
// ValidationFailed outcome. Operations that bind parameters declare a 422
// contract for it.
func ValidationFailed(err error) Value {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		ve = &ValidationError{Fields: []FieldError{{Field: "body", Message: err.Error()}}}
	}
	details := make(map[string]any, len(ve.Fields))
	for _, f := range ve.Fields {
		details[f.Field] = f.Message
	}
	return NewError(CodeInvalidArgument, ve.Error()).WithDetails(details).As(TagValidationFailed)
}

// ValidationFailedContract is the conventional 422 contract for ValidationFailed.
func ValidationFailedContract() Contract {
	return Contract{
		Tag:         TagValidationFailed,
		Status:      http.StatusUnprocessableEntity,
		Body:        BodyOf(ErrorBody{}),
		Description: "Request parameters failed validation.",
	}
}

// Bind decodes path parameters (`path` tags), query parameters (`query`
// tags) and, for requests that carry one, the JSON body into dst, then runs
// the `validate` tags. dst must be a pointer to a struct.
//
// Client mistakes are reported as *ValidationError; any other error means dst
// is unusable and is a programming error.
func Bind(r *http.Request, dst any) error {
	return bind(r, dst, defaultMaxBodySize)
}

func bind(r *http.Request, dst any, maxBodySize int64) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("outcome: bind target must be a non-nil pointer to a struct, got %T", dst)
	}

	var fields []FieldError

	if hasBody(r) {
		var body io.Reader = r.Body
		if maxBodySize > 0 {
			body = io.LimitReader(r.Body, maxBodySize+1)
		}
		data, err := io.ReadAll(body)
		switch {
		case err != nil:
			fields = append(fields, FieldError{Field: "body", Message: "failed to read body"})
		case maxBodySize > 0 && int64(len(data)) > maxBodySize:
			fields = append(fields, FieldError{Field: "body", Message: fmt.Sprintf("must be at most %d bytes", maxBodySize)})
		case len(strings.TrimSpace(string(data))) > 0:
			if err := json.Unmarshal(data, dst); err != nil {
				fields = append(fields, jsonFieldError(err))
			}
		}
	}

	t := rv.Elem().Type()
	if q := only(r.URL.Query(), declaredKeys(t, "query")); len(q) > 0 {
		if err := queryDecoder.Decode(dst, q); err != nil {
			fields = append(fields, decodeFieldErrors(err)...)
		}
	}

	if params := only(pathParams(r), declaredKeys(t, "path")); len(params) > 0 {
		if err := pathDecoder.Decode(dst, params); err != nil {
			fields = append(fields, decodeFieldErrors(err)...)
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if err := validate.Struct(dst); err != nil {
		var valErrs validator.ValidationErrors
		if !errors.As(err, &valErrs) {
			return err
		}
		fields = make([]FieldError, 0, len(valErrs))
		for _, fe := range valErrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: formatValidationError(fe)})
		}
		return &ValidationError{Fields: fields}
	}
	return nil
}

type keySetID struct {
	t   reflect.Type
	tag string
}

// keySets caches declaredKeys per struct type and tag.
var keySets sync.Map // keySetID -> map[string]bool

// declaredKeys returns the parameter names t declares with tag, including
// those of embedded structs. The schema decoders fall back to matching Go
// field names, so parameters are filtered down to these before decoding.
func declaredKeys(t reflect.Type, tag string) map[string]bool {
	id := keySetID{t, tag}
	if keys, ok := keySets.Load(id); ok {
		return keys.(map[string]bool)
	}
	keys := make(map[string]bool)
	collectKeys(t, tag, keys)
	actual, _ := keySets.LoadOrStore(id, keys)
	return actual.(map[string]bool)
}

func collectKeys(t reflect.Type, tag string, keys map[string]bool) {
	for i := range t.NumField() {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		switch {
		case name != "" && name != "-":
			keys[name] = true
		case f.Anonymous && f.Type.Kind() == reflect.Struct:
			collectKeys(f.Type, tag, keys)
		}
	}
}

func only(values map[string][]string, keys map[string]bool) map[string][]string {
	if len(values) == 0 || len(keys) == 0 {
		return nil
	}
	out := make(map[string][]string, len(keys))
	for k, v := range values {
		if keys[k] {
			out[k] = v
		}
	}
	return out
}

func hasBody(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		return false
	}
	return true
}

func pathParams(r *http.Request) map[string][]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || len(rctx.URLParams.Keys) == 0 {
		return nil
	}
	params := make(map[string][]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		params[key] = []string{rctx.URLParams.Values[i]}
	}
	return params
}

func jsonFieldError(err error) FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return FieldError{Field: typeErr.Field, Message: "must be " + typeErr.Type.String()}
	}
	return FieldError{Field: "body", Message: "malformed JSON"}
}

func decodeFieldErrors(err error) []FieldError {
	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return []FieldError{{Field: "params", Message: err.Error()}}
	}
	keys := make([]string, 0, len(multi))
	for k := range multi {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]FieldError, 0, len(keys))
	for _, k := range keys {
		msg := "invalid value"
		var conv schema.ConversionError
		if errors.As(multi[k], &conv) && conv.Type != nil {
			msg = "must be " + conv.Type.String()
		}
		fields = append(fields, FieldError{Field: k, Message: msg})
	}
	return fields
}
