package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report offending fields by their wire names, not Go names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// date fields accept a plain date or a full ISO 8601 timestamp
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if _, err := time.Parse("2006-01-02", s); err == nil {
			return true
		}
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	})
	return v
}

// ValidationError carries the wire names of the fields that made a payload
// unacceptable. Fields may be empty when the body is not valid JSON at all.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid payload"
	}
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

// DecodeRecord reads one JSON object into a CRMRecord under the strict
// schema: unrecognized keys are rejected rather than dropped, and every
// present value must satisfy the field's validation rules.
func DecodeRecord(r io.Reader) (CRMRecord, error) {
	var rec CRMRecord
	if err := strictDecode(r, &rec); err != nil {
		return CRMRecord{}, err
	}
	if err := checkStruct(rec); err != nil {
		return CRMRecord{}, err
	}
	return rec, nil
}

// DecodeRecordBatch reads a JSON array of records. An empty array is a
// validation failure; so is any invalid element. Nothing is partially
// accepted.
func DecodeRecordBatch(r io.Reader) ([]CRMRecord, error) {
	var recs []CRMRecord
	if err := strictDecode(r, &recs); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, &ValidationError{Fields: []string{"records"}}
	}

	var bad []string
	for _, rec := range recs {
		var ve *ValidationError
		if err := checkStruct(rec); errors.As(err, &ve) {
			bad = append(bad, ve.Fields...)
		} else if err != nil {
			return nil, err
		}
	}
	if len(bad) > 0 {
		return nil, &ValidationError{Fields: bad}
	}
	return recs, nil
}

// DecodeConfig reads the reference-data configuration document.
func DecodeConfig(r io.Reader) (SystemConfig, error) {
	var cfg SystemConfig
	if err := strictDecode(r, &cfg); err != nil {
		return SystemConfig{}, err
	}
	if err := checkStruct(cfg); err != nil {
		return SystemConfig{}, err
	}
	return cfg, nil
}

func strictDecode(r io.Reader, v any) error {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return asValidationError(err)
	}

	// a literal null would decode into the zero value and slip through
	if string(bytes.TrimSpace(raw)) == "null" {
		return &ValidationError{}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return asValidationError(err)
	}
	return nil
}

func asValidationError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &ValidationError{Fields: []string{typeErr.Field}}
	}

	// encoding/json has no typed error for unknown fields
	const prefix = `json: unknown field `
	if msg := err.Error(); strings.HasPrefix(msg, prefix) {
		return &ValidationError{Fields: []string{strings.Trim(strings.TrimPrefix(msg, prefix), `"`)}}
	}

	return &ValidationError{}
}

func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}
