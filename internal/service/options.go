package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"quiz-bank/internal/domain"
)

const (
	msgInvalidOptionsFormat = "Invalid options format."
	msgOptionsShape         = "Options must be an array or object with string values."
	msgTooFewOptions        = "Options must be an array with at least two elements."
	msgInvalidTagsFormat    = "Invalid tags format."
	msgTagsShape            = "Tags must be an array of strings."
)

// NormalizeOptions turns the raw options value into an ordered list of strings.
// Accepted shapes: a list of scalars, a keyed mapping of scalars (values taken in
// document order), or either of those serialized as a JSON string.
func NormalizeOptions(raw json.RawMessage) ([]string, error) {
	inner, err := unwrapSerialized(raw)
	if err != nil {
		return nil, domain.NewValidationError(msgInvalidOptionsFormat)
	}

	var opts []string
	switch firstByte(inner) {
	case '[':
		opts, err = scalarList(inner)
	case '{':
		opts, err = scalarMapValues(inner)
	default:
		return nil, domain.NewValidationError(msgOptionsShape)
	}
	if err != nil {
		if errors.Is(err, errNotScalar) {
			return nil, domain.NewValidationError(msgOptionsShape)
		}
		return nil, domain.NewValidationError(msgInvalidOptionsFormat)
	}
	if len(opts) < 2 {
		return nil, domain.NewValidationError(msgTooFewOptions)
	}
	return opts, nil
}

// ParseTags accepts a list of scalars, optionally serialized as a JSON string.
func ParseTags(raw json.RawMessage) ([]string, error) {
	inner, err := unwrapSerialized(raw)
	if err != nil {
		return nil, domain.NewValidationError(msgInvalidTagsFormat)
	}
	switch firstByte(inner) {
	case 'n':
		return []string{}, nil
	case '[':
	default:
		return nil, domain.NewValidationError(msgTagsShape)
	}

	tags, err := scalarList(inner)
	if err != nil {
		if errors.Is(err, errNotScalar) {
			return nil, domain.NewValidationError(msgTagsShape)
		}
		return nil, domain.NewValidationError(msgInvalidTagsFormat)
	}
	return tags, nil
}

var errNotScalar = errors.New("value is not a scalar")

// unwrapSerialized returns the decoded document when raw is a JSON string
// holding serialized JSON, and raw itself otherwise.
func unwrapSerialized(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if firstByte(trimmed) != '"' {
		if !json.Valid(trimmed) {
			return nil, errors.New("malformed JSON")
		}
		return trimmed, nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return nil, err
	}
	inner := bytes.TrimSpace([]byte(text))
	if !json.Valid(inner) {
		return nil, errors.New("malformed serialized JSON")
	}
	return inner, nil
}

func firstByte(b []byte) byte {
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

func scalarList(doc []byte) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(doc, &items); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, err := scalarText(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// scalarMapValues walks the object token by token so values keep document order.
func scalarMapValues(doc []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil { // opening brace
		return nil, err
	}

	var out []string
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			return nil, err
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		s, err := scalarText(value)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return out, nil
}

func scalarText(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", errNotScalar
	}
}
