package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// Field is one named form value.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered set of form values. Order is kept in both JSON and
// multipart encodings so requests mirror the form they came from.
type Fields []Field

// Set returns a copy of f with name replaced, or appended if absent. f itself
// is never modified.
func (f Fields) Set(name string, value any) Fields {
	out := make(Fields, len(f), len(f)+1)
	copy(out, f)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, Field{Name: name, Value: value})
}

func (f Fields) Get(name string) (any, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// Without returns a copy of f lacking name.
func (f Fields) Without(name string) Fields {
	out := make(Fields, 0, len(f))
	for _, field := range f {
		if field.Name != name {
			out = append(out, field)
		}
	}
	return out
}

// MarshalJSON encodes f as a JSON object in field order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FieldsFromMap builds Fields from m in the key order given.
func FieldsFromMap(m map[string]any, order ...string) Fields {
	out := make(Fields, 0, len(m))
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if v, ok := m[name]; ok {
			out = append(out, Field{Name: name, Value: v})
			seen[name] = true
		}
	}
	for name, v := range m {
		if !seen[name] {
			out = append(out, Field{Name: name, Value: v})
		}
	}
	return out
}

// multipartValue flattens a field value into the string a multipart part carries.
// Scalars are written as-is; lists, maps and structs are JSON-stringified.
func multipartValue(v any) (string, bool, error) {
	switch val := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return val, true, nil
	case []byte:
		return string(val), true, nil
	case bool:
		return strconv.FormatBool(val), true, nil
	case int:
		return strconv.Itoa(val), true, nil
	case int64:
		return strconv.FormatInt(val, 10), true, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true, nil
	case json.Number:
		return val.String(), true, nil
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return "", false, err
		}
		return string(data), true, nil
	}
}

// Upload is a locally selected file destined for the image field.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewUpload sniffs the content type from the name, falling back to the bytes.
func NewUpload(filename string, data []byte) *Upload {
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &Upload{Filename: filepath.Base(filename), ContentType: contentType, Data: data}
}

// UploadFromFile reads path into an Upload.
func UploadFromFile(path string) (*Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(errReadFileFmt, path, err)
	}
	return NewUpload(path, data), nil
}
