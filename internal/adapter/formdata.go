package adapter

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

type formPart struct {
	name     string
	value    string
	filename string
	content  io.Reader
}

// FormData is a multipart/form-data body. The multipart boundary is chosen
// when the request is built, so callers must not set a content-type for it.
type FormData struct {
	parts []formPart
}

// NewFormData returns an empty form.
func NewFormData() *FormData {
	return &FormData{}
}

// Append adds a plain field.
func (f *FormData) Append(name, value string) *FormData {
	f.parts = append(f.parts, formPart{name: name, value: value})
	return f
}

// AppendFile adds a file field whose content is read when the request is built.
func (f *FormData) AppendFile(name, filename string, content io.Reader) *FormData {
	f.parts = append(f.parts, formPart{name: name, filename: filename, content: content})
	return f
}

// Len returns the number of parts.
func (f *FormData) Len() int {
	return len(f.parts)
}

func (f *FormData) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range f.parts {
		if p.content == nil {
			if err := w.WriteField(p.name, p.value); err != nil {
				return nil, "", fmt.Errorf("failed to write form field %q: %w", p.name, err)
			}
			continue
		}

		part, err := w.CreateFormFile(p.name, p.filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %q: %w", p.name, err)
		}
		if _, err := io.Copy(part, p.content); err != nil {
			return nil, "", fmt.Errorf("failed to copy form file %q: %w", p.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form data: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
