package upstream

import (
	"bytes"
	"io"
	"mime/multipart"
)

// Upload is a file attached to a multipart endpoint (e.g. a clinic photo).
type Upload struct {
	FieldName string
	FileName  string
	Content   io.Reader
}

// multipartForm collects plain fields and optional file parts for endpoints
// that accept multipart form encoding instead of JSON.
type multipartForm struct {
	fields map[string]string
	files  []Upload
}

func newMultipartForm() *multipartForm {
	return &multipartForm{fields: make(map[string]string)}
}

func (f *multipartForm) set(name, value string) *multipartForm {
	f.fields[name] = value
	return f
}

func (f *multipartForm) attach(up *Upload) *multipartForm {
	if up != nil && up.Content != nil {
		f.files = append(f.files, *up)
	}
	return f
}

// encode renders the form body and returns it with its content type,
// including the generated boundary.
func (f *multipartForm) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range f.fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	for _, up := range f.files {
		part, err := w.CreateFormFile(up.FieldName, up.FileName)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, up.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
