package testx

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"

	"github.com/avdatabase/x/formx"
)

// Submission is a multipart/form-data request received by a FormServer.
type Submission struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
	// Boundary is the boundary announced in the Content-Type header.
	Boundary string
	// Fields holds the parts in wire order.
	Fields []formx.Field
}

// FormData returns the submitted fields.
func (s Submission) FormData() *formx.FormData {
	return formx.NewFormData(s.Fields...)
}

// ParseMultipart reads the parts of body using the boundary announced in contentType.
func ParseMultipart(contentType string, body []byte) (string, []formx.Field, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", nil, errors.WithStack(err)
	}
	if mediaType != "multipart/form-data" {
		return "", nil, errors.Errorf("unexpected media type %q", mediaType)
	}

	boundary := params["boundary"]
	mr := multipart.NewReader(bytes.NewReader(body), boundary)

	var fields []formx.Field
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return boundary, fields, nil
		}
		if err != nil {
			return boundary, fields, errors.WithStack(err)
		}

		v, err := io.ReadAll(p)
		if err != nil {
			return boundary, fields, errors.WithStack(err)
		}
		fields = append(fields, formx.Field{Name: p.FormName(), Value: string(v)})
	}
}
