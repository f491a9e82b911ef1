package formx

import "io"

// Encoder writes multipart/form-data bodies to an [io.Writer].
type Encoder struct {
	w        io.Writer
	boundary string
}

// NewEncoder creates a new [Encoder] that writes to w using boundary.
func NewEncoder(w io.Writer, boundary string) *Encoder {
	return &Encoder{w: w, boundary: boundary}
}

// Boundary returns the boundary used by the encoder.
func (e *Encoder) Boundary() string {
	return e.boundary
}

// FormDataContentType returns the Content-Type header value for bodies written by e.
func (e *Encoder) FormDataContentType() string {
	return ContentType(e.boundary)
}

// Encode writes the body of fields to the underlying [io.Writer]. The output
// is byte-identical to [Encode].
func (e *Encoder) Encode(fields *FormData) error {
	return writeBody(e.w, e.boundary, fields)
}
