package formx

import (
	"bytes"
	"io"
)

// DefaultBoundary is the fixed boundary token expected by the project server.
const DefaultBoundary = "----WebKitFormBoundary7MA4YWxkTrZu0gW"

// ContentType returns the Content-Type header value announcing boundary.
func ContentType(boundary string) string {
	return "multipart/form-data; boundary=" + boundary
}

// Encode returns the multipart/form-data body of fields delimited by boundary.
//
// Each field is written as
//
//	--{boundary}\r\nContent-Disposition: form-data; name="{name}"\r\n\r\n{value}\r\n
//
// and the body ends with --{boundary}-- without a trailing CRLF.
func Encode(boundary string, fields *FormData) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes never fail.
	_ = writeBody(&buf, boundary, fields)
	return buf.Bytes()
}

func writeBody(w io.Writer, boundary string, fields *FormData) error {
	for _, f := range fields.Fields() {
		if err := writePart(w, boundary, f); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "--"+boundary+"--")
	return err
}

func writePart(w io.Writer, boundary string, f Field) error {
	for _, s := range []string{
		"--", boundary, "\r\n",
		`Content-Disposition: form-data; name="`, f.Name, "\"\r\n",
		"\r\n",
		f.Value, "\r\n",
	} {
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}
