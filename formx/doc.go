// Package formx encodes ordered form fields into multipart/form-data bodies.
//
// The encoding is intentionally minimal: every field becomes a plain text part
// with a single Content-Disposition header, and values are written verbatim.
// No escaping is performed, so a value that contains the boundary produces a
// body that a server will split differently. Use [CheckBoundary] or a
// per-request [NewBoundary] when field values are not trusted.
package formx
