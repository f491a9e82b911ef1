package httpx

import (
	"net/http"

	"github.com/avdatabase/x/errorx"
	"github.com/avdatabase/x/formx"
)

const (
	HeaderCacheControl = "Cache-Control"
	HeaderContentType  = "Content-Type"
	HeaderUserAgent    = "User-Agent"

	CacheControlNoCache = "no-cache"
)

// SetFormHeaders sets the headers announcing a multipart/form-data body delimited by boundary.
func SetFormHeaders(r *http.Request, boundary string) error {
	if r == nil {
		return errorx.InternalErrorf("request can not be nil")
	}
	if r.Header == nil {
		r.Header = http.Header{}
	}
	r.Header.Set(HeaderCacheControl, CacheControlNoCache)
	r.Header.Set(HeaderContentType, formx.ContentType(boundary))
	return nil
}
