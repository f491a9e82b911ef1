package formx

import (
	"strings"

	"github.com/samber/lo"

	"github.com/avdatabase/x/errorx"
	"github.com/avdatabase/x/stringsx"
)

const (
	boundaryPrefix       = "----FormBoundary"
	boundaryRandomLength = 24
)

// NewBoundary returns a fresh random boundary token.
func NewBoundary() string {
	return boundaryPrefix + stringsx.Random(boundaryRandomLength)
}

// CheckBoundary reports the fields whose name or value contains boundary.
// Such fields would split the encoded body at the wrong place.
func CheckBoundary(boundary string, fields *FormData) error {
	if boundary == "" {
		return errorx.InvalidArgumentErrorf("the multipart boundary must not be empty")
	}

	colliding := lo.Filter(fields.Fields(), func(f Field, _ int) bool {
		return strings.Contains(f.Name, boundary) || strings.Contains(f.Value, boundary)
	})
	if len(colliding) == 0 {
		return nil
	}

	err := errorx.InvalidArgumentErrorf("%d form field(s) contain the multipart boundary %q", len(colliding), boundary)
	for _, f := range colliding {
		err = err.WithDetails(errorx.InvalidArgumentErrorf("field %q contains the boundary", f.Name))
	}
	return err
}
