package projectx

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/avdatabase/x/errorx"
)

// DefaultRoute is the path on which the project server adds projects.
const DefaultRoute = "/api/project/"

var validate = validator.New(validator.WithRequiredStructEnabled())

// TargetURL replaces the path of base with route, keeping scheme, host and query.
// An empty route selects DefaultRoute.
func TargetURL(base, route string) (string, error) {
	if err := validate.Var(base, "required,url"); err != nil {
		return "", errorx.InvalidArgumentErrorf("server url %q is not an absolute url", base).WithOriginalError(err)
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", errorx.InvalidArgumentErrorf("server url %q is not valid: %s", base, err).WithOriginalError(err)
	}

	if route == "" {
		route = DefaultRoute
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}

	u.Path = route
	u.RawPath = ""

	return u.String(), nil
}
