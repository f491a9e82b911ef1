package projectx

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/avdatabase/x/errorx"
	"github.com/avdatabase/x/httpx"
	"github.com/avdatabase/x/stringsx"
)

// CollectionRoute lists the projects known to the server.
const CollectionRoute = "/api/project"

// Requester performs plain HTTP requests. *httpx.Client implements it.
type Requester interface {
	MakeHTTPRequest(ctx context.Context, input *httpx.Request) (*httpx.Response, error)
}

// Record is a project as stored by the server.
type Record struct {
	ID string `json:"id"`
	Project
}

// ListProjects returns every project stored by the server at base.
func ListProjects(ctx context.Context, r Requester, base string) ([]Record, error) {
	target, err := TargetURL(base, CollectionRoute)
	if err != nil {
		return nil, err
	}

	res, err := get(ctx, r, target)
	if err != nil {
		return nil, err
	}

	list := gjson.ParseBytes(res.Body)
	if !list.IsArray() {
		return nil, errorx.InternalErrorf("expected a list of projects but got %q", truncate(res.Text()))
	}

	records := make([]Record, 0, len(list.Array()))
	list.ForEach(func(_, v gjson.Result) bool {
		records = append(records, recordFromJSON(v))
		return true
	})

	return records, nil
}

// GetProject returns the project stored under id, or a NOT_FOUND error.
func GetProject(ctx context.Context, r Requester, base, id string) (*Record, error) {
	if id == "" {
		return nil, errorx.InvalidArgumentErrorf("project id must not be empty")
	}

	target, err := TargetURL(base, CollectionRoute+"/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	res, err := get(ctx, r, target)
	if err != nil {
		return nil, err
	}

	// The server wraps the matching rows in a list: {"project": [{...}]}.
	project := gjson.GetBytes(res.Body, "project")
	if project.IsArray() {
		rows := project.Array()
		if len(rows) == 0 {
			return nil, errorx.NotFoundErrorf("project %s was not found", id)
		}
		project = rows[0]
	}
	if !project.IsObject() {
		return nil, errorx.InternalErrorf("expected a project but got %q", truncate(res.Text()))
	}

	record := recordFromJSON(project)
	return &record, nil
}

func get(ctx context.Context, r Requester, target string) (*httpx.Response, error) {
	res, err := r.MakeHTTPRequest(ctx, &httpx.Request{
		Method:  http.MethodGet,
		URL:     target,
		Headers: http.Header{"Accept": []string{"application/json"}},
	})
	if err != nil {
		return nil, err
	}

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, errorx.NotFoundErrorf("%s was not found", target)
	case res.StatusCode != http.StatusOK:
		return nil, errorx.FailedPreconditionErrorf("server answered %d: %s", res.StatusCode, truncate(res.Text()))
	case !gjson.ValidBytes(res.Body):
		return nil, errorx.InternalErrorf("server answered invalid JSON: %q", truncate(res.Text()))
	}

	return res, nil
}

func recordFromJSON(v gjson.Result) Record {
	return Record{
		ID: v.Get("id").String(),
		Project: Project{
			ProjectCode:     v.Get("project_code").String(),
			CurrentLocation: v.Get("current_location").String(),
			Status:          v.Get("status").String(),
			Specs:           v.Get("specs").String(),
			Title:           v.Get("title").String(),
		},
	}
}

// truncate shortens a response body for error messages. Error pages are usually
// indented HTML, which SingleLine flattens.
func truncate(s string) string {
	const limit = 256
	s = stringsx.SingleLine(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
