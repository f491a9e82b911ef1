package projectx

import "github.com/tidwall/gjson"

// Created is the server answer to a successful add.
type Created struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ParseCreated reads the `{"id": ..., "url": ...}` answer of the project server.
// It returns false for any other body.
func ParseCreated(body []byte) (Created, bool) {
	if !gjson.ValidBytes(body) {
		return Created{}, false
	}

	res := gjson.ParseBytes(body)
	if !res.IsObject() {
		return Created{}, false
	}

	id := res.Get("id")
	if !id.Exists() || id.String() == "" {
		return Created{}, false
	}

	return Created{ID: id.String(), URL: res.Get("url").String()}, true
}
