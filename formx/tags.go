package formx

import (
	"reflect"
	"strings"
	"sync"
)

// cache of struct tags to avoid repeated parsing of the same struct type. The
// key is the [reflect.Type] of the struct and the value is a slice of *tag,
// one for each field on the struct.
var structTagCache sync.Map

type tag struct {
	Name   string
	Omit   bool
	Ignore bool
}

func tags(t reflect.Type) []*tag {
	if cached, ok := structTagCache.Load(t); ok {
		return cached.([]*tag)
	}

	tags := make([]*tag, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := parseTag(f.Tag.Get("form"))
		if !f.IsExported() {
			tag.Ignore = true
		}
		if !tag.Ignore && tag.Name == "" {
			tag.Name = f.Name
		}
		tags[i] = tag
	}

	structTagCache.Store(t, tags)
	return tags
}

func parseTag(str string) *tag {
	str = strings.TrimSpace(str)
	if str == "-" {
		return &tag{Ignore: true}
	}

	parts := strings.Split(str, ",")
	t := &tag{Name: strings.TrimSpace(parts[0])}

	for _, p := range parts[1:] {
		switch strings.TrimSpace(p) {
		case "omitempty":
			t.Omit = true
		case "ignore":
			t.Ignore = true
		}
	}

	return t
}
