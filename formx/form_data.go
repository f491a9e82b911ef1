package formx

import "github.com/samber/lo"

// Field is a single named form value.
type Field struct {
	Name  string
	Value string
}

// FormData is an ordered mapping of field names to values. Each name appears
// at most once and iteration follows insertion order.
//
// The zero value is ready to use.
type FormData struct {
	fields []Field
	index  map[string]int
}

// NewFormData builds a FormData from the given fields, in order. A repeated
// name overwrites the earlier value and keeps the earlier position.
func NewFormData(fields ...Field) *FormData {
	fd := &FormData{}
	for _, f := range fields {
		fd.Set(f.Name, f.Value)
	}
	return fd
}

// Set assigns value to name. An existing name keeps its position.
func (fd *FormData) Set(name, value string) {
	if fd.index == nil {
		fd.index = make(map[string]int)
	}
	if i, ok := fd.index[name]; ok {
		fd.fields[i].Value = value
		return
	}
	fd.index[name] = len(fd.fields)
	fd.fields = append(fd.fields, Field{Name: name, Value: value})
}

// Get returns the value of name and whether it is present.
func (fd *FormData) Get(name string) (string, bool) {
	if fd == nil {
		return "", false
	}
	i, ok := fd.index[name]
	if !ok {
		return "", false
	}
	return fd.fields[i].Value, true
}

// Del removes name, preserving the order of the remaining fields.
func (fd *FormData) Del(name string) {
	if fd == nil {
		return
	}
	i, ok := fd.index[name]
	if !ok {
		return
	}
	fd.fields = append(fd.fields[:i], fd.fields[i+1:]...)
	delete(fd.index, name)
	for j := i; j < len(fd.fields); j++ {
		fd.index[fd.fields[j].Name] = j
	}
}

func (fd *FormData) Len() int {
	if fd == nil {
		return 0
	}
	return len(fd.fields)
}

// Names returns the field names in order.
func (fd *FormData) Names() []string {
	return lo.Map(fd.Fields(), func(f Field, _ int) string {
		return f.Name
	})
}

// Fields returns a copy of the fields in order.
func (fd *FormData) Fields() []Field {
	if fd == nil {
		return []Field{}
	}
	return append([]Field{}, fd.fields...)
}

// Map returns the fields as an unordered map.
func (fd *FormData) Map() map[string]string {
	return lo.SliceToMap(fd.Fields(), func(f Field) (string, string) {
		return f.Name, f.Value
	})
}
