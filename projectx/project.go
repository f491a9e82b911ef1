package projectx

import (
	"slices"
	"strings"

	"github.com/avdatabase/x/formx"
)

// Project holds the fields submitted for a new project.
type Project struct {
	ProjectCode     string `form:"project_code" json:"project_code" yaml:"project_code"`
	CurrentLocation string `form:"current_location" json:"current_location" yaml:"current_location"`
	Status          string `form:"status" json:"status" yaml:"status"`
	Specs           string `form:"specs" json:"specs" yaml:"specs"`
	Title           string `form:"title" json:"title" yaml:"title"`
}

// FormData returns the project fields ordered by name. Empty values are sent as empty fields.
func (p Project) FormData() (*formx.FormData, error) {
	fd, err := formx.Marshal(p)
	if err != nil {
		return nil, err
	}

	fields := fd.Fields()
	slices.SortFunc(fields, func(a, b formx.Field) int {
		return strings.Compare(a.Name, b.Name)
	})

	return formx.NewFormData(fields...), nil
}
