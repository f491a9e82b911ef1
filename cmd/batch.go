package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/avdatabase/x/configx"
	"github.com/avdatabase/x/errorx"
	"github.com/avdatabase/x/projectx"
)

func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Submit every project of a YAML or JSON file",
		Long: `Submit every project listed in a YAML or JSON file. Each project is its own
request; a failed submission does not stop the others.

The file is either a list of projects or an object with a "projects" list and
"defaults" applied to every project:

  defaults:
    status: open
    current_location: Room 100
  projects:
    - project_code: P-1
      title: Tower
    - project_code: P-2
      title: Bridge
      status: closed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return errors.WithStack(err)
			}

			projects, err := ReadBatch(raw)
			if err != nil {
				return err
			}

			rt, err := NewRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Shutdown(cmd.Context())

			results := projectx.SubmitAll(cmd.Context(), rt.Adder(), projects, rt.Config.IntF("client.concurrency", projectx.DefaultConcurrency))

			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Outcome == projectx.OutcomeSuccess {
					_, _ = fmt.Fprintf(out, "ok    %s\t%s\n", r.Project.ProjectCode, r.Project.Title)
					continue
				}
				_, _ = fmt.Fprintf(out, "fail  %s\t%s\t%s\n", r.Project.ProjectCode, r.Project.Title, r.Text)
			}

			succeeded, failed := projectx.Summarize(results)
			_, _ = fmt.Fprintf(out, "%d succeeded, %d failed\n", succeeded, failed)
			if failed > 0 {
				return errorx.FailedPreconditionErrorf("%d of %d projects could not be added", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().Int(configx.FlagName("client.concurrency"), 0, "Parallel submissions.")

	return cmd
}

// ReadBatch parses a batch file. See the batch command for the format.
func ReadBatch(raw []byte) ([]projectx.Project, error) {
	doc, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return nil, errorx.InvalidArgumentErrorf("unable to parse the batch file: %s", err)
	}

	parsed := gjson.ParseBytes(doc)
	items := parsed
	defaults := map[string]interface{}{}
	if parsed.IsObject() {
		items = parsed.Get("projects")
		if d := parsed.Get("defaults"); d.Exists() {
			if !d.IsObject() {
				return nil, errorx.InvalidArgumentErrorf("batch defaults must be an object")
			}
			if err := json.Unmarshal([]byte(d.Raw), &defaults); err != nil {
				return nil, errors.WithStack(err)
			}
		}
	}
	if !items.IsArray() {
		return nil, errorx.InvalidArgumentErrorf("the batch file must hold a list of projects")
	}

	list := items.Array()
	projects := make([]projectx.Project, 0, len(list))
	for i, item := range list {
		if !item.IsObject() {
			return nil, errorx.InvalidArgumentErrorf("project #%d is not an object", i+1)
		}

		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(item.Raw), &fields); err != nil {
			return nil, errors.WithStack(err)
		}

		merged := make(map[string]interface{}, len(defaults))
		for k, v := range defaults {
			merged[k] = v
		}
		if err := configx.MergeAllTypes(fields, merged); err != nil {
			return nil, err
		}

		p, err := projectFromFields(merged)
		if err != nil {
			return nil, errorx.InvalidArgumentErrorf("project #%d: %s", i+1, err)
		}
		projects = append(projects, p)
	}

	return projects, nil
}

var projectFields = []string{"current_location", "project_code", "specs", "status", "title"}

func projectFromFields(fields map[string]interface{}) (projectx.Project, error) {
	var p projectx.Project
	known := map[string]*string{
		"project_code":     &p.ProjectCode,
		"current_location": &p.CurrentLocation,
		"status":           &p.Status,
		"specs":            &p.Specs,
		"title":            &p.Title,
	}

	for name, value := range fields {
		dst, ok := known[name]
		if !ok {
			return p, errorx.NewEnumOutOfRangeError(name, projectFields, "project field")
		}
		s, err := cast.ToStringE(value)
		if err != nil {
			return p, errors.Errorf("field %q must be a scalar", name)
		}
		*dst = s
	}
	return p, nil
}
