// Package settings applies, copies and dumps project settings through the
// host interfaces.
package settings

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/menta2k/resolvekit/pkg/host"
)

var (
	ErrNoSettings    = errors.New("no settings retrieved from project")
	ErrLoadProject   = errors.New("failed to load project")
	ErrCreateProject = errors.New("failed to create project")
)

// maxListed is how many failures a summary spells out
const maxListed = 10

// Failure is a setting the host refused
type Failure struct {
	Key   string
	Value string
	// Err is set when the host raised instead of returning false
	Err error
}

func (f Failure) String() string {
	if f.Err != nil {
		return fmt.Sprintf("%s = %s (Error: %v)", f.Key, f.Value, f.Err)
	}
	return fmt.Sprintf("%s = %s", f.Key, f.Value)
}

// Result is the outcome of applying a batch of settings
type Result struct {
	Project string
	Applied int
	Total   int
	Failed  []Failure
}

// OK reports whether every setting was accepted
func (r Result) OK() bool {
	return len(r.Failed) == 0
}

// Apply sets every value on p, in key order. Rejected keys are collected,
// never fatal.
func Apply(ctx context.Context, p host.Project, values map[string]string) Result {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := Result{Total: len(values)}
	if name, err := p.Name(ctx); err == nil {
		r.Project = name
	}
	for _, k := range keys {
		ok, err := p.SetSetting(ctx, k, values[k])
		switch {
		case err != nil:
			r.Failed = append(r.Failed, Failure{Key: k, Value: values[k], Err: err})
		case !ok:
			r.Failed = append(r.Failed, Failure{Key: k, Value: values[k]})
		default:
			r.Applied++
		}
	}
	return r
}

// DefaultCopyName is the suggested name for a copy of source
func DefaultCopyName(source string) string {
	return source + " Copy"
}

// Read loads project source and returns all of its settings
func Read(ctx context.Context, pm host.ProjectManager, source string) (map[string]string, error) {
	p, err := pm.LoadProject(ctx, source)
	if err != nil {
		return nil, errors.Wrapf(ErrLoadProject, "%s: %v", source, err)
	}
	values, err := p.Settings(ctx)
	if err != nil {
		return nil, errors.Wrapf(ErrNoSettings, "%s: %v", source, err)
	}
	if len(values) == 0 {
		return nil, errors.Wrap(ErrNoSettings, source)
	}
	return values, nil
}

// CreateWith creates project name and applies values to it
func CreateWith(ctx context.Context, pm host.ProjectManager, name string, values map[string]string) (Result, error) {
	p, err := pm.CreateProject(ctx, name)
	if err != nil {
		return Result{}, errors.Wrapf(ErrCreateProject, "%s: %v", name, err)
	}
	r := Apply(ctx, p, values)
	r.Project = name
	return r, nil
}

// Copy creates newName with every setting of source. An empty newName
// selects DefaultCopyName.
func Copy(ctx context.Context, pm host.ProjectManager, source, newName string) (Result, error) {
	values, err := Read(ctx, pm, source)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(newName) == "" {
		newName = DefaultCopyName(source)
	}
	return CreateWith(ctx, pm, strings.TrimSpace(newName), values)
}

// Summary is the report shown after a copy
func Summary(r Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project created: %s\n\n", r.Project)
	fmt.Fprintf(&b, "Settings applied: %d/%d\n", r.Applied, r.Total)
	if r.OK() {
		b.WriteString("\nAll settings applied successfully!")
		return b.String()
	}

	fmt.Fprintf(&b, "\nFailed to apply %d setting(s):\n", len(r.Failed))
	for i, f := range r.Failed {
		if i == maxListed {
			fmt.Fprintf(&b, "  ... and %d more\n", len(r.Failed)-maxListed)
			break
		}
		fmt.Fprintf(&b, "  - %s\n", f.Key)
	}
	b.WriteString("\nNote: Some settings may be read-only or version-specific.")
	return b.String()
}

// PartialReport lists every failure of a preset application
func PartialReport(r Result) string {
	lines := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		lines[i] = f.String()
	}
	return fmt.Sprintf("Applied %d/%d settings.\n\nFailed settings:\n%s", r.Applied, r.Total, strings.Join(lines, "\n"))
}
