// Package catalog loads the project catalog from YAML, checks it, and
// seeds it into the store.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/afero"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/pathwise/internal/models"
	"github.com/abhisek/pathwise/internal/taskgraph"
)

// SupportedMajor is the catalog format major version this build reads.
const SupportedMajor = "v1"

//go:embed catalog.schema.json
var schemaJSON []byte

const schemaURL = "schema://pathwise/catalog.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Catalog is a parsed catalog file.
type Catalog struct {
	Version  string    `yaml:"version"`
	Skills   []Skill   `yaml:"skills"`
	Projects []Project `yaml:"projects"`
}

type Skill struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

type SkillRef struct {
	Name        string `yaml:"name"`
	Proficiency string `yaml:"proficiency"`
}

type Project struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Difficulty  string     `yaml:"difficulty"`
	Skills      []SkillRef `yaml:"skills"`
	Tasks       []Task     `yaml:"tasks"`
}

// Task references prerequisites by key within its project and skills by
// name.
type Task struct {
	Key             string   `yaml:"key"`
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	Scenario        string   `yaml:"scenario"`
	ExpectedOutcome string   `yaml:"expected_outcome"`
	Category        string   `yaml:"category"`
	Resource        string   `yaml:"resource"`
	Prerequisites   []string `yaml:"prerequisites"`
	Skills          []string `yaml:"skills"`
}

// ValidationError lists every problem found in a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid catalog:\n  %s", strings.Join(e.Problems, "\n  "))
}

// Load reads and checks the catalog at path on the OS filesystem.
func Load(path string) (*Catalog, error) {
	return LoadFS(afero.NewOsFs(), path)
}

// LoadFS reads and checks the catalog at path on fsys.
func LoadFS(fsys afero.Fs, path string) (*Catalog, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes YAML, validates it against the catalog schema, checks the
// format version, and verifies references and task dependencies.
func Parse(data []byte) (*Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := checkVersion(cat.Version); err != nil {
		return nil, err
	}
	if err := cat.Check(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func checkVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("catalog version %q is not a semantic version", v)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("catalog version %s not supported (want %s.x)", v, SupportedMajor)
	}
	return nil
}

func validateSchema(doc any) error {
	sch, err := catalogSchema()
	if err != nil {
		return fmt.Errorf("load catalog schema: %w", err)
	}

	// The validator wants JSON-shaped values.
	raw, err := json.Marshal(normalize(doc))
	if err != nil {
		return fmt.Errorf("convert catalog: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("convert catalog: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("catalog schema validation failed: %w", err)
	}
	return nil
}

func catalogSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// normalize turns YAML maps with non-string keys into string-keyed maps.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// Check verifies names and references the schema cannot express: unique
// skill names, project titles and task keys, known skill and prerequisite
// references, and an acyclic task graph per project.
func (c *Catalog) Check() error {
	var problems []string

	skills := make(map[string]bool, len(c.Skills))
	for _, s := range c.Skills {
		if skills[s.Name] {
			problems = append(problems, fmt.Sprintf("duplicate skill %q", s.Name))
		}
		skills[s.Name] = true
	}

	titles := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		if titles[p.Title] {
			problems = append(problems, fmt.Sprintf("duplicate project %q", p.Title))
		}
		titles[p.Title] = true

		seen := make(map[string]bool, len(p.Skills))
		for _, ref := range p.Skills {
			if !skills[ref.Name] {
				problems = append(problems, fmt.Sprintf("project %q: unknown skill %q", p.Title, ref.Name))
			}
			if seen[ref.Name] {
				problems = append(problems, fmt.Sprintf("project %q: skill %q listed twice", p.Title, ref.Name))
			}
			seen[ref.Name] = true
		}
		problems = append(problems, checkTasks(p, skills)...)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func checkTasks(p Project, skills map[string]bool) []string {
	var problems []string

	ids := make(map[string]int64, len(p.Tasks))
	for i, t := range p.Tasks {
		if _, dup := ids[t.Key]; dup {
			problems = append(problems, fmt.Sprintf("project %q: duplicate task key %q", p.Title, t.Key))
			continue
		}
		ids[t.Key] = int64(i + 1)
	}

	keys := make(map[int64]string, len(ids))
	for k, id := range ids {
		keys[id] = k
	}

	graph := make([]models.Task, 0, len(p.Tasks))
	for i, t := range p.Tasks {
		seen := make(map[string]bool, len(t.Skills))
		for _, name := range t.Skills {
			if !skills[name] {
				problems = append(problems, fmt.Sprintf("project %q: task %q: unknown skill %q", p.Title, t.Key, name))
			}
			if seen[name] {
				problems = append(problems, fmt.Sprintf("project %q: task %q: skill %q listed twice", p.Title, t.Key, name))
			}
			seen[name] = true
		}
		if ids[t.Key] != int64(i+1) {
			continue // duplicate, already reported
		}
		mt := models.Task{ID: ids[t.Key], ProjectID: 1}
		for _, pk := range t.Prerequisites {
			pid, ok := ids[pk]
			if !ok {
				problems = append(problems, fmt.Sprintf("project %q: task %q: unknown prerequisite %q", p.Title, t.Key, pk))
				continue
			}
			mt.Prerequisites = append(mt.Prerequisites, pid)
		}
		graph = append(graph, mt)
	}

	err := taskgraph.Validate(graph)
	var verr *taskgraph.ValidationError
	switch {
	case errors.As(err, &verr):
		for _, prob := range verr.Problems {
			problems = append(problems, fmt.Sprintf("project %q: %s", p.Title, describeKeys(prob, keys)))
		}
	case err != nil:
		problems = append(problems, fmt.Sprintf("project %q: %v", p.Title, err))
	}
	return problems
}

var taskIDPattern = regexp.MustCompile(`\d+`)

// describeKeys rewrites the synthetic task IDs in a graph problem back to
// catalog keys, e.g. "cycle detected involving tasks: 2, 3" becomes
// "cycle detected involving tasks: api, deploy".
func describeKeys(problem string, keys map[int64]string) string {
	return taskIDPattern.ReplaceAllStringFunc(problem, func(m string) string {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return m
		}
		if k, ok := keys[id]; ok {
			return k
		}
		return m
	})
}

// TaskCount returns the number of tasks across all projects.
func (c *Catalog) TaskCount() int {
	n := 0
	for _, p := range c.Projects {
		n += len(p.Tasks)
	}
	return n
}
