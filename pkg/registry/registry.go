// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var ErrActivityNotFound = errors.New("activity not found")

//go:embed activities.json
var embeddedRegistry []byte

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a registry document and checks that every activity has a
// unique task type and compilable schemas.
func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

var defaultRegistry = sync.OnceValue(func() *ActivityRegistry {
	reg, err := Parse(embeddedRegistry)
	if err != nil {
		panic(fmt.Sprintf("registry: embedded activities: %v", err))
	}
	return reg
})

// Default is the registry shipped with the binary.
func Default() *ActivityRegistry {
	return defaultRegistry()
}

func (r *ActivityRegistry) Validate() error {
	seen := make(map[string]bool, len(r.Activities))
	for i, a := range r.Activities {
		if a.TaskType == "" {
			return fmt.Errorf("activity %d (%s): taskType is required", i, a.ID)
		}
		if seen[a.TaskType] {
			return fmt.Errorf("activity %s: duplicate taskType %q", a.ID, a.TaskType)
		}
		seen[a.TaskType] = true

		for name, schema := range map[string]map[string]interface{}{
			"inputSchema":  a.InputSchema,
			"outputSchema": a.OutputSchema,
		} {
			if schema == nil {
				continue
			}
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
				return fmt.Errorf("activity %s: %s: %w", a.ID, name, err)
			}
		}
	}
	return nil
}

func (r *ActivityRegistry) Find(taskType string) (Activity, error) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, nil
		}
	}
	return Activity{}, fmt.Errorf("%w: %s", ErrActivityNotFound, taskType)
}

// ValidateInput checks raw JSON variables against the input schema. A nil
// schema accepts anything.
func (a Activity) ValidateInput(variables []byte) error {
	return validate(a.InputSchema, variables)
}

// ValidateOutput checks a value against the output schema.
func (a Activity) ValidateOutput(output interface{}) error {
	data, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return validate(a.OutputSchema, data)
}

func validate(schema map[string]interface{}, document []byte) error {
	if schema == nil {
		return nil
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			msgs[i] = e.String()
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return nil
}
