package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/umputun/feed2index/pkg/domain"
)

// GenerateSchema reflects JSON schema of the configuration. Only fields tagged as required are required.
func GenerateSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{DoNotReference: true, RequiredFromJSONSchemaTags: true}
	return r.Reflect(&Config{})
}

// Verify checks the config against its reflected schema: required fields must be set
// and enumerated values must be one of allowed.
func Verify(cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return verifyNode(GenerateSchema(), doc, "")
}

func verifyNode(schema *jsonschema.Schema, value any, path string) error {
	if schema == nil {
		return nil
	}

	if len(schema.Enum) > 0 && !isEmpty(value) && !inEnum(schema.Enum, value) {
		return fmt.Errorf("%w: %s has unsupported value %v", domain.ErrConfiguration, path, value)
	}

	switch v := value.(type) {
	case map[string]any:
		for _, name := range schema.Required {
			if isEmpty(v[name]) {
				return fmt.Errorf("%w: %s is required", domain.ErrConfiguration, join(path, name))
			}
		}
		if schema.Properties == nil {
			return nil
		}
		for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if err := verifyNode(pair.Value, v[pair.Key], join(path, pair.Key)); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range v {
			if err := verifyNode(schema.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}

func inEnum(enum []any, v any) bool {
	for _, e := range enum {
		if fmt.Sprint(e) == fmt.Sprint(v) {
			return true
		}
	}
	return false
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
