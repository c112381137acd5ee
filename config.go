package antlr4

import (
	"fmt"
	"os"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// configSchema constrains the shape of a HostConfig document. Kept inline
// (rather than a separate .json file) so the binary has no runtime
// dependency on an asset path.
const configSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["apiVersion", "atnFile"],
	"additionalProperties": false,
	"properties": {
		"apiVersion": {"type": "string"},
		"atnFile": {"type": "string"},
		"modes": {"type": "array", "items": {"type": "string"}},
		"hiddenChannels": {"type": "array", "items": {"type": "integer"}},
		"skipWhitespace": {"type": "boolean"}
	}
}`

// MinSupportedApiVersion is the lowest config apiVersion this build still
// understands. Raised whenever a breaking config-shape change ships.
const MinSupportedApiVersion = "v1.0.0"

// HostConfig is the YAML document describing how to run a lexer ATN
// outside of generated-lexer code: where its serialized form lives, the
// names of its modes in ModeToStartState order, and a couple of
// cmd/lexdump display conveniences.
type HostConfig struct {
	ApiVersion     string `yaml:"apiVersion"`
	AtnFile        string `yaml:"atnFile"`
	Modes          []string `yaml:"modes"`
	HiddenChannels []int  `yaml:"hiddenChannels"`
	SkipWhitespace bool   `yaml:"skipWhitespace"`
}

// LoadHostConfig reads, schema-validates, and version-gates the YAML
// document at path.
func LoadHostConfig(path string) (*HostConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read host config: %w", err)
	}

	var asMap map[string]interface{}
	if err := yaml.Unmarshal(raw, &asMap); err != nil {
		return nil, fmt.Errorf("parse host config: %w", err)
	}

	schema, err := jsonschema.CompileString("host-config.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}
	if err := schema.Validate(asMap); err != nil {
		return nil, describeValidationError(err, asMap)
	}

	var cfg HostConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode host config: %w", err)
	}

	v := cfg.ApiVersion
	if !semver.IsValid(v) {
		if semver.IsValid("v" + v) {
			v = "v" + v
		} else {
			return nil, fmt.Errorf("apiVersion %q is not a valid semantic version", cfg.ApiVersion)
		}
	}
	if semver.Compare(v, MinSupportedApiVersion) < 0 {
		return nil, fmt.Errorf("apiVersion %s predates the minimum supported %s", cfg.ApiVersion, MinSupportedApiVersion)
	}

	return &cfg, nil
}

// describeValidationError wraps a jsonschema validation failure with a
// did-you-mean suggestion when the offending key looks like a typo of a
// known field, rather than just echoing the schema's pointer/message.
func describeValidationError(err error, doc map[string]interface{}) error {
	known := []string{"apiVersion", "atnFile", "modes", "hiddenChannels", "skipWhitespace"}
	for key := range doc {
		found := false
		for _, k := range known {
			if k == key {
				found = true
				break
			}
		}
		if !found {
			if matches := fuzzy.RankFindFold(key, known); len(matches) > 0 {
				return fmt.Errorf("invalid host config: unknown field %q (did you mean %q?): %w", key, matches[0].Target, err)
			}
		}
	}
	return fmt.Errorf("invalid host config: %w", err)
}

// ModeIndex returns the ModeToStartState index of name, or -1 if cfg does
// not name that mode.
func (cfg *HostConfig) ModeIndex(name string) int {
	for i, m := range cfg.Modes {
		if m == name {
			return i
		}
	}
	return -1
}

// IsHiddenChannel reports whether channel is one cfg wants hidden from a
// lexdump token table.
func (cfg *HostConfig) IsHiddenChannel(channel int) bool {
	for _, c := range cfg.HiddenChannels {
		if c == channel {
			return true
		}
	}
	return false
}
