package config

import (
	_ "embed"
)

//go:embed schema.json
var configSchema string

// Schema returns the embedded JSON schema that ccp.yaml is validated
// against. The 'ccp schema' command prints it for editor integration.
func Schema() string {
	return configSchema
}
