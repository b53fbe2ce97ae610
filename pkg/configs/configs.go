// Package configs provides the embedded default configuration file.
// Run `go generate ./pkg/configs` to update it from the root directory.
package configs

//go:generate cp ../../stampede.yml config.yml

import _ "embed"

// DefaultConfigBytes is the configuration template printed by `stampede config`.
//
//go:embed config.yml
var DefaultConfigBytes []byte
