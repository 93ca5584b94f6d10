// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree (and resolves Vault references) into a
// `Config` instance.  Any tag mismatch or validation error aborts startup,
// ensuring the binary never runs with partial, malformed, or missing
// configuration.
//
// Rules in use: `required` on every credential and identifier,
// `hostname_port` on the listen address, `fqdn` on the Mailgun domain,
// and `min=1,dive,required` on the CORS allow-list.

package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
