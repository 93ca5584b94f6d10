// internal/config/model.go
//
// Typed configuration model for the forms gateway.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                  – dotenv values,
//   • `conf/global.yaml`                    – primary static file,
//   • `VSF_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* validation, so the model never stores
// Vault URIs at runtime—only plain strings.
//
// Validation happens immediately after unmarshal; the gateway fails fast
// if required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml`
//     tags unless configured otherwise.

package config

//
// HTTP section
//

// HTTP holds web-server tunables and the CORS allow-list.
type HTTP struct {
	ListenAddr     string   `koanf:"listen_addr"     validate:"required,hostname_port"`
	AllowedOrigins []string `koanf:"allowed_origins" validate:"required,min=1,dive,required"`
}

//
// Provider sections
//

// Mailgun holds the list/email provider settings.  Domain is the sending
// and list domain; the full list address is <list>@<domain>.
type Mailgun struct {
	BaseURL string `koanf:"base_url"`
	Domain  string `koanf:"domain"  validate:"required,fqdn"`
	APIKey  string `koanf:"api_key" validate:"required"`
	From    string `koanf:"from"    validate:"required"`
}

// Zoom holds the meeting-registration provider settings.  APIKey and
// APISecret sign the short-lived bearer tokens.
type Zoom struct {
	BaseURL   string `koanf:"base_url"`
	MeetingID int64  `koanf:"meeting_id" validate:"required"`
	APIKey    string `koanf:"api_key"    validate:"required"`
	APISecret string `koanf:"api_secret" validate:"required"`
}

// Captcha holds the verification-service settings.
type Captcha struct {
	BaseURL string `koanf:"base_url"`
	Secret  string `koanf:"secret" validate:"required"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or VSF_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // VSF_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the gateway lifetime.
type Config struct {
	HTTP    HTTP    `koanf:"http"`
	Mailgun Mailgun `koanf:"mailgun"`
	Zoom    Zoom    `koanf:"zoom"`
	Captcha Captcha `koanf:"captcha"`
	Paths   Paths   `koanf:"-"` // not loaded from config files
}
