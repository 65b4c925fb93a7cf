package typegraph

// Meta carries the serving metadata of a typegraph: CORS, authentication,
// rate limiting, secrets, and the embedded query endpoints.
type Meta struct {
	Prefix  string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Secrets []string `json:"secrets" yaml:"secrets"`
	Queries Queries  `json:"queries" yaml:"queries"`
	Cors    Cors     `json:"cors" yaml:"cors"`
	Auths   []Auth   `json:"auths" yaml:"auths"`
	Rate    *Rate    `json:"rate,omitempty" yaml:"rate,omitempty"`
	Version string   `json:"version" yaml:"version"`
}

// Queries lists the normalized embedded query endpoints and whether
// dynamic (non-embedded) queries are served.
type Queries struct {
	Dynamic   bool     `json:"dynamic" yaml:"dynamic"`
	Endpoints []string `json:"endpoints" yaml:"endpoints"`
}

// Cors is the cross-origin resource sharing configuration.
type Cors struct {
	AllowOrigin      []string `json:"allow_origin" yaml:"allow_origin"`
	AllowHeaders     []string `json:"allow_headers" yaml:"allow_headers"`
	ExposeHeaders    []string `json:"expose_headers" yaml:"expose_headers"`
	AllowMethods     []string `json:"allow_methods" yaml:"allow_methods"`
	AllowCredentials bool     `json:"allow_credentials" yaml:"allow_credentials"`
	MaxAgeSec        *uint32  `json:"max_age_sec,omitempty" yaml:"max_age_sec,omitempty"`
}

// Auth is one authentication configuration.
type Auth struct {
	Name     string         `json:"name" yaml:"name"`
	Protocol string         `json:"protocol" yaml:"protocol"`
	AuthData map[string]any `json:"auth_data" yaml:"auth_data"`
}

// Rate is the rate-limit configuration.
type Rate struct {
	WindowLimit       uint32 `json:"window_limit" yaml:"window_limit"`
	WindowSec         uint32 `json:"window_sec" yaml:"window_sec"`
	QueryLimit        uint32 `json:"query_limit" yaml:"query_limit"`
	ContextIdentifier string `json:"context_identifier,omitempty" yaml:"context_identifier,omitempty"`
	LocalExcess       uint32 `json:"local_excess" yaml:"local_excess"`
}
