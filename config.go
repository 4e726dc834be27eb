package auth

// AppConfig is the process-wide configuration. Loaded once at startup and
// never mutated afterwards; the signing settings are passed by reference
// into the token service and authenticator at construction.
type AppConfig struct {
	Server ServerConfig `json:"server" koanf:"server"`
	JWT    JWTConfig    `json:"jwt" koanf:"jwt"`
	DB     DBConfig     `json:"db" koanf:"db"`
}

type ServerConfig struct {
	Addr  string `json:"addr" koanf:"addr"`
	Debug bool   `json:"debug" koanf:"debug"`
}

type JWTConfig struct {
	// SecretKey must be non-empty; startup fails otherwise.
	SecretKey string `json:"secret_key" koanf:"secret_key"`
	Issuer    string `json:"issuer" koanf:"issuer"`
	Audience  string `json:"audience" koanf:"audience"`
	// TokenExpiration is the token lifetime in hours. Zero means the
	// DefaultTokenExpiration of 3 hours.
	TokenExpiration int `json:"token_expiration" koanf:"token_expiration"`
}

type DBConfig struct {
	DSN string `json:"dsn" koanf:"dsn"`
}

var _ Config = (*AppConfig)(nil)

// Validate is called by the config container after load. Signing
// configuration errors are fatal here, not on the first request.
func (c *AppConfig) Validate() error {
	if c.JWT.SecretKey == "" {
		return ErrMissingSigningKey
	}
	return nil
}

func (c *AppConfig) GetSigningKey() string {
	return c.JWT.SecretKey
}

func (c *AppConfig) GetSigningMethod() string {
	return "HS256"
}

func (c *AppConfig) GetTokenExpiration() int {
	if c.JWT.TokenExpiration <= 0 {
		return DefaultTokenExpiration
	}
	return c.JWT.TokenExpiration
}

func (c *AppConfig) GetIssuer() string {
	return c.JWT.Issuer
}

func (c *AppConfig) GetAudience() []string {
	if c.JWT.Audience == "" {
		return nil
	}
	return []string{c.JWT.Audience}
}

func (c *AppConfig) GetAddr() string {
	if c.Server.Addr == "" {
		return ":8080"
	}
	return c.Server.Addr
}

func (c *AppConfig) GetDSN() string {
	if c.DB.DSN == "" {
		return "file::memory:?cache=shared"
	}
	return c.DB.DSN
}
