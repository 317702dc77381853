package node

import (
	"fmt"
	"net/url"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/gorilla/schema"
)

// Config is the ambient configuration a binary wiring up a Node needs:
// which Transport to dial and the command-signing identity to use for
// RegisterPrefix. Grounded on the teacher's mgmt.MgmtConfig /
// NewUnixFace / NewStreamFace constructors, generalized into one
// loadable struct instead of positional constructor arguments.
type Config struct {
	// Network is "unix", "tcp", or "ws".
	Network string `yaml:"network" schema:"network"`
	// Address is a socket path for "unix", or a host:port / ws(s):// URL
	// for "tcp"/"ws".
	Address string `yaml:"address" schema:"address"`
	// Local overrides the Transport's own notion of locality, e.g. to
	// treat a TCP loopback connection as local for registration
	// lifetimes (spec §4.4.2).
	Local bool `yaml:"local" schema:"local"`

	// CertName is the certificate Name passed to KeyChain.SignInterest
	// for command Interests (spec §4.4.2, §4.5).
	CertName string `yaml:"cert_name" schema:"cert_name"`
}

var schemaDecoder = schema.NewDecoder()

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

// LoadConfig reads a YAML Config from path.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("node: reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("node: parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyOverrides decodes values (e.g. a command's flag set rendered as
// url.Values, or an incoming HTTP form) onto cfg, leaving any field
// values left unset by the caller alone.
func (cfg *Config) ApplyOverrides(values url.Values) error {
	if err := schemaDecoder.Decode(cfg, values); err != nil {
		return fmt.Errorf("node: applying config overrides: %w", err)
	}
	return nil
}
