// Package token provides session token configuration options for Pactum.
//
// Configuration Example (YAML):
//
//	token:
//	  algorithm: "ES256"
//	  private-key-file: "/etc/pactum/session.pem"
//	  issuer: "pactum"
//	  audience: "pactum-api"
//	  access-expired: "15m"
//	  refresh-expired: "168h"
package token

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

const (
	// DefaultAlgorithm is the default signing scheme.
	DefaultAlgorithm = "ES256"

	// DefaultAccessExpired is the default access token lifetime.
	DefaultAccessExpired = 15 * time.Minute

	// DefaultRefreshExpired is the default refresh token lifetime.
	DefaultRefreshExpired = 7 * 24 * time.Hour

	// DefaultIssuer is the default token issuer.
	DefaultIssuer = "pactum"

	// DefaultAudience is the default token audience.
	DefaultAudience = "pactum-api"
)

// SupportedAlgorithms contains the accepted signing schemes. Symmetric
// schemes are deliberately absent: verification must not require the
// signing secret.
var SupportedAlgorithms = map[string]bool{
	"RS256": true,
	"ES256": true,
}

// Options contains session token configuration.
type Options struct {
	// Algorithm is the asymmetric signing scheme (RS256 or ES256).
	// Default: ES256
	Algorithm string `json:"algorithm" mapstructure:"algorithm"`

	// PrivateKeyFile is the path to the PEM-encoded private key.
	// When empty, an ephemeral key pair is generated at startup and
	// all tokens become invalid on restart.
	PrivateKeyFile string `json:"private-key-file" mapstructure:"private-key-file"`

	// Issuer is the token issuer (iss claim).
	// Default: pactum
	Issuer string `json:"issuer" mapstructure:"issuer"`

	// Audience is the intended token audience (aud claim).
	// Default: pactum-api
	Audience string `json:"audience" mapstructure:"audience"`

	// AccessExpired is the access token lifetime.
	// Default: 15m
	AccessExpired time.Duration `json:"access-expired" mapstructure:"access-expired"`

	// RefreshExpired is the refresh token lifetime.
	// Default: 168h
	RefreshExpired time.Duration `json:"refresh-expired" mapstructure:"refresh-expired"`
}

// NewOptions creates a new Options with default values.
func NewOptions() *Options {
	return &Options{
		Algorithm:      DefaultAlgorithm,
		Issuer:         DefaultIssuer,
		Audience:       DefaultAudience,
		AccessExpired:  DefaultAccessExpired,
		RefreshExpired: DefaultRefreshExpired,
	}
}

// Complete fills in default values for unset fields.
func (o *Options) Complete() error {
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.Issuer == "" {
		o.Issuer = DefaultIssuer
	}
	if o.Audience == "" {
		o.Audience = DefaultAudience
	}
	if o.AccessExpired == 0 {
		o.AccessExpired = DefaultAccessExpired
	}
	if o.RefreshExpired == 0 {
		o.RefreshExpired = DefaultRefreshExpired
	}
	return nil
}

// Validate validates the session token options.
func (o *Options) Validate() error {
	if !SupportedAlgorithms[o.Algorithm] {
		return fmt.Errorf("unsupported algorithm: %s", o.Algorithm)
	}
	if o.AccessExpired <= 0 {
		return fmt.Errorf("access-expired must be positive, got: %v", o.AccessExpired)
	}
	if o.RefreshExpired <= 0 {
		return fmt.Errorf("refresh-expired must be positive, got: %v", o.RefreshExpired)
	}
	if o.RefreshExpired < o.AccessExpired {
		return fmt.Errorf("refresh-expired (%v) must be >= access-expired (%v)",
			o.RefreshExpired, o.AccessExpired)
	}
	if o.Issuer == "" {
		return fmt.Errorf("issuer is required")
	}
	if o.Audience == "" {
		return fmt.Errorf("audience is required")
	}
	return nil
}

// AddFlags adds flags for session token options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Algorithm, "token.algorithm", o.Algorithm,
		"Session token signing algorithm (RS256, ES256)")
	fs.StringVar(&o.PrivateKeyFile, "token.private-key-file", o.PrivateKeyFile,
		"Path to PEM private key; empty generates an ephemeral key at startup")
	fs.StringVar(&o.Issuer, "token.issuer", o.Issuer,
		"Session token issuer (iss claim)")
	fs.StringVar(&o.Audience, "token.audience", o.Audience,
		"Session token audience (aud claim)")
	fs.DurationVar(&o.AccessExpired, "token.access-expired", o.AccessExpired,
		"Access token lifetime")
	fs.DurationVar(&o.RefreshExpired, "token.refresh-expired", o.RefreshExpired,
		"Refresh token lifetime")
}
