// Package authd provides the auth service application.
package authd

import (
	"github.com/spf13/pflag"

	httpopts "github.com/pactum-io/pactum/pkg/options/http"
	logopts "github.com/pactum-io/pactum/pkg/options/logger"
	sqliteopts "github.com/pactum-io/pactum/pkg/options/sqlite"
	tokenopts "github.com/pactum-io/pactum/pkg/options/token"
)

// Options contains the auth service configuration.
type Options struct {
	Log    *logopts.Options    `json:"log" mapstructure:"log"`
	Token  *tokenopts.Options  `json:"token" mapstructure:"token"`
	HTTP   *httpopts.Options   `json:"http" mapstructure:"http"`
	SQLite *sqliteopts.Options `json:"sqlite" mapstructure:"sqlite"`
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	return &Options{
		Log:    logopts.NewOptions(),
		Token:  tokenopts.NewOptions(),
		HTTP:   httpopts.NewOptions(),
		SQLite: sqliteopts.NewOptions(),
	}
}

// Complete fills in defaults for unset fields.
func (o *Options) Complete() error {
	if err := o.Log.Complete(); err != nil {
		return err
	}
	if err := o.Token.Complete(); err != nil {
		return err
	}
	if err := o.HTTP.Complete(); err != nil {
		return err
	}
	return o.SQLite.Complete()
}

// Validate validates all option groups.
func (o *Options) Validate() error {
	if err := o.Log.Validate(); err != nil {
		return err
	}
	if err := o.Token.Validate(); err != nil {
		return err
	}
	if err := o.HTTP.Validate(); err != nil {
		return err
	}
	return o.SQLite.Validate()
}

// AddFlags adds all option flags to the FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Log.AddFlags(fs)
	o.Token.AddFlags(fs)
	o.HTTP.AddFlags(fs)
	o.SQLite.AddFlags(fs)
}
