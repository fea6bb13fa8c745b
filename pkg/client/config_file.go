package client

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

// fileConfig is the top-level structure of an HCL configuration file.
type fileConfig struct {
	Appliance *applianceBlock `hcl:"appliance,block"`
}

type applianceBlock struct {
	Host      string `hcl:"host"`
	Port      int    `hcl:"port,optional"`
	Scheme    string `hcl:"scheme,optional"`
	Timeout   string `hcl:"timeout,optional"`
	TLSVerify *bool  `hcl:"tls_verify,optional"`
	Username  string `hcl:"username,optional"`
	Password  string `hcl:"password,optional"`
	UserAgent string `hcl:"user_agent,optional"`
}

// envFunc implements env("NAME") in configuration files. Unset variables
// evaluate to the empty string.
var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}

// LoadConfigFile reads an HCL (or HCL JSON) configuration file from fs.
// Omitted settings take their DefaultConfig values; the result is validated.
func LoadConfigFile(fs afero.Fs, path string) (*Config, error) {
	if path == "" {
		return nil, &resource.Error{Op: "LoadConfigFile", Err: resource.ErrConfig, Msg: "configuration file path is required"}
	}

	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &resource.Error{
			Op:  "LoadConfigFile",
			Err: resource.ErrConfig,
			Msg: fmt.Sprintf("failed to read configuration file: %v", err),
		}
	}

	var file fileConfig
	if err := hclsimple.Decode(filepath.Base(path), src, evalContext(), &file); err != nil {
		return nil, &resource.Error{
			Op:  "LoadConfigFile",
			Err: resource.ErrConfig,
			Msg: fmt.Sprintf("failed to parse configuration file: %v", err),
		}
	}
	if file.Appliance == nil {
		return nil, &resource.Error{Op: "LoadConfigFile", Err: resource.ErrConfig, Msg: "missing appliance block"}
	}

	cfg, err := file.Appliance.config()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

func (b *applianceBlock) config() (*Config, error) {
	cfg := &Config{
		Host:      b.Host,
		Port:      b.Port,
		Scheme:    b.Scheme,
		TLSVerify: b.TLSVerify,
		Username:  b.Username,
		Password:  b.Password,
		UserAgent: b.UserAgent,
	}
	if b.Timeout != "" {
		d, err := time.ParseDuration(b.Timeout)
		if err != nil {
			return nil, &resource.Error{
				Op:  "LoadConfigFile",
				Err: resource.ErrValidation,
				Msg: fmt.Sprintf("invalid timeout %q: %v", b.Timeout, err),
			}
		}
		cfg.Timeout = d
	}
	return cfg.withDefaults(), nil
}
