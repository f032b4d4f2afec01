// Package config carries the compiler's fixed constants — source file
// extension, runtime ABI symbol names, default output name — plus an
// optional per-project mini.yaml loaded with gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceFileExt is the recognized extension for Mini source files.
const SourceFileExt = ".mini"

// DefaultOutputName is the executable name used when neither -o nor
// mini.yaml's output field is given.
const DefaultOutputName = "bin"

// MainSymbolName is the fixed emitted symbol for the designated main
// function.
const MainSymbolName = "main"

// BuildIDSymbolName is the internal global string constant GEN embeds in
// every emitted module, so object files produced by different compiler
// invocations can be told apart when linked together.
const BuildIDSymbolName = "__mini_build_id"

// Runtime ABI symbol names. The
// generator never spells these as string literals — it always goes
// through these constants so a future ABI rename touches one file.
const (
	FnNewNullVal   = "new_null_val"
	FnNewBoolVal   = "new_bool_val"
	FnNewIntVal    = "new_int_val"
	FnNewFloatVal  = "new_float_val"
	FnNewStrVal    = "new_str_val"
	FnNewArrayVal  = "new_array_val"
	FnNewObjectVal = "new_object_val"

	FnOpPos = "val_op_pos"
	FnOpNeg = "val_op_neg"
	FnOpNot = "val_op_not"

	FnOpAdd  = "val_op_add"
	FnOpSub  = "val_op_sub"
	FnOpMul  = "val_op_mul"
	FnOpDiv  = "val_op_div"
	FnOpMod  = "val_op_mod"
	FnOpEq   = "val_op_eq"
	FnOpNeq  = "val_op_neq"
	FnOpSeq  = "val_op_seq"
	FnOpSneq = "val_op_sneq"
	FnOpLt   = "val_op_lt"
	FnOpLte  = "val_op_lte"
	FnOpGt   = "val_op_gt"
	FnOpGte  = "val_op_gte"
	FnOpAnd  = "val_op_and"
	FnOpOr   = "val_op_or"

	FnArrayPush = "val_array_push"
	FnObjectSet = "val_object_set"
	FnObjectGet = "val_object_get"
	FnGet       = "val_get"
	FnSet       = "val_set"
	FnGetType   = "val_get_type"

	FnLinkVal   = "link_val"
	FnUnlinkVal = "unlink_val"
)

// Config is the optional per-project mini.yaml: target triple, default
// output path, the optimize flag, and an external-symbol allowlist used to
// reject `external` declarations that aren't expected to resolve at link
// time.
type Config struct {
	Target      string   `yaml:"target,omitempty"`
	Output      string   `yaml:"output,omitempty"`
	Optimize    bool     `yaml:"optimize,omitempty"`
	ExternAllow []string `yaml:"external_allow,omitempty"`
}

// Load reads and parses a mini.yaml file at path. A missing file is not an
// error — it returns a zero Config, meaning "use built-in defaults".
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// IsExternAllowed reports whether name may be declared `external` under
// cfg's allowlist. An empty allowlist means every external declaration is
// permitted (the default, unrestricted mode).
func (c Config) IsExternAllowed(name string) bool {
	if len(c.ExternAllow) == 0 {
		return true
	}
	for _, n := range c.ExternAllow {
		if n == name {
			return true
		}
	}
	return false
}
