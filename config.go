package snc

import "fmt"

// Config holds per-pass toggles that aren't part of the CLI-visible
// Options surface: which optimizer rewrites are active at a given
// level, whether promotion helpers are depth-specialized, and similar
// internal knobs queried once per pass rather than once at startup.
type Config map[string]*cfgVal

// NewConfig returns a Config primed with the defaults every phase
// expects to find, mirroring Options' defaults (see options.go) for
// the handful of settings both surfaces care about.
func NewConfig() *Config {
	m := make(Config)
	m.SetBool("optimizer.dead_code", true)
	m.SetBool("optimizer.algebraic_noops", true)
	m.SetBool("optimizer.string_merge", true)
	m.SetBool("optimizer.tail_calls", false)
	m.SetBool("codegen.promote_depth_specialize", true)
	m.SetInt("optimizer.level", 1)
	return &m
}

// ApplyOptimizationLevel toggles the per-pass switches to match one of
// spec.md §4.5's three levels.
func (c *Config) ApplyOptimizationLevel(level int) {
	c.SetInt("optimizer.level", level)
	switch level {
	case 0:
		c.SetBool("optimizer.dead_code", false)
		c.SetBool("optimizer.algebraic_noops", false)
		c.SetBool("optimizer.string_merge", false)
		c.SetBool("optimizer.tail_calls", false)
	case 1:
		c.SetBool("optimizer.dead_code", true)
		c.SetBool("optimizer.algebraic_noops", true)
		c.SetBool("optimizer.string_merge", true)
		c.SetBool("optimizer.tail_calls", false)
	default: // 2 and above
		c.SetBool("optimizer.dead_code", true)
		c.SetBool("optimizer.algebraic_noops", true)
		c.SetBool("optimizer.string_merge", true)
		c.SetBool("optimizer.tail_calls", true)
	}
}

type cfgValType int

const (
	cfgValTypeUndefined cfgValType = iota
	cfgValTypeBool
	cfgValTypeInt
	cfgValTypeString
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValTypeUndefined: "undefined",
		cfgValTypeBool:      "bool",
		cfgValTypeInt:       "int",
		cfgValTypeString:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

// assignType guards against a caller switching a setting's type
// underneath a later reader; it's a programming-error detector, not a
// user-facing validation.
func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValTypeUndefined {
		panic(fmt.Sprintf("can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("can't retrieve `%s` from `%s` setting", vt, v.typ))
	}
}

func (c *Config) SetBool(path string, v bool) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValTypeBool)
	(*c)[path].asBool = v
}

func (c *Config) SetInt(path string, v int) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValTypeInt)
	(*c)[path].asInt = v
}

func (c *Config) SetString(path string, v string) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValTypeString)
	(*c)[path].asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValTypeBool)
		return val.asBool
	}
	panic(fmt.Sprintf("bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValTypeInt)
		return val.asInt
	}
	panic(fmt.Sprintf("int setting `%s` does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValTypeString)
		return val.asString
	}
	panic(fmt.Sprintf("string setting `%s` does not exist", path))
}
