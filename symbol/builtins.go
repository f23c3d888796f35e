package symbol

// Builtin is a callable predeclared in the global scope.
type Builtin struct {
	Name    string `toml:"name" yaml:"name"`
	MinArgs int    `toml:"min" yaml:"min"`
	// MaxArgs below zero accepts any number of arguments from MinArgs up.
	MaxArgs int `toml:"max" yaml:"max"`
}

// DefaultBuiltins are used when [Config.Builtins] is nil.
var DefaultBuiltins = []Builtin{
	{Name: "print", MinArgs: 0, MaxArgs: -1},
	{Name: "表示", MinArgs: 0, MaxArgs: -1},
	{Name: "input", MinArgs: 0, MaxArgs: 1},
	{Name: "入力", MinArgs: 0, MaxArgs: 1},
	{Name: "length", MinArgs: 1, MaxArgs: 1},
	{Name: "長さ", MinArgs: 1, MaxArgs: 1},
	{Name: "abs", MinArgs: 1, MaxArgs: 1},
	{Name: "sqrt", MinArgs: 1, MaxArgs: 1},
	{Name: "min", MinArgs: 1, MaxArgs: -1},
	{Name: "max", MinArgs: 1, MaxArgs: -1},
}

// Config controls analysis.
type Config struct {
	// Builtins replaces DefaultBuiltins when not nil. An empty non-nil
	// slice predeclares nothing.
	Builtins []Builtin `toml:"builtins" yaml:"builtins"`
	// ImplicitDeclarations lets an assignment to an unknown name declare it
	// as a variable instead of reporting it.
	ImplicitDeclarations bool `toml:"implicit_declarations" yaml:"implicit_declarations"`
}

func (cfg Config) builtins() []Builtin {
	if cfg.Builtins == nil {
		return DefaultBuiltins
	}
	return cfg.Builtins
}
