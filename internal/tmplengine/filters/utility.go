package filters

// Default returns fallback when v is nil or the empty string, else v.
// Its argument order is the reverse of sprig's "default", which takes the
// fallback first.
func Default(v interface{}, fallback interface{}) interface{} {
	if v == nil {
		return fallback
	}
	if s, ok := v.(string); ok && s == "" {
		return fallback
	}
	return v
}

// Ternary returns a when cond is true, else b.
func Ternary(cond bool, a, b interface{}) interface{} {
	if cond {
		return a
	}
	return b
}

// UtilityFuncMap returns the utility-domain filters for registration with
// the template engine. They share their names with sprig builtins but take
// the tested value first, where sprig takes it last; RenderGoTemplate lets
// these entries replace sprig's.
func UtilityFuncMap() map[string]interface{} {
	return map[string]interface{}{
		"default": Default,
		"ternary": Ternary,
	}
}
