// Package filters implements the domain-specific template functions that
// supplement sprig (internal/tmplengine §SPEC_FULL.md §2.2): string, path,
// list, math, encoding, generator, and utility filters, each grounded on the
// matching original_source/src/apply/templating/*.rs module.
package filters

// All returns the full combined FuncMap across every domain package, for
// wiring into tmplengine.New's extra argument.
func All() map[string]interface{} {
	out := map[string]interface{}{}
	for _, m := range []map[string]interface{}{
		StringFuncMap(),
		PathFuncMap(),
		ListFuncMap(),
		MathFuncMap(),
		EncodingFuncMap(),
		GeneratorFuncMap(),
		UtilityFuncMap(),
	} {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
