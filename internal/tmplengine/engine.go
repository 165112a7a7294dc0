// Package tmplengine renders task attributes and template files against a
// variable context using a registry of filters and functions (spec.md §4.2
// "Rendering" and the template engine row of the SPEC_FULL.md component
// table). It is used both for the fast literal `{{ var.path }}`
// interpolation every task attribute goes through before dispatch, and for
// the full text/template+sprig rendering the `template` task kind and
// `when`/`changed_when`/`failed_when` expressions need.
package tmplengine

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Engine renders strings, maps, and slices against a variable context.
type Engine struct {
	// templatePattern matches template variables like {{ variableName }} or
	// {{ variable.property.subproperty }}.
	templatePattern *regexp.Regexp

	// extraFuncs holds filters/functions registered beyond sprig's defaults —
	// the built-in domain filters (internal/tmplengine/filters) plus whatever
	// a loaded plugin's get_template_extensions contributes.
	extraFuncs template.FuncMap
}

// New creates a new template engine seeded with sprig's function map plus
// extra (which may be nil).
func New(extra template.FuncMap) *Engine {
	return &Engine{
		templatePattern: regexp.MustCompile(`\{\{\s*\.?([a-zA-Z_][a-zA-Z0-9_.-]*)\s*\}\}`),
		extraFuncs:      extra,
	}
}

// RegisterFunc adds a single named function to the engine's function map,
// used by the plugin host to register a plugin's contributed filter or
// function under "<plugin_name>.<name>".
func (e *Engine) RegisterFunc(name string, fn interface{}) {
	if e.extraFuncs == nil {
		e.extraFuncs = template.FuncMap{}
	}
	e.extraFuncs[name] = fn
}

// Replace replaces all {{ var.path }} template variables in a value with
// values from context. One-pass: the result of a substitution is not itself
// re-scanned for further variables (spec.md §4.2 "Rendering is one-pass").
func (e *Engine) Replace(value interface{}, context map[string]interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return e.replaceStringTemplates(v, context)
	case map[string]interface{}:
		return e.replaceMapTemplates(v, context)
	case []interface{}:
		return e.replaceSliceTemplates(v, context)
	default:
		return value, nil
	}
}

// replaceStringTemplates substitutes every {{ var.path }} occurrence by its
// position in tmpl (not by a second textual scan of the partially-rendered
// result), so a resolved attribute value that itself looks like a
// placeholder — e.g. a fetched fact containing literal "{{ }}" text — is
// never mistaken for one of the task's own variable references.
func (e *Engine) replaceStringTemplates(tmpl string, context map[string]interface{}) (string, error) {
	var missingVars []string
	result := e.templatePattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		sub := e.templatePattern.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		varPath := sub[1]
		replacement, err := e.resolvePath(varPath, context)
		if err != nil {
			missingVars = append(missingVars, varPath)
			return match
		}
		return formatAttrValue(replacement)
	})

	if len(missingVars) > 0 {
		return "", fmt.Errorf("missing template variables: %s", strings.Join(missingVars, ", "))
	}

	return result, nil
}

// formatAttrValue renders a resolved variable's value the way it would
// appear in a rendered task attribute (shell command, file path, config
// line) — strings pass through untouched, everything else gets its natural
// textual form.
func formatAttrValue(v interface{}) string {
	switch r := v.(type) {
	case string:
		return r
	case int, int32, int64:
		return fmt.Sprintf("%d", r)
	case float32, float64:
		return fmt.Sprintf("%v", r)
	case bool:
		return fmt.Sprintf("%t", r)
	default:
		return fmt.Sprintf("%v", r)
	}
}

func (e *Engine) replaceMapTemplates(m map[string]interface{}, context map[string]interface{}) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(m))
	for key, value := range m {
		replaced, err := e.Replace(value, context)
		if err != nil {
			return nil, fmt.Errorf("error in key '%s': %w", key, err)
		}
		result[key] = replaced
	}
	return result, nil
}

func (e *Engine) replaceSliceTemplates(s []interface{}, context map[string]interface{}) ([]interface{}, error) {
	result := make([]interface{}, len(s))
	for i, value := range s {
		replaced, err := e.Replace(value, context)
		if err != nil {
			return nil, fmt.Errorf("error at index %d: %w", i, err)
		}
		result[i] = replaced
	}
	return result, nil
}

// resolvePath walks a dotted path like "m.exists" or "net.iface.addr"
// against context: the first segment looks up a bound variable (a vars-file
// entry or a prior task's register name), every later segment indexes into
// that value's fields — the shape a `register`-bound task.Result.Data map or
// a facts collector's nested output naturally has.
func (e *Engine) resolvePath(path string, context map[string]interface{}) (interface{}, error) {
	parts := strings.Split(path, ".")

	root := parts[0]
	current, exists := context[root]
	if !exists {
		return nil, fmt.Errorf("variable '%s' not found in context", root)
	}

	for i, part := range parts[1:] {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("cannot access property '%s' at position %d in path '%s': not an object", part, i+1, path)
		}
		val, ok := m[part]
		if !ok {
			return nil, fmt.Errorf("property '%s' not found at position %d in path '%s'", part, i+1, path)
		}
		current = val
	}

	return current, nil
}

// RenderGoTemplate renders a full Go template with sprig's function map plus
// the engine's registered extras. Used for expressions the `when`,
// `changed_when`, and `failed_when` attributes carry (e.g. `eq .m.exists
// false`), and for the `template` task kind's file bodies.
func (e *Engine) RenderGoTemplate(templateStr string, context map[string]interface{}) (interface{}, error) {
	funcs := sprig.TxtFuncMap()
	for name, fn := range e.extraFuncs {
		funcs[name] = fn
	}

	tmpl, err := template.New("template").Funcs(funcs).Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, context); err != nil {
		return nil, fmt.Errorf("template execution failed: %w", err)
	}

	result := buf.String()

	switch result {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return result, nil
	}
}
