package filters

// Unique returns items with duplicates removed, preserving first-seen order.
// Grounded on original_source/src/apply/templating/list_filters.rs's
// list-manipulation filter set.
func Unique(items []interface{}) []interface{} {
	seen := make(map[interface{}]bool, len(items))
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// Flatten concatenates one level of nested []interface{} slices.
func Flatten(items []interface{}) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		if nested, ok := item.([]interface{}); ok {
			out = append(out, nested...)
			continue
		}
		out = append(out, item)
	}
	return out
}

// Zip pairs up corresponding elements of a and b into two-element slices,
// truncating to the shorter input.
func Zip(a, b []interface{}) []interface{} {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]interface{}, n)
	for i := 0; i < n; i++ {
		out[i] = []interface{}{a[i], b[i]}
	}
	return out
}

// Dict2Items converts a map into a list of {"key":k,"value":v} items.
func Dict2Items(m map[string]interface{}) []interface{} {
	out := make([]interface{}, 0, len(m))
	for k, v := range m {
		out = append(out, map[string]interface{}{"key": k, "value": v})
	}
	return out
}

// ListFuncMap returns the list-domain filters for registration with the
// template engine.
func ListFuncMap() map[string]interface{} {
	return map[string]interface{}{
		"unique":     Unique,
		"flatten":    Flatten,
		"zip":        Zip,
		"dict2items": Dict2Items,
	}
}
