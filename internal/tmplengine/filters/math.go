package filters

// Percent computes part as a percentage of whole, returning 0 when whole is
// zero instead of dividing by it. Grounded on
// original_source/src/apply/templating/math_filters.rs.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return (part / whole) * 100
}

// Clamp restricts v to the closed interval [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// MathFuncMap returns the math-domain filters for registration with the
// template engine.
func MathFuncMap() map[string]interface{} {
	return map[string]interface{}{
		"percent": Percent,
		"clamp":   Clamp,
	}
}
