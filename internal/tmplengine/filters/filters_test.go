package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringFilters(t *testing.T) {
	out, err := RegexReplace(`\d+`, "#", "room101door")
	require.NoError(t, err)
	assert.Equal(t, "room#door", out)

	assert.Equal(t, "hello", Truncate(10, "hello"))
	assert.Equal(t, "he...", Truncate(5, "hello world"))

	assert.Equal(t, "hello-world", Slugify("  Hello, World!  "))
}

func TestPathFilters(t *testing.T) {
	assert.Equal(t, "a/b/c", PathJoin("a", "b", "c"))
	assert.Equal(t, "c.txt", PathFuncMap()["basename"].(func(string) string)("a/b/c.txt"))
	assert.False(t, PathExists("/nonexistent/definitely/not/here"))
}

func TestListFilters(t *testing.T) {
	assert.Equal(t, []interface{}{1, 2, 3}, Unique([]interface{}{1, 2, 1, 3, 2}))
	assert.Equal(t, []interface{}{1, 2, 3}, Flatten([]interface{}{1, []interface{}{2, 3}}))
	assert.Equal(t, []interface{}{[]interface{}{1, "a"}}, Zip([]interface{}{1, 2}, []interface{}{"a"}))
}

func TestMathFilters(t *testing.T) {
	assert.Equal(t, 50.0, Percent(1, 2))
	assert.Equal(t, 0.0, Percent(1, 0))
	assert.Equal(t, 5.0, Clamp(10, 0, 5))
	assert.Equal(t, 0.0, Clamp(-10, 0, 5))
}

func TestEncodingRoundTrip(t *testing.T) {
	encoded := B64Encode("hello world")
	decoded, err := B64Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "hello world", decoded)

	asJSON, err := ToJSON(map[string]interface{}{"a": 1.0})
	require.NoError(t, err)
	back, err := FromJSON(asJSON)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": 1.0}, back)

	asYAML, err := ToYAML(map[string]interface{}{"a": 1})
	require.NoError(t, err)
	backYAML, err := FromYAML(asYAML)
	require.NoError(t, err)
	assert.Equal(t, 1, backYAML.(map[string]interface{})["a"])
}

func TestGeneratorFilters(t *testing.T) {
	id := UUID4()
	assert.Len(t, id, 36)

	s, err := RandomString(12)
	require.NoError(t, err)
	assert.Len(t, s, 12)
}

func TestUtilityFilters(t *testing.T) {
	assert.Equal(t, "fallback", Default("", "fallback"))
	assert.Equal(t, "v", Default("v", "fallback"))
	assert.Equal(t, "yes", Ternary(true, "yes", "no"))
}

func TestAll_CombinesEveryDomain(t *testing.T) {
	combined := All()
	for _, name := range []string{"regex_replace", "expanduser", "unique", "percent", "b64encode", "uuid4", "default"} {
		_, ok := combined[name]
		assert.True(t, ok, "expected %s in combined func map", name)
	}
}
