package facts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_LastRegistrationWins(t *testing.T) {
	r := NewRegistry()
	r.Register("cpu", func(ctx context.Context, cfg CollectorConfig) (map[string]interface{}, error) {
		return map[string]interface{}{"v": 1}, nil
	})
	r.Register("cpu", func(ctx context.Context, cfg CollectorConfig) (map[string]interface{}, error) {
		return map[string]interface{}{"v": 2}, nil
	})

	out, err := r.Collect(context.Background(), CollectorConfig{Type: "cpu"})
	require.NoError(t, err)
	assert.Equal(t, 2, out["v"])
}

func TestCollect_UnknownKindFails(t *testing.T) {
	r := NewRegistry()
	_, err := r.Collect(context.Background(), CollectorConfig{Type: "nonexistent"})
	assert.Error(t, err)
}

func TestKinds_Sorted(t *testing.T) {
	r := NewRegistry()
	r.Register("memory", nil)
	r.Register("cpu", nil)
	assert.Equal(t, []string{"cpu", "memory"}, r.Kinds())
}
