package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectStore_WritesViaUploader(t *testing.T) {
	dir := t.TempDir()
	o := &ObjectStore{Bucket: "facts-bucket", Prefix: "daily", Uploader: &LocalUploader{Root: dir}}

	err := o.Export(context.Background(), map[string]interface{}{"cpu": map[string]interface{}{"usage_percent": 1.0}})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "facts-bucket", "daily"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "facts-")
}
