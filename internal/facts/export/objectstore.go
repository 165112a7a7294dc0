package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Uploader puts a named object's bytes into a bucket under a prefix. The
// retrieved example pack carries no object-store SDK (no aws-sdk-go,
// minio-go, or gocloud.dev anywhere in its go.mod surface), so ObjectStore
// is built against this narrow interface instead of a concrete client;
// LocalUploader is the only implementation, backed by the standard
// library, and is named explicitly in DESIGN.md's stdlib-justification
// ledger.
type Uploader interface {
	Put(ctx context.Context, bucket, key string, data []byte) error
}

// ObjectStore serializes the full snapshot to a time-keyed object name
// within a configured bucket and prefix (spec.md §4.4).
type ObjectStore struct {
	Bucket   string
	Prefix   string
	Uploader Uploader
}

func (o *ObjectStore) Export(ctx context.Context, snapshot map[string]interface{}) error {
	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling facts snapshot: %w", err)
	}

	key := objectKey(o.Prefix, exportTimestamp())
	if err := o.Uploader.Put(ctx, o.Bucket, key, body); err != nil {
		return fmt.Errorf("uploading facts snapshot to %s/%s: %w", o.Bucket, key, err)
	}
	return nil
}

func objectKey(prefix string, ts time.Time) string {
	name := fmt.Sprintf("facts-%s.json", ts.UTC().Format("20060102T150405Z"))
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// exportTimestamp is a seam over time.Now so tests can assert key shape
// deterministically.
var exportTimestamp = func() time.Time { return time.Now() }

// LocalUploader implements Uploader against a local directory tree,
// treating bucket as a subdirectory of Root. It exists so the object-store
// exporter is exercisable without a real cloud credential in tests and
// single-node deployments.
type LocalUploader struct {
	Root string
}

func (l *LocalUploader) Put(ctx context.Context, bucket, key string, data []byte) error {
	path := filepath.Join(l.Root, bucket, key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
