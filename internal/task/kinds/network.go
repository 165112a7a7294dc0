package kinds

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/driftless-hq/driftless-sub001/internal/task"
	"github.com/driftless-hq/driftless-sub001/internal/task/kinds/runner"
)

// RegisterNetwork wires fetch, uri, get_url, archive, unarchive, and git
// against reg. fetch/uri/get_url carry their own timeout attributes
// (spec.md §5) independent of the task-wide default.
func RegisterNetwork(reg *task.Registry, r runner.Runner) {
	reg.Register("fetch", fetchExecutor, requireAllNonEmpty("url", "dest"))
	reg.Register("uri", uriExecutor, requireNonEmpty("url"))
	reg.Register("get_url", fetchExecutor, requireAllNonEmpty("url", "dest"))
	reg.Register("archive", archiveExecutor, requireArchiveAttrs)
	reg.Register("unarchive", unarchiveExecutor, requireAllNonEmpty("src", "dest"))
	reg.Register("git", gitExecutor(r), requireAllNonEmpty("repo", "dest"))
}

func httpTimeout(t *task.Task) time.Duration {
	if d := taskTimeout(t); d > 0 {
		return d
	}
	return 30 * time.Second
}

// newHasher returns the hash.Hash for a checksum algorithm name, or nil if
// the algorithm is not one of the four spec.md §6 supports.
func newHasher(algorithm string) hash.Hash {
	switch algorithm {
	case "md5":
		return md5.New()
	case "sha1":
		return sha1.New()
	case "sha256":
		return sha256.New()
	case "sha512":
		return sha512.New()
	default:
		return nil
	}
}

// parseChecksum splits a "<algorithm>:<hex>" checksum spec (spec.md §6),
// failing the task on an unsupported algorithm.
func parseChecksum(spec string) (algorithm, hexDigest string, err error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("checksum %q must be of the form <algorithm>:<hex>", spec)
	}
	algorithm, hexDigest = parts[0], strings.ToLower(parts[1])
	if newHasher(algorithm) == nil {
		return "", "", fmt.Errorf("unsupported checksum algorithm %q", algorithm)
	}
	return algorithm, hexDigest, nil
}

// checksumMatches reports whether the file at path hashes to hexDigest under
// algorithm. A missing file never matches.
func checksumMatches(path, algorithm, hexDigest string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	h := newHasher(algorithm)
	if _, err := io.Copy(h, f); err != nil {
		return false, err
	}
	return hex.EncodeToString(h.Sum(nil)) == hexDigest, nil
}

func fetchExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	url := t.AttrString("url")
	dest := t.AttrString("dest")
	checksum := t.AttrString("checksum")

	// state=absent removes dest whether or not this agent downloaded it.
	if t.AttrString("state") == "absent" {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			return task.Result{Changed: false}, nil
		}
		if ec.DryRun {
			return task.Result{Changed: true, Data: map[string]interface{}{"would": "remove " + dest}}, nil
		}
		if err := os.Remove(dest); err != nil {
			return task.Result{}, fmt.Errorf("removing %s: %w", dest, err)
		}
		return task.Result{Changed: true}, nil
	}

	var algorithm, hexDigest string
	if checksum != "" {
		var err error
		algorithm, hexDigest, err = parseChecksum(checksum)
		if err != nil {
			return task.Result{}, err
		}
	}

	if _, err := os.Stat(dest); err == nil {
		if checksum == "" {
			// spec.md §6: no checksum supplied on an existing file
			// unconditionally skips the download (preserved legacy behavior).
			return task.Result{Changed: false}, nil
		}
		matches, err := checksumMatches(dest, algorithm, hexDigest)
		if err != nil {
			return task.Result{}, fmt.Errorf("checksumming %s: %w", dest, err)
		}
		if matches {
			return task.Result{Changed: false}, nil
		}
		// mismatch triggers re-download
	}
	if ec.DryRun {
		return task.Result{Changed: true, Data: map[string]interface{}{"would": fmt.Sprintf("fetch %s to %s", url, dest)}}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return task.Result{}, fmt.Errorf("building request for %s: %w", url, err)
	}
	client := &http.Client{Timeout: httpTimeout(t)}
	resp, err := client.Do(req)
	if err != nil {
		return task.Result{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return task.Result{}, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return task.Result{}, err
	}
	out, err := os.Create(dest)
	if err != nil {
		return task.Result{}, fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return task.Result{}, fmt.Errorf("writing %s: %w", dest, err)
	}

	if checksum != "" {
		matches, err := checksumMatches(dest, algorithm, hexDigest)
		if err != nil {
			return task.Result{}, fmt.Errorf("checksumming %s: %w", dest, err)
		}
		if !matches {
			return task.Result{}, fmt.Errorf("downloaded file %s did not match checksum %s", dest, checksum)
		}
	}
	return task.Result{Changed: true}, nil
}

func uriExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	url := t.AttrString("url")
	method := t.AttrString("method")
	if method == "" {
		method = http.MethodGet
	}
	if ec.DryRun {
		return task.Result{Changed: false, Data: map[string]interface{}{"would": fmt.Sprintf("%s %s", method, url)}}, nil
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return task.Result{}, fmt.Errorf("building request for %s: %w", url, err)
	}
	client := &http.Client{Timeout: httpTimeout(t)}
	resp, err := client.Do(req)
	if err != nil {
		return task.Result{}, fmt.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	return task.Result{Changed: false, Data: map[string]interface{}{
		"status": resp.StatusCode,
		"body":   string(body),
	}}, nil
}

// requireArchiveAttrs validates archive's two required attributes
// (spec.md §4.1 "archive(path, sources non-empty)"), following the
// compound-validator pattern security.go's requireFirewalldAttrs uses.
func requireArchiveAttrs(t *task.Task, index int) error {
	if err := requireNonEmpty("path")(t, index); err != nil {
		return err
	}
	return requireNonEmptyList("sources")(t, index)
}

func archiveExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	path := t.AttrString("path")
	sources, _ := t.Attr("sources")
	items, _ := sources.([]interface{})
	if ec.DryRun {
		return task.Result{Changed: true, Data: map[string]interface{}{"would": "archive to " + path}}, nil
	}

	out, err := os.Create(path)
	if err != nil {
		return task.Result{}, fmt.Errorf("creating archive %s: %w", path, err)
	}
	defer out.Close()
	gz := gzip.NewWriter(out)
	defer gz.Close()
	tw := tar.NewWriter(gz)
	defer tw.Close()

	for _, item := range items {
		src, _ := item.(string)
		if err := addToTar(tw, src); err != nil {
			return task.Result{}, fmt.Errorf("archiving %s: %w", src, err)
		}
	}
	return task.Result{Changed: true}, nil
}

func addToTar(tw *tar.Writer, src string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.Base(src)
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}

func unarchiveExecutor(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
	src := t.AttrString("src")
	dest := t.AttrString("dest")
	if ec.DryRun {
		return task.Result{Changed: true, Data: map[string]interface{}{"would": fmt.Sprintf("unarchive %s to %s", src, dest)}}, nil
	}

	f, err := os.Open(src)
	if err != nil {
		return task.Result{}, fmt.Errorf("opening archive %s: %w", src, err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return task.Result{}, fmt.Errorf("reading gzip %s: %w", src, err)
	}
	defer gz.Close()
	tr := tar.NewReader(gz)

	if err := os.MkdirAll(dest, 0755); err != nil {
		return task.Result{}, err
	}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return task.Result{}, fmt.Errorf("reading tar entry: %w", err)
		}
		target := filepath.Join(dest, hdr.Name)
		if hdr.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return task.Result{}, err
			}
			continue
		}
		out, err := os.Create(target)
		if err != nil {
			return task.Result{}, err
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return task.Result{}, err
		}
		out.Close()
	}
	return task.Result{Changed: true}, nil
}

func gitExecutor(r runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		repo := t.AttrString("repo")
		dest := t.AttrString("dest")
		if _, err := os.Stat(filepath.Join(dest, ".git")); err == nil {
			return runCommand(ctx, r, t, ec, "update "+dest, "git", "-C", dest, "pull")
		}
		return runCommand(ctx, r, t, ec, fmt.Sprintf("clone %s to %s", repo, dest), "git", "clone", repo, dest)
	}
}
