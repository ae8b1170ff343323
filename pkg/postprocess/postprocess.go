// Package postprocess patches an exported build so the native projects
// match the notification settings stored in a Unity project.
package postprocess

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	notifyerrors "github.com/go-drift/notifykit/pkg/errors"
	"github.com/go-drift/notifykit/pkg/settings"
)

// Options names the targets and files inside the exported project.
type Options struct {
	// Handler receives warnings for skipped passes and errors for failed
	// ones. Nil uses the global handler.
	Handler notifyerrors.ErrorHandler

	// FrameworkTarget links the notification frameworks. Default
	// "UnityFramework".
	FrameworkTarget string
	// MainTarget carries the push capability. Default "Unity-iPhone".
	MainTarget string
	// Entitlements is the entitlements file name. Default "ios.entitlements".
	Entitlements string

	// LibraryModule is the Gradle module holding the plugin. Default
	// "unityLibrary".
	LibraryModule string
	// ProjectRoot resolves relative drawable image paths. Default is the
	// directory two levels above the settings file.
	ProjectRoot string
}

func (o Options) withDefaults(store *settings.Store) Options {
	if o.FrameworkTarget == "" {
		o.FrameworkTarget = "UnityFramework"
	}
	if o.MainTarget == "" {
		o.MainTarget = "Unity-iPhone"
	}
	if o.Entitlements == "" {
		o.Entitlements = "ios.entitlements"
	}
	if o.LibraryModule == "" {
		o.LibraryModule = "unityLibrary"
	}
	if o.ProjectRoot == "" && store != nil {
		o.ProjectRoot = filepath.Dir(filepath.Dir(store.Path()))
	}
	return o
}

// Result lists what a run did, as paths relative to the build directory.
type Result struct {
	Written []string
	Skipped []string
}

func (r *Result) written(root, path string) {
	r.Written = append(r.Written, rel(root, path))
}

func (r *Result) skipped(root, path string) {
	r.Skipped = append(r.Skipped, rel(root, path))
}

func rel(root, path string) string {
	if r, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(r)
	}
	return path
}

// Run patches the build at path for platform. Platforms without a patcher
// are a no-op.
func Run(platform settings.Platform, path string, store *settings.Store, opts Options) (Result, error) {
	switch platform {
	case settings.IOS:
		return PatchIOS(path, store, opts)
	case settings.Android:
		return PatchAndroid(path, store, opts)
	default:
		return Result{}, nil
	}
}

// missing reports a skipped pass for an artifact that is not in the build.
func missing(h notifyerrors.ErrorHandler, op, path string, res *Result, root string) {
	notifyerrors.Warn(h, &notifyerrors.NotifyError{
		Op:   op,
		Kind: notifyerrors.KindNotFound,
		Key:  rel(root, path),
		Err:  fmt.Errorf("%s not found, skipping", path),
	})
	res.skipped(root, path)
}

func patchError(op, path string, err error) error {
	return &notifyerrors.NotifyError{
		Op:   op,
		Kind: notifyerrors.KindPatch,
		Key:  path,
		Err:  err,
	}
}

// runPasses runs every pass even when an earlier one fails. Each failure is
// reported to h as an error and the failures are returned joined.
func runPasses(h notifyerrors.ErrorHandler, passes ...func() error) error {
	var errs []error
	for _, pass := range passes {
		err := pass()
		if err == nil {
			continue
		}
		var nerr *notifyerrors.NotifyError
		if errors.As(err, &nerr) {
			notifyerrors.Report(h, nerr)
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// writeIfChanged replaces path with data unless the file already holds
// exactly those bytes. The existing file mode is kept.
func writeIfChanged(path string, data []byte) (bool, error) {
	mode := os.FileMode(0o644)
	current, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(current, data) {
			return false, nil
		}
		if info, err := os.Stat(path); err == nil {
			mode = info.Mode().Perm()
		}
	case !errors.Is(err, os.ErrNotExist):
		return false, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".patch-*")
	if err != nil {
		return false, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return false, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return false, fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return false, fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return true, nil
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
