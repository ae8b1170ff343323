package postprocess

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-drift/notifykit/pkg/android"
	"github.com/go-drift/notifykit/pkg/settings"
)

// PatchAndroid writes the drawable resources and manifest entries into the
// Gradle project exported at root. A failed drawable write does not stop the
// manifest pass.
func PatchAndroid(root string, store *settings.Store, opts Options) (Result, error) {
	opts = opts.withDefaults(store)
	mainDir := android.MainDir(root, opts.LibraryModule)

	var res Result
	err := runPasses(opts.Handler,
		func() error { return writeDrawables(root, mainDir, store, opts, &res) },
		func() error { return patchManifest(root, mainDir, store, opts, &res) },
	)
	return res, err
}

func writeDrawables(root, mainDir string, store *settings.Store, opts Options, res *Result) error {
	const op = "postprocess.WriteDrawables"

	files := store.ExportDrawables(opts.ProjectRoot)
	resDir := filepath.Join(mainDir, "res")
	for _, name := range sortedKeys(files) {
		dst := filepath.Join(resDir, filepath.FromSlash(name))
		written, err := writeIfChanged(dst, files[name])
		if err != nil {
			return patchError(op, dst, err)
		}
		if written {
			res.written(root, dst)
		}
	}
	return nil
}

func patchManifest(root, mainDir string, store *settings.Store, opts Options, res *Result) error {
	const op = "postprocess.PatchManifest"
	manifestPath := filepath.Join(mainDir, "AndroidManifest.xml")

	m, err := android.ReadManifest(manifestPath)
	if errors.Is(err, os.ErrNotExist) {
		missing(opts.Handler, op, manifestPath, res, root)
		return nil
	}
	if err != nil {
		return patchError(op, manifestPath, err)
	}

	reschedule := store.Bool(settings.Android, settings.AndroidRescheduleOnRestart)
	exact := store.Int(settings.Android, settings.AndroidExactScheduling)
	activity := store.Text(settings.Android, settings.AndroidCustomActivity)
	if activity == "" {
		activity = settings.DefaultCustomActivity
	}

	changed := false
	changed = m.SetMetaData(android.MetaRescheduleOnRestart, strconv.FormatBool(reschedule)) || changed
	changed = m.SetMetaData(android.MetaCustomActivity, activity) || changed
	changed = m.SetMetaData(android.MetaExactScheduling, strconv.Itoa(exact)) || changed

	if reschedule {
		changed = m.AddPermission(android.PermissionReceiveBootCompleted) || changed
	}
	if exact&settings.ExactSchedulingEnabled != 0 {
		perms := []struct {
			flag int
			name string
		}{
			{settings.AddScheduleExactAlarmPermission, android.PermissionScheduleExactAlarm},
			{settings.AddUseExactAlarmPermission, android.PermissionUseExactAlarm},
			{settings.AddIgnoreBatteryOptimizationsPermission, android.PermissionIgnoreBatteryOptimizations},
		}
		for _, p := range perms {
			if exact&p.flag != 0 {
				changed = m.AddPermission(p.name) || changed
			}
		}
	}

	if !changed {
		return nil
	}
	data, err := m.Bytes()
	if err != nil {
		return patchError(op, manifestPath, err)
	}
	written, err := writeIfChanged(manifestPath, data)
	if err != nil {
		return patchError(op, manifestPath, err)
	}
	if written {
		res.written(root, manifestPath)
	}
	return nil
}
