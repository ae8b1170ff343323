package postprocess

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/go-drift/notifykit/pkg/settings"
	"github.com/go-drift/notifykit/pkg/xcode"
)

// Frameworks linked into the framework target.
const (
	UserNotificationsFramework = "UserNotifications.framework"
	CoreLocationFramework      = "CoreLocation.framework"
)

type iosFlags struct {
	location bool
	push     bool
	release  bool
}

// PatchIOS patches the Xcode project exported at root: frameworks and push
// capability in the pbxproj, settings in Info.plist and feature macros in
// Preprocessor.h. A failing pass does not stop the others; all failures are
// returned together. Every file is written only when its content changes, so
// running it twice leaves the second run with nothing to write.
func PatchIOS(root string, store *settings.Store, opts Options) (Result, error) {
	opts = opts.withDefaults(store)
	flags := iosFlags{
		location: store.Bool(settings.IOS, settings.IOSUseLocationNotificationTrigger),
		push:     store.Bool(settings.IOS, settings.IOSAddPushCapability),
		release:  store.Bool(settings.IOS, settings.IOSUseReleaseAPSEnvironment),
	}

	var res Result
	err := runPasses(opts.Handler,
		func() error { return patchProject(root, flags, opts, &res) },
		func() error { return patchInfoPlist(root, store.Settings(settings.IOS), flags, opts, &res) },
		func() error { return patchPreprocessor(root, flags, opts, &res) },
	)
	return res, err
}

func patchProject(root string, flags iosFlags, opts Options, res *Result) error {
	const op = "postprocess.PatchProject"
	pbxPath := xcode.ProjectPath(root)

	project, err := xcode.ReadProject(pbxPath)
	if errors.Is(err, os.ErrNotExist) {
		missing(opts.Handler, op, pbxPath, res, root)
		return nil
	}
	if err != nil {
		return patchError(op, pbxPath, err)
	}

	framework, ok := project.TargetGUID(opts.FrameworkTarget)
	if !ok {
		return patchError(op, pbxPath, fmt.Errorf("target %s not found", opts.FrameworkTarget))
	}

	changed := false
	link := func(name string, weak bool) error {
		if project.ContainsFramework(framework, name) {
			return nil
		}
		changed = true
		return project.AddFramework(framework, name, weak)
	}
	if err := link(UserNotificationsFramework, true); err != nil {
		return patchError(op, pbxPath, err)
	}
	if flags.location {
		if err := link(CoreLocationFramework, false); err != nil {
			return patchError(op, pbxPath, err)
		}
	}

	if flags.push {
		pushChanged, err := addPushCapability(root, project, flags, opts, res)
		if err != nil {
			return err
		}
		changed = changed || pushChanged
	}

	if !changed {
		return nil
	}
	data, err := project.Bytes()
	if err != nil {
		return patchError(op, pbxPath, err)
	}
	written, err := writeIfChanged(pbxPath, data)
	if err != nil {
		return patchError(op, pbxPath, err)
	}
	if written {
		res.written(root, pbxPath)
	}
	return nil
}

// addPushCapability writes the entitlements file and wires it and the push
// capability into the main target. It reports whether the project changed.
func addPushCapability(root string, project *xcode.Project, flags iosFlags, opts Options, res *Result) (bool, error) {
	const op = "postprocess.AddPushCapability"

	target, ok := project.TargetGUID(opts.MainTarget)
	if !ok {
		return false, patchError(op, xcode.ProjectPath(root), fmt.Errorf("target %s not found", opts.MainTarget))
	}

	relPath := path.Join(opts.MainTarget, opts.Entitlements)
	entPath := filepath.Join(root, filepath.FromSlash(relPath))

	ent, err := xcode.ReadEntitlements(entPath)
	if err != nil {
		return false, patchError(op, entPath, err)
	}
	if ent.SetString(xcode.APSEnvironmentKey, xcode.APSEnvironment(flags.release)) {
		data, err := ent.Bytes()
		if err != nil {
			return false, patchError(op, entPath, err)
		}
		written, err := writeIfChanged(entPath, data)
		if err != nil {
			return false, patchError(op, entPath, err)
		}
		if written {
			res.written(root, entPath)
		}
	}

	_, added := project.AddFile(relPath)
	changed := added
	if project.SetBuildProperty(target, xcode.CodeSignEntitlement, relPath) {
		changed = true
	}
	if project.EnableCapability(target, xcode.PushCapability) {
		changed = true
	}
	return changed, nil
}

func patchInfoPlist(root string, list []settings.Setting, flags iosFlags, opts Options, res *Result) error {
	const op = "postprocess.PatchInfoPlist"
	plistPath := filepath.Join(root, "Info.plist")

	pl, err := xcode.ReadPropertyList(plistPath)
	if errors.Is(err, os.ErrNotExist) {
		missing(opts.Handler, op, plistPath, res, root)
		return nil
	}
	if err != nil {
		return patchError(op, plistPath, err)
	}

	changed := false
	for _, s := range list {
		switch s.Kind() {
		case settings.KindBool:
			b, _ := s.Value.Bool()
			changed = pl.SetBool(s.Key, b) || changed
		case settings.KindInt:
			n, _ := s.Value.Int()
			changed = pl.SetInt(s.Key, int64(n)) || changed
		}
	}
	if flags.push {
		changed = pl.AppendUnique("UIBackgroundModes", "remote-notification") || changed
	}

	if !changed {
		return nil
	}
	data, err := pl.Bytes()
	if err != nil {
		return patchError(op, plistPath, err)
	}
	written, err := writeIfChanged(plistPath, data)
	if err != nil {
		return patchError(op, plistPath, err)
	}
	if written {
		res.written(root, plistPath)
	}
	return nil
}

func patchPreprocessor(root string, flags iosFlags, opts Options, res *Result) error {
	const op = "postprocess.PatchPreprocessor"
	hPath := xcode.PreprocessorPath(root)

	data, err := os.ReadFile(hPath)
	if errors.Is(err, os.ErrNotExist) {
		missing(opts.Handler, op, hPath, res, root)
		return nil
	}
	if err != nil {
		return patchError(op, hPath, err)
	}

	text := string(data)
	if flags.location {
		text = xcode.EnableMacro(text, xcode.MacroUsesLocation)
	}
	if flags.push {
		text = xcode.EnableMacro(text, xcode.MacroUsesRemoteNotifications)
	}
	if text == string(data) {
		return nil
	}

	written, err := writeIfChanged(hPath, []byte(text))
	if err != nil {
		return patchError(op, hPath, err)
	}
	if written {
		res.written(root, hPath)
	}
	return nil
}
