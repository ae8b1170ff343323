package postprocess

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	notifyerrors "github.com/go-drift/notifykit/pkg/errors"
	"github.com/go-drift/notifykit/pkg/icons"
	"github.com/go-drift/notifykit/pkg/settings"
	"github.com/go-drift/notifykit/pkg/xcode"
)

func copyFixture(t *testing.T, name, dst string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// setupXcode lays out a minimal Unity Xcode export.
func setupXcode(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	copyFixture(t, "project.pbxproj", xcode.ProjectPath(root))
	copyFixture(t, "Info.plist", filepath.Join(root, "Info.plist"))
	copyFixture(t, "Preprocessor.h", xcode.PreprocessorPath(root))
	return root
}

func openStore(t *testing.T, h notifyerrors.ErrorHandler) (*settings.Store, string) {
	t.Helper()
	project := t.TempDir()
	store, err := settings.Open(filepath.Join(project, settings.DefaultPath), settings.WithHandler(h))
	if err != nil {
		t.Fatal(err)
	}
	return store, project
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestPatchIOSDefaults(t *testing.T) {
	rec := &notifyerrors.Recorder{}
	store, _ := openStore(t, rec)
	root := setupXcode(t)

	res, err := PatchIOS(root, store, Options{Handler: rec})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Unity-iPhone.xcodeproj/project.pbxproj", "Info.plist"} {
		if !contains(res.Written, want) {
			t.Errorf("expected %s to be written, got %v", want, res.Written)
		}
	}
	if contains(res.Written, "Classes/Preprocessor.h") {
		t.Error("preprocessor should be untouched without location or push")
	}

	project, err := xcode.ReadProject(xcode.ProjectPath(root))
	if err != nil {
		t.Fatal(err)
	}
	target, _ := project.TargetGUID("UnityFramework")
	if !project.ContainsFramework(target, UserNotificationsFramework) {
		t.Error("UserNotifications not linked")
	}
	if project.ContainsFramework(target, CoreLocationFramework) {
		t.Error("CoreLocation linked without the location setting")
	}

	pl, err := xcode.ReadPropertyList(filepath.Join(root, "Info.plist"))
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := pl.Int(settings.IOSDefaultAuthorizationOptions); n != 7 {
		t.Errorf("authorization options = %d, want 7", n)
	}
	if b, ok := pl.Bool(settings.IOSRequestAuthorizationOnLaunch); !ok || !b {
		t.Error("request authorization flag not written")
	}
	if _, ok := pl.Text("CFBundleIdentifier"); !ok {
		t.Error("existing keys must be kept")
	}
	if modes := pl.Root["UIBackgroundModes"].([]any); len(modes) != 1 {
		t.Errorf("background modes changed without push: %v", modes)
	}

	if n := len(rec.Entries()); n != 0 {
		t.Errorf("unexpected reports: %v", rec.Entries())
	}
}

func TestPatchIOSIsIdempotent(t *testing.T) {
	tests := []struct {
		name     string
		location bool
		push     bool
	}{
		{"defaults", false, false},
		{"location", true, false},
		{"push", false, true},
		{"everything", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := openStore(t, &notifyerrors.Recorder{})
			store.Set(settings.IOS, settings.IOSUseLocationNotificationTrigger, settings.Bool(tt.location))
			store.Set(settings.IOS, settings.IOSAddPushCapability, settings.Bool(tt.push))
			root := setupXcode(t)

			first, err := PatchIOS(root, store, Options{})
			if err != nil {
				t.Fatal(err)
			}
			if len(first.Written) == 0 {
				t.Fatal("first run should write")
			}

			second, err := PatchIOS(root, store, Options{})
			if err != nil {
				t.Fatal(err)
			}
			if len(second.Written) != 0 {
				t.Errorf("second run wrote %v", second.Written)
			}
		})
	}
}

func TestPatchIOSPushAndLocation(t *testing.T) {
	store, _ := openStore(t, &notifyerrors.Recorder{})
	store.Set(settings.IOS, settings.IOSUseLocationNotificationTrigger, settings.Bool(true))
	store.Set(settings.IOS, settings.IOSAddPushCapability, settings.Bool(true))
	root := setupXcode(t)

	res, err := PatchIOS(root, store, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !contains(res.Written, "Unity-iPhone/ios.entitlements") {
		t.Errorf("entitlements not written: %v", res.Written)
	}

	ent, err := xcode.ReadPropertyList(filepath.Join(root, "Unity-iPhone", "ios.entitlements"))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := ent.Text(xcode.APSEnvironmentKey); v != "production" {
		t.Errorf("default aps-environment = %q, want production", v)
	}

	project, err := xcode.ReadProject(xcode.ProjectPath(root))
	if err != nil {
		t.Fatal(err)
	}
	framework, _ := project.TargetGUID("UnityFramework")
	main, _ := project.TargetGUID("Unity-iPhone")
	if !project.ContainsFramework(framework, CoreLocationFramework) {
		t.Error("CoreLocation not linked")
	}
	if !project.Capability(main, xcode.PushCapability) {
		t.Error("push capability not enabled")
	}
	if v, _ := project.BuildProperty(main, xcode.CodeSignEntitlement); v != "Unity-iPhone/ios.entitlements" {
		t.Errorf("CODE_SIGN_ENTITLEMENTS = %q", v)
	}
	if _, ok := project.FindFile("Unity-iPhone/ios.entitlements"); !ok {
		t.Error("entitlements file reference missing")
	}

	pl, err := xcode.ReadPropertyList(filepath.Join(root, "Info.plist"))
	if err != nil {
		t.Fatal(err)
	}
	modes := pl.Root["UIBackgroundModes"].([]any)
	if len(modes) != 2 || modes[1] != "remote-notification" {
		t.Errorf("UIBackgroundModes = %v", modes)
	}

	header, err := os.ReadFile(xcode.PreprocessorPath(root))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"UNITY_USES_LOCATION 1", "UNITY_USES_REMOTE_NOTIFICATIONS 1", "UNITY_USES_DYNAMIC_PLAYER_LIB 0"} {
		if !strings.Contains(string(header), want) {
			t.Errorf("Preprocessor.h missing %q", want)
		}
	}
}

func TestPatchIOSDevelopmentEnvironment(t *testing.T) {
	store, _ := openStore(t, &notifyerrors.Recorder{})
	store.Set(settings.IOS, settings.IOSAddPushCapability, settings.Bool(true))
	store.Set(settings.IOS, settings.IOSUseReleaseAPSEnvironment, settings.Bool(false))
	root := setupXcode(t)

	if _, err := PatchIOS(root, store, Options{}); err != nil {
		t.Fatal(err)
	}
	ent, err := xcode.ReadPropertyList(filepath.Join(root, "Unity-iPhone", "ios.entitlements"))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := ent.Text(xcode.APSEnvironmentKey); v != "development" {
		t.Errorf("aps-environment = %q, want development", v)
	}
}

func TestPatchIOSContinuesAfterFailedPass(t *testing.T) {
	rec := &notifyerrors.Recorder{}
	store, _ := openStore(t, rec)
	store.Set(settings.IOS, settings.IOSUseLocationNotificationTrigger, settings.Bool(true))
	root := setupXcode(t)
	if err := os.WriteFile(xcode.ProjectPath(root), []byte("{ objects = { ; }"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := PatchIOS(root, store, Options{Handler: rec})
	var nerr *notifyerrors.NotifyError
	if !notifyerrors.As(err, &nerr) || nerr.Kind != notifyerrors.KindPatch {
		t.Fatalf("expected a patch error, got %v", err)
	}
	if got := rec.Count(notifyerrors.SeverityError, notifyerrors.KindPatch); got != 1 {
		t.Errorf("reported patch errors = %d, want 1", got)
	}

	for _, want := range []string{"Info.plist", "Classes/Preprocessor.h"} {
		if !contains(res.Written, want) {
			t.Errorf("%s should still be patched, written = %v", want, res.Written)
		}
	}
	header, err := os.ReadFile(xcode.PreprocessorPath(root))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(header), "UNITY_USES_LOCATION 1") {
		t.Error("location macro not enabled after project pass failed")
	}
}

func TestPatchIOSMissingArtifacts(t *testing.T) {
	rec := &notifyerrors.Recorder{}
	store, _ := openStore(t, rec)
	root := t.TempDir()

	res, err := PatchIOS(root, store, Options{Handler: rec})
	if err != nil {
		t.Fatalf("missing files should be skipped, got %v", err)
	}
	if got := rec.Count(notifyerrors.SeverityWarning, notifyerrors.KindNotFound); got != 3 {
		t.Errorf("not-found warnings = %d, want 3", got)
	}
	if len(res.Skipped) != 3 || len(res.Written) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestPatchIOSMalformedPlist(t *testing.T) {
	store, _ := openStore(t, &notifyerrors.Recorder{})
	root := setupXcode(t)
	if err := os.WriteFile(filepath.Join(root, "Info.plist"), []byte("<plist><dict><key>"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := PatchIOS(root, store, Options{})
	var nerr *notifyerrors.NotifyError
	if !notifyerrors.As(err, &nerr) || nerr.Kind != notifyerrors.KindPatch {
		t.Errorf("expected a patch error, got %v", err)
	}
}

func writeIcon(t *testing.T, path string, size int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = 0xc0
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPatchAndroid(t *testing.T) {
	rec := &notifyerrors.Recorder{}
	store, project := openStore(t, rec)
	writeIcon(t, filepath.Join(project, "Assets", "bell.png"), 96)
	store.AddDrawable("bell", icons.Small, "Assets/bell.png")
	store.Set(settings.Android, settings.AndroidRescheduleOnRestart, settings.Bool(true))
	store.Set(settings.Android, settings.AndroidExactScheduling,
		settings.Int(settings.ExactSchedulingEnabled|settings.AddScheduleExactAlarmPermission))

	root := t.TempDir()
	mainDir := filepath.Join(root, "unityLibrary", "src", "main")
	copyFixture(t, "AndroidManifest.xml", filepath.Join(mainDir, "AndroidManifest.xml"))

	res, err := Run(settings.Android, root, store, Options{Handler: rec})
	if err != nil {
		t.Fatal(err)
	}
	if !contains(res.Written, "unityLibrary/src/main/res/drawable-mdpi-v11/bell.png") {
		t.Errorf("drawable not written: %v", res.Written)
	}
	if !contains(res.Written, "unityLibrary/src/main/AndroidManifest.xml") {
		t.Errorf("manifest not written: %v", res.Written)
	}

	manifest, err := os.ReadFile(filepath.Join(mainDir, "AndroidManifest.xml"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(manifest)
	for _, want := range []string{
		"RECEIVE_BOOT_COMPLETED",
		"SCHEDULE_EXACT_ALARM",
		`android:name="reschedule_notifications_on_restart" android:value="true"`,
		`android:name="com.unity.androidnotifications.exact_scheduling" android:value="3"`,
		`android:value="com.unity3d.player.UnityPlayerActivity"`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("manifest missing %s", want)
		}
	}
	if strings.Contains(text, "USE_EXACT_ALARM") {
		t.Error("USE_EXACT_ALARM added without its flag")
	}

	second, err := Run(settings.Android, root, store, Options{Handler: rec})
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Written) != 0 {
		t.Errorf("second run wrote %v", second.Written)
	}
}

func TestPatchAndroidContinuesAfterDrawableFailure(t *testing.T) {
	rec := &notifyerrors.Recorder{}
	store, project := openStore(t, rec)
	writeIcon(t, filepath.Join(project, "Assets", "bell.png"), 96)
	store.AddDrawable("bell", icons.Small, "Assets/bell.png")

	root := t.TempDir()
	mainDir := filepath.Join(root, "unityLibrary", "src", "main")
	copyFixture(t, "AndroidManifest.xml", filepath.Join(mainDir, "AndroidManifest.xml"))
	// A regular file where the res directory belongs makes every drawable write fail.
	if err := os.WriteFile(filepath.Join(mainDir, "res"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := PatchAndroid(root, store, Options{Handler: rec})
	if err == nil {
		t.Fatal("expected the drawable pass to fail")
	}
	if got := rec.Count(notifyerrors.SeverityError, notifyerrors.KindPatch); got != 1 {
		t.Errorf("reported patch errors = %d, want 1", got)
	}
	if !contains(res.Written, "unityLibrary/src/main/AndroidManifest.xml") {
		t.Errorf("manifest should still be patched, written = %v", res.Written)
	}
}

func TestPatchAndroidMissingManifest(t *testing.T) {
	rec := &notifyerrors.Recorder{}
	store, _ := openStore(t, rec)

	res, err := PatchAndroid(t.TempDir(), store, Options{Handler: rec})
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.Count(notifyerrors.SeverityWarning, notifyerrors.KindNotFound); got != 1 {
		t.Errorf("not-found warnings = %d, want 1", got)
	}
	if !contains(res.Skipped, "src/main/AndroidManifest.xml") {
		t.Errorf("skipped = %v", res.Skipped)
	}
}

func TestRunUnknownPlatform(t *testing.T) {
	store, _ := openStore(t, &notifyerrors.Recorder{})
	res, err := Run(settings.Platform("webgl"), t.TempDir(), store, Options{})
	if err != nil || len(res.Written)+len(res.Skipped) != 0 {
		t.Errorf("Run(webgl) = %+v, %v", res, err)
	}
}

func TestWriteIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "file.txt")

	written, err := writeIfChanged(path, []byte("one"))
	if err != nil || !written {
		t.Fatalf("first write = %v, %v", written, err)
	}
	written, err = writeIfChanged(path, []byte("one"))
	if err != nil || written {
		t.Errorf("same bytes = %v, %v", written, err)
	}
	written, err = writeIfChanged(path, []byte("two"))
	if err != nil || !written {
		t.Errorf("new bytes = %v, %v", written, err)
	}
}
