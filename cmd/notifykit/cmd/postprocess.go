package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-drift/notifykit/pkg/postprocess"
	"github.com/go-drift/notifykit/pkg/settings"
)

func init() {
	RegisterCommand(&Command{
		Name:  "postprocess",
		Short: "Patch an exported iOS or Android build",
		Long: `Patch an exported build so it matches the project's notification settings.

For ios, <path> is the exported Xcode project. UserNotifications is linked
into the framework target, CoreLocation when location triggers are enabled,
and the push capability, entitlements and background mode are added when
push notifications are enabled. Info.plist receives every iOS setting and
Classes/Preprocessor.h has its feature macros switched on.

For android, <path> is the exported Gradle project. Drawable resources are
rendered into the library module's res directory and AndroidManifest.xml
receives the notification meta-data and permissions.

Files are only rewritten when their content changes, so running the command
again on the same build is a no-op.`,
		Usage: "notifykit postprocess <ios|android> <path>",
		Run:   runPostprocess,
	})
}

func runPostprocess(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: notifykit postprocess <ios|android> <path>")
	}
	platform, err := settings.ParsePlatform(args[0])
	if err != nil {
		return err
	}
	buildDir, err := filepath.Abs(args[1])
	if err != nil {
		return err
	}
	if info, err := os.Stat(buildDir); err != nil || !info.IsDir() {
		return fmt.Errorf("build directory %s does not exist", buildDir)
	}

	proj, err := openProject()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Patching %s build at %s\n", platform, buildDir)
	res, err := postprocess.Run(platform, buildDir, proj.store, proj.postprocessOptions())
	if err != nil {
		return err
	}

	for _, path := range res.Written {
		fmt.Fprintf(stdout, "  updated  %s\n", path)
	}
	for _, path := range res.Skipped {
		fmt.Fprintf(stdout, "  skipped  %s\n", path)
	}
	if len(res.Written) == 0 {
		fmt.Fprintln(stdout, "Build already up to date.")
	}
	return nil
}
