package xcode

import (
	"path/filepath"
	"strings"
)

// Preprocessor macros toggled by the patcher.
const (
	MacroUsesLocation            = "UNITY_USES_LOCATION"
	MacroUsesRemoteNotifications = "UNITY_USES_REMOTE_NOTIFICATIONS"
)

// PreprocessorPath returns Classes/Preprocessor.h inside root.
func PreprocessorPath(root string) string {
	return filepath.Join(root, "Classes", "Preprocessor.h")
}

// EnableMacro rewrites "macro 0" to "macro 1" in text. Text that does not
// mention macro is returned unchanged.
func EnableMacro(text, macro string) string {
	if !strings.Contains(text, macro) {
		return text
	}
	return strings.ReplaceAll(text, macro+" 0", macro+" 1")
}
