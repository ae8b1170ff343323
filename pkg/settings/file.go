package settings

import (
	"encoding/json"
	"fmt"

	"golang.org/x/mod/semver"

	"github.com/go-drift/notifykit/pkg/icons"
)

// FormatVersion is written into every settings file. Files older than
// legacyCutoff use the legacy field names.
const (
	FormatVersion = "v1.1.0"
	legacyCutoff  = "v1.1.0"
)

// DrawableResource is a user-supplied icon tagged with an identifier and
// size class. Image is a path relative to the project root.
type DrawableResource struct {
	ID    string     `json:"id"`
	Type  icons.Type `json:"type"`
	Image string     `json:"image"`
}

// fileData is the on-disk layout of the settings file.
type fileData struct {
	FormatVersion string             `json:"formatVersion"`
	Android       *Collection        `json:"androidSettings,omitempty"`
	IOS           *Collection        `json:"iosSettings,omitempty"`
	Drawables     []DrawableResource `json:"drawableResources"`
}

// legacyFileData holds the field names used before FormatVersion existed.
type legacyFileData struct {
	Android   *Collection        `json:"AndroidNotificationEditorSettingsValues"`
	Drawables []DrawableResource `json:"TrackedResourceAssets"`
}

func (f *fileData) collection(p Platform) *Collection {
	switch p {
	case Android:
		return f.Android
	case IOS:
		return f.IOS
	}
	return nil
}

func (f *fileData) setCollection(p Platform, c *Collection) {
	switch p {
	case Android:
		f.Android = c
	case IOS:
		f.IOS = c
	}
}

// isLegacy reports whether version predates the current field names.
// A missing or malformed version counts as legacy.
func isLegacy(version string) bool {
	if !semver.IsValid(version) {
		return true
	}
	return semver.Compare(version, legacyCutoff) < 0
}

func decodeFile(data []byte) (*fileData, error) {
	var f fileData
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if !isLegacy(f.FormatVersion) {
		return &f, nil
	}

	var legacy legacyFileData
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("failed to read legacy fields: %w", err)
	}
	if f.Android == nil {
		f.Android = legacy.Android
	}
	if f.Drawables == nil {
		f.Drawables = legacy.Drawables
	}
	return &f, nil
}

func encodeFile(f *fileData) ([]byte, error) {
	f.FormatVersion = FormatVersion
	if f.Drawables == nil {
		f.Drawables = []DrawableResource{}
	}
	data, err := json.MarshalIndent(f, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
