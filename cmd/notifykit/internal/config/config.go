package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project configuration file.
const FileName = "notify.yaml"

// Config represents the optional notify.yaml configuration.
type Config struct {
	Settings SettingsConfig `yaml:"settings"`
	IOS      IOSConfig      `yaml:"ios"`
	Android  AndroidConfig  `yaml:"android"`
}

// SettingsConfig locates the settings file and how to make it writable.
type SettingsConfig struct {
	Path     string `yaml:"path,omitempty"`
	Checkout string `yaml:"checkout,omitempty"`
}

// IOSConfig names the targets of the exported Xcode project.
type IOSConfig struct {
	FrameworkTarget string `yaml:"framework_target,omitempty"`
	MainTarget      string `yaml:"main_target,omitempty"`
	Entitlements    string `yaml:"entitlements,omitempty"`
}

// AndroidConfig names the Gradle module holding the plugin.
type AndroidConfig struct {
	LibraryModule string `yaml:"library_module,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root            string
	SettingsPath    string
	Checkout        []string
	FrameworkTarget string
	MainTarget      string
	Entitlements    string
	LibraryModule   string
}

// LoadOptional reads notify.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads notify.yaml (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	settingsPath := orDefault(cfg.Settings.Path, "ProjectSettings/NotificationsSettings.json")
	if filepath.IsAbs(settingsPath) {
		return nil, fmt.Errorf("settings.path must be relative to the project root (got %q)", settingsPath)
	}

	r := &Resolved{
		Root:            dir,
		SettingsPath:    filepath.Join(dir, filepath.FromSlash(settingsPath)),
		FrameworkTarget: orDefault(cfg.IOS.FrameworkTarget, "UnityFramework"),
		MainTarget:      orDefault(cfg.IOS.MainTarget, "Unity-iPhone"),
		Entitlements:    orDefault(cfg.IOS.Entitlements, "ios.entitlements"),
		LibraryModule:   orDefault(cfg.Android.LibraryModule, "unityLibrary"),
	}
	if fields := strings.Fields(cfg.Settings.Checkout); len(fields) > 0 {
		r.Checkout = fields
	}

	if strings.ContainsAny(r.Entitlements, `/\`) {
		return nil, fmt.Errorf("ios.entitlements must be a file name (got %q)", r.Entitlements)
	}
	if r.FrameworkTarget == r.MainTarget {
		return nil, fmt.Errorf("ios.framework_target and ios.main_target must differ (both %q)", r.MainTarget)
	}

	return r, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// FindProjectRoot walks up from the current directory to find a Unity
// project, identified by a ProjectSettings directory or a notify.yaml.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findProjectRoot(dir)
}

func findProjectRoot(dir string) (string, error) {
	for {
		if info, err := os.Stat(filepath.Join(dir, "ProjectSettings")); err == nil && info.IsDir() {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Unity project (no ProjectSettings or %s found)", FileName)
		}
		dir = parent
	}
}
