package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-drift/notifykit/cmd/notifykit/internal/config"
	"github.com/go-drift/notifykit/pkg/postprocess"
	"github.com/go-drift/notifykit/pkg/settings"
)

// project is a resolved Unity project with its settings loaded.
type project struct {
	cfg   *config.Resolved
	store *settings.Store
}

func projectRoot() (string, error) {
	if projectDir != "" {
		abs, err := filepath.Abs(projectDir)
		if err != nil {
			return "", err
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			return "", fmt.Errorf("project directory %s does not exist", abs)
		}
		return abs, nil
	}
	return config.FindProjectRoot()
}

func resolveProject() (*config.Resolved, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	return config.Resolve(root)
}

// openProject resolves the project and loads its settings file, creating
// it with defaults when missing.
func openProject() (*project, error) {
	cfg, err := resolveProject()
	if err != nil {
		return nil, err
	}

	var opts []settings.Option
	if len(cfg.Checkout) > 0 {
		opts = append(opts, settings.WithCheckout(&settings.CommandCheckout{Command: cfg.Checkout}))
	}

	store, err := settings.NewSession(cfg.SettingsPath, opts...).Initialize()
	if err != nil {
		return nil, err
	}
	return &project{cfg: cfg, store: store}, nil
}

func (p *project) postprocessOptions() postprocess.Options {
	return postprocess.Options{
		FrameworkTarget: p.cfg.FrameworkTarget,
		MainTarget:      p.cfg.MainTarget,
		Entitlements:    p.cfg.Entitlements,
		LibraryModule:   p.cfg.LibraryModule,
		ProjectRoot:     p.cfg.Root,
	}
}
