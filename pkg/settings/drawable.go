package settings

import (
	"fmt"
	"path/filepath"

	notifyerrors "github.com/go-drift/notifykit/pkg/errors"
	"github.com/go-drift/notifykit/pkg/icons"
)

// Drawables returns a copy of the drawable resource list.
func (s *Store) Drawables() []DrawableResource {
	out := make([]DrawableResource, len(s.drawables))
	copy(out, s.drawables)
	return out
}

// AddDrawable appends a resource and saves. Identifiers are not required
// to be unique.
func (s *Store) AddDrawable(id string, typ icons.Type, image string) error {
	s.drawables = append(s.drawables, DrawableResource{ID: id, Type: typ, Image: image})
	return s.Save()
}

// RemoveDrawableAt removes the resource at index. An out of range index is
// reported as a warning and nothing changes.
func (s *Store) RemoveDrawableAt(index int) error {
	if index < 0 || index >= len(s.drawables) {
		notifyerrors.Warn(s.handler, &notifyerrors.NotifyError{
			Op:   "settings.RemoveDrawableAt",
			Kind: notifyerrors.KindNotFound,
			Err:  fmt.Errorf("invalid drawable index %d provided, drawable not removed", index),
		})
		return nil
	}
	s.drawables = append(s.drawables[:index], s.drawables[index+1:]...)
	return s.Save()
}

// RemoveDrawable removes the first resource with id. A missing id is
// reported as a warning and nothing changes.
func (s *Store) RemoveDrawable(id string) error {
	for i, d := range s.drawables {
		if d.ID == id {
			s.drawables = append(s.drawables[:i], s.drawables[i+1:]...)
			return s.Save()
		}
	}
	notifyerrors.Warn(s.handler, &notifyerrors.NotifyError{
		Op:   "settings.RemoveDrawable",
		Kind: notifyerrors.KindNotFound,
		Key:  id,
		Err:  fmt.Errorf("drawable with id %s not found, drawable not removed", id),
	})
	return nil
}

// ClearDrawables removes every resource and saves.
func (s *Store) ClearDrawables() error {
	s.drawables = nil
	return s.Save()
}

// ExportDrawables renders every valid resource at each density bucket and
// returns the encoded PNGs keyed by res-relative output path. Image paths
// are resolved against baseDir. A resource that fails validation is
// reported and skipped; the rest are still exported. When two resources
// share an id the later one wins.
func (s *Store) ExportDrawables(baseDir string) map[string][]byte {
	out := make(map[string][]byte)
	for _, d := range s.drawables {
		path := d.Image
		if path != "" && !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, filepath.FromSlash(path))
		}

		img, err := icons.Validate(d.ID, path, d.Type)
		if err != nil {
			notifyerrors.Warn(s.handler, &notifyerrors.NotifyError{
				Op:   "settings.ExportDrawables",
				Kind: notifyerrors.KindValidation,
				Key:  d.ID,
				Err:  err,
			})
			continue
		}

		files, err := icons.Render(d.ID, img, d.Type)
		if err != nil {
			notifyerrors.Warn(s.handler, &notifyerrors.NotifyError{
				Op:   "settings.ExportDrawables",
				Kind: notifyerrors.KindIO,
				Key:  d.ID,
				Err:  err,
			})
			continue
		}
		for name, data := range files {
			out[name] = data
		}
	}
	return out
}
