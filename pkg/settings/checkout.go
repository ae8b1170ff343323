package settings

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Checkout makes a file writable before the store rewrites it. Projects
// under a locking version control system check the file out here.
type Checkout interface {
	MakeEditable(path string) error
}

// FileCheckout clears the read-only bit on an existing file. A file that
// does not exist yet is always editable.
type FileCheckout struct{}

// MakeEditable implements Checkout.
func (FileCheckout) MakeEditable(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	perm := info.Mode().Perm()
	if perm&0o200 != 0 {
		return nil
	}
	return os.Chmod(path, perm|0o200)
}

// CommandCheckout runs a version control command with the file path
// appended (for example "p4 edit") and then checks the file is writable.
type CommandCheckout struct {
	Command []string
}

// ParseCommandCheckout splits a configured command line on whitespace.
func ParseCommandCheckout(command string) (*CommandCheckout, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("checkout command is empty")
	}
	return &CommandCheckout{Command: fields}, nil
}

// MakeEditable implements Checkout.
func (c *CommandCheckout) MakeEditable(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(c.Command) == 0 {
		return fmt.Errorf("checkout command is empty")
	}

	args := append(append([]string{}, c.Command[1:]...), path)
	cmd := exec.Command(c.Command[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", strings.Join(c.Command, " "), err, strings.TrimSpace(string(out)))
	}

	if info, err = os.Stat(path); err != nil {
		return err
	}
	if info.Mode().Perm()&0o200 == 0 {
		return fmt.Errorf("%s is still read-only after checkout", path)
	}
	return nil
}
