package xcode

import (
	"errors"
	"os"
)

// Push capability identifiers.
const (
	PushCapability      = "com.apple.Push"
	APSEnvironmentKey   = "aps-environment"
	APSProduction       = "production"
	APSDevelopment      = "development"
	CodeSignEntitlement = "CODE_SIGN_ENTITLEMENTS"
)

// ReadEntitlements loads the entitlements file at path, or returns an empty
// XML list if it does not exist yet.
func ReadEntitlements(path string) (*PropertyList, error) {
	pl, err := ReadPropertyList(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewPropertyList(), nil
	}
	return pl, err
}

// APSEnvironment returns the aps-environment value for a build.
func APSEnvironment(release bool) string {
	if release {
		return APSProduction
	}
	return APSDevelopment
}
