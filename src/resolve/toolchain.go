package resolve

import (
	"fmt"

	masterminds "github.com/Masterminds/semver/v3"
)

// parseToolchain parses a pinned toolchain version. NDK versions such as
// "27.0.12077973" parse as major.minor.patch.
func parseToolchain(version string) (*masterminds.Version, error) {
	v, err := masterminds.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("%q is not a version number: %w", version, err)
	}
	return v, nil
}

// parseConstraint parses a toolchain constraint such as ">= 27.0".
func parseConstraint(constraint string) (*masterminds.Constraints, error) {
	c, err := masterminds.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", constraint, err)
	}
	return c, nil
}

// satisfies checks v against c and returns the first reason it fails.
func satisfies(v *masterminds.Version, c *masterminds.Constraints, constraint string) error {
	ok, errs := c.Validate(v)
	if ok {
		return nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s does not satisfy %q: %w", v.Original(), constraint, errs[0])
	}
	return fmt.Errorf("%s does not satisfy %q", v.Original(), constraint)
}
