package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
)

// CheckSchemaCompatibility checks whether a rule document's schema version
// is compatible with this library.
//
// Compatibility rules:
//   - If either version is "main" (development build), the check is skipped
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 1.2.0 is compatible with 1.2.5)
func CheckSchemaCompatibility(libraryVersion, schemaVersion string) error {
	libraryVersion = strings.TrimPrefix(libraryVersion, "v")
	schemaVersion = strings.TrimPrefix(schemaVersion, "v")

	// Development builds skip the check.
	if libraryVersion == "main" || schemaVersion == "main" {
		return nil
	}

	librarySemver, err := semver.NewVersion(libraryVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeSchemaVersionMismatch, err, "invalid library version %q", libraryVersion)
	}

	schemaSemver, err := semver.NewVersion(schemaVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeSchemaVersionMismatch, err, "invalid schema version %q", schemaVersion)
	}

	if librarySemver.Major() != schemaSemver.Major() {
		return errors.Newf(errors.ErrCodeSchemaVersionMismatch,
			"major version mismatch: library is %d.x.x but the document declares %d.x.x",
			librarySemver.Major(), schemaSemver.Major())
	}

	if librarySemver.Minor() != schemaSemver.Minor() {
		return errors.Newf(errors.ErrCodeSchemaVersionMismatch,
			"minor version mismatch: library is %d.%d.x but the document declares %d.%d.x",
			librarySemver.Major(), librarySemver.Minor(),
			schemaSemver.Major(), schemaSemver.Minor())
	}

	return nil
}
