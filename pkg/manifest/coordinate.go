package manifest

import (
	"strings"

	"github.com/matzehuels/relcat/pkg/errors"
)

// Coordinate identifies a published artifact.
type Coordinate struct {
	GroupID    string `json:"group_id" yaml:"group_id" toml:"group_id" bson:"group_id"`
	ArtifactID string `json:"artifact_id" yaml:"artifact_id" toml:"artifact_id" bson:"artifact_id"`
	Version    string `json:"version" yaml:"version" toml:"version" bson:"version"`
}

// ParseCoordinate parses "groupId:artifactId:version".
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return Coordinate{}, errors.New(errors.ErrCodeInvalidInput,
			"invalid coordinate %q: expected groupId:artifactId:version", s)
	}
	c := Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate checks that every part is present and safe to place in a URL
// path or cache file name.
func (c Coordinate) Validate() error {
	if err := errors.ValidateCoordinatePart("groupId", c.GroupID); err != nil {
		return err
	}
	if err := errors.ValidateCoordinatePart("artifactId", c.ArtifactID); err != nil {
		return err
	}
	return errors.ValidateCoordinatePart("version", c.Version)
}

// String returns "groupId:artifactId:version".
func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// Key returns the dependency key "groupId:artifactId".
func (c Coordinate) Key() string {
	return DependencyKey(c.GroupID, c.ArtifactID)
}

// FileName returns the cache file name "artifactId-version.pom".
func (c Coordinate) FileName() string {
	return c.ArtifactID + "-" + c.Version + ".pom"
}

// DependencyKey joins a group and artifact id the way dependency maps are keyed.
func DependencyKey(groupID, artifactID string) string {
	return groupID + ":" + artifactID
}
