package appliance

import (
	"context"

	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

var (
	Version = resource.NewSchema("version", resource.URI("/v1/version"))

	VersionRevisionID = resource.Declare(Version, "revisionID", resource.String)
	VersionBuildID    = resource.Declare(Version, "buildID", resource.String)
	VersionFlavor     = resource.Declare(Version, "flavor", resource.String)
	VersionBuildDate  = resource.Declare(Version, "buildDate", resource.String)
)

// VersionInfo is the decoded form of the version resource.
type VersionInfo struct {
	RevisionID string `json:"revision_id" yaml:"revision_id"`
	BuildID    string `json:"build_id" yaml:"build_id"`
	Flavor     string `json:"flavor" yaml:"flavor"`
	BuildDate  string `json:"build_date" yaml:"build_date"`
}

// GetVersion fetches the software version of the appliance.
func GetVersion(ctx context.Context, exec resource.Executor, opts ...resource.CallOption) (*VersionInfo, error) {
	r, err := resource.Get(ctx, exec, Version, nil, opts...)
	if err != nil {
		return nil, err
	}
	var info VersionInfo
	if err := r.Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}
