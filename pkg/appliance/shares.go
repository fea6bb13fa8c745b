package appliance

import (
	"context"

	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

// Identity is an id_type/id_value pair used by NFS user mapping.
var (
	Identity = resource.NewSchema("identity")

	IdentityType  = resource.Declare(Identity, "idType", resource.String)
	IdentityValue = resource.Declare(Identity, "idValue", resource.String)
)

// NFS exports. Each export holds an ordered list of host restrictions.
var (
	NFSRestriction = resource.NewSchema("nfs-restriction")

	RestrictionHosts                 = resource.Declare(NFSRestriction, "hostRestrictions", resource.ArrayOf(resource.String))
	RestrictionReadOnly              = resource.Declare(NFSRestriction, "readOnly", resource.Bool)
	RestrictionRequirePrivilegedPort = resource.Declare(NFSRestriction, "requirePrivilegedPort", resource.Bool)
	RestrictionUserMapping           = resource.Declare(NFSRestriction, "userMapping", resource.String)
	RestrictionMapToUser             = resource.Declare(NFSRestriction, "mapToUser", resource.Nested(Identity))

	NFSExport = resource.NewSchema("nfs-export", resource.URI("/v2/nfs/exports/:id"))

	NFSExportID           = resource.Declare(NFSExport, "id", resource.String)
	NFSExportPath         = resource.Declare(NFSExport, "exportPath", resource.String)
	NFSExportFSPath       = resource.Declare(NFSExport, "fsPath", resource.String)
	NFSExportDescription  = resource.Declare(NFSExport, "description", resource.String)
	NFSExportRestrictions = resource.Declare(NFSExport, "restrictions", resource.ArrayOf(resource.Nested(NFSRestriction)))
	NFSExportCreateFSPath = resource.DeclareQuery(NFSExport, "allowFSPathCreate", "allow-fs-path-create")

	// NFSExports wraps its items under "entries".
	NFSExports = resource.NewSchema("nfs-exports",
		resource.URI("/v2/nfs/exports/"),
		resource.Items(NFSExport, "entries"),
	)
)

// SMB shares.
var (
	SMBShare = resource.NewSchema("smb-share", resource.URI("/v1/smb/shares/:id"))

	SMBShareID               = resource.Declare(SMBShare, "id", resource.String)
	SMBShareName             = resource.Declare(SMBShare, "shareName", resource.String)
	SMBShareFSPath           = resource.Declare(SMBShare, "fsPath", resource.String)
	SMBShareDescription      = resource.Declare(SMBShare, "description", resource.String)
	SMBShareReadOnly         = resource.Declare(SMBShare, "readOnly", resource.Bool)
	SMBShareAllowGuestAccess = resource.Declare(SMBShare, "allowGuestAccess", resource.Bool)
	SMBSharePermissions      = resource.Declare(SMBShare, "permissions", resource.Opaque)

	SMBShares = resource.NewSchema("smb-shares",
		resource.URI("/v1/smb/shares/"),
		resource.Items(SMBShare, ""),
	)
)

// NewRestriction builds a detached NFS restriction for NewNFSExport.
func NewRestriction(readOnly bool, hosts ...string) (*resource.Resource, error) {
	r := resource.New(NFSRestriction, nil)
	list, err := resource.NewArray(resource.String, hosts...)
	if err != nil {
		return nil, err
	}
	if err := RestrictionHosts.Set(r, list); err != nil {
		return nil, err
	}
	if err := RestrictionReadOnly.Set(r, readOnly); err != nil {
		return nil, err
	}
	if err := RestrictionRequirePrivilegedPort.Set(r, false); err != nil {
		return nil, err
	}
	if err := RestrictionUserMapping.Set(r, "NFS_MAP_NONE"); err != nil {
		return nil, err
	}
	return r, nil
}

// NewNFSExport builds an unsaved export of fsPath at exportPath. Post it with
// CreateNFSExport.
func NewNFSExport(exportPath, fsPath, description string, restrictions ...*resource.Resource) (*resource.Resource, error) {
	e := resource.New(NFSExport, nil)
	if err := NFSExportPath.Set(e, exportPath); err != nil {
		return nil, err
	}
	if err := NFSExportFSPath.Set(e, fsPath); err != nil {
		return nil, err
	}
	if err := NFSExportDescription.Set(e, description); err != nil {
		return nil, err
	}
	list, err := resource.NewArray(resource.Nested(NFSRestriction), restrictions...)
	if err != nil {
		return nil, err
	}
	if err := NFSExportRestrictions.Set(e, list); err != nil {
		return nil, err
	}
	return e, nil
}

// CreateNFSExport posts export to the exports collection. With createFSPath
// the appliance creates a missing directory.
func CreateNFSExport(ctx context.Context, exec resource.Executor, export *resource.Resource, createFSPath bool, opts ...resource.CallOption) (*resource.Resource, error) {
	if createFSPath {
		if err := NFSExportCreateFSPath.Set(export, "true"); err != nil {
			return nil, err
		}
	}
	exports, err := resource.NewCollection(NFSExports, nil)
	if err != nil {
		return nil, err
	}
	return exports.Post(ctx, exec, export, opts...)
}

// ListNFSExports fetches every NFS export.
func ListNFSExports(ctx context.Context, exec resource.Executor, opts ...resource.CallOption) ([]*resource.Resource, error) {
	return list(ctx, exec, NFSExports, nil, opts)
}

// ListSMBShares fetches every SMB share.
func ListSMBShares(ctx context.Context, exec resource.Executor, opts ...resource.CallOption) ([]*resource.Resource, error) {
	return list(ctx, exec, SMBShares, nil, opts)
}

// CreateSMBShare adds a share of fsPath named name.
func CreateSMBShare(ctx context.Context, exec resource.Executor, name, fsPath string, readOnly bool, opts ...resource.CallOption) (*resource.Resource, error) {
	shares, err := resource.NewCollection(SMBShares, nil)
	if err != nil {
		return nil, err
	}
	return shares.Post(ctx, exec, map[string]any{
		SMBShareName.Key():             name,
		SMBShareFSPath.Key():           fsPath,
		SMBShareReadOnly.Key():         readOnly,
		SMBShareAllowGuestAccess.Key(): false,
	}, opts...)
}
