package appliance

import (
	"sort"

	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

// kinds maps the names accepted by Lookup to their schemas.
var kinds = map[string]*resource.Schema{
	"version":          Version,
	"cluster-settings": ClusterSettings,
	"node":             Node,
	"nodes":            Nodes,
	"user":             User,
	"users":            Users,
	"group":            Group,
	"groups":           Groups,
	"user-groups":      UserGroups,
	"nfs-export":       NFSExport,
	"nfs-exports":      NFSExports,
	"smb-share":        SMBShare,
	"smb-shares":       SMBShares,
	"file-attributes":  FileAttributes,
	"directory":        DirectoryEntries,
	"current-activity": CurrentActivity,
}

// Lookup returns the schema registered under name.
func Lookup(name string) (*resource.Schema, bool) {
	s, ok := kinds[name]
	return s, ok
}

// Kinds returns the registered names in sorted order.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
