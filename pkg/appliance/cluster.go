package appliance

import (
	"context"

	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

// Cluster settings are a singleton guarded by an ETag.
var (
	ClusterSettings = resource.NewSchema("cluster-settings", resource.URI("/v1/cluster/settings"))

	ClusterName = resource.Declare(ClusterSettings, "clusterName", resource.String)
	Timezone    = resource.Declare(ClusterSettings, "timezone", resource.String)
)

var (
	Node = resource.NewSchema("node", resource.URI("/v1/cluster/nodes/:id"))

	NodeID           = resource.Declare(Node, "id", resource.Integer)
	NodeName         = resource.Declare(Node, "nodeName", resource.String)
	NodeStatus       = resource.Declare(Node, "nodeStatus", resource.String)
	NodeSerialNumber = resource.Declare(Node, "serialNumber", resource.String)
	NodeModelNumber  = resource.Declare(Node, "modelNumber", resource.String)
	NodeUUID         = resource.Declare(Node, "uuid", resource.String)
	NodeMACAddress   = resource.Declare(Node, "macAddress", resource.String)

	// Nodes lists the cluster nodes as a bare JSON array.
	Nodes = resource.NewSchema("nodes",
		resource.URI("/v1/cluster/nodes/"),
		resource.Items(Node, ""),
	)
)

// GetClusterSettings fetches the cluster settings. The returned instance
// carries the ETag needed to Put it back.
func GetClusterSettings(ctx context.Context, exec resource.Executor, opts ...resource.CallOption) (*resource.Resource, error) {
	return resource.Get(ctx, exec, ClusterSettings, nil, opts...)
}

// RenameCluster reads the settings, changes the cluster name and writes them
// back under the ETag of the read. A concurrent change makes it fail with a
// 412 *resource.RequestFailedError.
func RenameCluster(ctx context.Context, exec resource.Executor, name string, opts ...resource.CallOption) (*resource.Resource, error) {
	settings, err := GetClusterSettings(ctx, exec, opts...)
	if err != nil {
		return nil, err
	}
	if err := ClusterName.Set(settings, name); err != nil {
		return nil, err
	}
	return settings.Put(ctx, exec, opts...)
}

// ListNodes fetches every node of the cluster.
func ListNodes(ctx context.Context, exec resource.Executor, opts ...resource.CallOption) ([]*resource.Resource, error) {
	return list(ctx, exec, Nodes, nil, opts)
}

// list fetches a collection of s and returns its items.
func list(ctx context.Context, exec resource.Executor, s *resource.Schema, attrs map[string]any, opts []resource.CallOption) ([]*resource.Resource, error) {
	c, err := resource.NewCollection(s, attrs)
	if err != nil {
		return nil, err
	}
	if _, err := c.Get(ctx, exec, opts...); err != nil {
		return nil, err
	}
	return c.Items()
}
