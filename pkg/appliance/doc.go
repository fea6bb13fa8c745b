// Package appliance declares the resources of the storage appliance REST API
// on top of package resource, and offers a few task-level helpers built from
// them.
//
// Every helper takes the resource.Executor to use explicitly, usually a
// *client.Client:
//
//	c, _ := client.New(cfg)
//	_ = c.Authenticate(ctx)
//	users, err := appliance.ListUsers(ctx, c)
//
// The schemas and their field handles are exported so callers can work with
// resources directly:
//
//	u, err := resource.Get(ctx, c, appliance.User, map[string]any{"id": "500"})
//	name, err := appliance.UserName.Get(u)
package appliance
