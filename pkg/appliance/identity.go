package appliance

import (
	"context"
	"math/big"

	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

// Local users.
var (
	User = resource.NewSchema("user", resource.URI("/v1/users/:id"))

	UserID            = resource.Declare(User, "id", resource.String)
	UserName          = resource.Declare(User, "name", resource.String)
	UserPrimaryGroup  = resource.Declare(User, "primaryGroup", resource.String)
	UserSID           = resource.Declare(User, "sid", resource.String)
	UserUID           = resource.Declare(User, "uid", resource.BigInt)
	UserHomeDirectory = resource.Declare(User, "homeDirectory", resource.String)
	UserPassword      = resource.Declare(User, "password", resource.String)

	Users = resource.NewSchema("users",
		resource.URI("/v1/users/"),
		resource.Items(User, ""),
	)
)

// Local groups.
var (
	Group = resource.NewSchema("group", resource.URI("/v1/groups/:id"))

	GroupID   = resource.Declare(Group, "id", resource.String)
	GroupName = resource.Declare(Group, "name", resource.String)
	GroupSID  = resource.Declare(Group, "sid", resource.String)
	GroupGID  = resource.Declare(Group, "gid", resource.BigInt)

	Groups = resource.NewSchema("groups",
		resource.URI("/v1/groups/"),
		resource.Items(Group, ""),
	)

	// UserGroups lists the groups a user belongs to.
	UserGroups = resource.NewSchema("user-groups",
		resource.URI("/v1/users/:id/groups/"),
		resource.Items(Group, ""),
	)
	UserGroupsUserID = resource.Declare(UserGroups, "id", resource.String)
)

// ListUsers fetches every local user.
func ListUsers(ctx context.Context, exec resource.Executor, opts ...resource.CallOption) ([]*resource.Resource, error) {
	return list(ctx, exec, Users, nil, opts)
}

// GetUser fetches one local user by id.
func GetUser(ctx context.Context, exec resource.Executor, id string, opts ...resource.CallOption) (*resource.Resource, error) {
	return resource.Get(ctx, exec, User, map[string]any{"id": id}, opts...)
}

// CreateUser adds a local user. uid may be nil to let the appliance pick one.
func CreateUser(ctx context.Context, exec resource.Executor, name, primaryGroup, password string, uid *big.Int, opts ...resource.CallOption) (*resource.Resource, error) {
	u := resource.New(User, nil)
	if err := UserName.Set(u, name); err != nil {
		return nil, err
	}
	if err := UserPrimaryGroup.Set(u, primaryGroup); err != nil {
		return nil, err
	}
	if password != "" {
		if err := UserPassword.Set(u, password); err != nil {
			return nil, err
		}
	}
	if uid != nil {
		if err := UserUID.Set(u, uid); err != nil {
			return nil, err
		}
	}

	users, err := resource.NewCollection(Users, nil)
	if err != nil {
		return nil, err
	}
	return users.Post(ctx, exec, u, opts...)
}

// DeleteUser removes a local user.
func DeleteUser(ctx context.Context, exec resource.Executor, id string, opts ...resource.CallOption) error {
	_, err := resource.Delete(ctx, exec, User, map[string]any{"id": id}, opts...)
	return err
}

// ListUserGroups fetches the groups user id belongs to.
func ListUserGroups(ctx context.Context, exec resource.Executor, id string, opts ...resource.CallOption) ([]*resource.Resource, error) {
	return list(ctx, exec, UserGroups, map[string]any{"id": id}, opts)
}

// ListGroups fetches every local group.
func ListGroups(ctx context.Context, exec resource.Executor, opts ...resource.CallOption) ([]*resource.Resource, error) {
	return list(ctx, exec, Groups, nil, opts)
}

// CreateGroup adds a local group. gid may be nil.
func CreateGroup(ctx context.Context, exec resource.Executor, name string, gid *big.Int, opts ...resource.CallOption) (*resource.Resource, error) {
	g := resource.New(Group, nil)
	if err := GroupName.Set(g, name); err != nil {
		return nil, err
	}
	if gid != nil {
		if err := GroupGID.Set(g, gid); err != nil {
			return nil, err
		}
	}
	groups, err := resource.NewCollection(Groups, nil)
	if err != nil {
		return nil, err
	}
	return groups.Post(ctx, exec, g, opts...)
}
