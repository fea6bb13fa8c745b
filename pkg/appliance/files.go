package appliance

import (
	"context"
	"strconv"

	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

// File types reported in FileType.
const (
	FileTypeFile      = "FS_FILE_TYPE_FILE"
	FileTypeDirectory = "FS_FILE_TYPE_DIRECTORY"
	FileTypeSymlink   = "FS_FILE_TYPE_SYMLINK"
)

// File attributes. The :id placeholder takes either a file id or an absolute
// path; paths are escaped as a single segment.
var (
	FileAttributes = resource.NewSchema("file-attributes", resource.URI("/v1/files/:id/info/attributes"))

	FileID               = resource.Declare(FileAttributes, "id", resource.String)
	FilePath             = resource.Declare(FileAttributes, "path", resource.String)
	FileName             = resource.Declare(FileAttributes, "name", resource.String)
	FileType             = resource.Declare(FileAttributes, "type", resource.String)
	FileSize             = resource.Declare(FileAttributes, "size", resource.BigInt)
	FileBlocks           = resource.Declare(FileAttributes, "blocks", resource.BigInt)
	FileOwner            = resource.Declare(FileAttributes, "owner", resource.String)
	FileGroup            = resource.Declare(FileAttributes, "group", resource.String)
	FileMode             = resource.Declare(FileAttributes, "mode", resource.String)
	FileNumLinks         = resource.Declare(FileAttributes, "numLinks", resource.Integer)
	FileChildCount       = resource.Declare(FileAttributes, "childCount", resource.Integer)
	FileCreationTime     = resource.Declare(FileAttributes, "creationTime", resource.Time)
	FileModificationTime = resource.Declare(FileAttributes, "modificationTime", resource.Time)
	FileChangeTime       = resource.Declare(FileAttributes, "changeTime", resource.Time)
)

// Directory listings are paged; the response links the next page under
// paging.next.
var (
	DirectoryEntries = resource.NewSchema("directory-entries",
		resource.URI("/v1/files/:id/entries/"),
		resource.Items(FileAttributes, "files"),
	)

	DirectoryID    = resource.Declare(DirectoryEntries, "id", resource.String)
	DirectoryAfter = resource.DeclareQuery(DirectoryEntries, "after", "after")
	DirectoryLimit = resource.DeclareQuery(DirectoryEntries, "limit", "limit")
)

// GetFileAttributes fetches the attributes of the file identified by ref, a
// file id or an absolute path.
func GetFileAttributes(ctx context.Context, exec resource.Executor, ref string, opts ...resource.CallOption) (*resource.Resource, error) {
	return resource.Get(ctx, exec, FileAttributes, map[string]any{"id": ref}, opts...)
}

// WalkDirectory calls fn for every entry of the directory ref, fetching
// pageSize entries per request. A non-nil error from fn stops the walk and is
// returned.
func WalkDirectory(ctx context.Context, exec resource.Executor, ref string, pageSize int, fn func(entry *resource.Resource) error, opts ...resource.CallOption) error {
	page, err := resource.NewCollection(DirectoryEntries, map[string]any{"id": ref})
	if err != nil {
		return err
	}
	if pageSize > 0 {
		if err := DirectoryLimit.Set(page.Resource, strconv.Itoa(pageSize)); err != nil {
			return err
		}
	}

	for page != nil {
		if _, err := page.Get(ctx, exec, opts...); err != nil {
			return err
		}
		entries, err := page.Items()
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := fn(e); err != nil {
				return err
			}
		}
		if page, err = page.NextPage(); err != nil {
			return err
		}
	}
	return nil
}
