package fakenas

import (
	"fmt"
	"maps"
	"strconv"
	"sync"
)

// Record is one stored JSON object.
type Record = map[string]any

// Table is a thread-safe, ordered, in-memory table of records. Every write
// bumps the record's version, which is served as its ETag.
type Table struct {
	mu       sync.RWMutex
	items    map[string]Record
	versions map[string]uint64
	order    []string
	nextID   uint64
	clock    uint64
}

// NewTable creates a table whose generated ids start at firstID.
func NewTable(firstID uint64) *Table {
	return &Table{
		items:    make(map[string]Record),
		versions: make(map[string]uint64),
		nextID:   firstID,
	}
}

// NextID reserves a numeric id.
func (t *Table) NextID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := strconv.FormatUint(t.nextID, 10)
	t.nextID++
	return id
}

// Put stores rec under id and returns its new ETag. An existing id keeps its
// position in the listing order.
func (t *Table) Put(id string, rec Record) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.items[id]; !exists {
		t.order = append(t.order, id)
	}
	t.clock++
	t.items[id] = maps.Clone(rec)
	t.versions[id] = t.clock
	return etag(t.clock)
}

// Get returns a copy of the record and its ETag.
func (t *Table) Get(id string) (Record, string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.items[id]
	if !ok {
		return nil, "", false
	}
	return maps.Clone(rec), etag(t.versions[id]), true
}

// Delete removes a record, reporting whether it existed.
func (t *Table) Delete(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.items[id]; !exists {
		return false
	}
	delete(t.items, id)
	delete(t.versions, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns copies of all records in insertion order.
func (t *Table) List() []Record {
	return t.Filter(func(string, Record) bool { return true })
}

// Filter returns copies of the records matching keep, in insertion order.
func (t *Table) Filter(keep func(id string, rec Record) bool) []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Record, 0, len(t.order))
	for _, id := range t.order {
		if keep(id, t.items[id]) {
			out = append(out, maps.Clone(t.items[id]))
		}
	}
	return out
}

// Count returns the number of records.
func (t *Table) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

func etag(version uint64) string {
	return fmt.Sprintf(`"%d"`, version)
}

// Store holds the state of the fake appliance.
type Store struct {
	Settings   *Table
	Nodes      *Table
	Users      *Table
	Groups     *Table
	NFSExports *Table
	SMBShares  *Table
	Files      *Table
	Activity   []Record
}

// settingsID is the key of the cluster settings singleton.
const settingsID = "settings"

// NewStore creates a store seeded with a three-node cluster, the built-in
// users and groups, and a small file tree.
func NewStore() *Store {
	s := &Store{
		Settings:   NewTable(1),
		Nodes:      NewTable(1),
		Users:      NewTable(500),
		Groups:     NewTable(512),
		NFSExports: NewTable(1),
		SMBShares:  NewTable(1),
		Files:      NewTable(2),
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	s.Settings.Put(settingsID, Record{"cluster_name": "nas-test", "timezone": "UTC"})

	for i := 1; i <= 3; i++ {
		id := s.Nodes.NextID()
		s.Nodes.Put(id, Record{
			"id":            i,
			"node_name":     fmt.Sprintf("nas-test-%d", i),
			"node_status":   "online",
			"serial_number": fmt.Sprintf("SN%04d", i),
			"model_number":  "NX-4",
			"uuid":          fmt.Sprintf("3f2c9a1e-0000-4000-8000-00000000000%d", i),
			"mac_address":   fmt.Sprintf("02:00:00:00:00:%02d", i),
		})
	}

	admins := s.Groups.NextID()
	s.Groups.Put(admins, Record{"id": admins, "name": "Admins", "sid": "S-1-5-32-544", "gid": "0"})
	users := s.Groups.NextID()
	s.Groups.Put(users, Record{"id": users, "name": "Users", "sid": "S-1-5-32-545", "gid": "100"})

	admin := s.Users.NextID()
	s.Users.Put(admin, Record{
		"id":             admin,
		"name":           "admin",
		"primary_group":  admins,
		"sid":            "S-1-5-21-500",
		"uid":            "0",
		"home_directory": "/home/admin",
	})
	guest := s.Users.NextID()
	s.Users.Put(guest, Record{
		"id":             guest,
		"name":           "guest",
		"primary_group":  users,
		"sid":            "S-1-5-21-501",
		"uid":            "65534",
		"home_directory": "",
	})

	const stamp = "2026-01-15T10:00:00.123456789Z"
	file := func(path, name, typ, size, parent string) string {
		id := s.Files.NextID()
		s.Files.Put(id, Record{
			"id":                id,
			"path":              path,
			"name":              name,
			"type":              typ,
			"size":              size,
			"blocks":            "0",
			"owner":             "500",
			"group":             admins,
			"mode":              "0755",
			"num_links":         1,
			"child_count":       0,
			"creation_time":     stamp,
			"modification_time": stamp,
			"change_time":       stamp,
			parentKey:           parent,
		})
		return id
	}
	root := file("/", "", "FS_FILE_TYPE_DIRECTORY", "0", "")
	data := file("/data/", "data", "FS_FILE_TYPE_DIRECTORY", "0", root)
	file("/data/a.txt", "a.txt", "FS_FILE_TYPE_FILE", "1024", data)
	file("/data/b.bin", "b.bin", "FS_FILE_TYPE_FILE", "5368709120", data)
	file("/data/c.log", "c.log", "FS_FILE_TYPE_FILE", "18446744073709551616", data)
	file("/home/", "home", "FS_FILE_TYPE_DIRECTORY", "0", root)

	s.Activity = []Record{
		{"type": "file-iops-read", "path": "/data/a.txt", "rate": 12.5, "ip": "10.0.0.7"},
		{"type": "file-iops-write", "path": "/data/b.bin", "rate": 3.0, "ip": "10.0.0.8"},
		{"type": "file-throughput-read", "path": "/data/a.txt", "rate": 1048576.0, "ip": "10.0.0.7"},
	}
}

// parentKey links a file record to its directory. It is stripped from
// responses.
const parentKey = "_parent"

// FileByRef finds a file by id or, when ref starts with "/", by path.
func (s *Store) FileByRef(ref string) (Record, bool) {
	if rec, _, ok := s.Files.Get(ref); ok {
		return rec, true
	}
	matches := s.Files.Filter(func(_ string, rec Record) bool {
		return rec["path"] == ref
	})
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

// Children lists the entries of the directory with id dirID.
func (s *Store) Children(dirID string) []Record {
	return s.Files.Filter(func(_ string, rec Record) bool {
		return rec[parentKey] == dirID
	})
}
