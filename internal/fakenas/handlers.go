package fakenas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// collection describes a CRUD endpoint family backed by a table.
type collection struct {
	table *Table

	// itemsKey wraps listings as {itemsKey: [...]}; empty means a bare array.
	itemsKey string

	required []string
	hidden   []string
	readOnly bool

	// defaults fills server-assigned attributes of a new record.
	defaults func(id string, rec Record)
}

// mountCollection routes GET and POST on prefix/ and GET, PUT and DELETE on
// prefix/{id}.
func (s *Server) mountCollection(r chi.Router, prefix string, c *collection) {
	r.Get(prefix+"/", func(w http.ResponseWriter, r *http.Request) {
		items := make([]any, 0, c.table.Count())
		for _, rec := range c.table.List() {
			items = append(items, c.render(rec))
		}
		if c.itemsKey == "" {
			writeJSON(w, http.StatusOK, items)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{c.itemsKey: items})
	})

	r.Get(prefix+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rec, tag, ok := c.table.Get(id)
		if !ok {
			notFound(w, id)
			return
		}
		w.Header().Set("ETag", tag)
		writeJSON(w, http.StatusOK, c.render(rec))
	})

	if c.readOnly {
		return
	}

	r.Post(prefix+"/", func(w http.ResponseWriter, r *http.Request) {
		rec, ok := decodeRecord(w, r)
		if !ok {
			return
		}
		for _, key := range c.required {
			if v, present := rec[key]; !present || v == "" {
				apiError(w, http.StatusBadRequest, "http_bad_request_error",
					fmt.Sprintf("%s is required", key))
				return
			}
		}

		id := c.table.NextID()
		rec["id"] = id
		if c.defaults != nil {
			c.defaults(id, rec)
		}
		tag := c.table.Put(id, rec)
		w.Header().Set("ETag", tag)
		writeJSON(w, http.StatusCreated, c.render(rec))
	})

	r.Put(prefix+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		_, current, ok := c.table.Get(id)
		if !ok {
			notFound(w, id)
			return
		}
		if !matchesETag(w, r, current) {
			return
		}
		rec, ok := decodeRecord(w, r)
		if !ok {
			return
		}
		rec["id"] = id
		tag := c.table.Put(id, rec)
		w.Header().Set("ETag", tag)
		writeJSON(w, http.StatusOK, c.render(rec))
	})

	r.Delete(prefix+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !c.table.Delete(id) {
			notFound(w, id)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

// render strips write-only and internal attributes.
func (c *collection) render(rec Record) Record {
	for _, key := range c.hidden {
		delete(rec, key)
	}
	delete(rec, parentKey)
	return rec
}

func (s *Server) getVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"revision_id": "nasos 7.1.0",
		"build_id":    "241118",
		"flavor":      "release",
		"build_date":  "2026-01-15",
	})
}

func (s *Server) getSettings(w http.ResponseWriter, _ *http.Request) {
	rec, tag, _ := s.Store.Settings.Get(settingsID)
	w.Header().Set("ETag", tag)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	_, current, _ := s.Store.Settings.Get(settingsID)
	if !matchesETag(w, r, current) {
		return
	}
	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	if name, _ := rec["cluster_name"].(string); name == "" {
		apiError(w, http.StatusBadRequest, "http_bad_request_error", "cluster_name is required")
		return
	}
	tag := s.Store.Settings.Put(settingsID, rec)
	w.Header().Set("ETag", tag)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) listUserGroups(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, _, ok := s.Store.Users.Get(id)
	if !ok {
		notFound(w, id)
		return
	}
	groups := make([]any, 0, 1)
	if gid, _ := user["primary_group"].(string); gid != "" {
		if g, _, ok := s.Store.Groups.Get(gid); ok {
			groups = append(groups, g)
		}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) getFileAttributes(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.fileFromRef(w, r)
	if !ok {
		return
	}
	delete(rec, parentKey)
	writeJSON(w, http.StatusOK, rec)
}

// listDirectory serves one page of a directory. Pages are linked through
// paging.next, which carries the after cursor and the page size.
func (s *Server) listDirectory(w http.ResponseWriter, r *http.Request) {
	dir, ok := s.fileFromRef(w, r)
	if !ok {
		return
	}
	if dir["type"] != "FS_FILE_TYPE_DIRECTORY" {
		apiError(w, http.StatusBadRequest, "fs_not_a_directory_error",
			fmt.Sprintf("%v is not a directory", dir["path"]))
		return
	}

	limit := 1000
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			apiError(w, http.StatusBadRequest, "http_bad_request_error", "invalid limit "+strconv.Quote(v))
			return
		}
		limit = n
	}
	after := r.URL.Query().Get("after")

	children := s.Store.Children(dir["id"].(string))
	start := 0
	if after != "" {
		for i, c := range children {
			if c["id"] == after {
				start = i + 1
				break
			}
		}
	}
	end := min(start+limit, len(children))

	files := make([]any, 0, end-start)
	for _, c := range children[start:end] {
		delete(c, parentKey)
		files = append(files, c)
	}

	var next any
	if end < len(children) {
		next = fmt.Sprintf("/v1/files/%s/entries/?after=%s&limit=%d",
			url.PathEscape(dir["id"].(string)), url.QueryEscape(children[end-1]["id"].(string)), limit)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"files":  files,
		"paging": map[string]any{"next": next, "previous": nil},
	})
}

func (s *Server) getActivity(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	entries := make([]any, 0, len(s.Store.Activity))
	for _, e := range s.Store.Activity {
		if typ == "" || e["type"] == typ {
			entries = append(entries, e)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) fileFromRef(w http.ResponseWriter, r *http.Request) (Record, bool) {
	ref, err := url.PathUnescape(chi.URLParam(r, "ref"))
	if err != nil {
		apiError(w, http.StatusBadRequest, "http_bad_request_error", "invalid file reference")
		return nil, false
	}
	rec, ok := s.Store.FileByRef(ref)
	if !ok {
		apiError(w, http.StatusNotFound, "fs_no_such_entry_error", fmt.Sprintf("%s does not exist", ref))
		return nil, false
	}
	return rec, true
}

// matchesETag enforces an If-Match precondition when one is sent.
func matchesETag(w http.ResponseWriter, r *http.Request, current string) bool {
	want := r.Header.Get("If-Match")
	if want == "" || want == current {
		return true
	}
	apiError(w, http.StatusPreconditionFailed, "http_precondition_failed_error",
		fmt.Sprintf("ETag mismatch: have %s, If-Match %s", current, want))
	return false
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (Record, bool) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r.Body); err != nil {
		apiError(w, http.StatusBadRequest, "http_bad_request_error", "failed to read body")
		return nil, false
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil || rec == nil {
		apiError(w, http.StatusBadRequest, "http_bad_request_error", "body must be a JSON object")
		return nil, false
	}
	return rec, true
}

func setDefault(rec Record, key string, v any) {
	if _, ok := rec[key]; !ok {
		rec[key] = v
	}
}

func notFound(w http.ResponseWriter, id string) {
	apiError(w, http.StatusNotFound, "http_not_found_error", fmt.Sprintf("%s not found", id))
}
