package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Collection is a resource whose response lists member resources, either as
// a bare JSON array or as an array under the schema's items key.
type Collection struct {
	*Resource
}

// NewCollection creates an empty collection instance of s. attrs seeds the
// path placeholders.
func NewCollection(s *Schema, attrs map[string]any) (*Collection, error) {
	if !s.IsCollection() {
		return nil, &Error{
			Op:  "NewCollection",
			Err: ErrUsage,
			Msg: fmt.Sprintf("schema %q declares no item schema", s.name),
		}
	}
	return &Collection{Resource: New(s, attrs)}, nil
}

// AsCollection views r as a collection.
func AsCollection(r *Resource) (*Collection, error) {
	if !r.schema.IsCollection() {
		return nil, &Error{
			Op:  "AsCollection",
			Err: ErrUsage,
			Msg: fmt.Sprintf("schema %q declares no item schema", r.schema.name),
		}
	}
	return &Collection{Resource: r}, nil
}

// Items converts the fetched item array into instances of the item schema.
// Items are materialized from the current attributes on every call; the
// same wire element always yields the same instance.
func (c *Collection) Items() ([]*Resource, error) {
	if !c.populated {
		return nil, &Error{
			Op:  "Items",
			Err: ErrNoData,
			Msg: fmt.Sprintf("%s has not been fetched", c.schema.name),
		}
	}

	raw, err := c.rawItems()
	if err != nil {
		return nil, err
	}

	item := c.schema.item
	out := make([]*Resource, len(raw))
	for i, w := range raw {
		m, ok := w.(map[string]any)
		if !ok {
			return nil, &DataTypeError{
				Field:    fmt.Sprintf("%s[%d]", c.schema.name, i),
				Expected: "object",
				Value:    w,
			}
		}
		out[i] = c.root.lookup(m, func() any {
			return attach(item, m, c.root)
		}).(*Resource)
	}
	return out, nil
}

func (c *Collection) rawItems() ([]any, error) {
	key := c.schema.itemsKey
	switch a := c.attrs.(type) {
	case []any:
		return a, nil
	case map[string]any:
		if key == "" {
			return nil, &ResourceMismatchError{
				Schema: c.schema.name,
				Reason: "response is an object",
			}
		}
		v, ok := a[key]
		if !ok {
			return nil, &ResourceMismatchError{
				Schema: c.schema.name,
				Key:    key,
				Reason: "key missing from response",
			}
		}
		items, ok := v.([]any)
		if !ok {
			return nil, &ResourceMismatchError{
				Schema: c.schema.name,
				Key:    key,
				Reason: fmt.Sprintf("value is %T, not an array", v),
			}
		}
		return items, nil
	}
	return nil, &ResourceMismatchError{
		Schema: c.schema.name,
		Key:    key,
		Reason: fmt.Sprintf("response is %T", c.attrs),
	}
}

// Post creates a member. member is a map[string]any of attributes or an
// instance of the item schema; its query parameters are appended to the
// collection path and its attributes are the request body. The returned
// instance of the item schema is populated from the response.
//
// To post the collection's own attributes use c.Resource.Post.
func (c *Collection) Post(ctx context.Context, exec Executor, member any, opts ...CallOption) (*Resource, error) {
	var m *Resource
	switch x := member.(type) {
	case *Resource:
		if x == nil || x.schema != c.schema.item {
			return nil, &DataTypeError{Field: c.schema.name, Expected: "resource<" + c.schema.item.name + ">", Value: member}
		}
		m = x
	case map[string]any:
		m = New(c.schema.item, x)
	default:
		return nil, &DataTypeError{Field: c.schema.name, Expected: "resource<" + c.schema.item.name + ">", Value: member}
	}

	base, err := c.basePath()
	if err != nil {
		return nil, err
	}
	path := base
	if len(m.queryKeys) > 0 {
		path += "?" + queryString(m.queryKeys, m.query)
	}

	res, err := send(ctx, exec, http.MethodPost, path, m.attrs, "", opts)
	if err != nil {
		return nil, err
	}
	out := New(c.schema.item, nil)
	if err := out.interpret(http.MethodPost, path, res); err != nil {
		return nil, err
	}
	return out.substitute(), nil
}

// basePath resolves the collection path without its own query string.
func (c *Collection) basePath() (string, error) {
	keys, values := c.queryKeys, c.query
	c.queryKeys, c.query = nil, map[string]string{}
	defer func() { c.queryKeys, c.query = keys, values }()
	return c.Path()
}

// NextPage returns a fresh collection for the page linked from the
// response's paging.next, or nil when there is no further page.
func (c *Collection) NextPage() (*Collection, error) {
	m, ok := c.attrs.(map[string]any)
	if !ok {
		return nil, nil
	}
	paging, ok := m["paging"].(map[string]any)
	if !ok {
		return nil, nil
	}
	next, _ := paging["next"].(string)
	if next == "" {
		return nil, nil
	}

	u, err := url.Parse(next)
	if err != nil {
		return nil, &Error{Op: "NextPage", Err: ErrResourceMismatch, Msg: fmt.Sprintf("invalid next link %q", next)}
	}

	page := &Collection{Resource: New(c.schema, nil)}
	for k, v := range c.params {
		page.attrs.(map[string]any)[k] = v
	}
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		page.setQueryEncoded(k, v)
	}
	return page, nil
}
