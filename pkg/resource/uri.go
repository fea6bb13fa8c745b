package resource

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"
)

// ResolvePath replaces every :name segment of template with the URL-escaped
// textual form of lookup(name). Static segments, including empty leading and
// trailing ones, pass through so that trailing slashes are preserved.
func ResolvePath(template string, lookup func(key string) (any, bool)) (string, error) {
	segments := strings.Split(template, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		name := seg[1:]
		var text string
		if v, ok := lookup(name); ok {
			text = pathText(v)
		}
		if text == "" {
			return "", &URIError{Placeholder: name, Template: template}
		}
		segments[i] = url.PathEscape(text)
	}
	return strings.Join(segments, "/"), nil
}

// ResolveMap is ResolvePath over a plain attribute map.
func ResolveMap(template string, attrs map[string]any) (string, error) {
	return ResolvePath(template, func(key string) (any, bool) {
		v, ok := attrs[key]
		return v, ok
	})
}

// placeholders lists the placeholder names of template in order.
func placeholders(template string) []string {
	var out []string
	for _, seg := range strings.Split(template, "/") {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			out = append(out, seg[1:])
		}
	}
	return out
}

func pathText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case *big.Int:
		if x == nil {
			return ""
		}
		return x.String()
	case fmt.Stringer:
		return x.String()
	}
	if i, ok := toInt64(v); ok {
		return strconv.FormatInt(i, 10)
	}
	return fmt.Sprint(v)
}

// queryString renders ordered, already percent-encoded pairs as k=v&k=v.
func queryString(keys []string, values map[string]string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+values[k])
	}
	return strings.Join(parts, "&")
}
