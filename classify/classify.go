package classify

import (
	"net/http"
	"strings"
)

// Endpoint literals recognized by the classifier.
const (
	// ConfigPath is the customer-facing configuration endpoint.
	ConfigPath = "/preprocessing_configurations"
	// ConfigUpdatePath merges into the stored configuration instead of replacing it.
	ConfigUpdatePath = ConfigPath + "/_update"
	// BulkPath is the multi-document endpoint.
	BulkPath = "/_bulk"
	// SearchSegment marks search requests, which are never enriched.
	SearchSegment = "_search"
)

// Category is the class of an incoming request.
type Category int

const (
	// Passthrough requests are forwarded unmodified.
	Passthrough Category = iota
	// ConfigRequest reads or replaces the field configuration.
	ConfigRequest
	// ConfigUpdateRequest merges into the field configuration.
	ConfigUpdateRequest
	// IndexRequest writes a single document.
	IndexRequest
	// BulkRequest writes a newline-delimited batch of documents.
	BulkRequest
)

func (c Category) String() string {
	switch c {
	case ConfigRequest:
		return "config"
	case ConfigUpdateRequest:
		return "config-update"
	case IndexRequest:
		return "index"
	case BulkRequest:
		return "bulk"
	default:
		return "passthrough"
	}
}

// IsConfig reports whether c addresses the configuration endpoint.
func (c Category) IsConfig() bool {
	return c == ConfigRequest || c == ConfigUpdateRequest
}

// Classify maps a request line to its category. Rules are evaluated in order:
// configuration path, configuration update path, single-document write,
// bulk write, and passthrough for everything else.
func Classify(method, path string) Category {
	switch {
	case strings.EqualFold(path, ConfigPath):
		return ConfigRequest
	case strings.EqualFold(path, ConfigUpdatePath):
		return ConfigUpdateRequest
	case !IsMutation(method):
		return Passthrough
	case isIndexPath(path):
		return IndexRequest
	case path == BulkPath:
		return BulkRequest
	default:
		return Passthrough
	}
}

// IsMutation reports whether method writes data.
func IsMutation(method string) bool {
	return strings.EqualFold(method, http.MethodPut) || strings.EqualFold(method, http.MethodPost)
}

// TargetIndex returns the first non-empty path segment.
func TargetIndex(path string) string {
	segs := Segments(path)
	if len(segs) == 0 {
		return ""
	}
	return segs[0]
}

// Segments splits a path into its non-empty segments.
func Segments(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isIndexPath(path string) bool {
	segs := Segments(path)
	if len(segs) != 2 && len(segs) != 3 {
		return false
	}
	if segs[1] == SearchSegment {
		return false
	}
	return ValidIndexName(segs[0])
}

// ValidIndexName reports whether name is a writable index name: non-empty,
// no leading underscore, no uppercase letters and none of ,#><(){}.
func ValidIndexName(name string) bool {
	if name == "" || strings.HasPrefix(name, "_") {
		return false
	}
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			return false
		}
		if strings.ContainsRune(",#><(){}", r) {
			return false
		}
	}
	return true
}
