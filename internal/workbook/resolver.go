package workbook

import (
	"log"
	"strings"
)

// ResolveSheet maps a requested sheet name to an actual sheet in the
// workbook. Matching strategies, first hit wins:
//
//  1. Exact match.
//  2. Case-insensitive exact match.
//  3. Substring match (case-insensitive); with multiple candidates the
//     first in the workbook's native order is taken.
//
// A miss is logged once with the full list of available sheets and
// reported as ok == false. Results are cached per handle, so resolution
// runs once per distinct sheet name per file.
func (h *Handle) ResolveSheet(requested string) (string, bool) {
	if actual, ok := h.resolved[requested]; ok {
		return actual, actual != ""
	}

	names := h.SheetNames()
	actual := matchSheet(requested, names)
	h.resolved[requested] = actual

	if actual == "" {
		log.Printf("Warning: sheet %q not found in %s. Available sheets: %v", requested, h.path, names)
		return "", false
	}
	if actual != requested {
		log.Printf("Using sheet %q for reference to %q in %s", actual, requested, h.path)
	}
	return actual, true
}

func matchSheet(requested string, names []string) string {
	for _, name := range names {
		if name == requested {
			return name
		}
	}

	lower := strings.ToLower(requested)
	for _, name := range names {
		if strings.ToLower(name) == lower {
			return name
		}
	}

	for _, name := range names {
		if strings.Contains(strings.ToLower(name), lower) {
			return name
		}
	}

	return ""
}
