package domain

import "strings"

// Workspace is a remote collection of exportable items. Discovery only ever
// returns reachable (active) workspaces, so there is no separate status field.
type Workspace struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Kind        string `json:"type"` // "Workspace", "PersonalGroup", etc.
}

// Item is a single exportable object inside a workspace. Type is an open
// string enum: "Report", "SemanticModel", "Notebook", "SparkJobDefinition", ...
type Item struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Type        string `json:"type"`
	WorkspaceID string `json:"workspaceId"`
}

// SanitizeName makes a display name safe for use as a folder name.
// Display names come straight from the remote API and may contain path
// separators or other characters the filesystem rejects.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "_"
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			b.WriteRune('_')
		default:
			if r < 0x20 {
				b.WriteRune('_')
			} else {
				b.WriteRune(r)
			}
		}
	}
	// trailing dots/spaces break folder creation on some filesystems
	out := strings.TrimRight(b.String(), ". ")
	if out == "" {
		return "_"
	}
	return out
}
