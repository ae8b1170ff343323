package settings

import (
	"fmt"
	"strings"
)

// Platform names a build target whose notification settings are stored.
type Platform string

const (
	Android Platform = "android"
	IOS     Platform = "ios"
)

// Platforms returns every supported platform in display order.
func Platforms() []Platform {
	return []Platform{Android, IOS}
}

// ParsePlatform accepts a platform name in any case.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case Android:
		return Android, nil
	case IOS:
		return IOS, nil
	default:
		return "", fmt.Errorf("unknown platform %q (use android or ios)", s)
	}
}

// Setting is a named, typed value affecting generated build output.
type Setting struct {
	Key     string
	Label   string
	Tooltip string
	// Parent is the key of the setting that gates this one in display.
	// Empty for top-level settings.
	Parent  string
	Default Value
	Value   Value
}

// Kind is the kind declared by the setting's default.
func (s Setting) Kind() Kind { return s.Default.Kind() }

// Node is a setting together with the settings it gates. Definitions are
// authored as trees and flattened once.
type Node struct {
	Setting
	Dependencies []Node
}

// Flatten walks nodes in pre-order and returns one Setting per node, with
// Parent filled from the tree. A key seen earlier in the walk is skipped.
func Flatten(nodes []Node) []Setting {
	var out []Setting
	seen := make(map[string]bool)
	flatten(nodes, "", seen, &out)
	return out
}

func flatten(nodes []Node, parent string, seen map[string]bool, out *[]Setting) {
	for _, n := range nodes {
		if seen[n.Key] {
			continue
		}
		seen[n.Key] = true
		s := n.Setting
		s.Parent = parent
		*out = append(*out, s)
		flatten(n.Dependencies, n.Key, seen, out)
	}
}

// Depth returns how many ancestors key has in the flattened list.
func Depth(list []Setting, key string) int {
	parents := make(map[string]string, len(list))
	for _, s := range list {
		parents[s.Key] = s.Parent
	}
	depth := 0
	for p := parents[key]; p != "" && depth < len(list); p = parents[p] {
		depth++
	}
	return depth
}
