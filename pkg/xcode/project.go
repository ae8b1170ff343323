// Package xcode reads and edits the files of an exported Xcode project:
// the project.pbxproj object graph, Info.plist and entitlements property
// lists, and the Unity preprocessor header.
package xcode

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"howett.net/plist"
)

// ProjectPath returns the pbxproj location inside an exported Xcode
// project at root.
func ProjectPath(root string) string {
	return filepath.Join(root, "Unity-iPhone.xcodeproj", "project.pbxproj")
}

const pbxHeader = "// !$*UTF8*$!\n"

// Project is a parsed project.pbxproj. Objects are addressed by their
// 24 character hex identifiers.
type Project struct {
	doc     map[string]any
	objects map[string]any
	header  bool
}

// ReadProject parses the pbxproj file at path.
func ReadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParseProject(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return p, nil
}

// ParseProject parses pbxproj text.
func ParseProject(data []byte) (*Project, error) {
	var doc map[string]any
	if _, err := plist.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	objects, ok := doc["objects"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("project has no objects dictionary")
	}
	return &Project{
		doc:     doc,
		objects: objects,
		header:  bytes.HasPrefix(bytes.TrimSpace(data), []byte("// !$*UTF8*$!")),
	}, nil
}

// Bytes encodes the project back to OpenStep text.
func (p *Project) Bytes() ([]byte, error) {
	data, err := plist.MarshalIndent(p.doc, plist.OpenStepFormat, "\t")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if p.header {
		buf.WriteString(pbxHeader)
	}
	buf.Write(data)
	if !bytes.HasSuffix(data, []byte("\n")) {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func asDict(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func (p *Project) object(id string) map[string]any {
	return asDict(p.objects[id])
}

// sortedIDs returns the ids of every object with the given isa in a stable
// order.
func (p *Project) sortedIDs(isa string) []string {
	var ids []string
	for id, v := range p.objects {
		if asString(asDict(v)["isa"]) == isa {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// newID returns an identifier not used by any object.
func (p *Project) newID() string {
	for {
		u := uuid.New()
		id := strings.ToUpper(hex.EncodeToString(u[:12]))
		if _, taken := p.objects[id]; !taken {
			return id
		}
	}
}

func (p *Project) add(obj map[string]any) string {
	id := p.newID()
	p.objects[id] = obj
	return id
}

// TargetGUID returns the id of the native target called name.
func (p *Project) TargetGUID(name string) (string, bool) {
	for _, id := range p.sortedIDs("PBXNativeTarget") {
		if asString(p.object(id)["name"]) == name {
			return id, true
		}
	}
	return "", false
}

func (p *Project) rootObject() map[string]any {
	return p.object(asString(p.doc["rootObject"]))
}

func fileRefName(ref map[string]any) string {
	if name := asString(ref["name"]); name != "" {
		return name
	}
	return path.Base(asString(ref["path"]))
}

func (p *Project) frameworksPhase(target string) (string, map[string]any) {
	for _, v := range asList(p.object(target)["buildPhases"]) {
		id := asString(v)
		if phase := p.object(id); asString(phase["isa"]) == "PBXFrameworksBuildPhase" {
			return id, phase
		}
	}
	return "", nil
}

// ContainsFramework reports whether the target's frameworks build phase
// links a file named framework.
func (p *Project) ContainsFramework(target, framework string) bool {
	_, phase := p.frameworksPhase(target)
	for _, v := range asList(phase["files"]) {
		build := p.object(asString(v))
		ref := p.object(asString(build["fileRef"]))
		if ref != nil && fileRefName(ref) == framework {
			return true
		}
	}
	return false
}

// AddFramework links a system framework into target. Weak frameworks get
// the Weak attribute so they are optional at runtime.
func (p *Project) AddFramework(target, framework string, weak bool) error {
	if p.object(target) == nil {
		return fmt.Errorf("target %s not found", target)
	}

	sdkPath := "System/Library/Frameworks/" + framework
	refID := ""
	for _, id := range p.sortedIDs("PBXFileReference") {
		ref := p.object(id)
		if asString(ref["path"]) == sdkPath || fileRefName(ref) == framework {
			refID = id
			break
		}
	}
	if refID == "" {
		refID = p.add(map[string]any{
			"isa":               "PBXFileReference",
			"lastKnownFileType": "wrapper.framework",
			"name":              framework,
			"path":              sdkPath,
			"sourceTree":        "SDKROOT",
		})
		p.addToGroup(p.frameworksGroup(), refID)
	}

	build := map[string]any{
		"isa":     "PBXBuildFile",
		"fileRef": refID,
	}
	if weak {
		build["settings"] = map[string]any{"ATTRIBUTES": []any{"Weak"}}
	}
	buildID := p.add(build)

	phaseID, phase := p.frameworksPhase(target)
	if phase == nil {
		phase = map[string]any{
			"isa":                                "PBXFrameworksBuildPhase",
			"buildActionMask":                    "2147483647",
			"files":                              []any{},
			"runOnlyForDeploymentPostprocessing": "0",
		}
		phaseID = p.add(phase)
		t := p.object(target)
		t["buildPhases"] = append(asList(t["buildPhases"]), phaseID)
	}
	phase["files"] = append(asList(phase["files"]), buildID)
	return nil
}

func (p *Project) mainGroup() string {
	return asString(p.rootObject()["mainGroup"])
}

func (p *Project) frameworksGroup() string {
	for _, id := range p.sortedIDs("PBXGroup") {
		g := p.object(id)
		if asString(g["name"]) == "Frameworks" || asString(g["path"]) == "Frameworks" {
			return id
		}
	}
	return p.mainGroup()
}

func (p *Project) addToGroup(groupID, childID string) {
	g := p.object(groupID)
	if g == nil {
		return
	}
	g["children"] = append(asList(g["children"]), childID)
}

// FindFile returns the file reference whose path is relPath.
func (p *Project) FindFile(relPath string) (string, bool) {
	for _, id := range p.sortedIDs("PBXFileReference") {
		if asString(p.object(id)["path"]) == relPath {
			return id, true
		}
	}
	return "", false
}

// AddFile adds a file reference for relPath, relative to the project
// directory, to the main group. It reports whether a reference was added.
func (p *Project) AddFile(relPath string) (string, bool) {
	if id, ok := p.FindFile(relPath); ok {
		return id, false
	}
	ref := map[string]any{
		"isa":        "PBXFileReference",
		"name":       path.Base(relPath),
		"path":       relPath,
		"sourceTree": "SOURCE_ROOT",
	}
	if t := fileType(relPath); t != "" {
		ref["lastKnownFileType"] = t
	}
	id := p.add(ref)
	p.addToGroup(p.mainGroup(), id)
	return id, true
}

func fileType(name string) string {
	switch path.Ext(name) {
	case ".entitlements":
		return "text.plist.entitlements"
	case ".plist":
		return "text.plist.xml"
	case ".h":
		return "sourcecode.c.h"
	case ".framework":
		return "wrapper.framework"
	default:
		return ""
	}
}

func (p *Project) buildSettings(target string) []map[string]any {
	list := p.object(asString(p.object(target)["buildConfigurationList"]))
	var out []map[string]any
	for _, v := range asList(list["buildConfigurations"]) {
		cfg := p.object(asString(v))
		if cfg == nil {
			continue
		}
		bs := asDict(cfg["buildSettings"])
		if bs == nil {
			bs = map[string]any{}
			cfg["buildSettings"] = bs
		}
		out = append(out, bs)
	}
	return out
}

// BuildProperty returns name from the target's first build configuration.
func (p *Project) BuildProperty(target, name string) (string, bool) {
	configs := p.buildSettings(target)
	if len(configs) == 0 {
		return "", false
	}
	v, ok := configs[0][name]
	return asString(v), ok
}

// SetBuildProperty sets name in every build configuration of target and
// reports whether any configuration changed.
func (p *Project) SetBuildProperty(target, name, value string) bool {
	changed := false
	for _, bs := range p.buildSettings(target) {
		if asString(bs[name]) != value {
			bs[name] = value
			changed = true
		}
	}
	return changed
}

// Capability returns whether capability is enabled on target.
func (p *Project) Capability(target, capability string) bool {
	attrs := asDict(asDict(p.rootObject()["attributes"])["TargetAttributes"])
	caps := asDict(asDict(attrs[target])["SystemCapabilities"])
	return asString(asDict(caps[capability])["enabled"]) == "1"
}

// EnableCapability turns capability on in the target's SystemCapabilities
// and reports whether anything changed.
func (p *Project) EnableCapability(target, capability string) bool {
	if p.Capability(target, capability) {
		return false
	}
	root := p.rootObject()
	if root == nil {
		return false
	}
	attrs := child(root, "attributes")
	caps := child(child(child(attrs, "TargetAttributes"), target), "SystemCapabilities")
	caps[capability] = map[string]any{"enabled": "1"}
	return true
}

// child returns m[key], creating an empty dictionary if needed.
func child(m map[string]any, key string) map[string]any {
	if c := asDict(m[key]); c != nil {
		return c
	}
	c := map[string]any{}
	m[key] = c
	return c
}
