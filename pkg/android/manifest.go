// Package android edits the AndroidManifest.xml and resource directory of
// an exported Gradle project.
package android

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
)

// Manifest meta-data names read by the notifications runtime.
const (
	MetaRescheduleOnRestart = "reschedule_notifications_on_restart"
	MetaCustomActivity      = "custom_notification_android_activity"
	MetaExactScheduling     = "com.unity.androidnotifications.exact_scheduling"
)

// Permissions the patcher may request.
const (
	PermissionReceiveBootCompleted       = "android.permission.RECEIVE_BOOT_COMPLETED"
	PermissionScheduleExactAlarm         = "android.permission.SCHEDULE_EXACT_ALARM"
	PermissionUseExactAlarm              = "android.permission.USE_EXACT_ALARM"
	PermissionIgnoreBatteryOptimizations = "android.permission.REQUEST_IGNORE_BATTERY_OPTIMIZATIONS"
	androidNamespace                     = "http://schemas.android.com/apk/res/android"
	nameAttr                             = "android:name"
	valueAttr                            = "android:value"
)

// MainDir returns the src/main directory of module inside root. When root
// has no such module, root itself is treated as the module.
func MainDir(root, module string) string {
	if module != "" {
		dir := filepath.Join(root, module, "src", "main")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return filepath.Join(root, "src", "main")
}

// Manifest is a parsed AndroidManifest.xml.
type Manifest struct {
	doc *etree.Document
}

// ReadManifest parses the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return m, nil
}

// ParseManifest parses manifest XML. The root element must be <manifest>.
func ParseManifest(data []byte) (*Manifest, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil || root.Tag != "manifest" {
		return nil, fmt.Errorf("root element is not <manifest>")
	}
	if root.SelectAttr("xmlns:android") == nil {
		root.CreateAttr("xmlns:android", androidNamespace)
	}
	return &Manifest{doc: doc}, nil
}

// Bytes encodes the manifest with four-space indentation.
func (m *Manifest) Bytes() ([]byte, error) {
	m.doc.Indent(4)
	return m.doc.WriteToBytes()
}

func (m *Manifest) application() *etree.Element {
	root := m.doc.Root()
	if app := root.SelectElement("application"); app != nil {
		return app
	}
	return root.CreateElement("application")
}

func findByName(parent *etree.Element, tag, name string) *etree.Element {
	for _, el := range parent.SelectElements(tag) {
		if el.SelectAttrValue(nameAttr, "") == name {
			return el
		}
	}
	return nil
}

// MetaData returns the value of the application meta-data called name.
func (m *Manifest) MetaData(name string) (string, bool) {
	app := m.doc.Root().SelectElement("application")
	if app == nil {
		return "", false
	}
	el := findByName(app, "meta-data", name)
	if el == nil {
		return "", false
	}
	return el.SelectAttrValue(valueAttr, ""), true
}

// SetMetaData upserts an application meta-data entry and reports whether
// the manifest changed.
func (m *Manifest) SetMetaData(name, value string) bool {
	app := m.application()
	el := findByName(app, "meta-data", name)
	if el == nil {
		el = app.CreateElement("meta-data")
		el.CreateAttr(nameAttr, name)
		el.CreateAttr(valueAttr, value)
		return true
	}
	if el.SelectAttrValue(valueAttr, "") == value && el.SelectAttr(valueAttr) != nil {
		return false
	}
	el.CreateAttr(valueAttr, value)
	return true
}

// HasPermission reports whether a <uses-permission> for name exists.
func (m *Manifest) HasPermission(name string) bool {
	return findByName(m.doc.Root(), "uses-permission", name) != nil
}

// AddPermission adds a <uses-permission> ahead of <application> and
// reports whether the manifest changed.
func (m *Manifest) AddPermission(name string) bool {
	if m.HasPermission(name) {
		return false
	}
	root := m.doc.Root()
	el := etree.NewElement("uses-permission")
	el.CreateAttr(nameAttr, name)
	if app := root.SelectElement("application"); app != nil {
		root.InsertChildAt(app.Index(), el)
	} else {
		root.AddChild(el)
	}
	return true
}
