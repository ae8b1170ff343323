package settings

import "testing"

func countNodes(nodes []Node) int {
	n := 0
	for _, node := range nodes {
		n += 1 + countNodes(node.Dependencies)
	}
	return n
}

func TestFlattenPreOrder(t *testing.T) {
	tree := []Node{
		{Setting: Setting{Key: "a"}, Dependencies: []Node{
			{Setting: Setting{Key: "a1"}},
			{Setting: Setting{Key: "a2"}, Dependencies: []Node{
				{Setting: Setting{Key: "a2x"}},
			}},
		}},
		{Setting: Setting{Key: "b"}},
	}

	flat := Flatten(tree)
	if len(flat) != countNodes(tree) {
		t.Fatalf("len = %d, want %d", len(flat), countNodes(tree))
	}
	if flat[0].Key != tree[0].Key {
		t.Errorf("first = %q, want first root %q", flat[0].Key, tree[0].Key)
	}

	wantKeys := []string{"a", "a1", "a2", "a2x", "b"}
	wantParents := []string{"", "a", "a", "a2", ""}
	for i := range wantKeys {
		if flat[i].Key != wantKeys[i] {
			t.Errorf("flat[%d].Key = %q, want %q", i, flat[i].Key, wantKeys[i])
		}
		if flat[i].Parent != wantParents[i] {
			t.Errorf("flat[%d].Parent = %q, want %q", i, flat[i].Parent, wantParents[i])
		}
	}

	if d := Depth(flat, "a2x"); d != 2 {
		t.Errorf("Depth(a2x) = %d, want 2", d)
	}
	if d := Depth(flat, "b"); d != 0 {
		t.Errorf("Depth(b) = %d, want 0", d)
	}
}

func TestFlattenSkipsDuplicateKeys(t *testing.T) {
	tree := []Node{
		{Setting: Setting{Key: "a", Label: "first"}},
		{Setting: Setting{Key: "a", Label: "second"}},
	}
	flat := Flatten(tree)
	if len(flat) != 1 || flat[0].Label != "first" {
		t.Errorf("Flatten kept %+v, want only the first a", flat)
	}
}

func TestDefinitionsFlatten(t *testing.T) {
	for _, p := range Platforms() {
		tree := Definitions(p)
		flat := Flatten(tree)
		if len(flat) != countNodes(tree) {
			t.Errorf("%s: flattened %d settings, want %d", p, len(flat), countNodes(tree))
		}
		for _, s := range flat {
			if !s.Default.IsValid() {
				t.Errorf("%s: %s has no default", p, s.Key)
			}
		}
	}

	flat := Flatten(Definitions(IOS))
	for _, s := range flat {
		if s.Key == IOSUseReleaseAPSEnvironment && s.Parent != IOSAddPushCapability {
			t.Errorf("%s parent = %q, want %q", s.Key, s.Parent, IOSAddPushCapability)
		}
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in      string
		want    Platform
		wantErr bool
	}{
		{"android", Android, false},
		{"iOS", IOS, false},
		{" IOS ", IOS, false},
		{"windows", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePlatform(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePlatform(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParsePlatform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
