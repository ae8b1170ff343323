package settings

import (
	"encoding/json"
	"testing"
)

func TestValueJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{`true`, Bool(true)},
		{`false`, Bool(false)},
		{`7`, Int(7)},
		{`-3`, Int(-3)},
		{`"com.example.Activity"`, String("com.example.Activity")},
	}
	for _, tt := range tests {
		var v Value
		if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if !v.Equal(tt.want) {
			t.Errorf("Unmarshal(%s) = %v (%s), want %v (%s)", tt.in, v, v.Kind(), tt.want, tt.want.Kind())
		}
		out, err := json.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != tt.in {
			t.Errorf("Marshal = %s, want %s", out, tt.in)
		}
	}
}

func TestValueJSONRejectsUnsupported(t *testing.T) {
	for _, in := range []string{`1.5`, `[1]`, `{"a":1}`} {
		var v Value
		if err := json.Unmarshal([]byte(in), &v); err == nil {
			t.Errorf("Unmarshal(%s) should fail", in)
		}
	}

	var v Value
	if err := json.Unmarshal([]byte(`null`), &v); err != nil || v.IsValid() {
		t.Errorf("null should decode to an invalid value, got %v, %v", v, err)
	}
}

func TestValueAccessors(t *testing.T) {
	if b, ok := Bool(true).Bool(); !ok || !b {
		t.Error("Bool accessor")
	}
	if _, ok := Int(1).Bool(); ok {
		t.Error("Int should not report as bool")
	}
	if i, ok := Int(4).Int(); !ok || i != 4 {
		t.Error("Int accessor")
	}
	if s, ok := String("x").Text(); !ok || s != "x" {
		t.Error("Text accessor")
	}
	if Int(1).Equal(String("1")) {
		t.Error("values of different kinds must not be equal")
	}
	if Int(1).String() != String("1").String() {
		t.Error("text forms should match")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		kind    Kind
		text    string
		want    Value
		wantErr bool
	}{
		{KindBool, "true", Bool(true), false},
		{KindBool, "0", Bool(false), false},
		{KindBool, "maybe", Value{}, true},
		{KindInt, " 6 ", Int(6), false},
		{KindInt, "six", Value{}, true},
		{KindString, "com.example.A", String("com.example.A"), false},
		{KindInvalid, "x", Value{}, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.kind, tt.text)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%s, %q) error = %v, wantErr %v", tt.kind, tt.text, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("Parse(%s, %q) = %v, want %v", tt.kind, tt.text, got, tt.want)
		}
	}
}

func TestCollectionPairedLayout(t *testing.T) {
	var c Collection
	err := json.Unmarshal([]byte(`{"keys": ["a", "b", "c"], "values": [true, 3, null]}`), &c)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := c.Get("a"); !v.Equal(Bool(true)) {
		t.Errorf("a = %v", v)
	}
	if v, _ := c.Get("b"); !v.Equal(Int(3)) {
		t.Errorf("b = %v", v)
	}
	if c.Contains("c") {
		t.Error("null entries should be dropped")
	}

	if err := json.Unmarshal([]byte(`{"keys": ["a"], "values": []}`), &c); err == nil {
		t.Error("mismatched paired arrays should fail")
	}
}

func TestCollectionMarshalSkipsInvalid(t *testing.T) {
	c := NewCollection()
	c.Set("good", Int(1))
	c.Set("bad", Value{})

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"good":1}` {
		t.Errorf("Marshal = %s", data)
	}
	if keys := c.Keys(); len(keys) != 2 || keys[0] != "bad" {
		t.Errorf("Keys() = %v", keys)
	}
}
