package model

import (
	"reflect"
	"testing"
)

func TestStringArray_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   StringArray
	}{
		{"普通标签", StringArray{"math", "exam"}},
		{"含逗号与空格", StringArray{"room, east", "lab b"}},
		{"含引号", StringArray{`say "hi"`}},
		{"空数组", StringArray{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.in.Value()
			if err != nil {
				t.Fatalf("Value 失败: %v", err)
			}
			var out StringArray
			if err := out.Scan(v); err != nil {
				t.Fatalf("Scan 失败: %v", err)
			}
			if !reflect.DeepEqual(out, tt.in) {
				t.Errorf("期望 %#v，实际 %#v", tt.in, out)
			}
		})
	}
}

func TestStringArray_ScanUnquoted(t *testing.T) {
	var out StringArray
	if err := out.Scan([]byte("{alpha,beta}")); err != nil {
		t.Fatalf("Scan 失败: %v", err)
	}
	if !reflect.DeepEqual(out, StringArray{"alpha", "beta"}) {
		t.Errorf("实际 %#v", out)
	}
}

func TestStringArray_ScanNil(t *testing.T) {
	out := StringArray{"x"}
	if err := out.Scan(nil); err != nil {
		t.Fatalf("Scan 失败: %v", err)
	}
	if out != nil {
		t.Errorf("期望 nil，实际 %#v", out)
	}
}
