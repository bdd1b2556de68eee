package report

import (
	"testing"
	"time"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
		kind Kind
	}{
		{"int", Int(42), "42", KindInt},
		{"negative int", Int(-7), "-7", KindInt},
		{"float", Float(1.5), "1.5", KindFloat},
		{"float integral", Float(3), "3", KindFloat},
		{"text", Text("hello"), "hello", KindText},
		{"enum", Enum(time.Tuesday), "Tuesday", KindEnum},
		{"zero", Value{}, "", KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.v.Kind(); got != tt.kind {
				t.Errorf("Kind() = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestValueNumeric(t *testing.T) {
	if f, ok := Int(3).Float64(); !ok || f != 3 {
		t.Errorf("Int(3).Float64() = %v, %v", f, ok)
	}
	if _, ok := Text("3").Float64(); ok {
		t.Error("Text should not be numeric")
	}
	if !Float(0.25).IsNumeric() {
		t.Error("Float should be numeric")
	}
	if i, ok := Int(9).Int64(); !ok || i != 9 {
		t.Errorf("Int(9).Int64() = %v, %v", i, ok)
	}
}

type mutableEnum struct{ name string }

func (m *mutableEnum) String() string { return m.name }

func TestEnumCapturedAtConstruction(t *testing.T) {
	e := &mutableEnum{name: "One"}
	v := Enum(e)
	e.name = "Two"
	if v.String() != "One" {
		t.Errorf("Enum value changed after construction: %q", v.String())
	}
}

func TestValues(t *testing.T) {
	vs := Values("a", 1, int64(2), 2.5, time.Friday, Text("x"), []int{1})
	want := []struct {
		kind Kind
		text string
	}{
		{KindText, "a"},
		{KindInt, "1"},
		{KindInt, "2"},
		{KindFloat, "2.5"},
		{KindEnum, "Friday"},
		{KindText, "x"},
		{KindText, "[1]"},
	}
	if len(vs) != len(want) {
		t.Fatalf("len = %d, want %d", len(vs), len(want))
	}
	for i, w := range want {
		if vs[i].Kind() != w.kind || vs[i].String() != w.text {
			t.Errorf("Values()[%d] = %v %q, want %v %q", i, vs[i].Kind(), vs[i].String(), w.kind, w.text)
		}
	}
}
