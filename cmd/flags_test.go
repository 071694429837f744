package cmd

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestOptionalFloat(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantNil bool
		wantErr bool
	}{
		{input: "0.03", want: "0.03"},
		{input: "0", want: "0"},
		{input: " 1 ", want: "1"},
		{input: "", wantNil: true},
		{input: "1.01", wantErr: true},
		{input: "-0.1", wantErr: true},
		{input: "NaN", wantErr: true},
		{input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f := newOptionalFloat(0, 1)
			err := f.Set(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if f.value != nil {
					t.Errorf("Set(%q) value = %v, want nil", tt.input, *f.value)
				}
				return
			}
			if got := f.String(); got != tt.want {
				t.Errorf("Set(%q) String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOptionalFloat_UnsetIsDistinctFromZero(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := newOptionalFloat(0, 1)
	fs.Var(f, "float", "")

	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if f.value != nil {
		t.Error("an omitted flag should stay nil")
	}

	if err := fs.Parse([]string{"--float", "0"}); err != nil {
		t.Fatal(err)
	}
	if f.value == nil || *f.value != 0 {
		t.Error("--float 0 should be an explicit zero")
	}
}

func TestEnumFlag(t *testing.T) {
	e := newEnumFlag("table", "table", "json", "yaml")

	if err := e.Set("JSON"); err != nil {
		t.Fatalf("Set(JSON) error = %v", err)
	}
	if e.String() != "json" {
		t.Errorf("String() = %q, want %q", e.String(), "json")
	}

	if err := e.Set("xml"); err == nil {
		t.Error("Set(xml) should fail")
	}
	if e.String() != "json" {
		t.Error("a rejected value should not change the flag")
	}
}

func TestQueryFlags(t *testing.T) {
	f := newQueryFlags()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.register(fs)

	if err := fs.Parse([]string{"--phase", "p2", "--wear", "fn", "--max-price", "250"}); err != nil {
		t.Fatal(err)
	}

	q, err := f.query([]string{"Karambit", "|", "Doppler"}, 25)
	if err != nil {
		t.Fatalf("query() error = %v", err)
	}
	if q.Name != "Karambit | Doppler" {
		t.Errorf("Name = %q", q.Name)
	}
	if q.Phase != "Phase 2" {
		t.Errorf("Phase = %q, want %q", q.Phase, "Phase 2")
	}
	if q.Wear != "Factory New" {
		t.Errorf("Wear = %q, want %q", q.Wear, "Factory New")
	}
	if q.MaxPrice == nil || *q.MaxPrice != 250 {
		t.Errorf("MaxPrice = %v, want 250", q.MaxPrice)
	}
	if q.Float != nil {
		t.Errorf("Float = %v, want nil", *q.Float)
	}
	if q.Limit != 25 {
		t.Errorf("Limit = %d, want the configured default 25", q.Limit)
	}

	if _, err := f.query([]string{" ", ""}, 25); err != errSkinRequired {
		t.Errorf("blank name error = %v, want %v", err, errSkinRequired)
	}
}
