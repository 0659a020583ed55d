package oss

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEncodePath(t *testing.T) {
	cases := []struct{ in, out string }{
		{"nelson", "nelson"},
		{"a/b c.txt", "a/b%20c.txt"},
		{"ob!ject", "ob%21ject"},
		{"café", "caf%C3%A9"},
		{"AZaz09-._~", "AZaz09-._~"},
		{"dir/sub/leaf", "dir/sub/leaf"},
	}
	for _, tc := range cases {
		if got := encodePath(tc.in); got != tc.out {
			t.Errorf("encodePath(%#v): expected %#v, got %#v", tc.in, tc.out, got)
		}
	}
}

func TestEncodeQuery(t *testing.T) {
	cases := []struct{ in, out string }{
		{"max-keys", "max-keys"},
		{"a/b", "a%2Fb"},
		{"text/plain", "text%2Fplain"},
		{"a b", "a%20b"},
		{"a+b", "a%2Bb"},
		{"AZaz09-._~", "AZaz09-._~"},
	}
	for _, tc := range cases {
		if got := encodeQuery(tc.in); got != tc.out {
			t.Errorf("encodeQuery(%#v): expected %#v, got %#v", tc.in, tc.out, got)
		}
	}
}

func TestCheckHeader(t *testing.T) {
	cases := []struct {
		name  string
		value string
		ok    bool
	}{
		{"X-OSS-Meta-A", "value", true},
		{"Content-Type", "text/plain; charset=utf-8", true},
		{"X-OSS-Meta-A", "tab\tseparated", true},
		{"", "value", false},
		{"a b", "value", false},
		{"a:b", "value", false},
		{"X-OSS-Meta-A", "line\nbreak", false},
		{"X-OSS-Meta-A", "café", false},
		{"X-OSS-Meta-A", "\x7f", false},
	}
	for _, tc := range cases {
		err := checkHeader(tc.name, tc.value)
		if tc.ok && err != nil {
			t.Errorf("checkHeader(%#v, %#v): unexpected error %v", tc.name, tc.value, err)
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("checkHeader(%#v, %#v): expected an error", tc.name, tc.value)
			} else if _, isEncoding := err.(*EncodingError); !isEncoding {
				t.Errorf("checkHeader(%#v, %#v): expected an EncodingError, got %T", tc.name, tc.value, err)
			}
		}
	}
}

func TestToHeadersCollapsesCaseVariants(t *testing.T) {
	finalized, err := toHeaders(map[string]string{
		"X-OSS-Meta-A": "zulu",
		"x-oss-meta-a": "alpha",
		"Date":         testDate,
	})
	if err != nil {
		t.Fatalf("toHeaders failed: %v", err)
	}
	expected := []string{"alpha,zulu"}
	if got := finalized["X-Oss-Meta-A"]; !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected joined values %#v, got %#v", expected, got)
	}
	if got := finalized.Get("Date"); got != testDate {
		t.Errorf("Expected Date %#v, got %#v", testDate, got)
	}
}

func TestLoadFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "oss-test")
	if err != nil {
		t.Fatalf("TempDir failed: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "payload.bin")
	if err := ioutil.WriteFile(path, []byte("hello world"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := loadFile(path)
	if err != nil {
		t.Fatalf("loadFile failed: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("Expected payload %#v, got %#v", "hello world", string(data))
	}

	if _, err := loadFile(filepath.Join(dir, "missing.bin")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
