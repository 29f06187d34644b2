package gdb

import (
	"strconv"
	"strings"
	"testing"

	"github.com/hitzhangjie/pygdb/pkg/interp"
)

func TestThreadRx(t *testing.T) {
	tests := []struct {
		line    string
		num     int
		tid     uint64
		name    string
		current bool
		match   bool
	}{
		{
			line:    `* 1    Thread 0x7ffff7fb8740 (LWP 12345) "python" 0x00007ffff7af4293 in poll ()`,
			num:     1,
			tid:     0x7ffff7fb8740,
			name:    "python",
			current: true,
			match:   true,
		},
		{
			line:  `  3    Thread 0x7ffff0ff9700 (LWP 12348) "worker" futex_wait ()`,
			num:   3,
			tid:   0x7ffff0ff9700,
			name:  "worker",
			match: true,
		},
		{
			// no quoted name
			line:  `  2    Thread 0x7ffff77b6700 (LWP 12347) 0x0000... in select ()`,
			num:   2,
			tid:   0x7ffff77b6700,
			match: true,
		},
		{line: `  Id   Target Id         Frame`},
		{line: `(gdb) info threads`},
	}

	for _, tt := range tests {
		m := threadRx.FindStringSubmatch(strings.TrimSpace(tt.line))
		if (m != nil) != tt.match {
			t.Errorf("threadRx match = %v for %q, want %v", m != nil, tt.line, tt.match)
			continue
		}
		if m == nil {
			continue
		}
		if got := m[1] == "*"; got != tt.current {
			t.Errorf("current = %v for %q, want %v", got, tt.line, tt.current)
		}
		num, _ := strconv.Atoi(m[2])
		tid, _ := strconv.ParseUint(m[3], 0, 64)
		if num != tt.num || tid != tt.tid {
			t.Errorf("num/tid = %d/%#x for %q, want %d/%#x", num, tid, tt.line, tt.num, tt.tid)
		}
		if m[5] != tt.name {
			t.Errorf("name = %q for %q, want %q", m[5], tt.line, tt.name)
		}
	}
}

func TestFrameNoRx(t *testing.T) {
	out := `#2  0x00007ffff7d5a8f4 in PyEval_EvalFrameEx () from /usr/lib/libpython3.so`
	m := frameNoRx.FindStringSubmatch(out)
	if m == nil || m[1] != "2" {
		t.Fatalf("frameNoRx = %v, want level 2", m)
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in   string
		want interp.Scope
	}{
		{"local", interp.ScopeLocal},
		{"free", interp.ScopeFree},
		{"global", interp.ScopeGlobal},
		{"builtin", interp.ScopeBuiltin},
		{"", interp.ScopeNone},
		{"garbage", interp.ScopeNone},
	}
	for _, tt := range tests {
		if got := parseScope(tt.in); got != tt.want {
			t.Errorf("parseScope(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPyStringList(t *testing.T) {
	if got := pyStringList("req", "headers"); got != `"req", "headers"` {
		t.Errorf("pyStringList = %s", got)
	}
	if got := pyStringList(`we"ird`); got != `"we\"ird"` {
		t.Errorf("pyStringList = %s", got)
	}
}

func TestParseItems(t *testing.T) {
	out := `some breakpoint chatter
pygdb-item|headers|dict|{'host': 'localhost'}
pygdb-item|method|leaf|GET
malformed|line
pygdb-item|broken
`
	entries := parseItems(nil, 0, []string{"req"}, out)
	if len(entries) != 2 {
		t.Fatalf("parsed %d entries, want 2", len(entries))
	}

	if entries[0].Key != "headers" || entries[1].Key != "method" {
		t.Errorf("keys = %s, %s", entries[0].Key, entries[1].Key)
	}

	rv := entries[0].Value.(*remoteValue)
	if rv.kind != "dict" || strings.Join(rv.path, ".") != "req.headers" {
		t.Errorf("headers value = kind %s path %v", rv.kind, rv.path)
	}
	if _, ok := entries[1].Value.(*remoteValue).AttrDict(); ok {
		t.Error("a leaf value reported an attribute dict")
	}
	if entries[1].Value.String() != "GET" {
		t.Errorf("method = %q, want GET", entries[1].Value.String())
	}
}
