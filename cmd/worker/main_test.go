package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestRunInfo(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"worker", "info"}, &out)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	want := strings.Join([]string{
		"token: enum(new-matrix,new-vector,add-vector-entries,get-vector,new-map,new-graph)",
		"local: int32",
		"global: int64",
		"size: uint64",
		"handle: int32",
		"scalar: float64",
	}, "\n") + "\n"
	if got := out.String(); got != want {
		t.Errorf("info output:\n%s\nwant:\n%s", got, want)
	}
}

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{
		{"worker"},
		{"worker", "bogus"},
		{"worker", "info", "extra"},
	} {
		var out bytes.Buffer
		code := run(args, &out)
		if code != 1 {
			t.Errorf("run(%v) = %d, want 1", args, code)
		}
		if !strings.Contains(out.String(), "syntax: worker info|eventloop") {
			t.Errorf("run(%v) output = %q, want usage line", args, out.String())
		}
	}
}

func TestGetenv(t *testing.T) {
	t.Setenv("TAURA_TEST_VAR", "set")
	if got := getenv("TAURA_TEST_VAR", "fallback"); got != "set" {
		t.Errorf("getenv = %q, want %q", got, "set")
	}
	if got := getenv("TAURA_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("getenv = %q, want %q", got, "fallback")
	}
}

func TestMustGetenvMissing(t *testing.T) {
	orig := logFatal
	defer func() { logFatal = orig }()

	var msg string
	logFatal = func(format string, v ...any) {
		msg = fmt.Sprintf(format, v...)
	}

	mustGetenv("TAURA_TEST_MISSING")
	if !strings.Contains(msg, "TAURA_TEST_MISSING") {
		t.Errorf("logFatal message = %q, want it to name the variable", msg)
	}
}

func TestLogLevel(t *testing.T) {
	if logLevel("debug").String() != "DEBUG" {
		t.Errorf("logLevel(debug) = %v", logLevel("debug"))
	}
	if logLevel("nonsense").String() != "INFO" {
		t.Errorf("logLevel(nonsense) = %v", logLevel("nonsense"))
	}
}
