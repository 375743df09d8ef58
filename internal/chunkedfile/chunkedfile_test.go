// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chunkedfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testReporter struct {
	reported []string
}

func (r *testReporter) Errorf(format string, args ...interface{}) {
	r.reported = append(r.reported, fmt.Sprintf(format, args...))
}

func writeFixture(t *testing.T, data string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "fixture.txt")
	if err := os.WriteFile(filename, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestRead(t *testing.T) {
	filename := writeFixture(t, `x = 1
---
module
  x local refs=1
===
def f():
    pass
---
module
  f local refs=1
    function f`)

	reporter := &testReporter{}
	cases := Read(filename, reporter)
	if len(reporter.reported) > 0 {
		t.Fatalf("unexpected errors: %v", reporter.reported)
	}

	want := []Case{
		{
			Filename: filename,
			Line:     1,
			Input:    "x = 1\n",
			Want:     "module\n  x local refs=1\n",
		},
		{
			Filename: filename,
			Line:     6,
			Input:    "def f():\n    pass\n",
			Want:     "module\n  f local refs=1\n    function f\n", // final newline added
		},
	}
	if diff := cmp.Diff(want, cases); diff != "" {
		t.Errorf("Read returned wrong cases (-want +got):\n%s", diff)
	}
}

func TestReadMissingSeparator(t *testing.T) {
	filename := writeFixture(t, `x = 1
---
module
===
no separator here
===
y = 2
---
module
`)

	reporter := &testReporter{}
	cases := Read(filename, reporter)

	if len(reporter.reported) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(reporter.reported), reporter.reported)
	}
	wantErr := fmt.Sprintf("%s:5: case has no --- separator", filename)
	if reporter.reported[0] != wantErr {
		t.Errorf("got error %q, want %q", reporter.reported[0], wantErr)
	}

	// The malformed case is dropped; its neighbors survive.
	if len(cases) != 2 {
		t.Fatalf("got %d cases, want 2", len(cases))
	}
	if cases[0].Line != 1 || cases[1].Line != 7 {
		t.Errorf("case lines = %d, %d, want 1, 7", cases[0].Line, cases[1].Line)
	}
	if !strings.HasPrefix(cases[1].Input, "y = 2") {
		t.Errorf("second case input = %q, want y = 2", cases[1].Input)
	}
}

func TestReadMissingFile(t *testing.T) {
	reporter := &testReporter{}
	cases := Read(filepath.Join(t.TempDir(), "no_such_file.txt"), reporter)
	if len(cases) != 0 {
		t.Errorf("got %d cases from a missing file, want 0", len(cases))
	}
	if len(reporter.reported) != 1 {
		t.Errorf("got %d errors, want 1", len(reporter.reported))
	}
}
