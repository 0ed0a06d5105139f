// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

const fixture = `
kind: block
stmts:
  - kind: assign
    target: tmp
    value: {kind: tablehit, table: fwd}
  - kind: assign
    target: x
    value: {kind: lit, int: 5}
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))
	return path
}

func TestRunTableHitThenReachTraces(t *testing.T) {
	color.NoColor = true
	path := writeFixture(t)

	var out bytes.Buffer
	err := run(context.Background(), &out, path, []string{"tablehit", "reach"})
	require.NoError(t, err)

	text := out.String()
	require.Contains(t, text, "== tablehit ==")
	require.Contains(t, text, "== reach ==")
	require.Contains(t, text, "x = 5")
	// reach has no notion of branch alternatives without a shared
	// successor node (see passes/reach's DESIGN.md entry): it walks the
	// if's Then and Else in plain sequential order, so tmp ends up
	// whatever the last-visited branch (Else) assigned.
	require.Contains(t, text, "tmp = false")
}

func TestRunUnknownPassReportsError(t *testing.T) {
	color.NoColor = true
	path := writeFixture(t)

	var out bytes.Buffer
	err := run(context.Background(), &out, path, []string{"bogus"})
	require.Error(t, err)
}

func TestRunRejectsMissingFile(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), &out, filepath.Join(t.TempDir(), "missing.yaml"), []string{"reach"})
	require.Error(t, err)
}
