/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/incdeps/closure"
	"bennypowers.dev/incdeps/config"
	"bennypowers.dev/incdeps/internal/cli"
	"bennypowers.dev/incdeps/testutil"
)

func newTestTools(t *testing.T) *tools {
	t.Helper()
	mfs := testutil.NewFixtureFS(t, "service", "/project")
	cfg, err := config.Load(mfs, "/project")
	require.NoError(t, err)
	tl, err := newTools(mfs, &cli.Settings{Root: "/project", Config: cfg})
	require.NoError(t, err)
	return tl
}

func TestResolve(t *testing.T) {
	tl := newTestTools(t)

	out, err := tl.resolve(context.Background(), ResolveInput{Entries: []string{"src/hello.js"}})
	require.NoError(t, err)

	assert.Equal(t, "/project", out.Root)
	assert.Equal(t, []string{
		"node_modules/left-pad/index.js",
		"node_modules/left-pad/package.json",
		"src/hello.js",
		"src/lib/format.js",
	}, out.Files)
}

func TestResolve_RepeatedCallsReportFullClosure(t *testing.T) {
	tl := newTestTools(t)
	in := ResolveInput{Entries: []string{"src/hello.js"}}

	first, err := tl.resolve(context.Background(), in)
	require.NoError(t, err)
	second, err := tl.resolve(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.Files, second.Files)
}

func TestResolve_Overrides(t *testing.T) {
	tl := newTestTools(t)

	// An empty exclude list replaces the configured one.
	out, err := tl.resolve(context.Background(), ResolveInput{
		Entries: []string{"src/hello.js"},
		Exclude: []string{},
	})
	require.NoError(t, err)
	assert.Contains(t, out.Files, "node_modules/left-pad/README.md")

	// Without aws-sdk ignored, its files join the closure.
	out, err = tl.resolve(context.Background(), ResolveInput{
		Entries: []string{"src/hello.js"},
		Ignore:  []string{},
	})
	require.NoError(t, err)
	assert.Contains(t, out.Files, "node_modules/aws-sdk/index.js")
}

func TestResolve_Errors(t *testing.T) {
	tl := newTestTools(t)

	_, err := tl.resolve(context.Background(), ResolveInput{})
	assert.Error(t, err)

	_, err = tl.resolve(context.Background(), ResolveInput{Entries: []string{"src/missing.js"}})
	assert.True(t, errors.Is(err, closure.ErrUnresolvedImport), "got %v", err)

	_, err = tl.resolve(context.Background(), ResolveInput{Entries: []string{"src/hello.js"}, Root: "nowhere"})
	assert.Error(t, err)
}
