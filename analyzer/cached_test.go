/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/incdeps/internal/mapfs"
)

type countingAnalyzer struct {
	calls int
	err   error
}

func (c *countingAnalyzer) Specifiers(_ context.Context, _ string) ([]string, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []string{"./dep.js"}, nil
}

func TestCached_ReusesUnchangedFiles(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/index.js", `import "./dep.js";`, 0644)

	inner := &countingAnalyzer{}
	cached, err := NewCached(inner, mfs, 8)
	require.NoError(t, err)

	ctx := context.Background()
	for range 3 {
		specs, err := cached.Specifiers(ctx, "/project/index.js")
		require.NoError(t, err)
		assert.Equal(t, []string{"./dep.js"}, specs)
	}
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, cached.Len())

	mfs.Touch("/project/index.js", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	_, err = cached.Specifiers(ctx, "/project/index.js")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "modified files are analyzed again")

	cached.Purge()
	assert.Equal(t, 0, cached.Len())
}

func TestCached_DoesNotCacheFailures(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/index.js", `import {`, 0644)

	inner := &countingAnalyzer{err: errors.New("boom")}
	cached, err := NewCached(inner, mfs, 0)
	require.NoError(t, err)

	ctx := context.Background()
	for range 2 {
		_, err := cached.Specifiers(ctx, "/project/index.js")
		require.Error(t, err)
	}
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, cached.Len())
}
