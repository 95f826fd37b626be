/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pack

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/incdeps/closure"
	"bennypowers.dev/incdeps/config"
	"bennypowers.dev/incdeps/internal/mapfs"
	"bennypowers.dev/incdeps/specifier"
	"bennypowers.dev/incdeps/testutil"
)

type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debugf(string, ...any) {}
func (l *recordingLogger) Infof(string, ...any) {}

func servicePlanner(t *testing.T) (*Planner, *mapfs.MapFileSystem, *recordingLogger) {
	t.Helper()
	mfs := testutil.NewFixtureFS(t, "service", "/project")
	cfg, err := config.Load(mfs, "/project")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	log := &recordingLogger{}
	return &Planner{FS: mfs, Root: "/project", Config: cfg, Logger: log}, mfs, log
}

func TestPlanner_Service(t *testing.T) {
	planner, _, log := servicePlanner(t)

	plan, err := planner.Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"assets/**",
		"src/plugins/*.js",
		"node_modules/left-pad/index.js",
		"node_modules/left-pad/package.json",
		"src/hello.js",
		"src/lib/format.js",
		"src/plugins/metrics.js",
		"node_modules/dayjs/dayjs.min.js",
		"node_modules/dayjs/package.json",
		"node_modules/dayjs/plugin/utc.js",
		"src/world.js",
	}, plan.Service.Include)
	assert.Equal(t, []string{".git/**", "node_modules/**"}, plan.Service.Exclude)
	assert.False(t, plan.Service.Individually)
	assert.Empty(t, plan.Functions)
	assert.Equal(t, []string{"legacy"}, plan.Skipped)

	require.Len(t, log.warnings, 1)
	assert.Contains(t, log.warnings[0], "dayjs-locales")
}

func TestPlanner_Individually(t *testing.T) {
	planner, _, _ := servicePlanner(t)
	planner.Config.Package.Individually = true
	planner.Config.Functions["world"] = config.Function{
		Handler: "src/world.handler",
		Package: config.Package{Include: []string{"static/**"}},
	}

	plan, err := planner.Plan(context.Background())
	require.NoError(t, err)

	assert.True(t, plan.Service.Individually)
	assert.Equal(t, []string{"assets/**"}, plan.Service.Include)
	require.Len(t, plan.Functions, 2)

	// Shared files appear in every function that needs them
	hello := plan.Functions["hello"]
	world := plan.Functions["world"]
	assert.Contains(t, hello.Include, "src/lib/format.js")
	assert.Contains(t, world.Include, "src/lib/format.js")
	assert.Contains(t, world.Include, "node_modules/left-pad/index.js")
	assert.Contains(t, hello.Include, "src/plugins/metrics.js")
	assert.Contains(t, world.Include, "src/plugins/metrics.js")

	assert.Equal(t, "static/**", world.Include[0])
	assert.NotContains(t, hello.Include, "static/**")
	assert.Equal(t, []string{"node_modules/**"}, hello.Exclude)
}

func TestPlanner_SingleFunction(t *testing.T) {
	planner, _, _ := servicePlanner(t)
	planner.Function = "world"

	plan, err := planner.Plan(context.Background())
	require.NoError(t, err)
	assert.Contains(t, plan.Service.Include, "src/world.js")
	assert.NotContains(t, plan.Service.Include, "src/hello.js")

	planner.Function = "nope"
	_, err = planner.Plan(context.Background())
	assert.ErrorIs(t, err, ErrUnknownFunction)
}

func TestPlanner_IgnoredPackageIsNotShipped(t *testing.T) {
	planner, _, _ := servicePlanner(t)

	plan, err := planner.Plan(context.Background())
	require.NoError(t, err)
	for _, p := range plan.Service.Include {
		assert.NotContains(t, p, "aws-sdk")
	}

	planner.Config.Ignore = nil
	plan, err = planner.Plan(context.Background())
	require.NoError(t, err)
	assert.Contains(t, plan.Service.Include, "node_modules/aws-sdk/index.js")
}

func TestPlanner_DependencyExcludesAreForwarded(t *testing.T) {
	planner, _, _ := servicePlanner(t)
	planner.Config.Package.Exclude = append(planner.Config.Package.Exclude, "node_modules/dayjs/plugin/**")

	plan, err := planner.Plan(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, plan.Service.Include, "node_modules/dayjs/plugin/utc.js")
	assert.Contains(t, plan.Service.Include, "node_modules/dayjs/dayjs.min.js")
}

func TestPlanner_ReincludedDependencyFile(t *testing.T) {
	planner, _, _ := servicePlanner(t)
	planner.Config.Package.Exclude = append(planner.Config.Package.Exclude,
		"node_modules/dayjs/**",
		"!node_modules/dayjs/package.json",
	)

	plan, err := planner.Plan(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, plan.Service.Include, "node_modules/dayjs/dayjs.min.js")
	assert.Contains(t, plan.Service.Include, "node_modules/dayjs/package.json")
}

func TestResolverExcludes(t *testing.T) {
	cfg := config.Default()
	cfg.Exclude = []string{"node_modules/**/*.md"}
	cfg.Package.Exclude = []string{".git/**", "node_modules/aws-crt/**", "!node_modules/aws-crt/package.json"}

	assert.Equal(t, []string{
		"!node_modules/**/*.md",
		"!node_modules/aws-crt/**",
		"node_modules/aws-crt/package.json",
	}, resolverExcludes(cfg))
}

func TestPlanner_Errors(t *testing.T) {
	t.Run("missing handler file", func(t *testing.T) {
		planner, _, _ := servicePlanner(t)
		planner.Config.Functions["broken"] = config.Function{Handler: "src/missing.handler"}

		_, err := planner.Plan(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "function broken")
	})

	t.Run("missing dependency", func(t *testing.T) {
		planner, mfs, _ := servicePlanner(t)
		mfs.AddFile("/project/src/needy.js", `require('not-installed');`, 0644)
		planner.Config.Functions["needy"] = config.Function{Handler: "src/needy.handler"}

		_, err := planner.Plan(context.Background())
		assert.ErrorIs(t, err, closure.ErrMissingDependency)
	})
}

func TestHandlerFile(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/src/v1.2/app.js", "", 0644)
	mfs.AddFile("/project/index.js", "", 0644)
	resolver := specifier.NewNodeResolver(mfs)

	tests := []struct {
		handler string
		want    string
	}{
		{"src/v1.2/app.handler", "/project/src/v1.2/app.js"},
		{"index.main", "/project/index.js"},
		{"index", "/project/index.js"},
	}
	for _, tt := range tests {
		t.Run(tt.handler, func(t *testing.T) {
			got, err := handlerFile(resolver, "/project", tt.handler)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := handlerFile(resolver, "/project", "")
	assert.Error(t, err)
}

func TestExpandGlobs(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/src/plugins/a.js", "", 0644)
	mfs.AddFile("/project/src/plugins/deep/b.js", "", 0644)
	mfs.AddFile("/project/src/plugins/readme.md", "", 0644)
	mfs.AddFile("/project/src/plugins/node_modules/x/index.js", "", 0644)
	mfs.AddFile("/project/config.json", "", 0644)

	got, err := expandGlobs(mfs, "/project", []string{"src/plugins/**/*.js", "./config.json", "missing/*.js", "src/plugins/a.js"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/project/src/plugins/a.js",
		"/project/src/plugins/deep/b.js",
		"/project/config.json",
	}, got)
}

func TestUnion(t *testing.T) {
	got := union([]string{"a", "b"}, nil, []string{"b", "", "c", "a"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Nil(t, union())
}
