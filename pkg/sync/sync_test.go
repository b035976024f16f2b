package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelgerard/healthsync/pkg/config"
	"github.com/joelgerard/healthsync/pkg/mirror"
)

type testRunner struct {
	calls   []string
	failOn  string
	failRes *mirror.Result
	failErr error
}

func (r *testRunner) Mirror(ctx context.Context, source, dest string) (*mirror.Result, error) {
	r.calls = append(r.calls, fmt.Sprintf("%s -> %s", source, dest))
	if source == r.failOn {
		return r.failRes, r.failErr
	}
	return &mirror.Result{ExitCode: 0}, nil
}

type testSnapshotter struct {
	takes []string
	err   error
}

func (s *testSnapshotter) Take(name, dest string) error {
	s.takes = append(s.takes, fmt.Sprintf("%s at %s", name, dest))
	return s.err
}

func setupFs(t *testing.T, dirs ...string) {
	t.Helper()
	fs = afero.NewMemMapFs()
	t.Cleanup(func() { fs = afero.NewOsFs() })
	for _, dir := range dirs {
		require.NoError(t, fs.MkdirAll(dir, 0755))
	}
}

func testPairs() []config.SyncPair {
	return []config.SyncPair{
		{Name: "HealthData", Source: "/data/health/HealthData", Dest: "/backup/joel/HealthData"},
		{Name: "DBs", Source: "/data/health/DBs", Dest: "/backup/joel/DBs"},
	}
}

func dirExists(t *testing.T, path string) bool {
	t.Helper()
	exists, err := afero.DirExists(fs, path)
	require.NoError(t, err)
	return exists
}

func TestSyncAllPairs(t *testing.T) {
	setupFs(t, "/data/health/HealthData", "/data/health/DBs")
	runner := &testRunner{}

	err := Sync(context.Background(), runner, nil, &Request{Pairs: testPairs()})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/data/health/HealthData -> /backup/joel/HealthData",
		"/data/health/DBs -> /backup/joel/DBs",
	}, runner.calls)
	assert.True(t, dirExists(t, "/backup/joel/HealthData"))
	assert.True(t, dirExists(t, "/backup/joel/DBs"))
}

func TestSyncIdempotentDestinations(t *testing.T) {
	setupFs(t, "/data/health/HealthData", "/data/health/DBs",
		"/backup/joel/HealthData", "/backup/joel/DBs")
	runner := &testRunner{}

	err := Sync(context.Background(), runner, nil, &Request{Pairs: testPairs()})
	require.NoError(t, err)
	assert.Len(t, runner.calls, 2)
}

func TestSyncMissingSourceAborts(t *testing.T) {
	setupFs(t, "/data/health/HealthData")
	runner := &testRunner{}

	err := Sync(context.Background(), runner, nil, &Request{Pairs: testPairs()})
	require.Error(t, err)

	var missing MissingSourceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "/data/health/DBs", missing.Path)

	// only the first pair got mirrored
	assert.Equal(t, []string{
		"/data/health/HealthData -> /backup/joel/HealthData",
	}, runner.calls)

	// the destination of the failing pair is still laid out
	assert.True(t, dirExists(t, "/backup/joel/DBs"))
}

func TestSyncSourceIsAFile(t *testing.T) {
	setupFs(t)
	require.NoError(t, afero.WriteFile(fs, "/data/health/HealthData", []byte("x"), 0644))
	runner := &testRunner{}

	err := Sync(context.Background(), runner, nil, &Request{Pairs: testPairs()[:1]})
	require.Error(t, err)

	var missing MissingSourceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "/data/health/HealthData", missing.Path)
	assert.Empty(t, runner.calls)
}

func TestSyncMirrorFailureAborts(t *testing.T) {
	setupFs(t, "/data/health/HealthData", "/data/health/DBs")
	runner := &testRunner{
		failOn:  "/data/health/HealthData",
		failRes: &mirror.Result{ExitCode: 23, Output: "rsync: some files could not be transferred"},
		failErr: errors.New("transfer tool exited with code 23"),
	}

	err := Sync(context.Background(), runner, nil, &Request{Pairs: testPairs()})
	require.Error(t, err)
	assert.ErrorContains(t, err, "syncing 'HealthData' failed with exit code 23")
	assert.Len(t, runner.calls, 1)
}

func TestSyncDryRun(t *testing.T) {
	setupFs(t, "/data/health/HealthData", "/data/health/DBs")
	runner := &testRunner{}
	snap := &testSnapshotter{}

	err := Sync(context.Background(), runner, snap, &Request{Pairs: testPairs(), DryRun: true})
	require.NoError(t, err)

	assert.Len(t, runner.calls, 2)
	assert.Empty(t, snap.takes)
	assert.False(t, dirExists(t, "/backup/joel/HealthData"))
	assert.False(t, dirExists(t, "/backup/joel/DBs"))
}

func TestSyncTakesSnapshots(t *testing.T) {
	setupFs(t, "/data/health/HealthData", "/data/health/DBs")
	runner := &testRunner{}
	snap := &testSnapshotter{}

	err := Sync(context.Background(), runner, snap, &Request{Pairs: testPairs()})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"HealthData at /backup/joel/HealthData",
		"DBs at /backup/joel/DBs",
	}, snap.takes)
	assert.Len(t, runner.calls, 2)
}

func TestSyncSnapshotFailureAborts(t *testing.T) {
	setupFs(t, "/data/health/HealthData", "/data/health/DBs")
	runner := &testRunner{}
	snap := &testSnapshotter{err: errors.New("disk full")}

	err := Sync(context.Background(), runner, snap, &Request{Pairs: testPairs()})
	require.Error(t, err)
	assert.ErrorContains(t, err, "can't snapshot destination")
	assert.Empty(t, runner.calls)
}

func TestSyncInvalidRequest(t *testing.T) {
	setupFs(t)
	runner := &testRunner{}

	err := Sync(context.Background(), runner, nil, &Request{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "must define at least one sync pair")
	assert.Empty(t, runner.calls)
}

func TestRequestError(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := &Request{Pairs: testPairs()}
		assert.NoError(t, req.Error())
	})

	t.Run("empty", func(t *testing.T) {
		req := &Request{}
		assert.ErrorContains(t, req.Error(), "must define at least one sync pair")
	})

	t.Run("incomplete pair", func(t *testing.T) {
		req := &Request{Pairs: []config.SyncPair{{}}}
		err := req.Error()
		assert.ErrorContains(t, err, "must define a name for sync pair #1")
		assert.ErrorContains(t, err, "must define a source for sync pair #1")
		assert.ErrorContains(t, err, "must define a destination for sync pair #1")
	})
}
