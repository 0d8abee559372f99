package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AnatoleLucet/wiretap"
)

// syncBuffer is a bytes.Buffer safe to write from the executor goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { wiretap.SetLogger(nil) })

	out := &syncBuffer{}

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(out)

	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestLogin(t *testing.T) {
	out, err := execute(t, context.Background(), "login", "--user", "ada", "--password", "secret")
	require.NoError(t, err)

	require.Equal(t, []string{
		"initial  enabled=false",
		"user     enabled=false",
		"password enabled=true",
	}, strings.Split(strings.TrimSpace(out), "\n"))
}

func TestLogin_MissingPassword(t *testing.T) {
	out, err := execute(t, context.Background(), "login", "--user", "ada")
	require.NoError(t, err)
	require.NotContains(t, out, "enabled=true")
}

func TestTask(t *testing.T) {
	for _, kind := range []string{"sync", "loop", "pool"} {
		t.Run(kind, func(t *testing.T) {
			t.Setenv("WIRETAP_EXECUTOR_KIND", kind)

			out, err := execute(t, context.Background(), "task", "--steps", "3", "--delay", "0s")
			require.NoError(t, err)

			require.Equal(t, []string{
				"progress 1/3",
				"progress 2/3",
				"progress 3/3",
				"done",
			}, strings.Split(strings.TrimSpace(out), "\n"))
		})
	}
}

func TestTask_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := execute(t, ctx, "task", "--steps", "3", "--delay", "1h")
	require.ErrorIs(t, err, context.Canceled)
}

func TestTask_Traced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	t.Setenv("WIRETAP_TRACING_ENABLED", "true")
	t.Setenv("WIRETAP_TRACING_EXPORTER", "file")
	t.Setenv("WIRETAP_TRACING_FILE_PATH", path)

	_, err := execute(t, context.Background(), "task", "--steps", "2", "--delay", "0s")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "wiretap.task")
}

func TestConfig(t *testing.T) {
	out, err := execute(t, context.Background(), "config", "--log-level", "debug")
	require.NoError(t, err)

	require.Contains(t, out, "level: debug")
	require.Contains(t, out, "kind: loop")
	require.Contains(t, out, "service_name: wiretap")
}

func TestConfig_Invalid(t *testing.T) {
	_, err := execute(t, context.Background(), "config", "--log-format", "xml")
	require.ErrorContains(t, err, "log.format")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wiretap.yaml")

	out, err := execute(t, context.Background(), "config", "init", path)
	require.NoError(t, err)
	require.Contains(t, out, "wrote "+path)

	out, err = execute(t, context.Background(), "--config", path, "config")
	require.NoError(t, err)
	require.Contains(t, out, "kind: loop")
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	out := &syncBuffer{}
	cmd := newRootCmd()
	cmd.SetArgs([]string{"watch", dir})
	cmd.SetOut(out)
	cmd.SetErr(out)

	errs := make(chan error, 1)
	go func() { errs <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "watching "+dir)
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "CREATE  notes.txt")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-errs)
}
