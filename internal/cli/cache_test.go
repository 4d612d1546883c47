package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindtower/pkg/cache"
	"github.com/matzehuels/mindtower/pkg/config"
)

func newTestCLI(cfg config.Config) *CLI {
	c := New(io.Discard, log.InfoLevel)
	c.config = &cfg
	return c
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"layout:a", "layout:b", "render:c"} {
		if err := fc.Set(ctx, key, []byte("{}"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.Default()
	cfg.Cache.Dir = dir
	cmd := newTestCLI(cfg).cacheClearCommand()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	for _, key := range []string{"layout:a", "layout:b", "render:c"} {
		if _, ok, _ := fc.Get(ctx, key); ok {
			t.Errorf("%s still cached", key)
		}
	}
}

func TestCacheClearMissingDir(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Dir = t.TempDir() + "/absent"
	cmd := newTestCLI(cfg).cacheClearCommand()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
}

func TestCachePath(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Dir = "/srv/mindtower/cache"

	var out bytes.Buffer
	cmd := newTestCLI(cfg).cachePathCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != cfg.Cache.Dir {
		t.Errorf("cache path = %q, want %q", got, cfg.Cache.Dir)
	}
}

func TestCompletion(t *testing.T) {
	c := newTestCLI(config.Default())
	root := c.RootCommand()

	for _, shell := range completionShells {
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"completion", shell})
		if err := root.Execute(); err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if out.Len() == 0 {
			t.Errorf("completion %s wrote nothing", shell)
		}
	}

	root.SetArgs([]string{"completion", "tcsh"})
	root.SetErr(io.Discard)
	if err := root.Execute(); err == nil {
		t.Error("completion tcsh: want error")
	}
}
