package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// newLibrary creates a library with a few fake jpgs and isolates config from ~/.culler.
func newLibrary(t *testing.T) string {
	t.Helper()
	t.Setenv("CULLER_CONFIG_DIR", t.TempDir())
	t.Setenv("CULLER_EXIFTOOL", "false")
	t.Setenv("CULLER_SWATCHES", "false")

	root := t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		p := filepath.Join(root, "2024", name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(name), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

func mustEnv(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: culler %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v\nstdout:\n%s", env, string(stdout))
	}
	return env
}

func TestCLI_ImportListCurate(t *testing.T) {
	root := newLibrary(t)

	mustEnv(t, "init", root)
	imp := mustEnv(t, "--library", root, "import")
	if n, _ := imp["data"].(map[string]any)["scanned"].(float64); n != 3 {
		t.Fatalf("expected 3 scanned, got %#v", imp["data"])
	}

	list := mustEnv(t, "--library", root, "photos", "list", "--view", "unreviewed")
	photos, _ := list["data"].([]any)
	if len(photos) != 3 {
		t.Fatalf("expected 3 unreviewed photos, got %#v", list["data"])
	}
	if total, _ := list["meta"].(map[string]any)["total"].(float64); total != 3 {
		t.Fatalf("expected total 3, got %#v", list["meta"])
	}

	mustEnv(t, "--library", root, "photos", "curate", "pick", "2024/a.jpg")
	mustEnv(t, "--library", root, "photos", "curate", "x", filepath.Join(root, "2024", "b.jpg"))

	picks := mustEnv(t, "--library", root, "photos", "list", "--view", "picks")
	if xs, _ := picks["data"].([]any); len(xs) != 1 {
		t.Fatalf("expected one pick, got %#v", picks["data"])
	}
	trash := mustEnv(t, "--library", root, "photos", "list", "--view", "trash")
	if xs, _ := trash["data"].([]any); len(xs) != 1 {
		t.Fatalf("expected one rejected photo, got %#v", trash["data"])
	}

	show := mustEnv(t, "--library", root, "photos", "show", "2024/a.jpg")
	if picked, _ := show["data"].(map[string]any)["isCurated"].(bool); !picked {
		t.Fatalf("expected a.jpg picked, got %#v", show["data"])
	}

	dest := t.TempDir()
	exp := mustEnv(t, "--library", root, "photos", "export", "--dest", dest)
	if n, _ := exp["data"].(map[string]any)["copied"].(float64); n != 1 {
		t.Fatalf("expected one copied, got %#v", exp["data"])
	}
	if _, err := os.Stat(filepath.Join(dest, "2024", "a.jpg")); err != nil {
		t.Fatalf("expected exported file: %v", err)
	}
}

func TestCLI_CurateErrors(t *testing.T) {
	root := newLibrary(t)
	mustEnv(t, "init", root)
	mustEnv(t, "--library", root, "import")

	if _, _, err := runCLI(t, []string{"--library", root, "photos", "curate", "9", "2024/a.jpg"}); err == nil {
		t.Fatalf("expected invalid rating to fail")
	}
	if _, _, err := runCLI(t, []string{"--library", root, "photos", "curate", "pick", "2024/nope.jpg"}); err == nil {
		t.Fatalf("expected missing photo to fail")
	}
	if _, _, err := runCLI(t, []string{"--library", root, "photos", "curate", "pick"}); err == nil {
		t.Fatalf("expected missing targets to fail")
	}
}

func TestCLI_GroupsAndBursts(t *testing.T) {
	root := newLibrary(t)
	mustEnv(t, "init", root)
	mustEnv(t, "--library", root, "import")

	groups := mustEnv(t, "--library", root, "groups")
	rows, _ := groups["data"].([]any)
	sum := 0.0
	for _, r := range rows {
		n, _ := r.(map[string]any)["photoCount"].(float64)
		sum += n
	}
	if sum != 3 {
		t.Fatalf("expected groups to cover 3 photos, got %#v", groups["data"])
	}

	// StatReader reports no camera, so nothing is a burst.
	bursts := mustEnv(t, "--library", root, "bursts")
	if xs, _ := bursts["data"].([]any); len(xs) != 0 {
		t.Fatalf("expected no bursts, got %#v", bursts["data"])
	}
}

func TestCLI_NoLibrary(t *testing.T) {
	t.Setenv("CULLER_CONFIG_DIR", t.TempDir())
	if _, _, err := runCLI(t, []string{"--library", t.TempDir(), "photos", "list"}); err == nil {
		t.Fatalf("expected error without an initialised library")
	}
}

func TestCLI_ConfigAndDocs(t *testing.T) {
	t.Setenv("CULLER_CONFIG_DIR", t.TempDir())
	t.Setenv("CULLER_FADE_DURATION", "5s")

	cfg := mustEnv(t, "config", "show")
	settings, _ := cfg["meta"].(map[string]any)["settings"].(map[string]any)
	if settings["fade.duration"] != "5s" {
		t.Fatalf("expected env override, got %#v", settings)
	}

	docs := mustEnv(t, "docs")
	topics, _ := docs["data"].(map[string]any)["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected topics, got %#v", docs["data"])
	}
	stdout, _, err := runCLI(t, []string{"docs", "shortcuts", "--raw"})
	if err != nil || !bytes.HasPrefix(stdout, []byte("# Shortcuts")) {
		t.Fatalf("expected raw markdown, got %q err=%v", stdout, err)
	}
}
