package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

// withStdout captures command output for the duration of a test.
func withStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// testGlobals points at an empty config so the user's settings are ignored.
func testGlobals(t *testing.T) *Globals {
	t.Helper()
	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, "ICONIZE_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	return &Globals{Config: filepath.Join(t.TempDir(), "none.toml"), LogLevel: "disabled"}
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCommands(t *testing.T) {
	path := writeDoc(t, "x")
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("iconize"), kong.Exit(func(int) { t.Fatal("exit called") }))
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	ctx, err := parser.Parse([]string{"render", path, "--mode", "source", "--from", "2", "--cursor", "5"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ctx.Command() != "render <file>" {
		t.Errorf("Command() = %q", ctx.Command())
	}
	if cli.Render.Mode != "source" || cli.Render.From != 2 || cli.Render.To != -1 || cli.Render.Cursor != 5 {
		t.Errorf("Render = %+v", cli.Render)
	}

	if _, err := parser.Parse([]string{"scan", path, "--cursor", "1,4"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cli.Scan.Cursor) != 2 || cli.Scan.Cursor[1] != 4 {
		t.Errorf("Scan.Cursor = %v", cli.Scan.Cursor)
	}
}

func TestScanCmd(t *testing.T) {
	out := withStdout(t)
	path := writeDoc(t, "# :star:\nsee :home: and :nope:\n")

	cmd := &ScanCmd{File: path}
	if err := cmd.Run(testGlobals(t)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output = %q", out.String())
	}
	if !strings.HasSuffix(lines[0], ":1:3\tstar[2:8)") || !strings.HasSuffix(lines[1], ":2:5\thome[13:19)") {
		t.Errorf("output = %q", lines)
	}
}

func TestScanCmdJSONWithCursor(t *testing.T) {
	out := withStdout(t)
	path := writeDoc(t, ":home: :star:")

	cmd := &ScanCmd{File: path, Cursor: []int64{2}, JSON: true}
	if err := cmd.Run(testGlobals(t)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	var got []struct {
		ID    string `json:"id"`
		Start int64  `json:"start"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("bad JSON %q: %v", out.String(), err)
	}
	if len(got) != 1 || got[0].ID != "star" || got[0].Start != 7 {
		t.Errorf("tokens = %+v", got)
	}
}

func TestRenderCmd(t *testing.T) {
	out := withStdout(t)
	path := writeDoc(t, ":home: and a long tail of words :star:")

	cmd := &RenderCmd{File: path, From: 0, To: 4, Cursor: -1}
	if err := cmd.Run(testGlobals(t)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := strings.TrimSpace(out.String())
	if got != "replace(home[0:6) atomic=true)\t\"🏠\"\t16px" {
		t.Errorf("output = %q", got)
	}

	out.Reset()
	cmd = &RenderCmd{File: path, Mode: "bogus", To: -1, Cursor: -1}
	if err := cmd.Run(testGlobals(t)); err == nil {
		t.Error("Run with a bad mode succeeded")
	}
}

func TestIconsImportAndList(t *testing.T) {
	out := withStdout(t)
	dir := t.TempDir()
	pack := filepath.Join(dir, "pack.yaml")
	if err := os.WriteFile(pack, []byte("name: mine\nicons:\n  zap: \"Z\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	db := filepath.Join(dir, "icons.db")

	g := testGlobals(t)
	if err := (&IconsImportCmd{Pack: pack}).Run(g); err == nil {
		t.Error("import without a database succeeded")
	}
	if err := (&IconsImportCmd{Pack: pack, DB: db}).Run(g); err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out.String(), `imported 1 icons from pack "mine"`) {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	t.Setenv("ICONIZE_ICONS_DATABASE", db)
	if err := (&IconsListCmd{}).Run(g); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "zap\tZ\tmine\n") || !strings.Contains(out.String(), "star\t⭐\tbuiltin\n") {
		t.Errorf("output = %q", out.String())
	}
}

func TestVersionCmd(t *testing.T) {
	out := withStdout(t)
	if err := (&VersionCmd{}).Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "iconize dev") {
		t.Errorf("output = %q", out.String())
	}
}
