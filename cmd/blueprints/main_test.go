package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

type cliTestEnv struct {
	configPath   string
	blueprintDir string
	databasePath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("BLUEPRINTS_DIR", "")
	t.Setenv("BLUEPRINTS_DATABASE", "")

	env := &cliTestEnv{
		configPath:   filepath.Join(base, "blueprints.toml"),
		blueprintDir: filepath.Join(base, "blueprints"),
		databasePath: filepath.Join(base, "db", "blueprints.db"),
	}
	content := fmt.Sprintf(
		"[paths]\nblueprint_dir = %q\ndatabase_path = %q\n\n[submission]\ndownload_timeout = 5\n\n[logging]\nlevel = \"error\"\n",
		env.blueprintDir, env.databasePath,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func issueBody(t *testing.T, previewURL string) string {
	t.Helper()
	text := strings.Join([]string{
		"### Series Name", "", "The Expanse", "",
		"### Series Year", "", "2015", "",
		"### Series Database IDs", "", "tvdb:280619", "",
		"### Creator Username", "", "_No response_", "",
		"### Blueprint Description", "", "Matches the show's title font.", "",
		"### Blueprint", "", "```json", `{"series": {"font_color": "#FFF"}}`, "```", "",
		"### Preview Title Cards", "", "![preview](" + previewURL + ")", "",
		"### Zip of Font Files", "", "_No response_", "",
		"### Zip of Source Files", "", "_No response_",
	}, "\n")
	encoded, err := json.Marshal(text)
	if err != nil {
		t.Fatalf("encode issue body: %v", err)
	}
	return string(encoded)
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.blueprintDir)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(pngBytes)
	}))
	t.Cleanup(server.Close)

	bodyPath := filepath.Join(t.TempDir(), "issue.json")
	if err := os.WriteFile(bodyPath, []byte(issueBody(t, server.URL+"/card.png")), 0o644); err != nil {
		t.Fatalf("write issue body: %v", err)
	}
	t.Setenv("ISSUE_CREATOR", "octocat")

	out, _, err := runCLI(t, []string{"parse-submission", "--body-file", bodyPath, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("parse-submission: %v", err)
	}
	var created submissionOutput
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if created.Path != "E/The Expanse (2015)/0" || created.Creator != "octocat" || !created.SeriesCreated {
		t.Fatalf("unexpected result %+v", created)
	}
	if created.RunID == "" {
		t.Fatal("expected a run id")
	}
	for _, name := range []string{"blueprint.json", "preview.jpg"} {
		if _, err := os.Stat(filepath.Join(env.blueprintDir, "E", "The Expanse (2015)", "0", name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	out, _, err = runCLI(t, []string{"list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var series []seriesView
	if err := json.Unmarshal([]byte(out), &series); err != nil {
		t.Fatalf("decode list output: %v", err)
	}
	if len(series) != 1 || series[0].Blueprints != 1 || series[0].TVDb != 280619 || series[0].NextNumber != 1 {
		t.Fatalf("unexpected series listing %+v", series)
	}

	out, _, err = runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Blueprint documents")

	// Removing the folder makes the next sync delete the row.
	if err := os.RemoveAll(filepath.Join(env.blueprintDir, "E")); err != nil {
		t.Fatalf("remove tree: %v", err)
	}
	out, _, err = runCLI(t, []string{"update-database", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("update-database: %v", err)
	}
	requireContains(t, out, `"deleted": 1`)
}

func TestParseSubmissionRejectsMalformedBody(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("ISSUE_BODY", `"### Series Name\n\nmissing everything else"`)

	_, _, err := runCLI(t, []string{"parse-submission"}, env.configPath)
	if err == nil {
		t.Fatal("expected parse failure")
	}
	if kind := errorKind(err); kind != "parse" {
		t.Fatalf("expected parse error kind, got %q (%v)", kind, err)
	}
}

func TestCheckFailsOnStrayFile(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.blueprintDir, "E", "The Expanse (2015)")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check to fail")
	}
	if errorKind(err) != "check" {
		t.Fatalf("unexpected error kind for %v", err)
	}
	requireContains(t, out, "stray-file")
}

func TestSetCreateRequiresTwoBlueprints(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"set", "create", "--name", "Pack", "only-one"}, env.configPath)
	if err == nil {
		t.Fatal("expected argument validation error")
	}
}

func TestUpdateDatabaseRequiresTree(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"update-database"}, env.configPath)
	if err == nil {
		t.Fatal("expected update-database to fail without a blueprint tree")
	}
	if errorKind(err) != "tree" {
		t.Fatalf("unexpected error kind for %v", err)
	}
	if _, statErr := os.Stat(env.blueprintDir); !os.IsNotExist(statErr) {
		t.Fatalf("expected blueprint dir not to be created, got %v", statErr)
	}
}
