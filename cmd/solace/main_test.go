package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

// run executes one CLI invocation against dbPath and returns its stdout.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	c := &cli{logger: zap.NewNop(), now: func() time.Time { return fixedNow }}
	return runWith(c, dbPath, args...)
}

func runWith(c *cli, dbPath string, args ...string) (string, error) {
	root := newRootCmdWith(c)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"--db", dbPath, "--tz", "UTC", "--catalog", ""}, args...))
	err := c.execute(context.Background(), root)
	return buf.String(), err
}

func mustRun(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	out, err := run(t, dbPath, args...)
	if err != nil {
		t.Fatalf("solace %v: %v\n%s", args, err, out)
	}
	return out
}

func TestCLI_Catalog(t *testing.T) {
	t.Setenv("COACH_API_KEY_SECRET", "")
	out := mustRun(t, filepath.Join(t.TempDir(), "solace.db"), "catalog")
	for _, want := range []string{"ID", "neck-side-stretch", "Cross-Body Shoulder Stretch", "10/25"} {
		if !strings.Contains(out, want) {
			t.Errorf("catalog output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_Recommend(t *testing.T) {
	t.Setenv("COACH_API_KEY_SECRET", "")
	db := filepath.Join(t.TempDir(), "solace.db")

	out := mustRun(t, db, "recommend", "--area", "shoulder", "--limit", "2")
	if !strings.Contains(out, "shoulder-cross-body") {
		t.Errorf("expected shoulder-cross-body in:\n%s", out)
	}
	if !strings.Contains(out, "ALSO AVAILABLE") {
		t.Errorf("expected secondary section in:\n%s", out)
	}

	out = mustRun(t, db, "recommend")
	if !strings.Contains(out, "(no matches)") {
		t.Errorf("expected no matches without criteria:\n%s", out)
	}
}

func TestCLI_CompleteStreakReset(t *testing.T) {
	t.Setenv("COACH_API_KEY_SECRET", "")
	db := filepath.Join(t.TempDir(), "solace.db")

	steps := []struct {
		args []string
		want []string
	}{
		{
			args: []string{"complete", "neck-side-stretch"},
			want: []string{"Completed Neck Side Stretch (+10 XP)", "Streak: 1 day(s), extended today", "XP: 10 (Level 1 Apprentice, 90 to next)"},
		},
		{
			args: []string{"complete", "neck-side-stretch", "--recommended"},
			want: []string{"neck-side-stretch was already completed", "XP: 10 "},
		},
		{
			args: []string{"complete", "shoulder-cross-body", "--recommended"},
			want: []string{"(+25 XP)", "XP: 35 "},
		},
		{
			args: []string{"streak"},
			want: []string{"Streak: 1 day(s)", "XP: 35 (Level 1 Apprentice, 65 to next)"},
		},
		{
			args: []string{"reset"},
			want: []string{"Progress reset (generation 1)"},
		},
		{
			args: []string{"streak"},
			want: []string{"Streak: 0 day(s), not yet today", "XP: 0 "},
		},
	}

	for _, s := range steps {
		out := mustRun(t, db, s.args...)
		for _, want := range s.want {
			if !strings.Contains(out, want) {
				t.Errorf("solace %v: output missing %q:\n%s", s.args, want, out)
			}
		}
	}
}

func TestCLI_Errors(t *testing.T) {
	t.Setenv("COACH_API_KEY_SECRET", "")
	db := filepath.Join(t.TempDir(), "solace.db")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown exercise", []string{"complete", "no-such-exercise"}},
		{"missing id", []string{"complete"}},
		{"bad day", []string{"export-fit", "--day", "15/10/2026"}},
		{"nothing to export", []string{"export-fit"}},
		{"missing fit file", []string{"inspect-fit", filepath.Join(t.TempDir(), "missing.fit")}},
		{"bad timezone", []string{"--tz", "Mars/Olympus", "streak"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, db, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCLI_ExportAndInspectFit(t *testing.T) {
	t.Setenv("COACH_API_KEY_SECRET", "")
	dir := t.TempDir()
	db := filepath.Join(dir, "solace.db")
	fitPath := filepath.Join(dir, "out", "session.fit")

	mustRun(t, db, "complete", "neck-side-stretch")
	mustRun(t, db, "complete", "cat-cow")

	out := mustRun(t, db, "export-fit", "--day", "2026-10-15", "-o", fitPath)
	if !strings.Contains(out, "(2 sets") {
		t.Errorf("unexpected export output:\n%s", out)
	}

	out = mustRun(t, db, "inspect-fit", fitPath)
	for _, want := range []string{"Message", "session", "Start", "2026-10-15T", "Set"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_Intake(t *testing.T) {
	t.Setenv("COACH_API_KEY_SECRET", "")
	out := mustRun(t, filepath.Join(t.TempDir(), "solace.db"), "intake", "my", "shoulder", "hurts", "from", "heavy", "lifting")
	if strings.TrimSpace(out) == "" {
		t.Fatal("expected a coach reply")
	}
	if !strings.Contains(out, "XP)") {
		t.Errorf("expected recommendations in:\n%s", out)
	}
}

func TestCLI_ClosesDatabaseOnError(t *testing.T) {
	t.Setenv("COACH_API_KEY_SECRET", "")
	db := filepath.Join(t.TempDir(), "solace.db")

	c := &cli{logger: zap.NewNop(), now: func() time.Time { return fixedNow }}
	if _, err := runWith(c, db, "complete", "no-such-exercise"); err == nil {
		t.Fatal("expected error for unknown exercise")
	}
	if c.db != nil || c.svc != nil {
		t.Error("database left open after failed command")
	}

	// The store is still usable by the next invocation.
	if out := mustRun(t, db, "complete", "neck-side-stretch"); !strings.Contains(out, "Completed") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
