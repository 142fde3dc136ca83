package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func TestLoadAppliesDefaultsWithNoConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	v := New()
	v.AddConfigPath(t.TempDir())

	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PsiBlastPath != "psiblast" {
		t.Errorf("PsiBlastPath=%q, want %q", cfg.PsiBlastPath, "psiblast")
	}
	if cfg.DefaultIterations != 3 {
		t.Errorf("DefaultIterations=%d, want 3", cfg.DefaultIterations)
	}
	if cfg.DefaultThreads != 1 {
		t.Errorf("DefaultThreads=%d, want 1", cfg.DefaultThreads)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".alignshop.yaml")
	body := "psiblast_path: /opt/ncbi/psiblast\ndefault_iterations: 5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	v := New()
	v.AddConfigPath(dir)
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PsiBlastPath != "/opt/ncbi/psiblast" {
		t.Errorf("PsiBlastPath=%q, want file value", cfg.PsiBlastPath)
	}
	if cfg.DefaultIterations != 5 {
		t.Errorf("DefaultIterations=%d, want 5", cfg.DefaultIterations)
	}
	if cfg.DefaultThreads != 1 {
		t.Errorf("DefaultThreads=%d, want default 1", cfg.DefaultThreads)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".alignshop.yaml")
	body := "default_threads: 2\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ALIGNSHOP_DEFAULT_THREADS", "8")

	v := New()
	v.AddConfigPath(dir)
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultThreads != 8 {
		t.Errorf("DefaultThreads=%d, want env override 8", cfg.DefaultThreads)
	}
}

func TestBindFlagsOverridesDefault(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	v := New()
	BindFlags(cmd, v)

	if err := cmd.PersistentFlags().Set("psiblast-path", "/custom/psiblast"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PsiBlastPath != "/custom/psiblast" {
		t.Errorf("PsiBlastPath=%q, want flag override", cfg.PsiBlastPath)
	}
}

func TestConfigFilePathFallsBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	v := New()
	got := ConfigFilePath(v)
	want := filepath.Join(home, ".alignshop.yaml")
	if got != want {
		t.Errorf("ConfigFilePath()=%q, want %q", got, want)
	}
}
