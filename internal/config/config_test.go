package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEffective_Defaults(t *testing.T) {
	cwd := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Root != cwd {
		t.Fatalf("期望 root=%q，实际=%q", cwd, eff.Root)
	}
	if eff.SrcDir != filepath.Join(cwd, DefaultSrcDir) {
		t.Fatalf("期望 src=%q，实际=%q", filepath.Join(cwd, DefaultSrcDir), eff.SrcDir)
	}
	if eff.OutDir != filepath.Join(cwd, DefaultOutDir) {
		t.Fatalf("期望 out=%q，实际=%q", filepath.Join(cwd, DefaultOutDir), eff.OutDir)
	}
	if eff.BaseURL != DefaultBaseURL {
		t.Fatalf("期望 base_url=%q，实际=%q", DefaultBaseURL, eff.BaseURL)
	}
}

func TestLoadEffective_ConfigFile(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{"src_dir":"photos","out_dir":"/srv/site","base_url":"https://example.test/g/"}`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.SrcDir != filepath.Join(cwd, "photos") {
		t.Fatalf("src 不正确：%q", eff.SrcDir)
	}
	if eff.OutDir != filepath.Clean("/srv/site") {
		t.Fatalf("绝对路径 out 应原样保留：%q", eff.OutDir)
	}
	if eff.BaseURL != "https://example.test/g" {
		t.Fatalf("base_url 应去掉末尾 '/'：%q", eff.BaseURL)
	}
}

func TestLoadEffective_CLIOverridesConfig(t *testing.T) {
	cwd := t.TempDir()
	root := filepath.Join(cwd, "site")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	writeFile(t, filepath.Join(root, FileName), []byte(`{"out_dir":"dist","base_url":"https://a.test"}`))

	eff, err := LoadEffective(cwd, CLIArgs{
		Root:       "site",
		Out:        "build",
		OutSet:     true,
		BaseURL:    "https://b.test",
		BaseURLSet: true,
	})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Root != root {
		t.Fatalf("期望 root=%q，实际=%q", root, eff.Root)
	}
	if eff.OutDir != filepath.Join(root, "build") {
		t.Fatalf("CLI --out 应覆盖配置：%q", eff.OutDir)
	}
	if eff.BaseURL != "https://b.test" {
		t.Fatalf("CLI --base-url 应覆盖配置：%q", eff.BaseURL)
	}
}

func TestLoadEffective_InvalidJSON(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{`))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_InvalidBaseURL(t *testing.T) {
	cwd := t.TempDir()
	for _, u := range []string{"ftp://x.test", "not a url", "/relative"} {
		_, err := LoadEffective(cwd, CLIArgs{BaseURL: u, BaseURLSet: true})
		if Code(err) != ErrCodeInvalid {
			t.Fatalf("%q：期望 %q，实际 err=%v", u, ErrCodeInvalid, err)
		}
	}
}

func TestLoadEffective_OutInsideSrc(t *testing.T) {
	cwd := t.TempDir()
	for _, out := range []string{"imgs", "imgs/public"} {
		_, err := LoadEffective(cwd, CLIArgs{Out: out, OutSet: true})
		if Code(err) != ErrCodeInvalid {
			t.Fatalf("out=%q：期望 %q，实际 err=%v", out, ErrCodeInvalid, err)
		}
	}
}

func TestLoadEffective_EmptyOut(t *testing.T) {
	_, err := LoadEffective(t.TempDir(), CLIArgs{Out: " ", OutSet: true})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v", ErrCodeInvalid, err)
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败 %q：%v", path, err)
	}
}
