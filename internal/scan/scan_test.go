package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/John-Robertt/gallerygen/internal/domain"
)

func TestListSource_ReversedLexicographic(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"20240101.jpg", "20231231.jpg", "20240102.png", "B.jpg", "a.jpg"} {
		touch(t, filepath.Join(dir, n))
	}

	got, err := ListSource(dir)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	// 字节序：数字 < 大写 < 小写；反转后小写在前。
	want := []string{"a.jpg", "B.jpg", "20240102.png", "20240101.jpg", "20231231.jpg"}
	if diff := cmp.Diff(want, names(got)); diff != "" {
		t.Fatalf("顺序不符合预期 (-want +got):\n%s", diff)
	}
	if got[0].AbsPath != filepath.Join(dir, "a.jpg") {
		t.Fatalf("AbsPath 不正确：%q", got[0].AbsPath)
	}
}

func TestImages_ExcludesReserved(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"main.css", "each.css", "f.ico", "x.jpg", "main.css.jpg"} {
		touch(t, filepath.Join(dir, n))
	}

	all, err := ListSource(dir)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(all) != 5 {
		t.Fatalf("ListSource 应返回全部 5 个条目，实际 %d", len(all))
	}

	// 只做精确匹配：main.css.jpg 不是保留文件。
	want := []string{"x.jpg", "main.css.jpg"}
	if diff := cmp.Diff(want, names(Images(all))); diff != "" {
		t.Fatalf("过滤结果不符合预期 (-want +got):\n%s", diff)
	}
}

func TestListSource_SubdirAborts(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "x.jpg"))
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	if _, err := ListSource(dir); err == nil {
		t.Fatalf("子目录应导致错误")
	}
}

func TestListSource_MissingDir(t *testing.T) {
	_, err := ListSource(filepath.Join(t.TempDir(), "nope"))
	if !os.IsNotExist(err) {
		t.Fatalf("期望 not-exist 错误，实际：%v", err)
	}
}

func names(files []domain.SourceFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}
