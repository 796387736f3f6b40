package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/John-Robertt/gallerygen/internal/domain"
)

func TestCheck_OK(t *testing.T) {
	out := buildSite(t, []string{"b.jpg", "a.jpg"})

	rep, err := Check(out)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !rep.OK() {
		t.Fatalf("不期望问题：%+v", rep.Problems)
	}
	if rep.Images != 2 {
		t.Fatalf("期望 images=2，实际 %d", rep.Images)
	}
}

func TestCheck_MissingImageAndPage(t *testing.T) {
	out := buildSite(t, []string{"b.jpg", "a.jpg"})
	if err := os.Remove(filepath.Join(out, ImgDir, "a.jpg")); err != nil {
		t.Fatalf("删除图片失败：%v", err)
	}
	if err := os.Remove(filepath.Join(out, "b.html")); err != nil {
		t.Fatalf("删除详情页失败：%v", err)
	}

	rep, err := Check(out)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	kinds := map[string]string{}
	for _, p := range rep.Problems {
		kinds[p.Ref] = p.Kind
	}
	if kinds["./imgs/a.jpg"] != "image" {
		t.Fatalf("应报告缺失图片：%+v", rep.Problems)
	}
	if kinds["b.html"] != "page" {
		t.Fatalf("应报告缺失详情页：%+v", rep.Problems)
	}
}

func TestCheck_MissingStylesheet(t *testing.T) {
	out := buildSite(t, []string{"a.jpg"})
	if err := os.Remove(filepath.Join(out, "main.css")); err != nil {
		t.Fatalf("删除样式失败：%v", err)
	}

	rep, err := Check(out)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(rep.Problems) != 1 || rep.Problems[0].Kind != "asset" || rep.Problems[0].Ref != "main.css" {
		t.Fatalf("应只报告 main.css 缺失：%+v", rep.Problems)
	}
}

func TestCheck_NoIndex(t *testing.T) {
	if _, err := Check(t.TempDir()); !os.IsNotExist(err) {
		t.Fatalf("缺少 index.html 应返回 not-exist 错误，实际：%v", err)
	}
}

// buildSite 按生成器的输出布局手工拼一个最小站点（不依赖 run 包）。
func buildSite(t *testing.T, names []string) string {
	t.Helper()
	out := t.TempDir()
	write := func(p string, b []byte) {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("创建目录失败：%v", err)
		}
		if err := os.WriteFile(p, b, 0o644); err != nil {
			t.Fatalf("写入文件失败：%v", err)
		}
	}

	write(filepath.Join(out, "main.css"), []byte("body{}"))
	write(filepath.Join(out, "each.css"), []byte("body{}"))

	for _, n := range names {
		write(filepath.Join(out, ImgDir, n), []byte("x"))
		page, err := RenderPage(n, "")
		if err != nil {
			t.Fatalf("RenderPage 失败：%v", err)
		}
		pn, _ := PageName(n)
		write(filepath.Join(out, pn), page)
	}

	// 这里不关心列分配，只需要一个合法 plan。
	plan := domain.LayoutPlan{Order: names, A1: len(names)}
	idx, err := RenderIndex(plan)
	if err != nil {
		t.Fatalf("RenderIndex 失败：%v", err)
	}
	write(filepath.Join(out, IndexName), idx)
	return out
}
