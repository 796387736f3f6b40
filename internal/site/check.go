package site

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/gallerygen/internal/domain"
)

// Check 重新读取 outDir 下已生成的站点，检查引用是否都能落到实际文件：
//
// - index.html 中 .container img 引用的 ./imgs/<name> 必须存在
// - 每张图片对应的 <base>.html 必须存在，且其中 img.photo1 指向同一张图片
// - index.html 与详情页引用的样式表必须存在
//
// index.html 本身缺失/无法解析返回 error；其余问题汇总在 CheckReport.Problems 中。
func Check(outDir string) (domain.CheckReport, error) {
	outDir = filepath.Clean(outDir)
	rep := domain.CheckReport{Out: outDir, Problems: []domain.CheckProblem{}}

	doc, err := loadDoc(filepath.Join(outDir, IndexName))
	if err != nil {
		return rep, err
	}

	checkStylesheets(outDir, IndexName, doc, &rep)

	seenPages := map[string]struct{}{}
	doc.Find(".container img").Each(func(_ int, s *goquery.Selection) {
		rep.Images++
		src, _ := s.Attr("src")
		name, ok := imgName(src)
		if !ok {
			rep.Problems = append(rep.Problems, domain.CheckProblem{
				Kind: "image", Ref: src, Msg: "图片引用不在 ./imgs/ 下",
			})
			return
		}
		if !exists(filepath.Join(outDir, ImgDir, name)) {
			rep.Problems = append(rep.Problems, domain.CheckProblem{
				Kind: "image", Ref: src, Msg: "图片文件不存在",
			})
		}

		page, err := PageName(name)
		if err != nil {
			rep.Problems = append(rep.Problems, domain.CheckProblem{
				Kind: "page", Ref: name, Msg: err.Error(),
			})
			return
		}
		if _, dup := seenPages[page]; dup {
			return
		}
		seenPages[page] = struct{}{}
		checkPage(outDir, page, name, &rep)
	})

	return rep, nil
}

func checkPage(outDir, page, name string, rep *domain.CheckReport) {
	doc, err := loadDoc(filepath.Join(outDir, page))
	if err != nil {
		rep.Problems = append(rep.Problems, domain.CheckProblem{
			Kind: "page", Ref: page, Msg: fmt.Sprintf("详情页不可读：%v", err),
		})
		return
	}
	src, ok := doc.Find("img.photo1").First().Attr("src")
	if !ok {
		rep.Problems = append(rep.Problems, domain.CheckProblem{
			Kind: "page", Ref: page, Msg: "详情页缺少 img.photo1",
		})
	} else if got, _ := imgName(src); got != name {
		rep.Problems = append(rep.Problems, domain.CheckProblem{
			Kind: "page", Ref: page, Msg: fmt.Sprintf("详情页指向 %q，期望 %q", src, "./"+ImgDir+"/"+name),
		})
	}
	checkStylesheets(outDir, page, doc, rep)
}

func checkStylesheets(outDir, from string, doc *goquery.Document, rep *domain.CheckReport) {
	doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimPrefix(href, "./")
		if href == "" || strings.Contains(href, "://") {
			return
		}
		if !exists(filepath.Join(outDir, filepath.FromSlash(href))) {
			rep.Problems = append(rep.Problems, domain.CheckProblem{
				Kind: "asset", Ref: href, Msg: fmt.Sprintf("%s 引用的样式表不存在", from),
			})
		}
	})
}

func loadDoc(path string) (*goquery.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(b))
}

// imgName 从 "./imgs/<name>" 中取出 name。
func imgName(src string) (string, bool) {
	const prefix = "./" + ImgDir + "/"
	if !strings.HasPrefix(src, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(src, prefix)
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

func exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
