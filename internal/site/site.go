package site

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/John-Robertt/gallerygen/internal/domain"
)

// DefaultBaseURL 是社交预览元数据（og:url / og:image）指向的站点地址。
const DefaultBaseURL = "https://slnq.github.io/photos"

// IndexName 是首页文件名。
const IndexName = "index.html"

// ImgDir 是输出目录下存放图片副本的子目录名（页面里以 ./imgs/<name> 引用）。
const ImgDir = "imgs"

//go:embed templates/*.tmpl
var templateFS embed.FS

// 模板只做字符串替换（文件名 / 基础名 / 站点地址）；用 text/template 保证文件名原样写入。
var tmpl = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// MissingExtensionError 表示文件名没有扩展名（或基础名为空），无法推导详情页文件名。
type MissingExtensionError struct {
	Name string
}

func (e *MissingExtensionError) Error() string {
	return fmt.Sprintf("文件名缺少扩展名，无法生成详情页：%q", e.Name)
}

// IsMissingExtension 判断 err 是否为 MissingExtensionError。
func IsMissingExtension(err error) bool {
	var e *MissingExtensionError
	return errors.As(err, &e)
}

// PageConflictError 表示两张图片推导出同一个详情页（如 a.jpg 与 a.png），
// 或详情页与首页同名（index.jpg）。Other 为空时冲突对象是首页。
type PageConflictError struct {
	Name  string
	Page  string
	Other string
}

func (e *PageConflictError) Error() string {
	if e.Other == "" {
		return fmt.Sprintf("详情页 %s 与首页同名：%q", e.Page, e.Name)
	}
	return fmt.Sprintf("详情页 %s 冲突：%q 与 %q", e.Page, e.Other, e.Name)
}

// IsPageConflict 判断 err 是否为 PageConflictError。
func IsPageConflict(err error) bool {
	var e *PageConflictError
	return errors.As(err, &e)
}

// BaseName 返回第一个 '.' 之前的部分（"a.b.jpg" -> "a"）。
func BaseName(name string) (string, error) {
	i := strings.IndexByte(name, '.')
	if i <= 0 {
		return "", &MissingExtensionError{Name: name}
	}
	return name[:i], nil
}

// PageName 返回图片对应的详情页文件名（<base>.html）。
func PageName(name string) (string, error) {
	base, err := BaseName(name)
	if err != nil {
		return "", err
	}
	return base + ".html", nil
}

type pageData struct {
	Name    string
	Base    string
	BaseURL string
}

// RenderPage 渲染单张图片的详情页。
func RenderPage(name, baseURL string) ([]byte, error) {
	base, err := BaseName(name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "page.html.tmpl", pageData{
		Name:    name,
		Base:    base,
		BaseURL: normBaseURL(baseURL),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// IndexItem 是首页中的一个 <img>。
type IndexItem struct {
	Name   string
	Column int
	Class  string // 第 0 列为 d1，其余为 photo
	Last   bool   // 第 0 列末尾、第 1 列末尾、全体末尾：id="lst"
	Break  bool   // 在 A1 与 A1+A2 处插入分隔
}

// IndexItems 根据 plan 计算首页每个元素的标记（纯函数，便于单测）。
func IndexItems(plan domain.LayoutPlan) []IndexItem {
	n := plan.Len()
	a1, a2 := plan.A1, plan.A2

	items := make([]IndexItem, 0, n)
	for i, name := range plan.Order {
		it := IndexItem{Name: name, Class: "photo"}
		switch {
		case i < a1:
			it.Column = 0
			it.Class = "d1"
		case i < a1+a2:
			it.Column = 1
		default:
			it.Column = 2
		}
		it.Last = i == a1-1 || i == a1+a2-1 || i == n-1
		// a2==0 时两个边界重合，只插入一次。
		it.Break = i+1 == a1 || i+1 == a1+a2
		items = append(items, it)
	}
	return items
}

// RenderIndex 渲染首页；空 plan 得到一个空容器（脚本对空列表是安全的）。
func RenderIndex(plan domain.LayoutPlan) ([]byte, error) {
	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "index.html.tmpl", struct {
		Items []IndexItem
	}{
		Items: IndexItems(plan),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func normBaseURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		u = DefaultBaseURL
	}
	return strings.TrimRight(u, "/")
}
