package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/John-Robertt/gallerygen/internal/domain"
)

// 保留文件：与图片放在同一个源目录，但不参与画廊（不探测、不生成页面、不进首页）。
const (
	MainCSS = "main.css"
	EachCSS = "each.css"
	Icon    = "f.ico"
)

// Stylesheets 是需要额外复制到输出根目录的样式文件（必须存在）。
var Stylesheets = []string{MainCSS, EachCSS}

// IsReserved 按文件名精确匹配保留文件。
func IsReserved(name string) bool {
	switch name {
	case MainCSS, EachCSS, Icon:
		return true
	default:
		return false
	}
}

// ListSource 列出源目录下的全部条目：先按文件名排序，再整体反转（字典序降序）。
//
// 规则（硬约束）：
// - 反转是固定的展示顺序（时间戳文件名“新的在前”），不可改成其他排序
// - 只看一层；子目录视为错误（既无法复制也无法探测），整个运行中止
// - 扫描阶段不读文件内容
func ListSource(dir string) ([]domain.SourceFile, error) {
	dir = filepath.Clean(dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]domain.SourceFile, 0, len(entries))
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if e.IsDir() {
			return nil, fmt.Errorf("源目录中不允许子目录：%q", p)
		}
		files = append(files, domain.SourceFile{
			AbsPath: p,
			Name:    e.Name(),
		})
	}

	// os.ReadDir 已按文件名排序；这里显式再排一次，不依赖其实现细节。
	sort.Slice(files, func(i, j int) bool { return files[i].Name > files[j].Name })
	return files, nil
}

// Images 从 ListSource 的结果中去掉保留文件，保持原有顺序。
func Images(files []domain.SourceFile) []domain.SourceFile {
	out := make([]domain.SourceFile, 0, len(files))
	for _, f := range files {
		if IsReserved(f.Name) {
			continue
		}
		out = append(out, f)
	}
	return out
}
