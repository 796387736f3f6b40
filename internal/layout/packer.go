package layout

import (
	"github.com/John-Robertt/gallerygen/internal/domain"
)

const (
	// DisplayHeight 是所有图片在首页中缩放到的统一高度。
	DisplayHeight = 400
	// Margin 是每张图片额外计入的固定边距。
	Margin = 15
)

// Packer 以流式贪心的方式把图片分到三列，使各列按 DisplayHeight 渲染后的总宽度尽量接近。
//
// 规则（固定，输出需与既有站点一致）：
// - 按调用 Add 的顺序处理；前三张图依次强制放入第 0/1/2 列（seed）
// - 之后每张图放入当前最“轻”的列；比较顺序固定为 0 对 1，再与 2 比较，
//   相等时落到第 2 列（第 2 列因此在平局时略重，这是既有行为，不要“修正”）
// - 列内不重排
//
// Packer 不是并发安全的；零值不可用，请用 NewPacker。
type Packer struct {
	height uint
	margin uint

	seen int
	cols [domain.ColumnCount]domain.Column
}

func NewPacker() *Packer {
	return NewPackerWith(DisplayHeight, Margin)
}

// NewPackerWith 允许测试或调用方指定显示高度与边距。
func NewPackerWith(height, margin uint) *Packer {
	p := &Packer{height: height, margin: margin}
	for i := range p.cols {
		p.cols[i].Index = i
	}
	return p
}

// Contribution 返回图片缩放到 height 后的宽度贡献：floor(w*height/h) + margin。
// h==0 时只计入 margin（上游探测阶段已把 h==0 视为不支持的格式）。
func Contribution(width, height, displayHeight, margin uint) uint {
	if height == 0 {
		return margin
	}
	return width*displayHeight/height + margin
}

// Add 把一张图分配到某一列，并返回列下标。
func (p *Packer) Add(e domain.ImageEntry) int {
	w := Contribution(e.Width, e.Height, p.height, p.margin)

	var idx int
	if p.seen < domain.ColumnCount {
		idx = p.seen
	} else {
		idx = choose(p.cols[0].Width, p.cols[1].Width, p.cols[2].Width)
	}
	p.seen++

	c := &p.cols[idx]
	c.Members = append(c.Members, e.Name)
	c.Width += w
	return idx
}

// choose 实现固定的比较顺序（见 Packer 注释）。
func choose(w0, w1, w2 uint) int {
	if w0 < w1 {
		if w0 < w2 {
			return 0
		}
		return 2
	}
	if w1 < w2 {
		return 1
	}
	return 2
}

// Plan 返回当前分配结果的快照（之后继续 Add 不影响已返回的 plan）。
func (p *Packer) Plan() domain.LayoutPlan {
	total := 0
	for i := range p.cols {
		total += len(p.cols[i].Members)
	}

	plan := domain.LayoutPlan{
		Order: make([]string, 0, total),
		A1:    len(p.cols[0].Members),
		A2:    len(p.cols[1].Members),
	}
	for i := range p.cols {
		c := p.cols[i]
		c.Members = append([]string(nil), c.Members...)
		plan.Columns[i] = c
		plan.Order = append(plan.Order, c.Members...)
	}
	return plan
}

// Pack 是 Packer 的纯函数形式：相同输入 => 相同 plan。
// entries 必须已按处理顺序排好（见 scan.ListImages）。
func Pack(entries []domain.ImageEntry) domain.LayoutPlan {
	p := NewPacker()
	for _, e := range entries {
		p.Add(e)
	}
	return p.Plan()
}
