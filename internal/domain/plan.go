package domain

// ColumnCount 是瀑布流的固定列数。
const ColumnCount = 3

// Column 是一列图片（只追加，不重排）。
//
// Width 近似该列全部图片按固定高度缩放后的总宽度（含每张图的固定边距）。
type Column struct {
	Index   int
	Members []string
	Width   uint
}

// LayoutPlan 是 Packer 交给首页生成器的唯一产物。
//
// 约束：
// - Order = col0 ++ col1 ++ col2（列内保持分配顺序）
// - A1 = len(col0)，A2 = len(col1)；col2 的长度 = len(Order) - A1 - A2
type LayoutPlan struct {
	Order   []string
	A1      int
	A2      int
	Columns [ColumnCount]Column
}

// Len 返回计划中的图片总数。
func (p LayoutPlan) Len() int { return len(p.Order) }
