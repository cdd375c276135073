package components

// HoverComponent 指针命中状态
type HoverComponent struct {
	// Inside 指针当前是否在卡牌轮廓内
	Inside bool
	// LocalX, LocalY 最近一次命中点（卡牌局部坐标）
	LocalX, LocalY float64
	// LastScreenX, LastScreenY 上一帧指针屏幕坐标，用于判断是否移动
	LastScreenX, LastScreenY float64
	// HasLast 是否已记录过指针位置
	HasLast bool
}
