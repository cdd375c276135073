package components

import "github.com/gonewx/legends/pkg/utils"

// SpringMode 弹簧参数选择
type SpringMode int

const (
	// SpringSettle 悬停进入/离开、点击等离散事件之后使用，回弹更快
	SpringSettle SpringMode = iota
	// SpringTracking 指针持续移动时使用，更重更慢以平滑抖动
	SpringTracking
)

func (m SpringMode) String() string {
	if m == SpringTracking {
		return "tracking"
	}
	return "settle"
}

// PointerState 归一化到 [-1,1] 的指针位置
type PointerState struct {
	X, Y     float64
	Hovering bool
}

// TiltState 设备旋转速率（度/秒），使用前会被截断
type TiltState struct {
	Alpha, Beta, Gamma float64
}

// OrientationComponent 卡牌的朝向输入状态
type OrientationComponent struct {
	// Flip 为 true 时正面朝向相机
	Flip    bool
	Pointer PointerState
	Tilt    TiltState

	// Mode 本帧使用的弹簧参数
	Mode SpringMode
	// Moved 本帧指针是否移动过，由输入系统设置、朝向系统消费
	Moved bool

	// Target 最近一次计算出的目标
	TargetRotation utils.Vec3
	TargetPosition utils.Vec3
}

// SpringComponent 当前渲染的（可能滞后于目标的）变换
type SpringComponent struct {
	Rotation utils.Spring3
	Position utils.Spring3
}

// TransformComponent 卡牌的世界变换，由朝向系统每帧写入
type TransformComponent struct {
	utils.Transform
}
