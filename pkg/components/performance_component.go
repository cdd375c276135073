package components

// PerformanceComponent 帧时间统计与输出像素密度
type PerformanceComponent struct {
	Elapsed        float64 // 当前帧时间戳（秒）
	PrevElapsed    float64 // 上一帧时间戳（秒）
	SlowFrameCount int
	PixelDensity   float64 // 只取 1.0 或设备原生像素比
}
