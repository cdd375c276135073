package utils

import "math"

// EaseInOutCubic 三次方缓入缓出，t ∈ [0, 1]
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	t = Clamp(t, 0, 1)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Pulse 周期为 period 秒的往返脉冲，返回 [0, 1]
// 前半周期由 0 缓动到 1，后半周期缓动回 0。period <= 0 时恒为 1。
func Pulse(elapsed, period float64) float64 {
	if period <= 0 {
		return 1
	}
	phase := math.Mod(elapsed, period) / period
	if phase < 0 {
		phase += 1
	}
	if phase < 0.5 {
		return EaseInOutCubic(phase * 2)
	}
	return EaseInOutCubic((1 - phase) * 2)
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
