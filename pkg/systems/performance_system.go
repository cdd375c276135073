package systems

import (
	"log"
	"math"

	"github.com/gonewx/legends/pkg/components"
	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/ecs"
)

// PerformanceMonitor 宿主渲染循环维护的性能分数
//
// 收到降级请求时分数立即降到 Min，Debounce 秒内没有新的降级请求则恢复到 Max。
type PerformanceMonitor struct {
	Min      float64
	Max      float64
	Debounce float64

	current   float64
	restoreAt float64
	regressed bool
}

// NewPerformanceMonitor 创建性能监视器，初始分数为 Max
func NewPerformanceMonitor(cfg config.PerformanceConfig) *PerformanceMonitor {
	return &PerformanceMonitor{
		Min:      cfg.MonitorMin,
		Max:      cfg.MonitorMax,
		Debounce: cfg.MonitorDebounce,
		current:  cfg.MonitorMax,
	}
}

// Current 当前性能分数
func (m *PerformanceMonitor) Current() float64 {
	return m.current
}

// Regressed 是否处于降级状态
func (m *PerformanceMonitor) Regressed() bool {
	return m.regressed
}

// Regress 请求降级，now 为当前时间（秒）
func (m *PerformanceMonitor) Regress(now float64) {
	if !m.regressed {
		log.Printf("[PerformanceMonitor] 降级: %.2f -> %.2f", m.current, m.Min)
	}
	m.current = m.Min
	m.regressed = true
	m.restoreAt = now + m.Debounce
}

// Update 到达恢复时间后把分数恢复到 Max
func (m *PerformanceMonitor) Update(now float64) {
	if m.regressed && now >= m.restoreAt {
		m.current = m.Max
		m.regressed = false
		log.Printf("[PerformanceMonitor] 恢复: %.2f", m.current)
	}
}

// GovernorSample 调节器一次采样的结果
type GovernorSample struct {
	Regress      bool
	PixelDensity float64
}

// SampleGovernor 记录一帧的时间戳并给出降级请求和像素密度
//
// score 由宿主提供，缺失（NaN）或超出 [0,1] 时按健康处理。
// 像素密度只在 1.0 和 native 之间切换。
func SampleGovernor(state *components.PerformanceComponent, elapsed, score, native, slowFPS float64) GovernorSample {
	state.PrevElapsed = state.Elapsed
	state.Elapsed = elapsed

	var out GovernorSample
	fps := 1 / (state.Elapsed - state.PrevElapsed)
	if fps < slowFPS {
		state.SlowFrameCount++
		out.Regress = true
	} else {
		state.SlowFrameCount = 0
	}

	if native <= 0 || math.IsNaN(native) || math.IsInf(native, 0) {
		native = 1
	}
	if scoreDegraded(score) {
		state.PixelDensity = 1
	} else {
		state.PixelDensity = native
	}
	out.PixelDensity = state.PixelDensity
	return out
}

func scoreDegraded(score float64) bool {
	if math.IsNaN(score) || score < 0 || score > 1 {
		return false
	}
	return score < 1
}

// PerformanceSystem 对每张卡牌采样帧时间，驱动性能监视器并输出像素密度
type PerformanceSystem struct {
	entityManager *ecs.EntityManager
	monitor       *PerformanceMonitor
	slowFPS       float64
	nativeDensity func() float64
	density       float64
}

// NewPerformanceSystem 创建性能调节系统
//
// nativeDensity 返回设备原生像素比，为 nil 时视为 1。
func NewPerformanceSystem(em *ecs.EntityManager, monitor *PerformanceMonitor, cfg config.PerformanceConfig, nativeDensity func() float64) *PerformanceSystem {
	if nativeDensity == nil {
		nativeDensity = func() float64 { return 1 }
	}
	return &PerformanceSystem{
		entityManager: em,
		monitor:       monitor,
		slowFPS:       cfg.SlowFPS,
		nativeDensity: nativeDensity,
		density:       1,
	}
}

// Update 以墙钟时间 elapsed（秒）采样所有卡牌
func (s *PerformanceSystem) Update(elapsed float64) {
	s.monitor.Update(elapsed)
	native := s.nativeDensity()

	for _, id := range ecs.GetEntitiesWith1[*components.PerformanceComponent](s.entityManager) {
		perf, _ := ecs.GetComponent[*components.PerformanceComponent](s.entityManager, id)
		sample := SampleGovernor(perf, elapsed, s.monitor.Current(), native, s.slowFPS)
		if sample.Regress {
			s.monitor.Regress(elapsed)
		}
		s.density = sample.PixelDensity
	}
}

// PixelDensity 最近一次采样得到的输出像素密度
func (s *PerformanceSystem) PixelDensity() float64 {
	return s.density
}

// Monitor 返回性能监视器
func (s *PerformanceSystem) Monitor() *PerformanceMonitor {
	return s.monitor
}
