package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// MotionPermission 设备运动权限状态
type MotionPermission string

const (
	MotionUndetermined MotionPermission = "undetermined"
	MotionGranted      MotionPermission = "granted"
	MotionDenied       MotionPermission = "denied"
)

// Valid 是否为已知的权限状态
func (p MotionPermission) Valid() bool {
	switch p {
	case MotionUndetermined, MotionGranted, MotionDenied:
		return true
	}
	return false
}

// ViewerSettings 查看器设置
// 只属于外壳程序，渲染核心不读取也不持久化任何状态
type ViewerSettings struct {
	Fullscreen bool             `yaml:"fullscreen"` // 启动时是否全屏
	Motion     MotionPermission `yaml:"motion"`     // 设备运动权限
	LastIndex  int              `yaml:"lastIndex"`  // 上次查看的卡牌编号
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		Fullscreen: false,
		Motion:     MotionUndetermined,
		LastIndex:  0,
	}
}

// SettingsManager 设置管理器
// 负责查看器设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建新的设置管理器实例
//
// gdataManager 可为 nil（降级模式，仅内存设置）。加载失败只记录日志，使用默认设置。
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或设置不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if !loaded.Motion.Valid() {
		loaded.Motion = MotionUndetermined
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetFullscreen 设置全屏模式
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetMotionPermission 记录设备运动权限；未知状态按 undetermined 处理
func (sm *SettingsManager) SetMotionPermission(p MotionPermission) {
	if !p.Valid() {
		p = MotionUndetermined
	}
	sm.settings.Motion = p
}

// MotionGranted 是否已获得设备运动权限
func (sm *SettingsManager) MotionGranted() bool {
	return sm.settings.Motion == MotionGranted
}

// SetLastIndex 记录上次查看的卡牌编号，负数忽略
func (sm *SettingsManager) SetLastIndex(index int) {
	if index < 0 {
		return
	}
	sm.settings.LastIndex = index
}
