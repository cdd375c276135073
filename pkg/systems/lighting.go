package systems

import (
	"math"

	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/utils"
)

// viewDirection 视线方向（从表面指向观察者），观察相机固定在 +Z 方向
var viewDirection = utils.Vec3{Z: 1}

// PhongMaterial 油墨与侧边共用的 Phong 参数
type PhongMaterial struct {
	Base              config.LinearColor
	Specular          config.LinearColor
	Emissive          config.LinearColor
	EmissiveIntensity float64
	Shininess         float64
}

// ShadePhong 计算世界空间法线 n 处的颜色（线性空间）
func ShadePhong(n utils.Vec3, m PhongMaterial, rig *config.LightRig) config.LinearColor {
	var diffuse, spec float64
	for _, l := range rig.Lights {
		dir := l.Direction()
		d := n.Dot(dir)
		if d <= 0 {
			continue
		}
		diffuse += d * l.Intensity
		h := dir.Add(viewDirection).Normalize()
		if s := n.Dot(h); s > 0 {
			spec += math.Pow(s, m.Shininess) * l.Intensity
		}
	}
	return m.Base.Scale(diffuse).
		Add(m.Specular.Scale(spec)).
		Add(m.Emissive.Scale(m.EmissiveIntensity))
}

// ShadeLambert 只有漫反射的暗色材质
func ShadeLambert(n utils.Vec3, tint config.LinearColor, rig *config.LightRig) config.LinearColor {
	return tint.Scale(rig.Diffuse(n))
}
