package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// WritePlan 将画布规划输出到 path，便于调试或脚本消费。
// .yaml/.yml 输出 YAML，其余扩展名输出缩进 JSON。
func WritePlan(plan Plan, path string) error {
	data, err := MarshalPlan(plan, path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// MarshalPlan encodes plan in the format implied by path's extension.
func MarshalPlan(plan Plan, path string) ([]byte, error) {
	if plan.Layers == nil {
		plan.Layers = []Layer{}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(plan)
	default:
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}
