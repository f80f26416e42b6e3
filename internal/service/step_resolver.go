package service

import (
	"career_os_backend/internal/model"
	"career_os_backend/internal/util"
	"sort"
)

// NextStep 计算下一个可学步骤：按 StepOrder 升序扫描，返回第一个
// 未完成且前置步骤全部完成的步骤。全部完成时返回 (nil, nil)；
// 仍有未完成步骤但没有任何步骤可达时说明存储的图已损坏，
// 返回 ErrGraphDeadlock 与"已完成"区分开。
// 纯函数，只依赖两个入参，不读外部状态
func NextStep(steps []model.PathStep, completed map[string]bool) (*model.PathStep, error) {
	ordered := make([]*model.PathStep, 0, len(steps))
	for i := range steps {
		ordered = append(ordered, &steps[i])
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].StepOrder < ordered[j].StepOrder
	})

	remaining := 0
	for _, step := range ordered {
		if completed[step.ID] {
			continue
		}
		remaining++

		eligible := true
		for _, prereqID := range step.PrerequisiteIDs() {
			if !completed[prereqID] {
				eligible = false
				break
			}
		}
		if eligible {
			return step, nil
		}
	}

	if remaining > 0 {
		return nil, util.ErrGraphDeadlock
	}
	return nil, nil
}

// ValidateStepGraph 在路径构建时校验步骤图：
//   - 前置步骤必须属于同一路径（跨路径引用直接拒绝）
//   - 前置关系必须无环（Kahn 拓扑排序，排不完即有环）
func ValidateStepGraph(steps []model.PathStep) error {
	ids := make(map[string]bool, len(steps))
	for i := range steps {
		ids[steps[i].ID] = true
	}

	// 邻接表与入度，键为步骤 ID
	indegree := make(map[string]int, len(steps))
	dependents := make(map[string][]string, len(steps))
	for i := range steps {
		step := &steps[i]
		if _, ok := indegree[step.ID]; !ok {
			indegree[step.ID] = 0
		}
		for _, prereqID := range step.PrerequisiteIDs() {
			if !ids[prereqID] {
				return util.ErrForeignPrereq
			}
			indegree[step.ID]++
			dependents[prereqID] = append(dependents[prereqID], step.ID)
		}
	}

	queue := make([]string, 0, len(steps))
	for id, deg := range indegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	processed := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		processed++
		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if processed != len(steps) {
		return util.ErrGraphDeadlock
	}
	return nil
}
