package framework

import (
	"context"
	"fmt"
)

// PreProcessor 顺序执行的处理函数链（Handler 用来串 校验 → 执行 等步骤）
type PreProcessor struct {
	steps []ProcessorFunc
}

// NewPreProcessor 创建函数链
func NewPreProcessor(steps ...ProcessorFunc) *PreProcessor {
	return &PreProcessor{steps: steps}
}

// Run 按序执行，任一步骤出错立即短路返回
// 错误用 %w 包装，调用方可沿错误链判断可重试性
func (p *PreProcessor) Run(ctx context.Context) error {
	for i, step := range p.steps {
		if err := step(ctx); err != nil {
			return fmt.Errorf("step[%d] failed: %w", i, err)
		}
	}
	return nil
}
