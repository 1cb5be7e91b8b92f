package domains

import (
	"mip/dpdash/internal/business"
	"mip/dpdash/internal/domains/common"
	costlink "mip/dpdash/internal/domains/handlers/cost/link"
	"mip/dpdash/internal/domains/handlers/dashboard/refresh"
	"mip/dpdash/internal/model"
)

// Deps Handler 依赖集合（由 Manager 初始化并注入）
type Deps struct {
	Dashboard *business.DashboardService
	CostLink  *business.CostLinkService
}

// BuildHandlerMap 构建路由表（ActionType → Handler 构造函数）
func BuildHandlerMap(deps *Deps) map[string]common.HandlerServProc {
	return map[string]common.HandlerServProc{
		model.ActionDashboardRefresh: refresh.NewHandler(deps.Dashboard),
		model.ActionCostLink:         costlink.NewHandler(deps.CostLink),

		// 未来扩展示例：
		// model.ActionCostImport: costimport.NewHandler(deps.CostImport),
	}
}
