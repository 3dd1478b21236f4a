package pagination

import "github.com/gin-gonic/gin"

// 分页配置
// 预订和用户列表默认一屏20条，上限防止一次拉空整表
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// PageParams 列表查询的分页参数
type PageParams struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// PageInfo 返回给前端的分页信息
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ParsePageParams 从查询串解析分页参数，缺失或非法的值回退到默认值
func ParsePageParams(c *gin.Context) *PageParams {
	params := &PageParams{}
	_ = c.ShouldBindQuery(params)
	return params.Normalize()
}

// Normalize 把越界的分页参数收敛到合法区间
func (p *PageParams) Normalize() *PageParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset 数据库查询的偏移量
func (p *PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// NewPageInfo 计算分页信息
func NewPageInfo(page, pageSize int, total int64) *PageInfo {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &PageInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
