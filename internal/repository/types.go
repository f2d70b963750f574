package repository

import "time"

// OrderListFilter 后台订单列表的筛选条件，零值字段不参与过滤
type OrderListFilter struct {
	UserID      uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PageSize    int
}
