package constants

// 订单履约状态常量
const (
	OrderStatusProcessing     = "processing"
	OrderStatusShipped        = "shipped"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// 支付状态常量
const (
	PaymentStatusPending    = "pending"
	PaymentStatusPendingCOD = "pending_cod"
	PaymentStatusPaid       = "paid"
)

// 支付方式常量
const (
	PaymentMethodCOD = "COD"
)

// 通知类型常量
const (
	NotificationTypeOrderProcessing     = "order_processing"
	NotificationTypeOrderShipped        = "order_shipped"
	NotificationTypeOrderOutForDelivery = "order_out_for_delivery"
	NotificationTypeOrderDelivered      = "order_delivered"
	NotificationTypeOrderCancelled      = "order_cancelled"
)

// 队列常量
const (
	QueueDefault          = "default"
	TaskOrderNotification = "order:notification"
)

// 购物车与通知行为常量
const (
	GuestIDPrefix         = "guest_"
	NotificationListLimit = 50
	OrderReferenceLength  = 6
)
