package nats

// Stream and subject names
const (
	OrdersStreamName = "LOFT_ORDERS"
	SubjectOrderPaid = "orders.paid"
	SubjectOrders    = "orders.>"
)
