package orders

type Status string

const (
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusPaid            Status = "paid"
	StatusConfirmed       Status = "confirmed"
	StatusDelivered       Status = "delivered"
	StatusRejected        Status = "rejected"
	StatusCancelled       Status = "cancelled"
)

var validNext = map[Status]map[Status]bool{
	StatusAwaitingPayment: {StatusPaid: true, StatusConfirmed: true, StatusRejected: true, StatusCancelled: true},
	StatusPaid:            {StatusConfirmed: true, StatusDelivered: true, StatusRejected: true, StatusCancelled: true},
	StatusConfirmed:       {StatusDelivered: true, StatusRejected: true, StatusCancelled: true},
	StatusDelivered:       {},
	StatusRejected:        {},
	StatusCancelled:       {},
}

func ValidStatus(s Status) bool {
	_, ok := validNext[s]
	return ok
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
