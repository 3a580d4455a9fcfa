package core

type OrderParams struct {
	Port        int
	MaxQuantity int
}

const (
	// Default ceiling for the summed quantity of one order.
	DefaultMaxQuantity = 100

	MinItemCount = 1

	MinAddressLen = 1
	MaxAddressLen = 200

	// in seconds for db response
	WaitTime = 20

	MBReconnInterval = 5
)
