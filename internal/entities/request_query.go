package entities

type RequestQuery struct {
	// filter by status
	Status RequestStatus
	// filter by area
	Area Area
	// filter by request number prefix - this makes it easy to get everything in a given month
	NumberPrefix string
	// filter by payee type
	PayeeType PayeeType
}
