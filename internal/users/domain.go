package users

// Address is the optional postal address linked from a user record.
type Address struct {
	ID         int64
	Address1   string
	Address2   *string
	City       string
	State      string
	Country    string
	Postalcode string
	AptNum     *int
}
