package domain

// AccountType distinguishes the two marketplace roles.
type AccountType string

const (
	// AccountSeeker rents storage space.
	AccountSeeker AccountType = "seeker"
	// AccountProvider offers storage space.
	AccountProvider AccountType = "provider"
)

// Valid reports whether the account type is one of the known roles.
func (t AccountType) Valid() bool {
	return t == AccountSeeker || t == AccountProvider
}

// Account is a registered marketplace user.
type Account struct {
	ID           int64
	Type         AccountType
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	BusinessName string // providers only
	CreatedAt    int64  // unix millis
}
