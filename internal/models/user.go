package models

// User is a row of the user table.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	// Password is stored and compared as plaintext. Known weakness, kept as-is.
	Password string `json:"-"`
}
