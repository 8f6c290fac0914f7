package user

// User represents a row of the p_user table.
type User struct {
	ID       int64  `json:"id"`        // ID is assigned by the backing store
	UserName string `json:"user_name"` // UserName is the display/login name, may be empty
}
