package user

// ListUsersResponse represents the response payload for user listing.
// Users is never nil; an empty table yields an empty slice.
type ListUsersResponse struct {
	Users []User
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID       int64
	UserName string
}
