package model

// User represents an account record in the users collection.
//
// Secret is a bcrypt hash. It must be serialized so the collection file holds
// it, which is why API responses go through UserResponse instead of User.
type User struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

// UserResponse is the API-facing view of a user. Secrets never leave the
// persistence layer.
type UserResponse struct {
	ID string `json:"id"`
}
