package entities

import "time"

// User is the server-side account record stored behind the `user:{email}`
// and `user:id:{id}` cache keys. Credential issuance happens elsewhere;
// this subsystem only stores and reads the record.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
