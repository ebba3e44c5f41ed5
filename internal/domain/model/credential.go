package model

import "time"

// Credential is the stored API secret for the completion endpoint. Key is the
// fixed storage key; Value is the plaintext secret at the domain boundary.
type Credential struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
