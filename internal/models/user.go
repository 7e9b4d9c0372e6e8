package models

// User is the profile document stored in the remote "users" collection,
// keyed by the authenticator's stable user id.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
	PhotoURL    string `json:"photoUrl"`
	Bio         string `json:"bio"`
}
