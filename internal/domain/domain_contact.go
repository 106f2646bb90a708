package domain

// Contact is a trusted contact owned by a user.
// Contact 用户的可信联系人
type Contact struct {
	UUID                    string
	UserUUID                string
	ContactUUID             string
	ContactPublicKey        string
	ContactSigningPublicKey string
	CreatedAtTimestamp      int64
	UpdatedAtTimestamp      int64
}
