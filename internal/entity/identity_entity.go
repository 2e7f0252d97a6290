package entity

type IdentitySource string

const (
	// IdentitySourceVerified means the subject came from a token whose signature was checked.
	IdentitySourceVerified IdentitySource = "verified"
	// IdentitySourceUnverified means the subject was read from a bearer payload without any check.
	IdentitySourceUnverified IdentitySource = "unverified"
)

type Identity struct {
	Subject string
	Source  IdentitySource
}

func (i Identity) Verified() bool {
	return i.Source == IdentitySourceVerified
}
