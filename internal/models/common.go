package models

const (
	MwSubjectKey = "subject"

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ImageAsset is a transiently fetched image: raw encoded bytes plus
// the content type declared by the upstream server.
type ImageAsset struct {
	Bytes       []byte
	ContentType string
}
