package models

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// PatchRequest carries both the document and the patch as serialized
// JSON text; each is parsed independently so a malformed document and
// a malformed patch stay distinguishable failures.
type PatchRequest struct {
	JSONObject string `json:"json_object"`
	JSONPatch  string `json:"json_patch"`
}

type ThumbnailRequest struct {
	ImageURL string `json:"image_url"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
