package types

type UserResponse struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// ContentTypes are the accepted values for Content.Type.
var ContentTypes = []string{"text", "image", "audio", "youtube", "twitter", "notion", "url"}

func ValidContentType(t string) bool {
	for _, ct := range ContentTypes {
		if t == ct {
			return true
		}
	}
	return false
}
