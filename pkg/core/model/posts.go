package model

// PostID identifies a fixed volunteer role within a shift
type PostID string

const (
	PostEntry     PostID = "entry"
	PostMerch     PostID = "merch"
	PostCloakroom PostID = "cloakroom"
	PostSecurity  PostID = "security"
	PostDJ        PostID = "dj"
	PostPhoto     PostID = "photo"
	PostBreak     PostID = "break"
)

// Posts is the display order of every post
var Posts = []PostID{
	PostEntry,
	PostMerch,
	PostCloakroom,
	PostSecurity,
	PostDJ,
	PostPhoto,
	PostBreak,
}

var postLabels = map[PostID]string{
	PostEntry:     "Entry",
	PostMerch:     "Merch",
	PostCloakroom: "Cloakroom",
	PostSecurity:  "Security",
	PostDJ:        "DJ",
	PostPhoto:     "Photo",
	PostBreak:     "Break",
}

func (p PostID) IsValid() bool {
	_, ok := postLabels[p]
	return ok
}

// Label returns the display label, or the raw id for unknown posts
func (p PostID) Label() string {
	if label, ok := postLabels[p]; ok {
		return label
	}
	return string(p)
}
