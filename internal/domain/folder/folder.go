package folder

import (
	"time"

	"github.com/memodeck/backend/internal/id"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Folder is a shared deck of flashcards. Anyone holding the join code can
// become a member; only members may read or study its cards.
type Folder struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	OwnerID   string    `db:"owner_id"`
	JoinCode  string    `db:"join_code"`
	CreatedAt time.Time `db:"created_at"`
	Members   []Member
}

type Member struct {
	FolderID string `db:"folder_id"`
	UserID   string `db:"user_id"`
	Role     Role   `db:"role"`
}

// New creates a folder owned by ownerID. The owner is its first member.
func New(name, ownerID string) *Folder {
	f := &Folder{
		ID:        id.New(),
		Name:      name,
		OwnerID:   ownerID,
		JoinCode:  id.NewJoinCode(),
		CreatedAt: time.Now(),
	}
	f.Members = []Member{{FolderID: f.ID, UserID: ownerID, Role: RoleOwner}}
	return f
}

// MemberRole returns the role of userID in the folder, or "" if they are
// not a member.
func (f *Folder) MemberRole(userID string) Role {
	for _, m := range f.Members {
		if m.UserID == userID {
			return m.Role
		}
	}
	return ""
}

func (f *Folder) IsMember(userID string) bool {
	return f.MemberRole(userID) != ""
}
