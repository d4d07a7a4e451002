package models

// User — корневой агрегат. Удаляется только через каскадный оркестратор.
type User struct {
	ID           int64  `json:"id" db:"id"`
	FirstName    string `json:"first_name" db:"firstname"`
	LastName     string `json:"last_name" db:"lastname"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"passwordhash"`
	Role         string `json:"role" db:"role"`
	ProfileImage string `json:"profile_image,omitempty" db:"profileimage"`
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
