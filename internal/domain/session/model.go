package session

import "time"

// Admin - текущий пользователь панели.
type Admin struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	JobTitle  string    `json:"job_title"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Permission описывает права роли для показа в профиле.
func (a Admin) Permission() string {
	switch a.Role {
	case "1":
		return "only read"
	case "2":
		return "read and add"
	case "3":
		return "read, add and update"
	default:
		return "all permission"
	}
}

// Equal сравнивает записи администратора поле за полем.
func (a Admin) Equal(other Admin) bool {
	return a.ID == other.ID &&
		a.Name == other.Name &&
		a.Email == other.Email &&
		a.JobTitle == other.JobTitle &&
		a.Role == other.Role &&
		a.CreatedAt.Equal(other.CreatedAt) &&
		a.UpdatedAt.Equal(other.UpdatedAt)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInData struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}

// ProfileUpdate - изменения профиля. Пароли отправляются только парой.
type ProfileUpdate struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	OldPassword string `json:"password,omitempty"`
	NewPassword string `json:"new_password,omitempty"`
}

func (p ProfileUpdate) body() ProfileUpdate {
	if p.OldPassword == "" || p.NewPassword == "" {
		p.OldPassword, p.NewPassword = "", ""
	}
	return p
}
