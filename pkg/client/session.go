package client

import "sync"

// User : учетная запись, как ее отдает /me
type User struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	IsVerified  bool     `json:"isVerified"`
}

// Session : текущая личность на стороне клиента. Заполняется один раз при старте
// через Client.LoadSession и меняется при входе, выходе и неудачном обновлении токена.
type Session struct {
	mu   sync.RWMutex
	user *User
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) User() (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.user != nil
}

func (s *Session) Set(user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *Session) Clear() {
	s.Set(nil)
}
