package entity

// User represents a user in the system
type User struct {
	Id          int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Username    string `json:"username" gorm:"column:username;uniqueIndex;size:64"`
	DisplayName string `json:"display_name" gorm:"column:display_name;size:128"`
	Avatar      string `json:"avatar" gorm:"column:avatar"`
	Bio         string `json:"bio" gorm:"column:bio"`
	Password    string `json:"-" gorm:"column:password"`
	Status      string `json:"status" gorm:"column:status;size:16;default:OFFLINE"`
	LastSeenAt  int64  `json:"last_seen_at" gorm:"column:last_seen_at"`
	CreatedAt   int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt   int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// UserInfo represents public user info (without password)
type UserInfo struct {
	Id          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	Bio         string `json:"bio,omitempty"`
	Status      string `json:"status"`
	LastSeenAt  int64  `json:"last_seen_at"`
	CreatedAt   int64  `json:"created_at"`
}

// ToUserInfo converts User to UserInfo
func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		Id:          u.Id,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
		Bio:         u.Bio,
		Status:      u.Status,
		LastSeenAt:  u.LastSeenAt,
		CreatedAt:   u.CreatedAt,
	}
}
