package model

type User struct {
	ID       string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Username string `gorm:"column:username;not null;uniqueIndex" json:"username"`
	Password string `gorm:"column:password;not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}
