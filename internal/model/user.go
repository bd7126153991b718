package model

type User struct {
	Email        string `json:"email" db:"email" bson:"email"`
	PasswordHash string `json:"-" db:"password_hash" bson:"password_hash"`
	Ctime        int64  `json:"ctime" db:"ctime" bson:"ctime"`
}
