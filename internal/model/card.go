package model

// Card is a business card owned by exactly one user. Owner never changes
// after creation.
type Card struct {
	ID      string `json:"id" db:"id" bson:"id"`
	Owner   string `json:"owner" db:"owner" bson:"owner"`
	Name    string `json:"name" db:"name" bson:"name"`
	Title   string `json:"title" db:"title" bson:"title"`
	Company string `json:"company" db:"company" bson:"company"`
	Email   string `json:"email" db:"email" bson:"email"`
	Phone   string `json:"phone" db:"phone" bson:"phone"`
	Ctime   int64  `json:"ctime" db:"ctime" bson:"ctime"`
}
