package domain

type Product struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Price       float64 `json:"price" bson:"price"`
	Description string  `json:"description" bson:"description"`
	Image       string  `json:"image" bson:"image"`
	Stock       int     `json:"stock" bson:"stock"`
}
