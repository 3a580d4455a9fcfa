package dto

type CreateMenuRequest struct {
	Name     string `json:"name"`
	Price    int    `json:"price"`
	ImgURL   string `json:"imgUrl"`
	Category string `json:"category"`
	Email    string `json:"email"`
}

type ModifyMenuRequest struct {
	Name   string `json:"name"`
	Price  int    `json:"price"`
	ImgURL string `json:"imgUrl"`
	Email  string `json:"email"`
}

type DeleteMenuRequest struct {
	Email string `json:"email"`
}

type MenuResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	ImgURL   string `json:"imgUrl"`
	Category string `json:"category"`
}
