package dto

// CreateBookRequest HTTP图书上架请求
type CreateBookRequest struct {
	ISBN        string `json:"isbn" binding:"required" example:"9787115428028"`
	Title       string `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Author      string `json:"author" binding:"required,max=100" example:"威廉·肯尼迪"`
	Publisher   string `json:"publisher" binding:"max=100" example:"人民邮电出版社"`
	Price       int64  `json:"price" binding:"required,min=0,max=99999999" example:"5900"` // 价格(分)
	Currency    string `json:"currency" binding:"omitempty,len=3" example:"CNY"`
	Description string `json:"description" binding:"max=5000"`
}

// ChangePriceRequest HTTP改价请求
type ChangePriceRequest struct {
	Price int64 `json:"price" binding:"min=0,max=99999999" example:"4900"` // 新价格(分)
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID          uint   `json:"id" example:"1"`
	ISBN        string `json:"isbn" example:"9787115428028"`
	Title       string `json:"title" example:"Go语言实战"`
	Author      string `json:"author" example:"威廉·肯尼迪"`
	Publisher   string `json:"publisher" example:"人民邮电出版社"`
	Price       int64  `json:"price" example:"5900"`
	PriceYuan   string `json:"price_yuan" example:"59.00"`
	Currency    string `json:"currency" example:"CNY"`
	Description string `json:"description"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
}
