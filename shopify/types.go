package shopify

type ProductRequest struct {
	Product NewProduct `json:"product"`
}

type NewProduct struct {
	Title       string       `json:"title"`
	BodyHTML    string       `json:"body_html"`
	Vendor      string       `json:"vendor"`
	ProductType string       `json:"product_type"`
	Status      string       `json:"status"`
	Variants    []NewVariant `json:"variants"`
	Images      []NewImage   `json:"images,omitempty"`
}

type NewVariant struct {
	Price string `json:"price"`
	SKU   string `json:"sku,omitempty"`
}

type NewImage struct {
	Src string `json:"src"`
}

type ProductResponse struct {
	Product Product `json:"product"`
}

type Product struct {
	Id     int64  `json:"id"`
	Handle string `json:"handle"`
}
