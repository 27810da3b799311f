package model

// ProductStatus is derived from the price and never stored on its own.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// StatusForPrice is the single place where a product status is derived.
func StatusForPrice(price Price) ProductStatus {
	if price.IsZero() {
		return ProductStatusInactive
	}
	return ProductStatusActive
}

type NewProductParams struct {
	ID    int64
	Title string
	Image string
	Price string
}

// Product is a catalog entry identified by its id. Values are immutable:
// EditPrice returns a new Product.
type Product struct {
	id    int64
	title string
	image string
	price Price
}

// NewProduct builds a product, validating the textual price.
func NewProduct(params NewProductParams) (Product, error) {
	price, err := NewPrice(params.Price)
	if err != nil {
		return Product{}, err
	}

	return Product{
		id:    params.ID,
		title: params.Title,
		image: params.Image,
		price: price,
	}, nil
}

func (p Product) ID() int64 {
	return p.id
}

func (p Product) Title() string {
	return p.title
}

func (p Product) Image() string {
	return p.image
}

func (p Product) Price() Price {
	return p.price
}

func (p Product) Status() ProductStatus {
	return StatusForPrice(p.price)
}

// EditPrice returns a copy of p with the price parsed from text.
func (p Product) EditPrice(text string) (Product, error) {
	price, err := NewPrice(text)
	if err != nil {
		return Product{}, err
	}

	edited := p
	edited.price = price
	return edited, nil
}

// Equal reports whether both products share the same identity.
func (p Product) Equal(other Product) bool {
	return p.id == other.id
}
