package market

import (
	"regexp"
	"time"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Products       []Product `json:"products"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) Validate() error {
	errs := ValidationError{}
	if u.Email == "" {
		errs["email"] = "is required"
	} else if !emailRe.MatchString(u.Email) {
		errs["email"] = "is not a valid email"
	}
	if u.HashedPassword == "" {
		errs["password"] = "is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Product struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	PriceCents int       `json:"price_cents"`
	Published  bool      `json:"published"`
	Quantity   int       `json:"quantity"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *Product) Validate() error {
	errs := ValidationError{}
	if p.Title == "" {
		errs["title"] = "is required"
	}
	if p.PriceCents <= 0 {
		errs["price_cents"] = "must be positive"
	}
	if p.Quantity < 0 {
		errs["quantity"] = "must not be negative"
	}
	if p.UserID == "" {
		errs["user_id"] = "is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Order.TotalCents is derived: it is only ever written by the order
// service after summing the order's placements.
type Order struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	TotalCents int       `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (o *Order) Validate() error {
	errs := ValidationError{}
	if o.UserID == "" {
		errs["user_id"] = "is required"
	}
	if o.TotalCents < 0 {
		errs["total_cents"] = "must not be negative"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Placement is one order line: an order takes quantity units of a product.
type Placement struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (pl *Placement) Validate() error {
	errs := ValidationError{}
	if pl.OrderID == "" {
		errs["order_id"] = "is required"
	}
	if pl.ProductID == "" {
		errs["product_id"] = "is required"
	}
	if pl.Quantity <= 0 {
		errs["quantity"] = "must be positive"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
