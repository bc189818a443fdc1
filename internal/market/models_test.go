package market

import (
	"errors"
	"testing"
)

func fieldError(t *testing.T, err error, field string) string {
	t.Helper()
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	msg, ok := verr[field]
	if !ok {
		t.Fatalf("expected message for field %q, got %v", field, verr)
	}
	return msg
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	valid := User{Email: "alice@example.com", HashedPassword: "hash"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	u := User{HashedPassword: "hash"}
	fieldError(t, u.Validate(), "email")

	u = User{Email: "not-an-email", HashedPassword: "hash"}
	fieldError(t, u.Validate(), "email")

	u = User{Email: "alice@example.com"}
	fieldError(t, u.Validate(), "password")
}

func TestProductValidate(t *testing.T) {
	t.Parallel()

	valid := Product{Title: "Walkman", PriceCents: 500, Quantity: 3, UserID: "u1"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	p := Product{PriceCents: 500, UserID: "u1"}
	fieldError(t, p.Validate(), "title")

	p = Product{Title: "Walkman", PriceCents: 0, UserID: "u1"}
	fieldError(t, p.Validate(), "price_cents")

	p = Product{Title: "Walkman", PriceCents: -5, UserID: "u1"}
	fieldError(t, p.Validate(), "price_cents")

	p = Product{Title: "Walkman", PriceCents: 500, Quantity: -1, UserID: "u1"}
	fieldError(t, p.Validate(), "quantity")

	p = Product{Title: "Walkman", PriceCents: 500}
	fieldError(t, p.Validate(), "user_id")
}

func TestPlacementValidate(t *testing.T) {
	t.Parallel()

	valid := Placement{OrderID: "o1", ProductID: "p1", Quantity: 1}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	pl := Placement{ProductID: "p1", Quantity: 1}
	fieldError(t, pl.Validate(), "order_id")

	pl = Placement{OrderID: "o1", Quantity: 1}
	fieldError(t, pl.Validate(), "product_id")

	pl = Placement{OrderID: "o1", ProductID: "p1", Quantity: 0}
	fieldError(t, pl.Validate(), "quantity")
}

func TestOrderValidate(t *testing.T) {
	t.Parallel()

	valid := Order{UserID: "u1"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	o := Order{}
	fieldError(t, o.Validate(), "user_id")

	o = Order{UserID: "u1", TotalCents: -1}
	fieldError(t, o.Validate(), "total_cents")
}
