package redisx

import (
	"fmt"
	"time"
)

const (
	// Cached order detail: order:view:{order_id} -> serialized response
	keyOrderView = "order:view:%s"

	// Cached published-products page: products:page:{query} -> serialized response
	keyProductsPage = "products:page:%s"
)

var (
	TTLOrderView    = 5 * time.Minute
	TTLProductsPage = time.Minute
)

func orderViewKey(orderID string) string { return fmt.Sprintf(keyOrderView, orderID) }

func ProductsPageKey(rawQuery string) string { return fmt.Sprintf(keyProductsPage, rawQuery) }
