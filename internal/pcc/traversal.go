package pcc

import "sync"

// Location is a sub-block coordinate inside an occupancy block.
type Location struct {
	U, V int
}

var traversalOrderCache sync.Map // blockSize0 -> [traversalOrderCount][]Location

// TraversalOrders returns the four scan orders over a blockSize0×blockSize0
// sub-grid: row-major, column-major, anti-diagonal and mirrored anti-diagonal.
// The returned slices are shared and must not be modified.
func TraversalOrders(blockSize0 int) [traversalOrderCount][]Location {
	if cached, ok := traversalOrderCache.Load(blockSize0); ok {
		return cached.([traversalOrderCount][]Location)
	}
	orders := buildTraversalOrders(blockSize0)
	actual, _ := traversalOrderCache.LoadOrStore(blockSize0, orders)
	return actual.([traversalOrderCount][]Location)
}

func buildTraversalOrders(n int) [traversalOrderCount][]Location {
	var orders [traversalOrderCount][]Location
	for k := range orders {
		orders[k] = make([]Location, 0, n*n)
	}
	for v := 0; v < n; v++ {
		for u := 0; u < n; u++ {
			orders[0] = append(orders[0], Location{U: u, V: v})
			orders[1] = append(orders[1], Location{U: v, V: u})
		}
	}
	for k := 1; k < 2*n; k++ {
		for u := max(0, k-n); u < min(k, n); u++ {
			v := k - (u + 1)
			orders[2] = append(orders[2], Location{U: u, V: v})
			orders[3] = append(orders[3], Location{U: n - (1 + u), V: v})
		}
	}
	return orders
}
