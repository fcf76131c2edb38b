package ports

import (
	catalogports "github.com/Apurer/go-gin-booking-api/internal/domains/catalog/ports"
)

// Catalog is the read side of the catalog the order flow depends on.
type Catalog = catalogports.Reader
