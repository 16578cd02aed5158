package query

import (
	"time"

	"github.com/example/admin-dashboard/internal/infrastructure/store"
	"github.com/example/admin-dashboard/internal/readmodel"
	"github.com/example/admin-dashboard/internal/resource"
	"github.com/sirupsen/logrus"
)

// Validity windows of the cached collections
const (
	ProductsTTL  = 300 * time.Second
	UsersTTL     = 300 * time.Second
	MedicinesTTL = 60 * time.Second
)

// Endpoints are the base URLs of the three remote APIs
type Endpoints struct {
	ProductsURL  string
	UsersURL     string
	MedicinesURL string
	Timeout      time.Duration
}

// Clients are built once by the composition root and live for the process
type Clients struct {
	Products  *resource.Client[readmodel.Product]
	Users     *resource.Client[readmodel.User]
	Medicines *resource.Client[readmodel.Medicine]
}

// NewClients wires one resource client per collection over a shared cache.
// observer may be nil.
func NewClients(ep Endpoints, cache store.CollectionCache, observer resource.Observer, logger *logrus.Logger) *Clients {
	deps := func(baseURL string) resource.Deps {
		return resource.Deps{
			Source:   resource.NewHTTPSource(baseURL, ep.Timeout, logger),
			Cache:    cache,
			Observer: observer,
			Logger:   logger,
		}
	}

	return &Clients{
		Products: resource.NewClient[readmodel.Product](
			resource.Config{Name: readmodel.ResourceProducts, Path: "/products", TTL: ProductsTTL, Timeout: ep.Timeout},
			deps(ep.ProductsURL),
			resource.DecodeArray[readmodel.Product],
		),
		Users: resource.NewClient[readmodel.User](
			resource.Config{Name: readmodel.ResourceUsers, Path: "/users", TTL: UsersTTL, Timeout: ep.Timeout},
			deps(ep.UsersURL),
			resource.DecodeArray[readmodel.User],
		),
		Medicines: resource.NewClient[readmodel.Medicine](
			resource.Config{Name: readmodel.ResourceMedicines, Path: "/medicines", TTL: MedicinesTTL, Timeout: ep.Timeout},
			deps(ep.MedicinesURL),
			resource.DecodeEnvelope[readmodel.Medicine],
		),
	}
}

// Handler returns a query handler over the clients
func (c *Clients) Handler() *Handler {
	return NewHandler(c.Products, c.Users, c.Medicines)
}
