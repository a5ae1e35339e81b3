package router

import (
	"github.com/gin-gonic/gin"

	"github.com/marketplace/backend/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers served under the versioned API prefix
type Handlers struct {
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Category      *handler.CategoryHandler
	Product       *handler.ProductHandler
	Seller        *handler.SellerHandler
	Cart          *handler.CartHandler
	Checkout      *handler.CheckoutHandler
	Shipping      *handler.ShippingHandler
	ShippingAdmin *handler.ShippingAdminHandler
	Tax           *handler.TaxHandler
	Order         *handler.OrderHandler
	Stream        *handler.StreamHandler
	System        *handler.SystemHandler
}

// Guards are the access checks attached to protected route groups
type Guards struct {
	// Authenticated rejects requests without a valid access token
	Authenticated gin.HandlerFunc
	// Admin runs after Authenticated on every /admin route
	Admin gin.HandlerFunc
	// Credentials throttles register and login. Nil disables it.
	Credentials gin.HandlerFunc
}

// RegisterMarketplace adds every marketplace route group to r.
// Cart, checkout and shipping quotes serve users and guests alike, so they
// carry no guard; the handlers resolve the owner themselves.
func RegisterMarketplace(r *Router, h Handlers, g Guards) *Router {
	return r.
		Register(authRoutes(h.Auth, g)).
		Register(categoryRoutes(h.Category)).
		Register(productRoutes(h.Product)).
		Register(storefrontRoutes(h.Seller)).
		Register(cartRoutes(h.Cart)).
		Register(checkoutRoutes(h.Checkout)).
		Register(shippingRoutes(h.Shipping)).
		Register(orderRoutes(h.Order, g)).
		Register(sellerRoutes(h, g)).
		Register(adminRoutes(h, g)).
		Register(systemRoutes(h.System))
}

func authRoutes(h *handler.AuthHandler, g Guards) *DomainGroup {
	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/register", g.Credentials, h.Register)
	auth.POST("/login", g.Credentials, h.Login)
	auth.POST("/refresh", h.Refresh)
	auth.POST("/logout", g.Authenticated, h.Logout)
	auth.GET("/me", g.Authenticated, h.Me)
	auth.PUT("/password", g.Authenticated, h.ChangePassword)
	return auth
}

func categoryRoutes(h *handler.CategoryHandler) *DomainGroup {
	categories := NewDomainGroup("categories", "/categories")
	categories.GET("", h.List)
	categories.GET("/tree", h.Tree)
	categories.GET("/:id", h.Get)
	return categories
}

func productRoutes(h *handler.ProductHandler) *DomainGroup {
	products := NewDomainGroup("products", "/products")
	products.GET("", h.List)
	products.GET("/:id", h.Get)
	return products
}

func storefrontRoutes(h *handler.SellerHandler) *DomainGroup {
	return NewDomainGroup("storefronts", "/sellers").GET("/:slug", h.Storefront)
}

func cartRoutes(h *handler.CartHandler) *DomainGroup {
	cart := NewDomainGroup("cart", "/cart")
	cart.GET("", h.Get)
	cart.DELETE("", h.Clear)
	cart.POST("/add", h.AddItem)
	cart.PUT("/items/:product_id", h.UpdateItem)
	cart.DELETE("/items/:product_id", h.RemoveItem)
	return cart
}

func checkoutRoutes(h *handler.CheckoutHandler) *DomainGroup {
	checkout := NewDomainGroup("checkout", "/checkout")
	checkout.POST("/initiate", h.Initiate)
	checkout.POST("/address", h.SetAddress)
	checkout.POST("/shipping", h.SelectShipping)
	checkout.POST("/confirm-order", h.ConfirmOrder)
	checkout.GET("/:id", h.Get)
	checkout.GET("/:id/shipping-options", h.ShippingOptions)
	checkout.POST("/:id/cancel", h.Cancel)
	return checkout
}

func shippingRoutes(h *handler.ShippingHandler) *DomainGroup {
	return NewDomainGroup("shipping", "/shipping").POST("/checkout/calculate-options", h.CalculateOptions)
}

func orderRoutes(h *handler.OrderHandler, g Guards) *DomainGroup {
	orders := NewDomainGroup("orders", "/orders")
	orders.GET("/lookup", h.Lookup)
	orders.GET("", g.Authenticated, h.ListMine)
	orders.GET("/:id", g.Authenticated, h.GetMine)
	orders.POST("/:id/cancel", g.Authenticated, h.Cancel)
	return orders
}

func sellerRoutes(h Handlers, g Guards) *DomainGroup {
	seller := NewDomainGroup("seller", "/seller").Use(g.Authenticated)
	seller.POST("/apply", h.Seller.Apply)
	seller.GET("/me", h.Seller.GetMine)
	seller.PUT("/me", h.Seller.UpdateMine)

	products := seller.Group("seller-products", "/products")
	products.GET("", h.Product.ListMine)
	products.POST("", h.Product.Create)
	products.GET("/export", h.Product.Export)
	products.PUT("/:id", h.Product.Update)
	products.DELETE("/:id", h.Product.Delete)
	products.PUT("/:id/price", h.Product.UpdatePrice)
	products.PUT("/:id/stock", h.Product.UpdateStock)
	products.POST("/:id/activate", h.Product.Activate)
	products.POST("/:id/deactivate", h.Product.Deactivate)
	products.POST("/:id/images", h.Product.RequestImageUpload)
	products.DELETE("/:id/images", h.Product.RemoveImage)

	orders := seller.Group("seller-orders", "/orders")
	orders.GET("", h.Order.ListForSeller)
	orders.GET("/stream", h.Stream.SellerOrders)
	orders.POST("/:id/ship", h.Order.ShipForSeller)
	return seller
}

func adminRoutes(h Handlers, g Guards) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").Use(g.Authenticated, g.Admin)

	users := admin.Group("admin-users", "/users")
	users.GET("", h.User.List)
	users.GET("/:id", h.User.Get)
	users.POST("/:id/suspend", h.User.Suspend)
	users.POST("/:id/activate", h.User.Activate)

	sellers := admin.Group("admin-sellers", "/sellers")
	sellers.GET("", h.Seller.AdminList)
	sellers.GET("/:id", h.Seller.AdminGet)
	sellers.POST("/:id/approve", h.Seller.Approve)
	sellers.POST("/:id/reject", h.Seller.Reject)
	sellers.POST("/:id/suspend", h.Seller.Suspend)
	sellers.POST("/:id/reinstate", h.Seller.Reinstate)

	categories := admin.Group("admin-categories", "/categories")
	categories.GET("", h.Category.AdminList)
	categories.POST("", h.Category.Create)
	categories.GET("/:id", h.Category.AdminGet)
	categories.PUT("/:id", h.Category.Update)
	categories.DELETE("/:id", h.Category.Delete)
	categories.POST("/:id/activate", h.Category.Activate)
	categories.POST("/:id/deactivate", h.Category.Deactivate)

	shipping := admin.Group("admin-shipping", "/shipping")
	shipping.GET("/zones", h.ShippingAdmin.ListZones)
	shipping.POST("/zones", h.ShippingAdmin.CreateZone)
	shipping.GET("/zones/:id", h.ShippingAdmin.GetZone)
	shipping.PUT("/zones/:id", h.ShippingAdmin.UpdateZone)
	shipping.DELETE("/zones/:id", h.ShippingAdmin.DeleteZone)
	shipping.GET("/zones/:id/methods", h.ShippingAdmin.ListMethods)
	shipping.POST("/zones/:id/methods", h.ShippingAdmin.CreateMethod)
	shipping.PUT("/methods/:id", h.ShippingAdmin.UpdateMethod)
	shipping.DELETE("/methods/:id", h.ShippingAdmin.DeleteMethod)
	shipping.POST("/methods/:id/rates", h.ShippingAdmin.CreateRate)
	shipping.PUT("/rates/:id", h.ShippingAdmin.UpdateRate)
	shipping.DELETE("/rates/:id", h.ShippingAdmin.DeleteRate)
	shipping.GET("/holidays", h.ShippingAdmin.ListHolidays)
	shipping.POST("/holidays", h.ShippingAdmin.CreateHoliday)
	shipping.PUT("/holidays/:id", h.ShippingAdmin.UpdateHoliday)
	shipping.DELETE("/holidays/:id", h.ShippingAdmin.DeleteHoliday)

	tax := admin.Group("admin-tax", "/tax-rates")
	tax.GET("", h.Tax.List)
	tax.POST("", h.Tax.Create)
	tax.GET("/:id", h.Tax.Get)
	tax.PUT("/:id", h.Tax.Update)
	tax.DELETE("/:id", h.Tax.Delete)

	orders := admin.Group("admin-orders", "/orders")
	orders.GET("", h.Order.AdminList)
	orders.GET("/:id", h.Order.AdminGet)
	orders.PUT("/:id/status", h.Order.UpdateStatus)
	return admin
}

func systemRoutes(h *handler.SystemHandler) *DomainGroup {
	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.GetSystemInfo)
	system.GET("/ping", h.Ping)
	return system
}
