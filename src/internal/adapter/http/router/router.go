package router

import "net/http"

type UserRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type AdminRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, adminMiddleware func(http.Handler) http.Handler)
}

type AccountRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type TransferRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler, idempotencyMiddleware func(http.Handler) http.Handler)
}

func New(
	userController UserRouteRegistrar,
	adminController AdminRouteRegistrar,
	accountController AccountRouteRegistrar,
	transferController TransferRouteRegistrar,
	authMiddleware func(http.Handler) http.Handler,
	adminMiddleware func(http.Handler) http.Handler,
	idempotencyMiddleware func(http.Handler) http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()

	if userController != nil {
		userController.RegisterRoutes(mux, authMiddleware)
	}
	if adminController != nil {
		adminController.RegisterRoutes(mux, adminMiddleware)
	}
	if accountController != nil {
		accountController.RegisterRoutes(mux, authMiddleware)
	}
	if transferController != nil {
		transferController.RegisterRoutes(mux, authMiddleware, idempotencyMiddleware)
	}

	return mux
}
