package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/smart-billing/internal/application/billing"
	"github.com/jhoicas/smart-billing/pkg/jwt"
	"github.com/jhoicas/smart-billing/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DraftUC   *billing.DraftUseCase
	ExportUC  *billing.ExportUseCase
	JWTSecret string
	Metrics   http.Handler // opcional; nil no monta /metrics
	Logger    *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Logger))

	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token con rol admin o staff)
	bills := api.Group("/bills",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(jwt.RoleAdmin, jwt.RoleStaff),
	)
	h := NewBillHandler(deps.DraftUC, deps.ExportUC)

	bills.Post("/calculate", h.Calculate)
	bills.Post("/form", h.SubmitForm)

	drafts := bills.Group("/drafts")
	drafts.Post("/", h.CreateDraft)
	drafts.Get("/", h.ListDrafts)
	drafts.Get("/:id", h.GetDraft)
	drafts.Delete("/:id", h.DeleteDraft)
	drafts.Post("/:id/rows", h.AddRow)
	drafts.Delete("/:id/rows/:pos", h.RemoveRow)
	drafts.Patch("/:id/rows/:pos", h.UpdateRow)
	drafts.Patch("/:id/adjustments", h.UpdateAdjustments)
	drafts.Patch("/:id/status", h.UpdateStatus)
	drafts.Post("/:id/payments", h.RecordPayment)
	drafts.Post("/:id/duplicate", h.DuplicateDraft)
	drafts.Get("/:id/pdf", h.DraftPDF)
	drafts.Get("/:id/xlsx", h.DraftXLSX)
}
