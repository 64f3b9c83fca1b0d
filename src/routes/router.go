package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"Backend-Inspectrack/src/controllers"
	"Backend-Inspectrack/src/middleware"
	"Backend-Inspectrack/src/services/auth"
	"Backend-Inspectrack/src/services/catalog"
	"Backend-Inspectrack/src/services/customizations"
	"Backend-Inspectrack/src/services/drafts"
	"Backend-Inspectrack/src/services/inspections"
	"Backend-Inspectrack/src/services/issues"
	"Backend-Inspectrack/src/services/reports"
	"Backend-Inspectrack/src/store"
	"Backend-Inspectrack/src/utils"
)

// Deps is everything the HTTP layer needs from the outside world.
type Deps struct {
	Store          store.Store
	Catalog        *catalog.Catalog
	Ephemeral      utils.Ephemeral
	Queue          inspections.Enqueuer // nil disables issue notifications
	PDF            reports.Renderer
	JWTSecret      []byte
	JWTTTL         time.Duration
	AllowedOrigins string
	AppBaseURL     string
	RequestLog     bool
}

// NewApp builds the fiber app with every route registered.
func NewApp(d Deps) *fiber.App {
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.Ephemeral == nil {
		d.Ephemeral = utils.NewMemoryEphemeral()
	}
	if d.PDF == nil {
		d.PDF = reports.ChromePDF{}
	}

	app := fiber.New(fiber.Config{AppName: "Inspectrack API"})
	app.Use(recover.New())
	if d.RequestLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false, // must stay false while AllowOrigins is "*"
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("✅ API is running...")
	})

	customizationSvc := customizations.NewService(d.Store, d.Catalog, d.Ephemeral)

	requireAuth := middleware.AuthJWT(d.JWTSecret, d.Ephemeral)

	authRoutes(app, requireAuth, controllers.AuthController{
		Auth: auth.NewService(d.Store, d.Ephemeral, d.JWTSecret, d.JWTTTL),
	})
	templateRoutes(app, requireAuth, controllers.TemplateController{Catalog: d.Catalog, Customizations: customizationSvc})
	draftRoutes(app, requireAuth, controllers.DraftController{Drafts: drafts.NewService(d.Store, d.Catalog)})
	inspectionRoutes(app, requireAuth, controllers.InspectionController{
		Inspections: inspections.NewService(d.Store, d.Catalog, d.Queue),
		Reports:     reports.NewService(d.Store, d.Catalog, d.PDF, d.AppBaseURL),
	})
	issueRoutes(app, requireAuth, controllers.IssueController{Issues: issues.NewService(d.Store)})
	customizationRoutes(app, requireAuth, controllers.CustomizationController{Customizations: customizationSvc})

	return app
}
