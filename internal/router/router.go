package router

import (
	"time"

	"tablero/internal/config"
	"tablero/internal/handler"
	"tablero/internal/middleware"
	"tablero/internal/repository"
	"tablero/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	vendedorRepo := repository.NewVendedorRepository(db)
	tecnicoRepo := repository.NewTecnicoRepository(db)
	servicioRepo := repository.NewServicioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	objetivoRepo := repository.NewObjetivoRepository(db)
	objetivoTecnicoRepo := repository.NewObjetivoTecnicoRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogoSvc := service.NewCatalogoService(vendedorRepo, tecnicoRepo, servicioRepo, objetivoRepo)
	clienteSvc := service.NewClienteService(clienteRepo, vendedorRepo, tecnicoRepo, servicioRepo)
	importSvc := service.NewImportService(clienteRepo, servicioRepo, vendedorRepo)
	objetivoSvc := service.NewObjetivoService(objetivoRepo, vendedorRepo, rdb,
		time.Duration(cfg.ResumenCacheTTLSeconds)*time.Second)
	objetivoTecnicoSvc := service.NewObjetivoTecnicoService(objetivoTecnicoRepo, tecnicoRepo)
	authSvc := service.NewAuthService(usuarioRepo, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	clientesH := handler.NewClientesHandler(clienteSvc, importSvc)
	objetivosH := handler.NewObjetivosHandler(objetivoTecnicoSvc, objetivoSvc)
	healthH := handler.NewHealthHandler(db, rdb)
	authH := handler.NewAuthHandler(authSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", healthH.Check)

	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Auth (public, tighter rate limit than the rest of the API)
	r.POST("/v1/auth/login", middleware.LoginRateLimiter(), authH.Login)

	// Protected routes. The tenant always comes from the JWT claim, never from
	// the request.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		lectura := middleware.RequireRole("admin", "vendedor", "tecnico")
		escritura := middleware.RequireRole("admin")

		v1.GET("/vendedores", lectura, catalogoH.ListarVendedores)
		v1.POST("/vendedores", escritura, catalogoH.CrearVendedor)
		v1.PUT("/vendedores/:id", escritura, catalogoH.ActualizarVendedor)
		v1.DELETE("/vendedores/:id", escritura, catalogoH.EliminarVendedor)

		v1.GET("/tecnicos", lectura, catalogoH.ListarTecnicos)
		v1.POST("/tecnicos", escritura, catalogoH.CrearTecnico)
		v1.DELETE("/tecnicos/:id", escritura, catalogoH.EliminarTecnico)

		v1.GET("/servicios", lectura, catalogoH.ListarServicios)
		v1.POST("/servicios", escritura, catalogoH.CrearServicio)
		v1.DELETE("/servicios/:id", escritura, catalogoH.EliminarServicio)

		clientes := v1.Group("/clientes")
		{
			clientes.GET("", lectura, clientesH.Listar)
			clientes.GET("/:id", lectura, clientesH.ObtenerPorID)
			clientes.POST("", escritura, clientesH.Crear)
			clientes.PUT("/:id", escritura, clientesH.Actualizar)
			clientes.DELETE("/:id", escritura, clientesH.Eliminar)
			clientes.POST("/:id/servicios", escritura, clientesH.AsignarServicio)
			clientes.POST("/importar", escritura, clientesH.Importar)
		}

		objetivos := v1.Group("/objetivos")
		{
			objetivos.GET("/resumen", lectura, objetivosH.Resumen)

			objetivos.GET("/cuantitativos", lectura, objetivosH.ListarCuantitativos)
			objetivos.POST("/cuantitativos", escritura, objetivosH.CrearCuantitativo)
			objetivos.PUT("/cuantitativos/:id/asignaciones", escritura, objetivosH.SyncAsignaciones)

			objetivos.POST("/cualitativos", escritura, objetivosH.CrearCualitativo)

			// Technician objectives carry the status state machine; status
			// changes get their own endpoint so the transition rules stay in
			// one place.
			objetivos.GET("/tecnicos/:tecnico_id", lectura, objetivosH.ListarPorTecnico)
			objetivos.POST("/tecnico", escritura, objetivosH.CrearTecnico)
			objetivos.PUT("/tecnico/:id", escritura, objetivosH.ActualizarTecnico)
			objetivos.PATCH("/tecnico/:id/estado", escritura, objetivosH.CambiarEstado)
			objetivos.DELETE("/tecnico/:id", escritura, objetivosH.EliminarTecnico)
		}
	}

	return r
}
