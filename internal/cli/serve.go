package cli

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"room-booking-backend/internal/config"
	"room-booking-backend/internal/database"
	"room-booking-backend/internal/handler"
	"room-booking-backend/internal/middleware"
	"room-booking-backend/internal/notify"
	"room-booking-backend/internal/repository"
	"room-booking-backend/internal/service"
	"room-booking-backend/internal/web"
	"room-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the booking server (REST API + web views)",
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. Load configuration
			cfg := config.LoadConfig()
			log.Println("Configuration loaded successfully")

			// 2. Initialize JWT utilities with config
			utils.InitJWT(
				cfg.JWT.AccessSecret,
				cfg.JWT.RefreshSecret,
				cfg.JWT.AccessTokenExpiry,
				cfg.JWT.RefreshTokenExpiry,
			)

			// 3. Initialize database connection and schema
			db := database.Connect(cfg)
			database.Migrate(db)

			// 4. Initialize repositories
			userRepo := repository.NewUserRepo(db)
			roomRepo := repository.NewRoomRepo(db)
			reservationRepo := repository.NewReservationRepo(db)
			auditRepo := repository.NewAuditRepo(db)

			// 5. Initialize services
			notifier := notify.NewSMTPNotifier(cfg.SMTP)
			authService := service.NewAuthService(userRepo, auditRepo)
			userService := service.NewUserService(userRepo, auditRepo)
			roomService := service.NewRoomService(roomRepo, auditRepo)
			reservationService := service.NewReservationService(reservationRepo, notifier, auditRepo)

			// 6. Setup Gin mode
			gin.SetMode(cfg.Server.GinMode)

			// 7. Setup Gin router
			r := gin.Default()
			r.Use(middleware.CORS(cfg))

			// 8. Register API handlers
			authHandler := handler.NewAuthHandler(authService)
			roomHandler := handler.NewRoomHandler(roomService)
			reservationHandler := handler.NewReservationHandler(reservationService)
			userHandler := handler.NewUserHandler(userService)

			// Health check endpoint
			r.GET("/health", func(c *gin.Context) {
				utils.SuccessResponse(c, gin.H{
					"status":  "healthy",
					"service": "room-booking-backend",
				})
			})

			api := r.Group("/api")

			// Auth routes (public)
			auth := api.Group("/auth")
			{
				auth.POST("/register", authHandler.Register)
				auth.POST("/login", authHandler.Login)
				auth.POST("/refresh", authHandler.Refresh)
				auth.POST("/logout", authHandler.Logout)
			}

			// Room catalog: anyone can view, only staff can modify
			rooms := api.Group("/rooms")
			{
				rooms.GET("", roomHandler.GetAllRooms)
				rooms.GET("/:id", roomHandler.GetRoom)

				staffOnly := rooms.Group("")
				staffOnly.Use(middleware.AuthMiddleware(), middleware.RequireStaff())
				{
					staffOnly.POST("", roomHandler.CreateRoom)
					staffOnly.PUT("/:id", roomHandler.UpdateRoom)
					staffOnly.DELETE("/:id", roomHandler.DeleteRoom)
				}
			}

			// Reservations (authenticated; visibility enforced in the service)
			reservations := api.Group("/reservations")
			reservations.Use(middleware.AuthMiddleware())
			{
				reservations.GET("", reservationHandler.ListReservations)
				reservations.GET("/my", reservationHandler.ListMyReservations)
				reservations.GET("/:id", reservationHandler.GetReservation)
				reservations.POST("", reservationHandler.CreateReservation)
				reservations.PATCH("/:id", reservationHandler.UpdateReservation)
				reservations.DELETE("/:id", reservationHandler.DeleteReservation)
			}

			// User administration (staff only)
			users := api.Group("/users")
			users.Use(middleware.AuthMiddleware(), middleware.RequireStaff())
			{
				users.GET("", userHandler.ListUsers)
				users.GET("/:id", userHandler.GetUser)
				users.POST("", userHandler.CreateUser)
				users.PUT("/:id", userHandler.UpdateUser)
				users.DELETE("/:id", userHandler.DeleteUser)
			}

			// 9. Mount the server-rendered surface on the same engine
			sessions := web.NewSessionManager([]byte(cfg.Session.HashKey), []byte(cfg.Session.BlockKey))
			webServer := web.NewServer(sessions, authService, userService, roomService, reservationService, userRepo)
			if err := webServer.Register(r); err != nil {
				return err
			}

			// 10. Setup graceful shutdown
			go func() {
				log.Printf("Server starting on port %s", cfg.Server.Port)
				if err := r.Run(":" + cfg.Server.Port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			log.Println("Shutting down server...")
			return nil
		},
	}
}
