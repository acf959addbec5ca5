package main // Entry point package

import (
    "context"
    "log"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/shahafg/RoomifyDemo/internal/availability"
    "github.com/shahafg/RoomifyDemo/internal/config"
    "github.com/shahafg/RoomifyDemo/internal/database"
    "github.com/shahafg/RoomifyDemo/internal/handler"
    "github.com/shahafg/RoomifyDemo/internal/queue"
    "github.com/shahafg/RoomifyDemo/internal/repository"
    "github.com/shahafg/RoomifyDemo/internal/router"
)

func main() {
    _ = godotenv.Load() // .env is optional; real env vars win

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connect failed: %v", err)
    }
    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    if err := database.Migrate(ctx, db); err != nil {
        cancel()
        log.Fatalf("database migrate failed: %v", err)
    }
    cancel()

    // Redis is optional: a nil client disables caching and rate limiting.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; cache and rate limiting disabled")
    }

    roomBookings := repository.NewRoomBookingRepo(db)
    auditoriumBookings := repository.NewAuditoriumBookingRepo(db)
    maintenanceRepo := repository.NewMaintenanceRepo(db)
    roomRepo := repository.NewRoomRepo(db)
    auditoriumRepo := repository.NewAuditoriumRepo(db)
    buildingRepo := repository.NewBuildingRepo(db)
    timeSlotRepo := repository.NewTimeSlotRepo(db)
    scheduleRepo := repository.NewScheduleRepo(db)
    userRepo := repository.NewUserRepo(db)
    tokenRepo := repository.NewTokenRepo(db)
    ticketRepo := repository.NewTicketRepo(db)
    messageRepo := repository.NewMessageRepo(db)
    auditRepo := repository.NewAuditRepo(db)

    roomResolver := availability.NewResolver(roomBookings, maintenanceRepo, roomRepo, availability.RoomPolicy())
    auditoriumResolver := availability.NewResolver(auditoriumBookings, maintenanceRepo, auditoriumRepo, availability.AuditoriumPolicy())

    // Audit events flow through RabbitMQ so a slow audit write can never
    // delay a booking response.
    go queue.StartAuditConsumer(auditRepo)

    e := echo.New()
    e.Validator = handler.NewValidator()

    router.Register(e, router.Handlers{
        Bookings:           handler.NewBookingHandler(roomResolver, roomBookings),
        AuditoriumBookings: handler.NewAuditoriumBookingHandler(auditoriumResolver, auditoriumBookings, auditoriumRepo, timeSlotRepo),
        Maintenance:        handler.NewMaintenanceHandler(maintenanceRepo),
        Rooms:              handler.NewRoomHandler(roomRepo, roomBookings),
        Auditoriums:        handler.NewAuditoriumHandler(auditoriumRepo),
        Buildings:          handler.NewBuildingHandler(buildingRepo),
        TimeSlots:          handler.NewTimeSlotHandler(timeSlotRepo),
        Schedules:          handler.NewScheduleHandler(scheduleRepo),
        Users:              handler.NewUserHandler(cfg, userRepo, tokenRepo),
        Tickets:            handler.NewTicketHandler(ticketRepo),
        Messages:           handler.NewMessageHandler(messageRepo),
        AuditLogs:          handler.NewAuditLogHandler(auditRepo),
    }, cfg.JWTSecret, rdb)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
