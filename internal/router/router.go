// Package router wires every HTTP route to its handler and middleware.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/shahafg/RoomifyDemo/internal/config"
    "github.com/shahafg/RoomifyDemo/internal/handler"
    "github.com/shahafg/RoomifyDemo/internal/middleware"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
    Bookings           *handler.BookingHandler
    AuditoriumBookings *handler.AuditoriumBookingHandler
    Maintenance        *handler.MaintenanceHandler
    Rooms              *handler.RoomHandler
    Auditoriums        *handler.AuditoriumHandler
    Buildings          *handler.BuildingHandler
    TimeSlots          *handler.TimeSlotHandler
    Schedules          *handler.ScheduleHandler
    Users              *handler.UserHandler
    Tickets            *handler.TicketHandler
    Messages           *handler.MessageHandler
    AuditLogs          *handler.AuditLogHandler
}

// Register mounts the full API surface.  Redis-backed response caching
// and rate limiting apply instance-wide and degrade to pass-through
// when rdb is nil.  Registration, login and the health probe are the
// only unauthenticated routes; the audit trail additionally requires
// the admin role.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

    e.GET("/healthz", handler.Health)
    e.POST("/users/register", h.Users.Register)
    e.POST("/users/login", h.Users.Login)
    e.POST("/users/refresh", h.Users.Refresh)

    auth := middleware.JWTAuth(jwtSecret)

    bookings := e.Group("/bookings", auth)
    bookings.GET("", h.Bookings.List)
    bookings.GET("/:id", h.Bookings.Get)
    bookings.GET("/room/:roomId", h.Bookings.ListByRoom)
    bookings.GET("/date/:date", h.Bookings.ListByDate)
    bookings.POST("/check-availability", h.Bookings.CheckAvailability)
    bookings.POST("", h.Bookings.Create)
    bookings.PUT("/:id", h.Bookings.Update)
    bookings.DELETE("/:id", h.Bookings.Cancel)

    ab := e.Group("/auditorium-bookings", auth)
    ab.GET("", h.AuditoriumBookings.List)
    ab.GET("/user/:userId", h.AuditoriumBookings.ListByUser)
    ab.GET("/availability/:auditoriumId/:date", h.AuditoriumBookings.Availability)
    ab.POST("", h.AuditoriumBookings.Create)
    ab.PUT("/:id", h.AuditoriumBookings.Update)
    ab.PATCH("/:id/cancel", h.AuditoriumBookings.Cancel)
    ab.DELETE("/:id", h.AuditoriumBookings.Delete)

    maintenance := e.Group("/maintenance", auth)
    maintenance.GET("", h.Maintenance.List)
    maintenance.GET("/active", h.Maintenance.Active)
    maintenance.GET("/:id", h.Maintenance.Get)
    maintenance.POST("/check-booking-allowed", h.Maintenance.CheckBookingAllowed)
    maintenance.POST("", h.Maintenance.Create)
    maintenance.PUT("/:id", h.Maintenance.Update)
    maintenance.PATCH("/:id/deactivate", h.Maintenance.Deactivate)
    maintenance.DELETE("/:id", h.Maintenance.Delete)

    rooms := e.Group("/rooms", auth)
    rooms.GET("", h.Rooms.List)
    rooms.GET("/:id", h.Rooms.Get)
    rooms.GET("/building/:buildingName", h.Rooms.ListByBuilding)
    rooms.GET("/type/:roomType", h.Rooms.ListByType)
    rooms.GET("/status/:statusCode", h.Rooms.ListByStatus)
    rooms.POST("", h.Rooms.Create)
    rooms.PUT("/:id", h.Rooms.Update)
    rooms.PATCH("/:id/status", h.Rooms.SetStatus)
    rooms.DELETE("/:id", h.Rooms.Delete)

    auditoriums := e.Group("/auditoriums", auth)
    auditoriums.GET("", h.Auditoriums.List)
    auditoriums.GET("/:id", h.Auditoriums.Get)
    auditoriums.GET("/building/:buildingId", h.Auditoriums.ListByBuilding)
    auditoriums.POST("", h.Auditoriums.Create)
    auditoriums.PUT("/:id", h.Auditoriums.Update)
    auditoriums.DELETE("/:id", h.Auditoriums.Delete)

    buildings := e.Group("/buildings", auth)
    buildings.GET("", h.Buildings.List)
    buildings.GET("/:id", h.Buildings.Get)
    buildings.POST("", h.Buildings.Create)
    buildings.PUT("/:id", h.Buildings.Update)
    buildings.DELETE("/:id", h.Buildings.Delete)

    slots := e.Group("/timeslots", auth)
    slots.GET("", h.TimeSlots.List)
    slots.GET("/:id", h.TimeSlots.Get)
    slots.POST("", h.TimeSlots.Create)
    slots.PUT("/:id", h.TimeSlots.Update)
    slots.DELETE("/:id", h.TimeSlots.Delete)

    schedule := e.Group("/schedule", auth)
    schedule.GET("", h.Schedules.List)
    schedule.GET("/:id", h.Schedules.Get)
    schedule.POST("", h.Schedules.Create)
    schedule.POST("/bulk", h.Schedules.BulkSave)
    schedule.PUT("/:id", h.Schedules.Update)
    schedule.DELETE("/:id", h.Schedules.Delete)

    users := e.Group("/users", auth)
    users.POST("/logout", h.Users.Logout)
    users.GET("", h.Users.List)
    users.GET("/:id", h.Users.Get)
    users.POST("/bulk-register", h.Users.BulkRegister)
    users.PUT("/:id", h.Users.Update)
    users.DELETE("/:email", h.Users.DeleteByEmail)

    tickets := e.Group("/tickets", auth)
    tickets.GET("", h.Tickets.List)
    tickets.GET("/:id", h.Tickets.Get)
    tickets.GET("/status/:statusName", h.Tickets.ListByStatus)
    tickets.GET("/category/:categoryName", h.Tickets.ListByCategory)
    tickets.GET("/assigned/:userId", h.Tickets.ListByAssignee)
    tickets.GET("/created/:userId", h.Tickets.ListByCreator)
    tickets.POST("", h.Tickets.Create)
    tickets.PUT("/:id", h.Tickets.Update)
    tickets.PATCH("/:id/status", h.Tickets.SetStatus)
    tickets.PATCH("/:id/assign", h.Tickets.Assign)
    tickets.DELETE("/:id", h.Tickets.Delete)

    messages := e.Group("/messages", auth)
    messages.GET("", h.Messages.List)
    messages.GET("/:id", h.Messages.Get)
    messages.GET("/conversation/:user1Id/:user2Id", h.Messages.Conversation)
    messages.GET("/user/:userId/inbox", h.Messages.Inbox)
    messages.GET("/user/:userId/sent", h.Messages.Sent)
    messages.GET("/user/:userId/unread-count", h.Messages.UnreadCount)
    messages.POST("", h.Messages.Create)
    messages.PATCH("/:id/read", h.Messages.MarkRead)
    messages.DELETE("/:id", h.Messages.Delete)

    audit := e.Group("/audit-logs", auth, middleware.RequireAdmin())
    audit.GET("", h.AuditLogs.List)
    audit.GET("/stats", h.AuditLogs.Stats)
    audit.GET("/critical", h.AuditLogs.Critical)
    audit.GET("/entity/:entityType/:entityId", h.AuditLogs.ByEntity)
    audit.GET("/user/:userId", h.AuditLogs.ByUser)
    audit.GET("/:id", h.AuditLogs.Get)
    audit.POST("", h.AuditLogs.Create)
}
