package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/shahafg/RoomifyDemo/internal/model"
    "github.com/shahafg/RoomifyDemo/internal/repository"
)

// MessageHandler serves the direct message routes.  Message ids are
// UUID strings generated at creation, not max+1 numbers.
type MessageHandler struct {
    Repo *repository.MessageRepo
}

func NewMessageHandler(repo *repository.MessageRepo) *MessageHandler {
    if repo == nil {
        panic("nil repository passed to NewMessageHandler")
    }
    return &MessageHandler{Repo: repo}
}

type sendMessageReq struct {
    SenderID   string `json:"senderId" validate:"required"`
    ReceiverID string `json:"receiverId" validate:"required"`
    Content    string `json:"content" validate:"required"`
}

// List handles GET /messages.
func (h *MessageHandler) List(c echo.Context) error {
    items, err := h.Repo.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Get handles GET /messages/:id.
func (h *MessageHandler) Get(c echo.Context) error {
    m, err := h.Repo.GetByID(c.Request().Context(), c.Param("id"))
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, m)
}

// Conversation handles GET /messages/conversation/:user1Id/:user2Id.
func (h *MessageHandler) Conversation(c echo.Context) error {
    items, err := h.Repo.Conversation(c.Request().Context(), c.Param("user1Id"), c.Param("user2Id"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Inbox handles GET /messages/user/:userId/inbox.
func (h *MessageHandler) Inbox(c echo.Context) error {
    items, err := h.Repo.Inbox(c.Request().Context(), c.Param("userId"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Sent handles GET /messages/user/:userId/sent.
func (h *MessageHandler) Sent(c echo.Context) error {
    items, err := h.Repo.Sent(c.Request().Context(), c.Param("userId"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// UnreadCount handles GET /messages/user/:userId/unread-count.
func (h *MessageHandler) UnreadCount(c echo.Context) error {
    n, err := h.Repo.UnreadCount(c.Request().Context(), c.Param("userId"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"unread": n})
}

// Create handles POST /messages.
func (h *MessageHandler) Create(c echo.Context) error {
    var req sendMessageReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    created, err := h.Repo.Insert(c.Request().Context(), model.Message{
        ID:         uuid.NewString(),
        SenderID:   req.SenderID,
        ReceiverID: req.ReceiverID,
        Content:    req.Content,
        Timestamp:  time.Now().UTC(),
        Read:       false,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusCreated, created)
}

// MarkRead handles PATCH /messages/:id/read.
func (h *MessageHandler) MarkRead(c echo.Context) error {
    id := c.Param("id")
    if err := h.Repo.MarkRead(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "marked read"})
}

// Delete handles DELETE /messages/:id.
func (h *MessageHandler) Delete(c echo.Context) error {
    if err := h.Repo.Delete(c.Request().Context(), c.Param("id")); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "message deleted"})
}
