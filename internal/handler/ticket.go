package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/shahafg/RoomifyDemo/internal/model"
    "github.com/shahafg/RoomifyDemo/internal/repository"
)

// TicketHandler serves the support ticket routes.
type TicketHandler struct {
    Repo *repository.TicketRepo
}

func NewTicketHandler(repo *repository.TicketRepo) *TicketHandler {
    if repo == nil {
        panic("nil repository passed to NewTicketHandler")
    }
    return &TicketHandler{Repo: repo}
}

type ticketReq struct {
    Title       string                   `json:"title" validate:"required"`
    Description string                   `json:"description" validate:"required"`
    Category    string                   `json:"category" validate:"required"`
    Priority    string                   `json:"priority" validate:"required"`
    Status      string                   `json:"status"`
    AssignedTo  int64                    `json:"assignedTo"`
    Attachments []model.TicketAttachment `json:"attachments"`
}

// List handles GET /tickets.
func (h *TicketHandler) List(c echo.Context) error {
    items, err := h.Repo.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Get handles GET /tickets/:id.
func (h *TicketHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    t, err := h.Repo.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, t)
}

// ListByStatus handles GET /tickets/status/:statusName.
func (h *TicketHandler) ListByStatus(c echo.Context) error {
    items, err := h.Repo.ListByStatus(c.Request().Context(), c.Param("statusName"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// ListByCategory handles GET /tickets/category/:categoryName.
func (h *TicketHandler) ListByCategory(c echo.Context) error {
    items, err := h.Repo.ListByCategory(c.Request().Context(), c.Param("categoryName"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// ListByAssignee handles GET /tickets/assigned/:userId.
func (h *TicketHandler) ListByAssignee(c echo.Context) error {
    userID, err := parseID(c, "userId")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    items, err := h.Repo.ListByAssignee(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// ListByCreator handles GET /tickets/created/:userId.
func (h *TicketHandler) ListByCreator(c echo.Context) error {
    userID, err := parseID(c, "userId")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    items, err := h.Repo.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Create handles POST /tickets.  New tickets open in "open" status
// unless the request says otherwise.
func (h *TicketHandler) Create(c echo.Context) error {
    var req ticketReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    status := req.Status
    if status == "" {
        status = "open"
    }

    ctx := c.Request().Context()
    maxID, err := h.Repo.MaxID(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    now := time.Now().UTC()
    created, err := h.Repo.Insert(ctx, model.Ticket{
        ID:          maxID + 1,
        Title:       req.Title,
        Description: req.Description,
        Category:    req.Category,
        Priority:    req.Priority,
        Status:      status,
        CreatedBy:   getUserID(c),
        AssignedTo:  req.AssignedTo,
        Attachments: req.Attachments,
        CreatedAt:   now,
        UpdatedAt:   now,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "CREATE", "TICKET", formatID(created.ID),
        "Ticket opened", nil, created, true, severityFor("CREATE"))
    return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /tickets/:id.
func (h *TicketHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req ticketReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    ctx := c.Request().Context()
    old, err := h.Repo.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    status := req.Status
    if status == "" {
        status = old.Status
    }
    updated, err := h.Repo.Update(ctx, model.Ticket{
        ID:          id,
        Title:       req.Title,
        Description: req.Description,
        Category:    req.Category,
        Priority:    req.Priority,
        Status:      status,
        AssignedTo:  req.AssignedTo,
        Attachments: req.Attachments,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "UPDATE", "TICKET", formatID(id),
        "Ticket updated", old, updated, true, severityFor("UPDATE"))
    return c.JSON(http.StatusOK, updated)
}

// SetStatus handles PATCH /tickets/:id/status.
func (h *TicketHandler) SetStatus(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req struct {
        Status string `json:"status" validate:"required"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    old, err := h.Repo.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    updated, err := h.Repo.UpdateStatus(c.Request().Context(), id, req.Status, old.AssignedTo)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, updated)
}

// Assign handles PATCH /tickets/:id/assign.
func (h *TicketHandler) Assign(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req struct {
        AssignedTo int64 `json:"assignedTo" validate:"required"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    if _, err := h.Repo.GetByID(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    updated, err := h.Repo.Assign(c.Request().Context(), id, req.AssignedTo)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /tickets/:id.
func (h *TicketHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    auditEvent(c, "DELETE", "TICKET", formatID(id),
        "Ticket deleted", nil, nil, true, severityFor("DELETE"))
    return c.JSON(http.StatusOK, echo.Map{"message": "ticket deleted"})
}
