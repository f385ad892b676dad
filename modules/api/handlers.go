package api

import (
	"log"
	"strings"

	domain "github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/tasks"
	"github.com/gofiber/fiber/v2"
)

const internalErrorDetail = "Internal server error. Please try again later."

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	auth  auth.AuthPort
	tasks tasks.TaskPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, taskPort tasks.TaskPort) *Handlers {
	return &Handlers{
		auth:  authPort,
		tasks: taskPort,
	}
}

// Register handles POST /users. Open to unauthenticated callers; every other
// task route requires a Bearer token.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	resp, err := h.auth.Register(c.UserContext(), auth.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return internalError(c, "registering user", err)
	}
	if len(resp.Errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(FieldErrorsResponse{Errors: resp.Errors})
	}

	return c.Status(fiber.StatusCreated).JSON(MessageResponse{
		Message: "User created successfully!",
	})
}

// Login handles POST /auth/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Username and password are required",
		})
	}

	resp, err := h.auth.Login(c.UserContext(), auth.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if strings.Contains(err.Error(), "invalid username or password") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid username or password",
			})
		}
		return internalError(c, "logging in", err)
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// Refresh handles POST /auth/refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	if req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Refresh token is required",
		})
	}

	resp, err := h.auth.Refresh(c.UserContext(), auth.RefreshRequest{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// ListTasks handles GET /tasks with optional title, status, sortBy, order,
// limit and offset query parameters.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims := callerClaims(c)
	if claims == nil {
		return unauthenticated(c)
	}

	resp, err := h.tasks.List(c.UserContext(), tasks.ListTasksRequest{
		UserID: claims.UserID,
		Title:  c.Query("title"),
		Status: c.Query("status"),
		SortBy: c.Query("sortBy"),
		Order:  c.Query("order"),
		Limit:  c.Query("limit"),
		Offset: c.Query("offset"),
	})
	if err != nil {
		return internalError(c, "listing tasks", err)
	}
	if len(resp.Errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(FieldErrorsResponse{Errors: resp.Errors})
	}

	results := resp.Results
	if results == nil {
		results = []tasks.TaskView{}
	}
	return c.Status(fiber.StatusOK).JSON(TaskListResponse{
		Count:   resp.Count,
		Results: results,
	})
}

// GetTask handles GET /tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims := callerClaims(c)
	if claims == nil {
		return unauthenticated(c)
	}

	resp, err := h.tasks.Get(c.UserContext(), tasks.GetTaskRequest{
		UserID: claims.UserID,
		TaskID: c.Params("id"),
	})
	if err != nil {
		return internalError(c, "retrieving task", err)
	}
	if resp.NotFound {
		return notFound(c)
	}

	return c.Status(fiber.StatusOK).JSON(resp.Task)
}

// CreateTask handles POST /tasks. The owner is always the authenticated
// caller; a client-supplied owner is ignored.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims := callerClaims(c)
	if claims == nil {
		return unauthenticated(c)
	}

	var req TaskWriteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	resp, err := h.tasks.Create(c.UserContext(), tasks.CreateTaskRequest{
		UserID:      claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return internalError(c, "creating task", err)
	}
	if len(resp.Errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(FieldErrorsResponse{Errors: resp.Errors})
	}

	return c.Status(fiber.StatusCreated).JSON(MessageResponse{
		Message: "Task created successfully!",
	})
}

// UpdateTask handles PUT /tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims := callerClaims(c)
	if claims == nil {
		return unauthenticated(c)
	}

	var req TaskWriteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	resp, err := h.tasks.Update(c.UserContext(), tasks.UpdateTaskRequest{
		UserID:      claims.UserID,
		TaskID:      c.Params("id"),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return internalError(c, "updating task", err)
	}
	return updateResult(c, resp)
}

// PatchTask handles PATCH /tasks/:id. Only supplied fields change.
func (h *Handlers) PatchTask(c *fiber.Ctx) error {
	claims := callerClaims(c)
	if claims == nil {
		return unauthenticated(c)
	}

	var req TaskPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	resp, err := h.tasks.Patch(c.UserContext(), tasks.PatchTaskRequest{
		UserID:      claims.UserID,
		TaskID:      c.Params("id"),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return internalError(c, "updating task", err)
	}
	return updateResult(c, resp)
}

// DeleteTask handles DELETE /tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims := callerClaims(c)
	if claims == nil {
		return unauthenticated(c)
	}

	resp, err := h.tasks.Delete(c.UserContext(), tasks.DeleteTaskRequest{
		UserID: claims.UserID,
		TaskID: c.Params("id"),
	})
	if err != nil {
		return internalError(c, "deleting task", err)
	}
	if resp.NotFound {
		return notFound(c)
	}

	return c.Status(fiber.StatusOK).JSON(MessageResponse{
		Message: "task deleted!",
	})
}

func updateResult(c *fiber.Ctx, resp *tasks.UpdateTaskResponse) error {
	if resp.NotFound {
		return notFound(c)
	}
	if len(resp.Errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(FieldErrorsResponse{Errors: resp.Errors})
	}
	return c.Status(fiber.StatusOK).JSON(MessageResponse{
		Message: "Task updated successfully!",
	})
}

// callerClaims returns the authenticated caller's claims, set by
// AuthMiddleware.
func callerClaims(c *fiber.Ctx) *domain.Claims {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return nil
	}
	return claims
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "User not authenticated",
	})
}

func badRequestBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: "Invalid request body",
	})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(DetailResponse{
		Detail: "Not found.",
	})
}

// internalError logs the failure with context and returns an opaque 500;
// internal detail never reaches the caller.
func internalError(c *fiber.Ctx, operation string, err error) error {
	log.Printf("[api] Error %s: %v", operation, err)
	return c.Status(fiber.StatusInternalServerError).JSON(DetailResponse{
		Detail: internalErrorDetail,
	})
}
