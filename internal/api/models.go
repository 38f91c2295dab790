package api

import (
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
)

// SignupRequest is the body of POST /users/signup. Password is accepted as
// an alias of Credential.
type SignupRequest struct {
	Username   string `json:"username"           validate:"required,max=255"`
	Email      string `json:"email"              validate:"required,email,max=255"`
	Credential string `json:"credential"         validate:"required,min=8,max=72"`
	Password   string `json:"password,omitempty" validate:"-"`
}

func (r *SignupRequest) normalize() {
	if r.Credential == "" {
		r.Credential = r.Password
	}
}

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Email      string `json:"email"              validate:"required"`
	Credential string `json:"credential"         validate:"required"`
	Password   string `json:"password,omitempty" validate:"-"`
}

func (r *LoginRequest) normalize() {
	if r.Credential == "" {
		r.Credential = r.Password
	}
}

// AccountUpdateRequest is the body of PUT /users/{id}. Omitted fields are
// left unchanged.
type AccountUpdateRequest struct {
	Username   *string `json:"username,omitempty"   validate:"omitempty,min=1,max=255"`
	Email      *string `json:"email,omitempty"      validate:"omitempty,email,max=255"`
	Credential *string `json:"credential,omitempty" validate:"omitempty,min=8,max=72"`
	Password   *string `json:"password,omitempty"   validate:"-"`
}

func (r *AccountUpdateRequest) normalize() {
	if r.Credential == nil {
		r.Credential = r.Password
	}
}

// TaskRequest is the body of POST /todos and PUT /todos/{id}.
type TaskRequest struct {
	Title       string `json:"title"       validate:"required,max=255"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"    validate:"omitempty,datetime=2006-01-02"`
}

// StatusRequest is the body of PATCH /todos/{id}/status.
type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open done"`
}

// SignupResponse is returned by a successful signup.
type SignupResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Message   string `json:"message"`
	UserID    int64  `json:"userId"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateTaskResponse is returned when a task item is created.
type CreateTaskResponse struct {
	Message string `json:"message"`
	TodoID  int64  `json:"todoId"`
}

// TaskItemResponse is the JSON form of a task item.
type TaskItemResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     *string   `json:"due_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func taskItemToResponse(item *domain.TaskItem) TaskItemResponse {
	resp := TaskItemResponse{
		ID:          item.ID,
		UserID:      item.AccountID,
		Title:       item.Title,
		Description: item.Description,
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if item.DueDate != nil {
		due := item.DueDate.Format(domain.DueDateLayout)
		resp.DueDate = &due
	}
	return resp
}

func taskItemsToResponse(items []*domain.TaskItem) []TaskItemResponse {
	resp := make([]TaskItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, taskItemToResponse(item))
	}
	return resp
}
