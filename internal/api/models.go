package api

import (
	"github.com/phrazzld/task-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Response messages.
const (
	MsgRegistered  = "User registered successfully"
	MsgLoggedIn    = "Login successful"
	MsgTaskDeleted = "Task deleted successfully"
)

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task *domain.Task `json:"task"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}
