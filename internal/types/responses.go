package types

import "github.com/gin-gonic/gin"

// Every endpoint answers with the same envelope:
// {"status": "success"|"error", "data": ..., "message": ...}.

func Success(data interface{}) gin.H {
	return gin.H{"status": "success", "data": data}
}

func SuccessMessage(message string) gin.H {
	return gin.H{"status": "success", "message": message}
}

func Error(message string) gin.H {
	return gin.H{"status": "error", "message": message}
}

type UserResponse struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}
