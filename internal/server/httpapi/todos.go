package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

type createTodoRequest struct {
	Text string `json:"text"`
}

func ownerID(c *gin.Context) string {
	user, _ := auth.UserFromContext(c.Request.Context())
	return user.ID
}

func (s *Server) createTodo(c *gin.Context) {
	var req createTodoRequest
	if !s.bindJSON(c, &req) {
		return
	}

	todo, err := s.todos.Create(c.Request.Context(), ownerID(c), req.Text)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

func (s *Server) listTodos(c *gin.Context) {
	list, err := s.todos.List(c.Request.Context(), ownerID(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todos": list})
}

func (s *Server) getTodo(c *gin.Context) {
	todo, err := s.todos.Get(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

func (s *Server) updateTodo(c *gin.Context) {
	var patch models.TodoPatch
	if !s.bindJSON(c, &patch) {
		return
	}

	todo, err := s.todos.Update(c.Request.Context(), ownerID(c), c.Param("id"), patch)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

func (s *Server) deleteTodo(c *gin.Context) {
	todo, err := s.todos.Delete(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todo": todo})
}
