package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) signup(c *gin.Context) {
	var req credentialsRequest
	if !s.bindJSON(c, &req) {
		return
	}

	res, err := s.auth.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.Header(common.AuthTokenHeaderName, res.Token)
	c.JSON(http.StatusOK, res.User.Public())
}

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if !s.bindJSON(c, &req) {
		return
	}

	res, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.Header(common.AuthTokenHeaderName, res.Token)
	c.JSON(http.StatusOK, res.User.Public())
}

func (s *Server) me(c *gin.Context) {
	user, _ := auth.UserFromContext(c.Request.Context())
	c.JSON(http.StatusOK, user.Public())
}

func (s *Server) logout(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := auth.UserFromContext(ctx)
	token, _ := auth.TokenFromContext(ctx)

	if err := s.auth.Logout(ctx, user.ID, token); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) logoutAll(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := auth.UserFromContext(ctx)

	if err := s.auth.LogoutAll(ctx, user.ID); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) deleteAccount(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := auth.UserFromContext(ctx)

	if err := s.auth.DeleteAccount(ctx, user.ID); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}
