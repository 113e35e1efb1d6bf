package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleSignUp(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}

	user, token, err := h.app.AuthService.SignUp(req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusCreated, "Account created", gin.H{
		"user":  user,
		"token": token,
	})
}

func (h *Handler) HandleLogin(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}

	user, token, err := h.app.AuthService.Login(req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, "Logged in", gin.H{
		"user":  user,
		"token": token,
	})
}
