package controllers

import (
	"net/http"

	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/app/services"
	"github.com/glowmart/glowmart/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type addressBody struct {
	Line1   string `json:"line1" validate:"required,max=200"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	Pincode string `json:"pincode" validate:"required,digits=6"`
	Country string `json:"country" validate:"required,max=100"`
}

type signupBody struct {
	Phone    string      `json:"phone" validate:"required,digits=10"`
	Name     string      `json:"name" validate:"required,min=2,max=100"`
	Password string      `json:"password" validate:"required,min=6,max=72"`
	Address  addressBody `json:"address"`
}

// Signup registers a user and returns their public summary.
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var body signupBody
	if !decode(w, r, &body) {
		return
	}

	u, err := c.auth.SignupUser(r.Context(), services.SignupInput{
		Phone:    body.Phone,
		Name:     body.Name,
		Password: body.Password,
		Address: models.Address{
			Line1:   body.Address.Line1,
			City:    body.Address.City,
			State:   body.Address.State,
			Pincode: body.Address.Pincode,
			Country: body.Address.Country,
		},
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, u)
}

type loginBody struct {
	Phone    string `json:"phone" validate:"required,digits=10"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user; the token rides under data.token.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if !decode(w, r, &body) {
		return
	}

	token, u, err := c.auth.LoginUser(r.Context(), body.Phone, body.Password)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}

type adminLoginBody struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminLogin authenticates a back-office principal.
func (c *AuthController) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var body adminLoginBody
	if !decode(w, r, &body) {
		return
	}

	token, err := c.auth.LoginAdmin(r.Context(), body.Username, body.Password)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"token": token})
}
