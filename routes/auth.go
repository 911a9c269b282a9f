package routes

import (
	"github.com/AndreyPae/storefront/auth"
	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(r *gin.Engine, d Deps) {
	r.GET("/register/", auth.RegisterForm())
	r.POST("/register/", auth.Register(d.Store, d.Sessions, d.SecureCookie))
	r.GET("/login/", auth.LoginForm())
	r.POST("/login/", auth.Login(d.Store, d.Sessions, d.SecureCookie))
	r.POST("/logout/", auth.Logout(d.SecureCookie))
}
