package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const adminSubject = "admin"

type Auth struct {
	passwordHash []byte
	jwtSecret    []byte
}

func NewAuth(passwordHash string, secret []byte) Auth {
	return Auth{passwordHash: []byte(passwordHash), jwtSecret: secret}
}

// Token exchanges the admin password for a bearer token.
func (a Auth) Token(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required,max=256"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if len(a.passwordHash) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"err": "admin login is not configured"})
		return
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password)); err != nil {
		log.Printf("api: rejected admin login from %s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"err": "bad credentials"})
		return
	}

	token, err := issueJWT(adminSubject, a.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expiresIn": int(tokenLifetime.Seconds())})
}
