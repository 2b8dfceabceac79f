package handlers

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"
	"tripmate/database"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenLifetime = 30 * 24 * time.Hour // 30 days for mobile app convenience

var jwtSecret []byte

func InitAuth() {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		// Generate a real one for production: openssl rand -hex 32
		secret = "09d25e094faa6ca2556c818166b7a9563b93f7099f6f0f4caa6cf63b88e8d3e7"
		log.Println("⚠️  SECRET_KEY not set — using built-in development secret")
	}
	jwtSecret = []byte(secret)
}

// ─── Signup ───────────────────────────────────────────────────────────────────

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

func SignupHandler(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	existing, err := database.GetUserByEmail(req.Email)
	if err != nil {
		log.Printf("❌ Signup lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	user := &database.User{
		Email:          req.Email,
		HashedPassword: string(hashed),
		Name:           req.Name,
		Username:       generateUsername(),
		IsActive:       true,
		IsVerified:     true, // no email verification flow
	}
	if err := database.CreateUser(user); err != nil {
		log.Printf("❌ Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account created successfully."})
}

func generateUsername() string {
	return fmt.Sprintf("user_%d", 100000+rand.Intn(900000))
}

// ─── Login ────────────────────────────────────────────────────────────────────

// loginForm mirrors the OAuth2 password flow: email arrives in the
// "username" field.
type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserName    string `json:"user_name"`
	Username    string `json:"username"`
}

func LoginHandler(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := database.GetUserByEmail(form.Username)
	if err != nil {
		log.Printf("❌ Login lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(form.Password)) != nil {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.Email,
		"exp": time.Now().Add(accessTokenLifetime).Unix(),
	})
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		UserName:    user.Name,
		Username:    user.Username,
	})
}

// ─── Middleware ───────────────────────────────────────────────────────────────

const userContextKey = "currentUser"

// RequireAuth validates the Bearer token and loads the owning user into
// the request context. All failures collapse to a single 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			unauthorized(c)
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			unauthorized(c)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c)
			return
		}
		email, _ := claims["sub"].(string)
		if email == "" {
			unauthorized(c)
			return
		}

		user, err := database.GetUserByEmail(email)
		if err != nil || user == nil {
			unauthorized(c)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
}

// CurrentUser returns the user loaded by RequireAuth.
func CurrentUser(c *gin.Context) *database.User {
	u, _ := c.Get(userContextKey)
	user, _ := u.(*database.User)
	return user
}
