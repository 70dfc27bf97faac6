package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"openhms/api/internal/model"
)

// Context keys set by the auth middleware
const (
	CtxUserID   = "userID"
	CtxUserRole = "userRole"
	CtxUser     = "user"
)

// Claims is the JWT payload
type Claims struct {
	UserID uint           `json:"user_id"`
	Role   model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs a bearer token for the given account
func GenerateToken(user *model.User, secret string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.Email,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// AuthMiddleware verifies the bearer token and loads the account into
// the request context.
func AuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		var user model.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account is inactive"})
			c.Abort()
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxUserRole, user.Role)
		c.Set(CtxUser, &user)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. PMC accounts must
// additionally have passed officer verification before any PMC action
// is authorized.
func RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		allowed := false
		for _, r := range roles {
			if user.Role == r {
				allowed = true
				break
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			c.Abort()
			return
		}

		if user.Role == model.RolePMC && user.VerificationStatus != model.VerificationApproved {
			c.JSON(http.StatusForbidden, gin.H{"error": "officer account pending verification"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated account, or nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// CurrentUserID returns the authenticated account's primary key, or 0
func CurrentUserID(c *gin.Context) uint {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}
