package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/spiritcity/spirit-api/config"
	"github.com/spiritcity/spirit-api/models"
	"github.com/spiritcity/spirit-api/utils"
)

// AuthController handles registration, login and session restore.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

func tokenTTL() time.Duration {
	return time.Duration(config.Get().TokenTTLHours) * time.Hour
}

// Register creates the account together with its pet in one transaction and
// issues an access token.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6,max=72"`
		Username string `json:"username" binding:"required,min=2,max=32"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeDetail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	var existing models.User
	err := a.db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error
	if err == nil {
		writeDetail(ctx, http.StatusBadRequest, "Email or username already taken")
		return
	}
	if err != gorm.ErrRecordNotFound {
		writeDetail(ctx, http.StatusInternalServerError, "failed to check existing users")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		writeDetail(ctx, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
	}
	var pet models.Pet

	err = a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		pet = models.Pet{UserID: user.ID, Name: "Buddy", Mood: models.MoodNeutral, Level: 1, XPToNextLevel: 100, EvolutionStage: 1}
		return tx.Create(&pet).Error
	})
	if err != nil {
		writeDetail(ctx, http.StatusInternalServerError, "failed to create account")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenTTL())
	if err != nil {
		writeDetail(ctx, http.StatusInternalServerError, "failed to generate token")
		return
	}

	utils.Sugar.Infow("user registered", "user_id", user.ID, "username", user.Username)

	ctx.JSON(http.StatusOK, gin.H{
		"user":         userPayload(&user),
		"pet":          petPayload(&pet),
		"access_token": token,
	})
}

// Login authenticates by email and password.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeDetail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		writeDetail(ctx, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		writeDetail(ctx, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	var pet models.Pet
	if err := a.db.Where("user_id = ?", user.ID).First(&pet).Error; err != nil {
		writeDetail(ctx, http.StatusInternalServerError, "failed to load pet")
		return
	}
	refreshMood(a.db, &pet)

	token, err := utils.GenerateToken(user.ID, user.Username, tokenTTL())
	if err != nil {
		writeDetail(ctx, http.StatusInternalServerError, "failed to generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":         userPayload(&user),
		"pet":          petPayload(&pet),
		"access_token": token,
	})
}

// Me restores a session from a valid token.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		writeDetail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, "id = ?", userID).Error; err != nil {
		writeDetail(ctx, http.StatusUnauthorized, "user not found")
		return
	}

	var pet models.Pet
	petRef := &pet
	if err := a.db.Where("user_id = ?", userID).First(&pet).Error; err != nil {
		petRef = nil
	} else {
		refreshMood(a.db, petRef)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": userPayload(&user),
		"pet":  petPayload(petRef),
	})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		writeDetail(ctx, http.StatusUnauthorized, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		writeDetail(ctx, http.StatusUnauthorized, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenTTL())
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	ctx.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
