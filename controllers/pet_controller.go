package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/spiritcity/spirit-api/models"
)

// PetController reads and renames the caller's pet.
type PetController struct {
	db *gorm.DB
}

// NewPetController creates a new controller instance.
func NewPetController(db *gorm.DB) *PetController {
	return &PetController{db: db}
}

// GetPet returns the caller's pet with its mood recomputed.
func (p *PetController) GetPet(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		writeDetail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var pet models.Pet
	if err := p.db.Where("user_id = ?", userID).First(&pet).Error; err != nil {
		writeDetail(ctx, http.StatusNotFound, "Pet not found")
		return
	}
	refreshMood(p.db, &pet)

	ctx.JSON(http.StatusOK, gin.H{"pet": petPayload(&pet)})
}

// UpdatePet renames the caller's pet.
func (p *PetController) UpdatePet(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		writeDetail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	type request struct {
		Name string `json:"name" binding:"required,max=64"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeDetail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeDetail(ctx, http.StatusBadRequest, "name must not be empty")
		return
	}

	var pet models.Pet
	if err := p.db.Where("user_id = ?", userID).First(&pet).Error; err != nil {
		writeDetail(ctx, http.StatusNotFound, "Pet not found")
		return
	}

	pet.Name = name
	if err := p.db.Model(&pet).Update("name", name).Error; err != nil {
		writeDetail(ctx, http.StatusInternalServerError, "failed to update pet")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"pet": petPayload(&pet)})
}
