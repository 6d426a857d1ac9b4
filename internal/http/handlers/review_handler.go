package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/dto"
	"github.com/superfix/superfix-backend/internal/http/handlers/common"
	"github.com/superfix/superfix-backend/internal/interface/http/response"
	"github.com/superfix/superfix-backend/internal/service"
)

type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReview POST /reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	heroID, err := uuid.Parse(req.HeroID)
	if err != nil {
		response.BadRequest(c, "неверный heroId")
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), service.ReviewInput{
		HeroID:     heroID,
		ClientName: req.ClientName,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, review)
}

// ListHeroReviews GET /heroes/:id/reviews
func (h *ReviewHandler) ListHeroReviews(c *gin.Context) {
	heroID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	reviews, err := h.reviews.ListHeroReviews(c.Request.Context(), heroID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, reviews)
}
